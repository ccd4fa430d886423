package solver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"

	"github.com/mitchellh/mapstructure"
)

var ConfigPath = "config.json"

// getExecutablePath looks the solver up in the config file and falls back to the PATH
// when the file does not exist or does not mention it
func getExecutablePath(key, fallback string) (string, error) {
	bytes, err := os.ReadFile(ConfigPath)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("cannot read %v: %w", ConfigPath, err)
	}

	if err == nil {
		var configJson map[string]any
		if err := json.Unmarshal(bytes, &configJson); err != nil {
			return "", fmt.Errorf("cannot parse %v: %w", ConfigPath, err)
		}

		var config map[string]string
		if err := mapstructure.Decode(configJson, &config); err != nil {
			return "", fmt.Errorf("invalid solver config %v: %w", ConfigPath, err)
		}
		if path, ok := config[key]; ok && path != "" {
			return path, nil
		}
	}

	path, err := exec.LookPath(fallback)
	if err != nil {
		return "", fmt.Errorf("solver \"%v\" is not present in config and %v is not in PATH: %w", key, fallback, err)
	}
	return path, nil
}
