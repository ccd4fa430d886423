package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// Config holds the process-wide defaults. Command-line flags override them.
type Config struct {
	Solver              string        `env:"PROJETO_SOLVER" envDefault:"gophersat"`
	TimeBudget          time.Duration `env:"PROJETO_TIME_BUDGET" envDefault:"0s"`
	MaxDaysPerProfessor int           `env:"PROJETO_MAX_DAYS" envDefault:"3"`
	PrerequisiteWeight  int           `env:"PROJETO_PREREQUISITE_WEIGHT" envDefault:"100"`
	PreferenceWeight    int           `env:"PROJETO_PREFERENCE_WEIGHT" envDefault:"0"`
	SolverConfigPath    string        `env:"PROJETO_SOLVER_CONFIG"`
	LogLevel            string        `env:"PROJETO_LOG_LEVEL" envDefault:"info"`
	Address             string        `env:"PROJETO_ADDRESS" envDefault:":8080"`
}

// Load reads the given dotenv files, when they exist, and then the environment.
// Variables already present in the environment win over the dotenv files.
func Load(dotenvFiles ...string) (Config, error) {
	for _, file := range dotenvFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("cannot load %v: %w", file, err)
		}
	}

	var config Config
	if err := env.Parse(&config); err != nil {
		return Config{}, fmt.Errorf("cannot parse environment: %w", err)
	}
	if config.MaxDaysPerProfessor < 1 {
		return Config{}, fmt.Errorf("PROJETO_MAX_DAYS must be positive, got %v", config.MaxDaysPerProfessor)
	}
	if config.TimeBudget < 0 {
		return Config{}, fmt.Errorf("PROJETO_TIME_BUDGET must not be negative, got %v", config.TimeBudget)
	}
	return config, nil
}

func (config Config) Level() zerolog.Level {
	level, err := zerolog.ParseLevel(config.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}
