package solver

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

type cbcSolver struct{}

// NewCbcSolver drives the COIN-OR CBC executable. Its path is read from the "cbcPath" key of
// the config file, falling back to "cbc" in PATH.
func NewCbcSolver() Solver {
	return &cbcSolver{}
}

func (solver *cbcSolver) Solve(ctx context.Context, model *Model) (Solution, error) {
	if err := ctx.Err(); err != nil {
		return Solution{Status: NotSolved}, nil
	}
	if _, ok := model.trivialInfeasibility(); ok {
		return Solution{Status: Infeasible}, nil
	}

	cbcPath, err := getExecutablePath("cbcPath", "cbc")
	if err != nil {
		return Solution{}, err
	}
	lp := model.ToLP() // Transform model into LP format

	// Create a temporary file to hold the LP content
	inputTempFile, err := os.CreateTemp("", "model-*.lp")
	if err != nil {
		return Solution{}, fmt.Errorf("failed to create temporary file: %v", err)
	}
	defer os.Remove(inputTempFile.Name()) // Ensure the file is removed after execution

	outputTempFile, err := os.CreateTemp("", "cbc_output-*.txt")
	if err != nil {
		return Solution{}, fmt.Errorf("failed to create temporary file: %v", err)
	}
	defer os.Remove(outputTempFile.Name())

	// Write the LP content to the temporary file
	if _, err := inputTempFile.WriteString(lp); err != nil {
		return Solution{}, fmt.Errorf("failed to write LP to temporary file: %v", err)
	}
	if err := inputTempFile.Close(); err != nil {
		return Solution{}, fmt.Errorf("failed to close temporary file: %v", err)
	}

	cmd := exec.CommandContext(ctx, cbcPath, inputTempFile.Name())
	// CBC stops by itself a little before the context kills it, so a timed out run still reports its status
	if deadline, ok := ctx.Deadline(); ok {
		seconds := math.Max(1, math.Floor(time.Until(deadline).Seconds()))
		cmd.Args = append(cmd.Args, "sec", strconv.FormatFloat(seconds, 'f', 0, 64))
	}
	cmd.Args = append(cmd.Args, "solve", "solu", outputTempFile.Name())

	var stdOut bytes.Buffer
	cmd.Stdout = &stdOut
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err = cmd.Run()
	if ctx.Err() != nil {
		return Solution{Status: NotSolved}, nil
	} else if err != nil {
		return Solution{}, fmt.Errorf("an error occurred during cbc execution: %v : %v", err.Error(), stderr.String())
	}

	output, err := io.ReadAll(outputTempFile) // Read the solution file
	if err != nil {
		return Solution{}, fmt.Errorf("failed to read output file: %v", err)
	}
	return solver.parseSolution(string(output), model)
}

func (solver *cbcSolver) parseSolution(solverOutput string, model *Model) (Solution, error) {
	lines := strings.Split(strings.TrimSpace(solverOutput), "\n")
	if len(lines) == 0 || lines[0] == "" {
		return Solution{}, fmt.Errorf("empty cbc solution file")
	}

	header := strings.ToLower(strings.TrimSpace(lines[0]))
	switch {
	case strings.HasPrefix(header, "optimal"):
	case strings.Contains(header, "infeasible"):
		return Solution{Status: Infeasible}, nil
	case strings.Contains(header, "unbounded"):
		return Solution{Status: Unbounded}, nil
	case strings.HasPrefix(header, "stopped"):
		return Solution{Status: NotSolved}, nil
	default:
		return Solution{}, fmt.Errorf("unexpected cbc status line: %q", lines[0])
	}

	// Only non-zero columns are listed: "<index> v<id> <value> <reduced cost>", optionally prefixed by "**"
	values := make([]bool, model.Variables())
	for _, line := range lines[1:] {
		fields := strings.Fields(line)
		for i := 0; i+1 < len(fields); i++ {
			name := fields[i]
			if len(name) < 2 || name[0] != 'v' {
				continue
			}
			id, err := strconv.Atoi(name[1:])
			if err != nil {
				continue
			}
			value, err := strconv.ParseFloat(fields[i+1], 64)
			if err != nil {
				return Solution{}, fmt.Errorf("invalid value in cbc output %q: %v", line, err)
			}
			if id < 0 || id >= len(values) {
				return Solution{}, fmt.Errorf("unknown column %v in cbc output", name)
			}
			values[id] = value > 0.5
			break
		}
	}

	if err := model.Check(values); err != nil {
		return Solution{}, fmt.Errorf("cbc returned an invalid assignment: %w", err)
	}
	return Solution{Status: Optimal, Values: values, Objective: model.Evaluate(values)}, nil
}
