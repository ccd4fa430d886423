package main

import (
	"bytes"
	"flag"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/Ritapaz/projeto/pkg/model"
	"github.com/Ritapaz/projeto/pkg/solver"
	"github.com/gocarina/gocsv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

const KB = 1024

type ResultType int

const (
	solved ResultType = iota
	infeasible
	timeout
	failed
)

var resultTypes = map[ResultType]string{
	solved:     "solved",
	infeasible: "infeasible",
	timeout:    "timeout",
	failed:     "failed",
}

func (result ResultType) MarshalCSV() (string, error) {
	return resultTypes[result], nil
}

type TestMetadata struct {
	Name          string `csv:"dataset"`
	Courses       int    `csv:"courses"`
	Professors    int    `csv:"professors"`
	Periods       int    `csv:"academic_periods"`
	Prerequisites int    `csv:"prerequisites"`
	Bottlenecks   int    `csv:"bottlenecks"`
}

type BenchmarkResult struct {
	Solver string `csv:"solver"`
	TestMetadata
	Variables     int        `csv:"variables"`
	Constraints   int        `csv:"constraints"`
	Objective     int        `csv:"objective"`
	Duration      int64      `csv:"duration_ms"`
	Memory        float32    `csv:"memory_mb"`
	CpuPercentage int64      `csv:"cpu_percentage"`
	Result        ResultType `csv:"result"`
}

func main() {
	directoryPtr := flag.String("dir", "../../testdata/", "Directory holding the datasets")
	executablePtr := flag.String("bin", "../../bin/projeto", "Path to the projeto executable")
	budgetPtr := flag.Duration("budget", 5*time.Minute, "Time budget of every run")
	outFilePathPtr := flag.String("out", "benchmark_results.csv", "Path to the CSV file with the results")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, NoColor: true}).With().Timestamp().Logger()

	tests, err := getTests(*directoryPtr)
	if err != nil {
		log.Fatal().Err(err).Str("dir", *directoryPtr).Msg("cannot load datasets")
	}
	solvers := solver.Names()
	results := make([]*BenchmarkResult, 0, len(tests)*len(solvers))

	for _, test := range tests {
		for _, solverName := range solvers {
			logger := log.With().Str("dataset", test.Name).Str("solver", solverName).Logger()
			logger.Info().Msg("benchmarking")

			result, err := measure(*executablePtr, solverName, *budgetPtr, test.Name)
			if err != nil {
				logger.Error().Err(err).Msg("run failed")
				result = BenchmarkResult{Solver: solverName, Result: failed}
			}
			result.TestMetadata = test
			results = append(results, &result)
		}
	}

	if err := toCsv(*outFilePathPtr, results); err != nil {
		log.Fatal().Err(err).Str("out", *outFilePathPtr).Msg("cannot write results")
	}
}

func getTests(directory string) ([]TestMetadata, error) {
	testFiles, err := filepath.Glob(filepath.Join(directory, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("cannot read directory: %w", err)
	}

	tests := make([]TestMetadata, 0, len(testFiles))
	for _, filename := range testFiles {
		rawInput, err := model.RawInputFromJson(filename)
		if err != nil {
			return nil, fmt.Errorf("cannot parse input file %v: %w", filename, err)
		}
		input, err := model.ProcessRawInput(rawInput)
		if err != nil {
			return nil, fmt.Errorf("invalid input file %v: %w", filename, err)
		}
		report, err := model.AnalyzeFeasibility(input.Courses)
		if err != nil {
			return nil, fmt.Errorf("cannot analyze input file %v: %w", filename, err)
		}

		tests = append(tests, TestMetadata{
			Name:          filename,
			Courses:       len(input.Courses),
			Professors:    len(input.Professors),
			Periods:       len(input.Periods),
			Prerequisites: len(input.Prerequisites),
			Bottlenecks:   len(report.Bottlenecks()),
		})
	}

	return tests, nil
}

func measure(executable, solverName string, budget time.Duration, testFile string) (BenchmarkResult, error) {
	cmd := exec.Command("/usr/bin/time", "-v", executable, "-solver", solverName, "-budget", budget.String(), "-file", testFile, "-out", os.DevNull)

	var stdErr bytes.Buffer
	cmd.Stderr = &stdErr

	result := BenchmarkResult{Solver: solverName}
	if err := cmd.Run(); err != nil && cmd.ProcessState == nil {
		return result, fmt.Errorf("cannot start %v: %w", executable, err)
	}
	switch cmd.ProcessState.ExitCode() {
	case 10:
		result.Result = solved
	case 20:
		result.Result = infeasible
	case 30:
		result.Result = timeout
	default:
		return result, fmt.Errorf("exit code %v: %v", cmd.ProcessState.ExitCode(), strings.TrimSpace(stdErr.String()))
	}

	if err := parseStats(stdErr.String(), &result); err != nil {
		return result, err
	}
	return result, nil
}

// parseStats fills the result from the CLI's stats lines and /usr/bin/time's verbose report
func parseStats(stdErr string, result *BenchmarkResult) error {
	splits := strings.Split(stdErr, "\n")
	var errs []error
	getLine := func(substr string) string {
		line, ok := lo.Find(splits, func(line string) bool {
			return strings.Contains(strings.ToLower(line), substr)
		})
		if !ok {
			errs = append(errs, fmt.Errorf("substring \"%v\" could not be found", substr))
		}
		return line
	}
	collect := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}

	var err error
	result.Variables, err = parseCountLine(getLine("variables: "))
	collect(err)
	result.Constraints, err = parseCountLine(getLine("constraints: "))
	collect(err)
	result.Objective, err = parseCountLine(getLine("objective: "))
	collect(err)
	result.Duration, err = parseDurationLine(getLine("wall clock"))
	collect(err)
	result.Memory, err = parseMemoryLine(getLine("maximum resident set size"))
	collect(err)
	result.CpuPercentage, err = parseCpuPercentageLine(getLine("percent of cpu"))
	collect(err)

	return errors.Join(errs...)
}

func toCsv(path string, results []*BenchmarkResult) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot create CSV file: %w", err)
	}
	defer file.Close()

	if err := gocsv.MarshalFile(&results, file); err != nil {
		return fmt.Errorf("cannot write CSV records: %w", err)
	}
	return nil
}

// afterColon returns the trimmed text following the last colon of a line
func afterColon(line string) (string, error) {
	index := strings.LastIndex(line, ":")
	if index < 0 {
		return "", fmt.Errorf("malformed line %q", line)
	}
	return strings.TrimSpace(line[index+1:]), nil
}

func parseCountLine(line string) (int, error) {
	countStr, err := afterColon(line)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(countStr)
}

func parseDurationLine(line string) (int64, error) {
	_, durationStr, ok := strings.Cut(line, "(h:mm:ss or m:ss):")
	if !ok {
		return 0, fmt.Errorf("malformed duration line %q", line)
	}
	return parseDuration(strings.TrimSpace(durationStr))
}

// parseDuration converts h:mm:ss.cc or m:ss.cc into milliseconds
func parseDuration(durationStr string) (int64, error) {
	clock, hundredthsStr, ok := strings.Cut(durationStr, ".")
	if !ok {
		return 0, fmt.Errorf("unexpected duration format: %v", durationStr)
	}
	parts := strings.Split(clock, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("unexpected duration format: %v", durationStr)
	}

	var seconds int64
	for _, part := range parts {
		value, err := strconv.Atoi(part)
		if err != nil {
			return 0, fmt.Errorf("unexpected duration format: %v", durationStr)
		}
		seconds = seconds*60 + int64(value)
	}
	hundredths, err := strconv.Atoi(hundredthsStr)
	if err != nil {
		return 0, fmt.Errorf("unexpected duration format: %v", durationStr)
	}
	return seconds*1000 + int64(hundredths*10), nil
}

func parseMemoryLine(line string) (float32, error) {
	memoryStr, err := afterColon(line)
	if err != nil {
		return 0, err
	}
	kilobytes, err := strconv.ParseFloat(memoryStr, 32)
	if err != nil {
		return 0, err
	}
	return float32(kilobytes) / KB, nil
}

func parseCpuPercentageLine(line string) (int64, error) {
	percentageStr, err := afterColon(line)
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(strings.TrimSuffix(percentageStr, "%"), 10, 64)
}
