package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path"
	"slices"
	"strings"
	"syscall"
	"time"

	"github.com/Ritapaz/projeto/internal/config"
	"github.com/Ritapaz/projeto/pkg/model"
	"github.com/Ritapaz/projeto/pkg/report"
	"github.com/Ritapaz/projeto/pkg/solver"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

const (
	exitSolved       = 10
	exitInfeasible   = 20
	exitInconsistent = 15
	exitTimedOut     = 30
	exitFailure      = 1
)

var validFormats = []string{"json", "csv"}

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot load configuration: %v\n", err)
		os.Exit(exitFailure)
	}

	zerolog.SetGlobalLevel(cfg.Level())
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, NoColor: true}).With().Timestamp().Logger()

	setConfigPath(cfg.SolverConfigPath)

	// Define arguments
	filePathPtr := flag.String("file", "", "Path to the input file")
	solverPtr := flag.String("solver", cfg.Solver, fmt.Sprintf("Solver to use. Allowed values are: %v", solver.Names()))
	budgetPtr := flag.Duration("budget", cfg.TimeBudget, "Time budget of the solver (e.g. 90s); 0 means no budget")
	maxDaysPtr := flag.Int("max-days", cfg.MaxDaysPerProfessor, "Maximum number of days a professor may teach in a week")
	prerequisiteWeightPtr := flag.Int("prereq-weight", cfg.PrerequisiteWeight, "Objective cost of each day a prerequisite is not aligned with its dependent")
	preferenceWeightPtr := flag.Int("pref-weight", cfg.PreferenceWeight, "Objective cost of each slot on a professor's unavailable day or period; 0 only reports them")
	formatPtr := flag.String("format", "json", fmt.Sprintf("Output format. Allowed values are: %v", validFormats))
	outFilePathPtr := flag.String("out", "", "Path to the file where the output will be written; if empty, it'll be written into the Standard Output")
	analyzePtr := flag.Bool("analyze", false, "Only run the feasibility analysis and write its report")
	flag.Parse()
	filePath := *filePathPtr
	format := strings.ToLower(*formatPtr)

	// Validate arguments
	optimizer, err := solver.ByName(*solverPtr)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid solver")
	} else if !slices.Contains(validFormats, format) {
		log.Fatal().Str("format", format).Msg("invalid output format")
	} else if filePath == "" {
		log.Fatal().Msg("an input file must be specified")
	} else if *maxDaysPtr < 1 {
		log.Fatal().Int("max-days", *maxDaysPtr).Msg("max-days must be positive")
	}

	// Extract input
	rawInput, err := model.RawInputFromJson(filePath)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot parse input file")
	}

	// Advisory feasibility analysis
	feasibility, err := model.AnalyzeFeasibility(rawInput.Courses)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot analyze feasibility")
	}
	for _, period := range feasibility.Bottlenecks() {
		log.Warn().
			Int("period", period.Period).
			Int("required", period.RequiredSlots).
			Int("available", period.AvailableSlots).
			Int("matchable", period.MatchableSlots).
			Strs("emptyAvailability", period.EmptyAvailability).
			Msg("academic period cannot fit its courses")
	}
	if *analyzePtr {
		writeOutput(*outFilePathPtr, func(out io.Writer) error {
			if format == "csv" {
				return report.WriteFeasibilityCSV(out, feasibility)
			}
			return report.WriteJSON(out, feasibility)
		})
		os.Exit(0)
	}

	input, err := model.ProcessRawInput(rawInput)
	if err != nil {
		for _, problem := range unjoin(err) {
			log.Error().Msg(problem.Error())
		}
		log.Fatal().Msg("invalid input")
	}

	// Initialize engines
	options := model.Options{
		MaxDaysPerProfessor: *maxDaysPtr,
		PrerequisiteWeight:  *prerequisiteWeightPtr,
		PreferenceWeight:    *preferenceWeightPtr,
		TimeBudget:          *budgetPtr,
		Logger:              &log.Logger,
	}
	scheduler := model.NewScheduler(optimizer, options)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Build schedule
	result, err := scheduler.Build(ctx, input)
	var inconsistency model.InternalConsistencyError
	if errors.As(err, &inconsistency) {
		log.Error().Err(err).Msg("schedule breaks the model")
		os.Exit(exitInconsistent)
	} else if err != nil {
		log.Fatal().Err(err).Msg("an error occurred during schedule construction")
	}
	printStats(result)

	switch err := result.Err(); {
	case errors.As(err, new(model.InfeasibleError)):
		log.Warn().Err(err).Msg("infeasible")
		os.Exit(exitInfeasible)
	case errors.As(err, new(model.TimedOutError)):
		log.Warn().Err(err).Msg("timed out")
		os.Exit(exitTimedOut)
	case err != nil:
		log.Error().Err(err).Msg("unexpected solver status")
		os.Exit(exitInconsistent)
	}

	// Verify schedule correctness
	if err := scheduler.Verify(result.Schedule, input); err != nil {
		log.Error().Err(err).Msg("verification failed")
		os.Exit(exitInconsistent)
	}

	for _, violation := range result.Violations {
		log.Warn().
			Str("dependent", violation.Dependent).
			Str("prerequisite", violation.Prerequisite).
			Str("day", violation.Day).
			Msg("prerequisite not aligned")
	}

	writeOutput(*outFilePathPtr, func(out io.Writer) error {
		if format == "csv" {
			return report.WriteResultCSV(out, result, input)
		}
		return report.WriteJSON(out, result)
	})
	os.Exit(exitSolved)
}

// printStats writes the figures the benchmark reads, one per line
func printStats(result model.Result) {
	fmt.Fprintf(os.Stderr, "Status: %v\n", result.Status)
	fmt.Fprintf(os.Stderr, "Variables: %v\n", result.Stats.Variables)
	fmt.Fprintf(os.Stderr, "Constraints: %v\n", result.Stats.Constraints)
	fmt.Fprintf(os.Stderr, "Objective: %v\n", result.Objective)
	fmt.Fprintf(os.Stderr, "Solve: %v\n", result.Stats.SolveDuration.Round(time.Millisecond))
}

// writeOutput writes into the file, or into the Standard Output when no file is given
func writeOutput(outFile string, write func(out io.Writer) error) {
	if outFile == "" {
		if err := write(os.Stdout); err != nil {
			log.Fatal().Err(err).Msg("an error occurred while writing the output")
		}
		return
	}

	file, err := os.Create(outFile)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot create output file")
	}
	defer file.Close()

	if err := write(file); err != nil {
		log.Fatal().Err(err).Msg("an error occurred while writing to the output file")
	}
}

func unjoin(err error) []error {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		return joined.Unwrap()
	}
	return []error{err}
}

// setConfigPath points the external solvers at config.json: the configured path first, then the one
// next to the executable. Without either, solvers are looked up on PATH.
func setConfigPath(configured string) {
	if configured != "" {
		solver.ConfigPath = configured
		return
	}

	execPath, err := os.Executable()
	if err != nil {
		log.Fatal().Err(err).Msg("cannot determine executable path")
	}
	execPath = path.Dir(execPath)

	files, err := os.ReadDir(execPath)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot read executable's directory")
	}
	fileNames := lo.Map(files, func(file os.DirEntry, _ int) string { return file.Name() })

	if slices.Contains(fileNames, "config.json") {
		solver.ConfigPath = execPath + "/config.json"
	}
}
