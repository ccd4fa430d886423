package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDuration(t *testing.T) {
	durations := map[string]int64{
		"00:01:01.12": 60*1000 + 1000 + 120,
		"01:01:01.12": 60*60*1000 + 60*1000 + 1000 + 120,
		"1:01.12":     60*1000 + 1000 + 120,
		"0:00.12":     120,
		"00:00:00.12": 120,
	}
	for durationStr, expected := range durations {
		duration, err := parseDuration(durationStr)
		require.NoError(t, err, durationStr)
		assert.Equal(t, expected, duration, durationStr)
	}

	for _, malformed := range []string{"12", "1:02", "a:01.12", "1:2:3:4.00"} {
		_, err := parseDuration(malformed)
		assert.Error(t, err, malformed)
	}
}

func TestParseLines(t *testing.T) {
	count, err := parseCountLine("Variables: 1234")
	require.NoError(t, err)
	assert.Equal(t, 1234, count)

	duration, err := parseDurationLine("\tElapsed (wall clock) time (h:mm:ss or m:ss): 1:01.12")
	require.NoError(t, err)
	assert.Equal(t, int64(61120), duration)

	memory, err := parseMemoryLine("\tMaximum resident set size (kbytes): 2048")
	require.NoError(t, err)
	assert.Equal(t, float32(2), memory)

	percentage, err := parseCpuPercentageLine("\tPercent of CPU this job got: 99%")
	require.NoError(t, err)
	assert.Equal(t, int64(99), percentage)

	_, err = parseCountLine("Objective")
	assert.Error(t, err)
}

func TestParseStats(t *testing.T) {
	t.Run("Complete output", func(t *testing.T) {
		//** Arrange
		stdErr := strings.Join([]string{
			"Status: Optimal",
			"Variables: 110",
			"Constraints: 240",
			"Objective: 3",
			"Solve: 12ms",
			"\tCommand being timed: \"projeto -solver gophersat\"",
			"\tPercent of CPU this job got: 180%",
			"\tElapsed (wall clock) time (h:mm:ss or m:ss): 0:01.50",
			"\tMaximum resident set size (kbytes): 51200",
		}, "\n")
		var result BenchmarkResult

		//** Act
		err := parseStats(stdErr, &result)

		//** Assert
		require.NoError(t, err)
		assert.Equal(t, BenchmarkResult{Variables: 110, Constraints: 240, Objective: 3, Duration: 1500, Memory: 50, CpuPercentage: 180}, result)
	})

	t.Run("Missing lines", func(t *testing.T) {
		var result BenchmarkResult

		err := parseStats("Status: Optimal\nVariables: 110", &result)

		assert.ErrorContains(t, err, "constraints")
		assert.ErrorContains(t, err, "wall clock")
	})
}

func TestMeasure(t *testing.T) {
	//** Act
	result, err := measure(filepath.Join(t.TempDir(), "missing"), "cbc", time.Second, "../../testdata/economics.json")

	//** Assert
	assert.Error(t, err)
	assert.Equal(t, "cbc", result.Solver)
}

func TestToCsv(t *testing.T) {
	//** Arrange
	path := filepath.Join(t.TempDir(), "results.csv")
	results := []*BenchmarkResult{
		{
			Solver:       "gophersat",
			TestMetadata: TestMetadata{Name: "economics.json", Courses: 45},
			Variables:    10,
			Constraints:  20,
			Objective:    3,
			Duration:     1500,
			Result:       infeasible,
		},
		{
			Solver:       "cbc",
			TestMetadata: TestMetadata{Name: "economics.json", Courses: 45},
			Result:       failed,
		},
	}

	//** Act
	err := toCsv(path, results)

	//** Assert
	require.NoError(t, err)
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "solver,dataset,courses,professors,academic_periods,prerequisites,bottlenecks,variables,constraints,objective,duration_ms,memory_mb,cpu_percentage,result", lines[0])
	assert.Equal(t, "gophersat,economics.json,45,0,0,0,0,10,20,3,1500,0,0,infeasible", lines[1])
	assert.Equal(t, "cbc,economics.json,45,0,0,0,0,0,0,0,0,0,0,failed", lines[2])
}

func TestGetTests(t *testing.T) {
	tests, err := getTests("../../testdata/")

	require.NoError(t, err)
	require.NotEmpty(t, tests)
	assert.Equal(t, 45, tests[0].Courses)
}
