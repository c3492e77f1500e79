package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relbench/relbench/internal/models"
	"github.com/relbench/relbench/internal/reporting"
)

func runResults(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newResultsCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestResultsCommand_TextReport(t *testing.T) {
	dir := newProject(t, map[string]string{"w_relevance_seed1.csv": wordSeed1})

	stdout, stderr, err := runResults(t, "--project-path", dir)
	require.NoError(t, err)

	assert.Contains(t, stdout, "Results for word relevance")
	assert.Contains(t, stdout, "Model: svm, Strategy: user-split\nauc: 0.75 +- nan\nprecision: 0.50 +- nan\nrecall: 0.50 +- nan\n")
	assert.Contains(t, stdout, "Model: svm, Strategy: random\nauc: 1.00 +- nan\n")
	assert.Less(t, strings.Index(stdout, "Model: lstm"), strings.Index(stdout, "Model: svm"))
	assert.Contains(t, stdout, "LaTeX (svm): & 0.75 (nan) & 0.50 (nan) & 0.50 (nan) & 1.00 (nan)")

	// Logs go to stderr and to the project's log file.
	assert.Contains(t, stderr, "Generating results for word relevance...")
	assert.Contains(t, stderr, "Generating results for sentence relevance...")
	assert.Contains(t, stderr, "No files found. Quitting...")

	logData, err := os.ReadFile(filepath.Join(dir, "logs_results.log"))
	require.NoError(t, err)
	assert.Contains(t, string(logData), "Reading "+filepath.Join(dir, "w_relevance_seed1.csv"))
	assert.Contains(t, string(logData), "Model: svm, Strategy: random")
}

func TestResultsCommand_JSONAndStrategyFlag(t *testing.T) {
	dir := newProject(t, map[string]string{"w_relevance_seed1.csv": wordSeed1})

	stdout, _, err := runResults(t, "--project-path", dir, "--format", "json", "--strategy", "random", "--model", "svm")
	require.NoError(t, err)

	var reports []map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &reports))
	require.Len(t, reports, 1)
	assert.Equal(t, "word relevance", reports[0]["task"])

	modelsOut := reports[0]["models"].([]any)
	require.Len(t, modelsOut, 1)
	svm := modelsOut[0].(map[string]any)
	assert.Equal(t, "svm", svm["model"])
	strategies := svm["strategies"].([]any)
	require.Len(t, strategies, 1)
	assert.Equal(t, "random", strategies[0].(map[string]any)["strategy"])
}

func TestResultsCommand_OutputFile(t *testing.T) {
	dir := newProject(t, map[string]string{"w_relevance_seed1.csv": wordSeed1})
	outPath := filepath.Join(t.TempDir(), "report.md")

	stdout, _, err := runResults(t, "--project-path", dir, "--format", "markdown", "-o", outPath)
	require.NoError(t, err)
	assert.Empty(t, stdout)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# Results: word relevance")
	assert.Contains(t, string(data), "## svm")
}

type failingCloser struct {
	bytes.Buffer
	closed bool
}

func (f *failingCloser) Close() error {
	f.closed = true
	return errors.New("disk full")
}

func TestWriteAndClose_ReturnsCloseError(t *testing.T) {
	var wc failingCloser
	rep := &reporting.Report{Task: "word relevance"}

	err := writeAndClose(&wc, []*reporting.Report{rep}, reporting.FormatText)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "closing output file: disk full")
	assert.True(t, wc.closed)
	assert.Contains(t, wc.String(), "Results for word relevance")
}

func TestResultsCommand_NoFiles(t *testing.T) {
	dir := newProject(t, nil)

	stdout, stderr, err := runResults(t, "--project-path", dir)
	require.NoError(t, err)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "No files found. Quitting...")
}

func TestResultsCommand_SchemaError(t *testing.T) {
	dir := newProject(t, map[string]string{
		"w_relevance_seed1.csv": csvHeader + "svm,1,u1,random,TSR,0.9,3\n",
	})

	_, _, err := runResults(t, "--project-path", dir)
	require.Error(t, err)
	assert.Equal(t, ExitError, exitCode(err))

	var schemaErr *models.SchemaError
	assert.True(t, errors.As(err, &schemaErr), "want SchemaError, got %v", err)
}

func TestResultsCommand_InvalidFlags(t *testing.T) {
	dir := newProject(t, nil)

	_, _, err := runResults(t, "--project-path", dir, "--nan-policy", "ignore")
	assert.ErrorContains(t, err, "unknown NaN policy")

	_, _, err = runResults(t, "--project-path", dir, "--format", "pdf")
	assert.ErrorContains(t, err, "unknown format")

	_, _, err = runResults(t, "--project-path", dir, "--task", "paragraph")
	assert.ErrorContains(t, err, "no task matches paragraph")

	_, _, err = runResults(t, "--project-path", filepath.Join(dir, "missing"))
	assert.ErrorContains(t, err, "project path")
}

func TestResultsCommand_TaskFilter(t *testing.T) {
	dir := newProject(t, map[string]string{"w_relevance_seed1.csv": wordSeed1})

	_, stderr, err := runResults(t, "--project-path", dir, "--task", "word")
	require.NoError(t, err)
	assert.NotContains(t, stderr, "sentence relevance")
}
