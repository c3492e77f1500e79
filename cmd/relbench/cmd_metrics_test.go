package main

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsCommand_CSV(t *testing.T) {
	dir := newProject(t, map[string]string{"w_relevance_seed1.csv": wordSeed1})

	var out bytes.Buffer
	cmd := newMetricsCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--project-path", dir, "--format", "csv"})
	require.NoError(t, cmd.Execute())

	records, err := csv.NewReader(&out).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, []string{"seed", "user", "model", "strategy", "reading_task", "n", "mcc", "precision", "kappa", "recall", "auc"}, records[0])
	assert.Equal(t, "lstm", records[1][2])
	assert.Equal(t, []string{"1", "u1", "svm", "user-split", "TSR", "4"}, records[3][:6])
	assert.Equal(t, "0.75", records[3][10])
}

func TestMetricsCommand_Table(t *testing.T) {
	dir := newProject(t, map[string]string{"w_relevance_seed1.csv": wordSeed1})

	var out bytes.Buffer
	cmd := newMetricsCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--project-path", dir})
	require.NoError(t, cmd.Execute())

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 5)
	assert.True(t, strings.HasPrefix(lines[0], "seed"))
}

func TestMetricsCommand_NoFiles(t *testing.T) {
	dir := newProject(t, nil)

	var out, errOut bytes.Buffer
	cmd := newMetricsCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs([]string{"--project-path", dir, "--task", "sentence"})
	require.NoError(t, cmd.Execute())
	assert.Empty(t, out.String())
	assert.Contains(t, errOut.String(), "No files found for sentence relevance")
}

func TestMetricsCommand_BadFormat(t *testing.T) {
	cmd := newMetricsCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--project-path", t.TempDir(), "--format", "xml"})
	assert.ErrorContains(t, cmd.Execute(), "unknown table format")
}
