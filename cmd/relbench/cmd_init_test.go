package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relbench/relbench/internal/projectconfig"
)

func TestInitCommand_WritesDefaults(t *testing.T) {
	target := filepath.Join(t.TempDir(), "results")

	var buf bytes.Buffer
	cmd := newInitCommand()
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{target})
	require.NoError(t, cmd.Execute())

	assert.FileExists(t, filepath.Join(target, ".relbench.yaml"))
	assert.Contains(t, buf.String(), "Wrote "+filepath.Join(target, ".relbench.yaml"))

	cfg, err := projectconfig.Load(target)
	require.NoError(t, err)
	assert.Equal(t, projectconfig.DefaultWordPattern, cfg.Tasks[0].Pattern)
	assert.Equal(t, []string{"eegnet", "lstm", "uercm"}, cfg.Normalize.LogitModels)
}

func TestInitCommand_RefusesOverwrite(t *testing.T) {
	target := t.TempDir()

	first := newInitCommand()
	first.SetOut(&bytes.Buffer{})
	first.SetArgs([]string{target})
	require.NoError(t, first.Execute())

	second := newInitCommand()
	second.SetOut(&bytes.Buffer{})
	second.SetErr(&bytes.Buffer{})
	second.SetArgs([]string{target})
	assert.ErrorContains(t, second.Execute(), "already exists")

	forced := newInitCommand()
	forced.SetOut(&bytes.Buffer{})
	forced.SetArgs([]string{target, "--force"})
	assert.NoError(t, forced.Execute())
}
