package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relbench/relbench/internal/projectconfig"
	"github.com/relbench/relbench/internal/reporting"
)

func TestDefaultAnswers_FromNew(t *testing.T) {
	a := DefaultAnswers(projectconfig.New())

	assert.Equal(t, ".parquet", a.Extension)
	assert.Equal(t, []string{"eegnet", "lstm", "uercm"}, a.LogitModels)
	assert.Nil(t, a.Strategies)
	assert.Equal(t, reporting.FormatText, a.Format)
	assert.Equal(t, "exclude", a.NaNPolicy)
	assert.False(t, a.Bootstrap)
}

func TestApply_RewritesPatternsAndReport(t *testing.T) {
	base := projectconfig.New()
	a := Answers{
		Extension:   ".csv",
		LogitModels: []string{"lstm"},
		Strategies:  []string{"random", "user-split"},
		Format:      reporting.FormatMarkdown,
		NaNPolicy:   "propagate",
		Bootstrap:   true,
	}

	cfg := a.Apply(base)

	require.Len(t, cfg.Tasks, 2)
	assert.Equal(t, "w_relevance_seed*.csv", cfg.Tasks[0].Pattern)
	assert.Equal(t, "s_relevance_seed*.csv", cfg.Tasks[1].Pattern)
	assert.Equal(t, []string{"lstm"}, cfg.Normalize.LogitModels)
	assert.Equal(t, []string{"random", "user-split"}, cfg.Report.Strategies)
	assert.Equal(t, "markdown", cfg.Report.Format)
	assert.Equal(t, "propagate", cfg.Report.NaNPolicy)
	assert.True(t, cfg.BootstrapEnabled())
	require.NoError(t, cfg.Validate())

	// base is untouched
	assert.Equal(t, "w_relevance_seed*.parquet", base.Tasks[0].Pattern)
	assert.False(t, base.BootstrapEnabled())
}

func TestApply_NoLogitModels(t *testing.T) {
	cfg := Answers{}.Apply(projectconfig.New())

	assert.NotNil(t, cfg.Normalize.LogitModels)
	assert.Empty(t, cfg.Normalize.LogitModels)
	assert.Equal(t, "text", cfg.Report.Format)
	assert.Equal(t, "w_relevance_seed*.parquet", cfg.Tasks[0].Pattern)
}

func TestSplitAndTrim(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"lstm", []string{"lstm"}},
		{" eegnet , lstm,, uercm ", []string{"eegnet", "lstm", "uercm"}},
		{" , ", nil},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, splitAndTrim(tt.in), tt.in)
	}
}
