package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const csvHeader = "model,seed,user,strategy,reading_task,predictions,targets\n"

const wordSeed1 = csvHeader +
	"svm,1,u1,random,TSR,0.9,1\n" +
	"svm,1,u1,random,TSR,0.2,0\n" +
	"svm,1,u1,random,TSR,0.8,1\n" +
	"svm,1,u1,random,TSR,0.1,0\n" +
	"svm,1,u1,user-split,TSR,0.7,1\n" +
	"svm,1,u1,user-split,TSR,0.6,0\n" +
	"svm,1,u1,user-split,TSR,0.4,1\n" +
	"svm,1,u1,user-split,TSR,0.1,0\n" +
	"lstm,1,u1,random,TSR,2.0,1\n" +
	"lstm,1,u1,random,TSR,-2.0,0\n"

// csvProjectConfig points both tasks at CSV files so fixtures stay readable.
const csvProjectConfig = `tasks:
  - name: word relevance
    pattern: "w_relevance_seed*.csv"
  - name: sentence relevance
    pattern: "s_relevance_seed*.csv"
`

func newProject(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	writeTestFile(t, dir, ".relbench.yaml", csvProjectConfig)
	for name, content := range files {
		writeTestFile(t, dir, name, content)
	}
	return dir
}

func writeTestFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}
