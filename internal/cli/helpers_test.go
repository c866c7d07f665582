package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const timetablingFile = "testdata/constraints/timetabling.cue"

// executeCommand runs the root command with args and returns what it wrote
// to stdout and stderr.
func executeCommand(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	var out, errOut bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)

	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

// writeCUE writes src to name inside a fresh temp directory and returns the
// file path.
func writeCUE(t *testing.T, name, src string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(src), 0644))
	return path
}

// invalidArity has a grouping with five outputs.
const invalidArity = `package timetabling

constraint: tooWide: {
	from: "Lesson"
	stages: [
		{kind: "groupBy", keys: ["a", "b", "c", "d"], collectors: [{function: "count"}]},
	]
	impact: {kind: "penalize", level: "hard"}
}
`
