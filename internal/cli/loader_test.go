package cli

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const singleConstraint = `package timetabling

constraint: lone: {
	from: "Lesson"
	impact: {kind: "penalize", level: "hard"}
}
`

func TestFindCUEFiles_SkipsSubdirectories(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "top.cue"), []byte(singleConstraint), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "nested", "a.cue"), []byte(singleConstraint), 0644))

	files, err := FindCUEFiles(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "top.cue")}, files)
}

func TestLoadConstraints_NestedOnlyHasNoFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "nested", "a.cue"), []byte(singleConstraint), 0644))

	result, errs := LoadConstraints(dir, LoadModeCollectAll)
	assert.Nil(t, result)
	require.Len(t, errs, 1)

	var loadErr *LoadError
	require.True(t, errors.As(errs[0], &loadErr))
	assert.Equal(t, ErrCodeNoFiles, loadErr.Code)
}

func TestLoadConstraints_Modes(t *testing.T) {
	path := writeCUE(t, "unweighted.cue", `package timetabling

constraint: first: {
	from: "Lesson"
}

constraint: second: {
	from: "Room"
}
`)

	tests := []struct {
		name string
		mode LoadMode
		want int
	}{
		{"collect all", LoadModeCollectAll, 2},
		{"fail fast", LoadModeFailFast, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, errs := LoadConstraints(path, tt.mode)
			require.NotNil(t, result)
			assert.Len(t, errs, tt.want)
			assert.Empty(t, result.Constraints)
			assert.Equal(t, 1, result.FileCount)
		})
	}
}
