package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type compileResponse struct {
	Status string            `json:"status"`
	Data   CompilationResult `json:"data"`
	Error  *CLIError         `json:"error"`
}

func TestCompile_JSON(t *testing.T) {
	stdout, _, err := executeCommand(t, "--format", "json", "compile", timetablingFile)
	require.NoError(t, err)

	var resp compileResponse
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "ok", resp.Status)

	id, err := uuid.Parse(resp.Data.CompilationID)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), id.Version())

	require.Len(t, resp.Data.Rules, 2)

	room := resp.Data.Rules[0]
	assert.Equal(t, "roomConflict", room.Name)
	assert.Equal(t, "timetabling", room.Package)
	assert.Equal(t, 3, room.Arity)
	assert.Equal(t, int64(1), room.Seq)
	assert.Len(t, room.ID, 64)
	assert.Equal(t, resp.Data.CompilationID, room.CompilationID)
	assert.Contains(t, room.Rendered, "groupBy(room, timeslot) collect(count())")

	stability := resp.Data.Rules[1]
	assert.Equal(t, "teacherRoomStability", stability.Name)
	assert.Equal(t, 2, stability.Arity)
	assert.Equal(t, int64(2), stability.Seq)
}

func TestCompile_RuleIDsAreStable(t *testing.T) {
	ids := func() []string {
		stdout, _, err := executeCommand(t, "--format", "json", "compile", timetablingFile)
		require.NoError(t, err)

		var resp compileResponse
		require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
		out := make([]string, len(resp.Data.Rules))
		for i, rec := range resp.Data.Rules {
			out[i] = rec.ID
		}
		return out
	}

	assert.Equal(t, ids(), ids())
}

func TestCompile_Text(t *testing.T) {
	stdout, _, err := executeCommand(t, "compile", timetablingFile)
	require.NoError(t, err)

	assert.Contains(t, stdout, "Compiled 2 rule(s)")
	assert.Contains(t, stdout, "timetabling/roomConflict: arity 3, id ")
	assert.Contains(t, stdout, "timetabling/teacherRoomStability: arity 2, id ")
	assert.NotContains(t, stdout, "pattern(")
}

func TestCompile_VerboseRendersRules(t *testing.T) {
	stdout, stderr, err := executeCommand(t, "-v", "compile", timetablingFile)
	require.NoError(t, err)

	assert.Contains(t, stdout, "    when\n")
	assert.Contains(t, stdout, "accumulate(pattern($var1_lesson: Lesson; filter hasRoom($var1_lesson)))")
	assert.Contains(t, stderr, "Found 1 CUE file(s)")
}

func TestCompile_Directory(t *testing.T) {
	stdout, _, err := executeCommand(t, "--format", "json", "compile", "testdata/constraints")
	require.NoError(t, err)

	var resp compileResponse
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))

	names := make([]string, 0, len(resp.Data.Rules))
	for _, rec := range resp.Data.Rules {
		names = append(names, rec.Name)
	}
	assert.ElementsMatch(t, []string{"roomConflict", "teacherRoomStability", "totalTeachingTime"}, names)
}

func TestCompile_OutputFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "rules.json")

	stdout, _, err := executeCommand(t, "compile", timetablingFile, "-o", out)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Wrote compiled rules to "+out)

	data, err := os.ReadFile(out)
	require.NoError(t, err)

	var result CompilationResult
	require.NoError(t, json.Unmarshal(data, &result))
	assert.Len(t, result.Rules, 2)
	assert.NotEmpty(t, result.Rules[0].Items)
}

func TestCompile_RecordsInCatalog(t *testing.T) {
	db := filepath.Join(t.TempDir(), "catalog.db")

	stdout, _, err := executeCommand(t, "compile", timetablingFile, "--db", db)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Recorded 2 new rule(s)")

	// Identical rules are not recorded twice.
	stdout, _, err = executeCommand(t, "compile", timetablingFile, "--db", db)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Recorded 0 new rule(s)")
}

func TestCompile_ValidationFailure(t *testing.T) {
	path := writeCUE(t, "wide.cue", invalidArity)

	stdout, _, err := executeCommand(t, "--format", "json", "compile", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "E204", resp.Error.Code)
}

func TestCompile_MissingPath(t *testing.T) {
	stdout, _, err := executeCommand(t, "compile", "testdata/does-not-exist")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, stdout, "Error [E005]")
}

func TestCompile_NotACUEFile(t *testing.T) {
	path := writeCUE(t, "rules.txt", "constraint: {}")

	_, _, err := executeCommand(t, "compile", path)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), ErrCodeNoFiles)
}

func TestCompile_CompileErrorIsCommandError(t *testing.T) {
	path := writeCUE(t, "nofrom.cue", `package timetabling

constraint: missingFrom: {
	impact: {kind: "penalize", level: "hard"}
}
`)

	stdout, _, err := executeCommand(t, "compile", path)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, stdout, "Compilation failed")
	assert.Contains(t, stdout, "E202")
}

func TestCompile_RequiresPath(t *testing.T) {
	_, _, err := executeCommand(t, "compile")
	require.Error(t, err)
}
