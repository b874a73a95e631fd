package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_RejectsInvalidFormat(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"demo", "--format", "xml"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestRootCommand_ListsSubcommands(t *testing.T) {
	cmd := NewRootCommand()

	names := make(map[string]bool)
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = true
	}
	assert.True(t, names["serve"])
	assert.True(t, names["replay"])
	assert.True(t, names["demo"])
}

func TestDemoCommand_TextOutput(t *testing.T) {
	var out bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"demo"})

	require.NoError(t, cmd.Execute())

	text := out.String()
	assert.Contains(t, text, "Board: sprint")
	assert.Contains(t, text, "[doing]")
	assert.Contains(t, text, "wire the demo")
	assert.Contains(t, text, "rolled back")
	assert.NotContains(t, text, "doomed", "rolled-back card must not survive")
}

func TestDemoCommand_JSONOutput(t *testing.T) {
	var out bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"demo", "--format", "json"})

	require.NoError(t, cmd.Execute())

	var env Envelope
	require.NoError(t, json.Unmarshal(out.Bytes(), &env))
	assert.Equal(t, "ok", env.Status)

	data, err := json.Marshal(env.Data)
	require.NoError(t, err)
	var result DemoResult
	require.NoError(t, json.Unmarshal(data, &result))
	require.NotNil(t, result.Tree)
	assert.Equal(t, "sprint", result.Tree.Name)
	assert.Len(t, result.Tree.Columns, 3)
	require.Len(t, result.Notifications, 1)
	assert.Contains(t, result.Notifications[0], "network down")
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitCommandError, GetExitCode(NewExitError(ExitCommandError, "boom")))
	assert.Equal(t, ExitFailure, GetExitCode(assert.AnError))
}
