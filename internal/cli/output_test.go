package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteEnvelope_OK(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeEnvelope(&buf, okEnvelope(map[string]int{"calls": 3})))

	var env Envelope
	require.NoError(t, json.Unmarshal(buf.Bytes(), &env))
	assert.Equal(t, "ok", env.Status)
	assert.Nil(t, env.Error)
}

func TestWriteEnvelope_ErrorKeepsData(t *testing.T) {
	var buf bytes.Buffer
	env := errorEnvelope(CodeScenarioFailed, "steps rolled back", map[string]bool{"clean": false})
	require.NoError(t, writeEnvelope(&buf, env))

	var decoded Envelope
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "error", decoded.Status)
	require.NotNil(t, decoded.Error)
	assert.Equal(t, CodeScenarioFailed, decoded.Error.Code)
	assert.NotNil(t, decoded.Data, "failure envelopes still carry the payload")
}

func TestExitError_UnwrapsCause(t *testing.T) {
	cause := errors.New("disk full")
	err := WrapExitError(ExitCommandError, "failed to open database", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "failed to open database: disk full", err.Error())
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
