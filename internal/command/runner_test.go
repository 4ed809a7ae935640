package command

import (
	"context"
	"errors"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecRunner_Run(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	r := ExecRunner{}

	out, err := r.Run(context.Background(), "sh", []string{"-c", "echo hello"})
	require.NoError(t, err)
	assert.Equal(t, "hello\n", string(out))

	_, err = r.Run(context.Background(), "sh", []string{"-c", "echo out; echo bad >&2; exit 2"})
	require.Error(t, err)
	var cmdErr *Error
	require.True(t, errors.As(err, &cmdErr))
	assert.Equal(t, 2, cmdErr.ExitCode)
	assert.Equal(t, "out\nbad", cmdErr.Output)
	assert.Equal(t, 2, ExitCode(err))
	assert.Contains(t, err.Error(), "bad")
}

func TestExecRunner_MissingBinary(t *testing.T) {
	_, err := ExecRunner{}.Run(context.Background(), "submux-no-such-binary", nil)
	require.Error(t, err)
	assert.Equal(t, -1, ExitCode(err))
}

func TestExitCode_OtherErrors(t *testing.T) {
	assert.Equal(t, -1, ExitCode(errors.New("boom")))
	assert.Equal(t, -1, ExitCode(nil))
}
