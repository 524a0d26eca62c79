package cmd

import (
	"errors"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingReader struct{ err error }

func (r failingReader) Read([]byte) (int, error) { return 0, r.err }

func TestShellLoopReportsReadError(t *testing.T) {
	readErr := errors.New("tty gone")
	err := shellLoop(&cobra.Command{}, nil, nil, failingReader{err: readErr})
	require.Error(t, err)
	assert.ErrorIs(t, err, readErr)
}

func TestShellLoopEndsCleanly(t *testing.T) {
	// EOF and an explicit exit both close the session without error.
	assert.NoError(t, shellLoop(&cobra.Command{}, nil, nil, strings.NewReader("")))
	assert.NoError(t, shellLoop(&cobra.Command{}, nil, nil, strings.NewReader("exit\n")))
}
