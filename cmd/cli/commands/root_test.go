package commands

import (
	"context"
	"io"
	"testing"

	"github.com/facewatch/toolkit/pkg/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type closeRecorder struct {
	closed int
}

func (c *closeRecorder) Close() error {
	c.closed++
	return nil
}

func stubLogger(t *testing.T) *closeRecorder {
	t.Helper()
	recorder := &closeRecorder{}
	orig := newLogger
	newLogger = func(opts logging.Options) (logging.Logger, io.Closer) {
		log, _ := orig(logging.Options{Output: io.Discard})
		return log, recorder
	}
	t.Cleanup(func() { newLogger = orig })
	return recorder
}

func TestExecuteClosesLogAfterFailure(t *testing.T) {
	recorder := stubLogger(t)

	err := Execute(context.Background(), []string{"setup", "--only", "boost"})
	require.Error(t, err)
	assert.Equal(t, 1, ExitCode(err))
	assert.Equal(t, 1, recorder.closed)
}

func TestExecuteWithoutSession(t *testing.T) {
	recorder := stubLogger(t)

	err := Execute(context.Background(), []string{"setup", "--cmake-version"})
	require.Error(t, err)
	assert.Zero(t, recorder.closed)
}
