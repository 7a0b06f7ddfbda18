package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWritesToOutput(t *testing.T) {
	var buf bytes.Buffer
	log, closer := New(Options{Output: &buf})
	defer closer.Close()

	log.Infof("installing %s", "cmake")
	log.Debugf("hidden")

	assert.Contains(t, buf.String(), "installing cmake")
	assert.NotContains(t, buf.String(), "hidden")
}

func TestNewDebugLevel(t *testing.T) {
	var buf bytes.Buffer
	log, closer := New(Options{Output: &buf, Debug: true})
	defer closer.Close()

	log.Debugf("probe output: %s", "cmake version 3.27.4")
	assert.Contains(t, buf.String(), "probe output")
}

func TestNewRotatedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "facewatch.log")
	log, closer := New(Options{File: path})

	log.WithField("dependency", "opencv").Info("installed")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "installed")
	assert.Contains(t, string(data), "dependency=opencv")
}

func TestDiscard(t *testing.T) {
	log := Discard()
	log.WithField("dependency", "qt").Errorf("nothing to see")
}
