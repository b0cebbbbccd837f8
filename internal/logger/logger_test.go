package logger

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVerboseToggle(t *testing.T) {
	defer SetVerbose(false)

	SetVerbose(true)
	assert.True(t, IsVerbose())

	SetVerbose(false)
	assert.False(t, IsVerbose())
}

func TestSilentWhenDisabled(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)
	SetVerbose(false)

	Info("hidden %s", "message")
	Warn("hidden %s", "message")
	Debug("hidden %s", "message")

	assert.Empty(t, buf.String())
}

func TestPrefixesWhenEnabled(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(true)
	defer func() {
		SetVerbose(false)
		SetOutput(os.Stderr)
	}()

	Info("count %d", 3)
	Warn("drift")
	Debug("detail")

	out := buf.String()
	assert.Contains(t, out, "[INFO] count 3")
	assert.Contains(t, out, "[WARN] drift")
	assert.Contains(t, out, "[DEBUG] detail")
}
