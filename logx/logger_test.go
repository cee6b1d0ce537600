package logx

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelGating(t *testing.T) {
	var buf bytes.Buffer
	l := New("auth", &Config{Level: LevelWarn, Output: &buf})

	l.Debug("should not appear")
	l.Info("should not appear either")
	assert.Empty(t, buf.String())

	l.Warn("step dropped", "stepId", 7)
	out := buf.String()
	assert.Contains(t, out, "[WARN]")
	assert.Contains(t, out, "[auth]")
	assert.Contains(t, out, "step dropped")
	assert.Contains(t, out, "stepId=7")
}

func TestPrefixlessLogger(t *testing.T) {
	var buf bytes.Buffer
	l := New("", &Config{Level: LevelDebug, Output: &buf})
	l.Error("boom")
	assert.NotContains(t, buf.String(), "[]")
	assert.Contains(t, buf.String(), "[ERROR]")
}

func TestFormattedVariants(t *testing.T) {
	var buf bytes.Buffer
	l := New("demo", &Config{Level: LevelDebug, Output: &buf})
	l.Infof("listening on %s", "127.0.0.1:9000")
	assert.True(t, strings.Contains(buf.String(), "listening on 127.0.0.1:9000"))
}

func TestDefaultLoggerIsLazy(t *testing.T) {
	l1 := Default()
	l2 := Default()
	assert.Same(t, l1, l2)
}

func TestSetDefaultOverridesInstance(t *testing.T) {
	custom := New("custom", nil)
	SetDefault(custom)
	assert.Same(t, custom, Default())
}

func TestNilLoggerIsSafe(t *testing.T) {
	var l *Logger
	assert.NotPanics(t, func() {
		l.Debug("noop")
		l.Info("noop")
	})
}
