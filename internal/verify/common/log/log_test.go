package log

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingLogger struct {
	entries []string
}

func (l *recordingLogger) Info(_ map[string]any, msg string)  { l.entries = append(l.entries, "INFO:"+msg) }
func (l *recordingLogger) Error(_ map[string]any, msg string) { l.entries = append(l.entries, "ERROR:"+msg) }
func (l *recordingLogger) Debug(_ map[string]any, msg string) { l.entries = append(l.entries, "DEBUG:"+msg) }
func (l *recordingLogger) Warn(_ map[string]any, msg string)  { l.entries = append(l.entries, "WARN:"+msg) }
func (l *recordingLogger) Panic(_ map[string]any, msg string) {}
func (l *recordingLogger) Fatal(_ map[string]any, msg string) {}

func TestGlobalDelegation(t *testing.T) {
	orig := GetLogger()
	t.Cleanup(func() { SetLogger(orig) })

	rec := &recordingLogger{}
	SetLogger(rec)

	Info(nil, "loaded")
	Warn(map[string]any{"list": "deny"}, "fallback")
	Error(nil, "failed")
	Debug(nil, "memo")

	assert.Equal(t, []string{"INFO:loaded", "WARN:fallback", "ERROR:failed", "DEBUG:memo"}, rec.entries)
	assert.Same(t, rec, GetLogger())
}

func TestConfigure(t *testing.T) {
	orig := GetLogger()
	t.Cleanup(func() { SetLogger(orig) })

	require.NoError(t, Configure("dev", "debug"))
	require.NoError(t, Configure("prod", "WARN"))

	err := Configure("prod", "loud")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}

func TestZapLoggerPanics(t *testing.T) {
	l := newZapLogger(false, 0)
	l.Info(map[string]any{"b": 2, "a": 1}, "ordered fields")
	assert.Panics(t, func() { l.Panic(nil, "boom") })
}

func TestZapFieldsOrdered(t *testing.T) {
	fields := zapFields(map[string]any{"zeta": 1, "alpha": 2, "mid": 3})
	require.Len(t, fields, 3)
	assert.Equal(t, "alpha", fields[0].Key)
	assert.Equal(t, "mid", fields[1].Key)
	assert.Equal(t, "zeta", fields[2].Key)
	assert.Nil(t, zapFields(nil))
}

func TestNoopLogger(t *testing.T) {
	l := NewNoopLogger()
	assert.NotPanics(t, func() {
		l.Info(nil, "x")
		l.Error(nil, "x")
		l.Debug(nil, "x")
		l.Warn(nil, "x")
		l.Panic(nil, "x")
		l.Fatal(nil, "x")
	})
}
