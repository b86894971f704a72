package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, DEBUG, ParseLevel("debug"))
	assert.Equal(t, WARN, ParseLevel(" Warning "))
	assert.Equal(t, ERROR, ParseLevel("ERROR"))
	assert.Equal(t, TRACE, ParseLevel("trace"))
	assert.Equal(t, INFO, ParseLevel("verbose"), "Неизвестный уровень даёт INFO")
}

func TestLogger_FiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriterLogger("test", &buf, WARN)

	l.Info("скрыто %d", 1)
	l.Warn("видно %d", 2)
	l.Error("тоже видно")

	out := buf.String()
	assert.False(t, strings.Contains(out, "скрыто"), "INFO ниже порога WARN")
	assert.Contains(t, out, "[WARN] видно 2")
	assert.Contains(t, out, "[ERROR] тоже видно")

	l.SetConsoleLevel(TRACE)
	l.Trace("трасса")
	assert.Contains(t, buf.String(), "[TRACE] трасса")
	assert.NoError(t, l.Close(), "Close без файла ничего не делает")
}

func TestDefaultLogger_Replace(t *testing.T) {
	prev := defaultLogger
	defer SetDefault(prev)

	var buf bytes.Buffer
	SetDefault(NewWriterLogger("test", &buf, DEBUG))
	Debug("кадр %d", 7)
	SetDefault(nil)

	assert.Contains(t, buf.String(), "[DEBUG] кадр 7")
	assert.Equal(t, "UNKNOWN", LogLevel(42).String())
}
