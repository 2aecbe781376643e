package logx_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/ItmeRoa/Expense-Tracking-App/pkg/logx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferLogger(format logx.Format, level logx.Level) (*logx.Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	return logx.NewLogger(&logx.Config{
		Level:  level,
		Format: format,
		Output: buf,
	}), buf
}

func TestJSONFormatterWritesFieldsAndError(t *testing.T) {
	logger, buf := newBufferLogger(logx.FormatJSON, logx.LevelInfo)

	logger.Named("signupsrv").
		WithFields(logx.Fields{"email": "a@b.io"}).
		WithError(errors.New("smtp down")).
		Warn("verification email not sent")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "WARN", line["level"])
	assert.Equal(t, "verification email not sent", line["message"])
	assert.Equal(t, "signupsrv", line["component"])
	assert.Equal(t, "a@b.io", line["email"])
	assert.Equal(t, "smtp down", line["error"])
}

func TestLevelFiltering(t *testing.T) {
	logger, buf := newBufferLogger(logx.FormatJSON, logx.LevelWarn)

	logger.Info("hidden")
	logger.Debug("hidden")
	assert.Zero(t, buf.Len())

	logger.Error("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestConsoleFormatterSortsFields(t *testing.T) {
	logger, buf := newBufferLogger(logx.FormatConsole, logx.LevelInfo)

	logger.WithFields(logx.Fields{"b": 2, "a": 1}).Info("hello")

	out := buf.String()
	assert.True(t, strings.Contains(out, "[INFO ] hello a=1 b=2"), out)
}

func TestParseHelpers(t *testing.T) {
	assert.Equal(t, logx.LevelWarn, logx.ParseLevel("warning"))
	assert.Equal(t, logx.LevelDebug, logx.ParseLevel("debug"))
	assert.Equal(t, logx.LevelInfo, logx.ParseLevel("nope"))
	assert.Equal(t, logx.FormatCloudWatch, logx.ParseFormat("CloudWatch"))
	assert.Equal(t, logx.FormatConsole, logx.ParseFormat(""))
}

func TestDiscardWritesNothing(t *testing.T) {
	logx.Discard().WithField("k", "v").Error("dropped")
}
