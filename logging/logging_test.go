package logging_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/memalpha/memalpha/logging"
)

func TestNew_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New("warn", &buf)

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message")

	output := buf.String()
	gt.S(t, output).NotContains("debug message")
	gt.S(t, output).NotContains("info message")
	gt.S(t, output).Contains("warn message")
	gt.S(t, output).Contains("error message")
}

func TestNew_UnknownLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New("verbose", &buf)

	logger.Debug("debug message")
	logger.Info("info message")

	output := buf.String()
	gt.S(t, output).NotContains("debug message")
	gt.S(t, output).Contains("info message")
}

func TestContextPlumbing(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New("info", &buf)

	ctx := logging.With(context.Background(), logger)
	logging.From(ctx).Info("from context")
	gt.S(t, buf.String()).Contains("from context")

	// Without an attached logger the default is returned, never nil.
	gt.V(t, logging.From(context.Background())).NotNil()
}
