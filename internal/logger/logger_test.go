package logger

import (
	"bytes"
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestSetLevel(t *testing.T) {
	defer SetLevel("info")

	tests := []struct {
		level    string
		expected logrus.Level
	}{
		{"debug", logrus.DebugLevel},
		{"info", logrus.InfoLevel},
		{"warn", logrus.WarnLevel},
		{"warning", logrus.WarnLevel},
		{"error", logrus.ErrorLevel},
		{"bogus", logrus.InfoLevel},
	}
	for _, tt := range tests {
		SetLevel(tt.level)
		assert.Equal(t, tt.expected, Logger.GetLevel(), tt.level)
	}
}

func TestForInvocation(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer ResetOutput()

	ctx, entry := ForInvocation(context.Background())
	id, ok := entry.Data["invocation"].(string)
	assert.True(t, ok)
	assert.NotEmpty(t, id)

	WithContext(ctx).Info("hello")
	assert.Contains(t, buf.String(), id)
	assert.Contains(t, buf.String(), "hello")
}
