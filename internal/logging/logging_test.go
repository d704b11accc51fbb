package logging

import (
	"bytes"
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("valid level filters below threshold", func(t *testing.T) {
		var buf bytes.Buffer
		logger, err := New("warn", &buf)
		require.NoError(t, err)

		logger.Info("hidden")
		logger.Warn("shown")

		assert.NotContains(t, buf.String(), "hidden")
		assert.Contains(t, buf.String(), "shown")
	})

	t.Run("invalid level returns error", func(t *testing.T) {
		_, err := New("loud", &bytes.Buffer{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "loud")
	})
}

func TestComponent(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New("debug", &buf)
	require.NoError(t, err)

	Component(logger, "api").Debug("request")
	assert.Contains(t, buf.String(), "component=api")

	// nil logger yields a usable entry
	assert.NotPanics(t, func() { Component(nil, "x").Info("dropped") })
}

func TestFromContext(t *testing.T) {
	t.Run("returns stored entry", func(t *testing.T) {
		entry := logrus.NewEntry(logrus.New())
		ctx := WithLogger(context.Background(), entry)
		assert.Same(t, entry, FromContext(ctx))
	})

	t.Run("empty context yields discarding entry", func(t *testing.T) {
		entry := FromContext(context.Background())
		require.NotNil(t, entry)
		assert.NotPanics(t, func() { entry.Warn("dropped") })
	})
}
