package main

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/plus3/flotilla/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestParseFlags(t *testing.T) {
	opts, err := parseFlags(nil, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, "raylib", opts.backend)
	assert.Equal(t, "info", opts.logLevel)
	assert.Zero(t, opts.duration)

	opts, err = parseFlags([]string{"-backend", "headless", "-duration", "2s", "-log-json"}, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, "headless", opts.backend)
	assert.Equal(t, 2*time.Second, opts.duration)
	assert.True(t, opts.logJSON)

	_, err = parseFlags([]string{"-backend", "vulkan"}, io.Discard)
	assert.ErrorContains(t, err, "unknown backend")

	_, err = parseFlags([]string{"-duration", "-1s"}, io.Discard)
	assert.Error(t, err)
}

func TestRunHeadless(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	stats, err := runHeadless(ctx, scene.Default(), zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.Positive(t, stats.Frames)
	assert.Equal(t, 2, stats.Entities)
	assert.Equal(t, 6, stats.Components)
}

func TestLoadScene(t *testing.T) {
	cfg, err := loadScene("")
	require.NoError(t, err)
	assert.Len(t, cfg.Entities, 2)

	_, err = loadScene("does-not-exist.yaml")
	assert.Error(t, err)
}
