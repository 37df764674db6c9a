package config

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tuboc/chipeite/emulator"
)

func TestParseFlagsPositional(t *testing.T) {
	f, _, err := ParseFlags("chipeite", []string{"-scale", "4", "game.ch8"}, io.Discard)
	require.NoError(t, err)

	assert.Equal(t, "game.ch8", f.ROM)
	assert.Equal(t, 4, f.Emulator.Scale)
	assert.Equal(t, emulator.DefaultHz, f.Emulator.Hz)
	assert.Equal(t, FrontendSDL, f.Frontend)
}

func TestParseFlagsROMFlag(t *testing.T) {
	f, _, err := ParseFlags("chipeite", []string{"-f", "pong.ch8", "-s", "-monitor"}, io.Discard)
	require.NoError(t, err)

	assert.Equal(t, "pong.ch8", f.ROM)
	assert.True(t, f.Emulator.StepMode)
	assert.Equal(t, FrontendMonitor, f.Frontend)
}

func TestParseFlagsTerminal(t *testing.T) {
	f, _, err := ParseFlags("chipeite", []string{"-term", "-debug", "a.ch8"}, io.Discard)
	require.NoError(t, err)

	assert.Equal(t, FrontendTerminal, f.Frontend)
	assert.True(t, f.Debug)
}

func TestParseFlagsVerbosity(t *testing.T) {
	f, _, err := ParseFlags("chipeite", []string{"-quiet", "a.ch8"}, io.Discard)
	require.NoError(t, err)
	assert.True(t, f.Quiet)
	assert.False(t, f.Debug)

	_, _, err = ParseFlags("chipeite", []string{"-q", "a.ch8"}, io.Discard)
	assert.Error(t, err)
}

func TestParseFlagsErrors(t *testing.T) {
	_, _, err := ParseFlags("chipeite", nil, io.Discard)
	assert.ErrorIs(t, err, ErrUsage)

	_, _, err = ParseFlags("chipeite", []string{"-term", "-monitor", "a.ch8"}, io.Discard)
	assert.Error(t, err)

	_, _, err = ParseFlags("chipeite", []string{"-nope"}, io.Discard)
	assert.Error(t, err)
}

func TestCreateLogger(t *testing.T) {
	assert.NotNil(t, CreateLogger(false, false))
	assert.NotNil(t, CreateLogger(true, false))
	assert.NotNil(t, CreateLogger(false, true))
}
