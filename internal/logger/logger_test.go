package logger

import (
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
)

func TestInitializeLevels(t *testing.T) {
	tests := map[string]log.Level{
		"debug":   log.DebugLevel,
		"WARNING": log.WarnLevel,
		"error":   log.ErrorLevel,
		"bogus":   log.InfoLevel,
	}

	for input, want := range tests {
		Initialize(input)
		assert.Equal(t, want, Get().GetLevel(), input)
	}
}

func TestGetInitializesLazily(t *testing.T) {
	Logger = nil
	assert.NotNil(t, Get())
	assert.NotNil(t, Repository("candidate"))
	assert.NotNil(t, Realtime())
}
