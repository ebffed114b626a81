package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBuildsUsableLogger(t *testing.T) {
	log, err := New()
	require.NoError(t, err)
	defer func() { _ = log.Sync() }()

	assert.NotNil(t, log.Core())
}

func TestMustReturnsLoggerOnSuccess(t *testing.T) {
	log, err := New()
	require.NoError(t, err)

	assert.Same(t, log, Must(log, nil))
}

func TestMustPanicsOnError(t *testing.T) {
	assert.Panics(t, func() { Must(nil, assert.AnError) })
}
