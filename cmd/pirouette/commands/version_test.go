package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCommand(t *testing.T) {
	resetCommandState(t)

	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "pirouette version "+version)
}

func TestVersionFlag(t *testing.T) {
	resetCommandState(t)

	out, err := execute(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "pirouette version "+version)
}
