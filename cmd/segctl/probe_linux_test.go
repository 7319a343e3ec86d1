//go:build linux

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProbeCommand(t *testing.T) {
	res, err := runProbe(probeOptions{unusedPages: -1})
	require.NoError(t, err)

	assert.Equal(t, res.TotalPages/2, res.UnusedPages)
	assert.Equal(t, res.TotalPages, res.Touched)
	assert.LessOrEqual(t, res.Initial, res.Touched)
	assert.Equal(t, res.TotalPages-res.UnusedPages, res.Marked)
	assert.Equal(t, res.UnusedPages, res.Released())
}

func TestProbeCommand_TooManyPages(t *testing.T) {
	_, err := runProbe(probeOptions{unusedPages: 1 << 30})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds")
}

func TestProbeCommand_Output(t *testing.T) {
	resetFlags()
	output, err := captureOutput(t, func() error {
		res, err := runProbe(probeOptions{unusedPages: 16})
		if err != nil {
			return err
		}
		return emitProbe(res)
	})
	require.NoError(t, err)
	assertContains(t, output, []string{"Resident touched:", "Marked unused:     16", "Released:          16"})
}
