package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveDirectionToggle(t *testing.T) {
	h := &EtfsEchoHandler{}

	// First sort on a column is ascending.
	assert.Equal(t, "asc", h.resolveDirection("price", ""))
	// Repeating the same column toggles.
	assert.Equal(t, "desc", h.resolveDirection("price", ""))
	assert.Equal(t, "asc", h.resolveDirection("price", ""))
	// A different column resets to ascending.
	assert.Equal(t, "asc", h.resolveDirection("name", ""))
}

func TestResolveDirectionExplicitWins(t *testing.T) {
	h := &EtfsEchoHandler{}

	assert.Equal(t, "desc", h.resolveDirection("price", "desc"))
	// Explicit direction still updates the stored state.
	assert.Equal(t, "asc", h.resolveDirection("price", ""))
}
