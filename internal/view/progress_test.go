package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSpinnerProgressTracksHandles(t *testing.T) {
	p := NewSpinnerProgress()
	assert.False(t, p.Active())

	h := p.Show(true)
	assert.True(t, p.Active())

	h.Done()
	assert.False(t, p.Active())

	h.Done() // ending twice is harmless
	assert.False(t, p.Active())
}

func TestSpinnerProgressOverlappingIndicators(t *testing.T) {
	p := NewSpinnerProgress()

	first := p.Show(true)
	second := p.Show(true)

	first.Done()
	assert.True(t, p.Active())

	second.Done()
	assert.False(t, p.Active())
}
