package status

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBar_DefaultState(t *testing.T) {
	bar := NewBar(nil, nil)
	assert.Equal(t, StateReady, bar.State())
	assert.Contains(t, bar.View(), "Ready")
}

func TestBar_JobCount(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetJobCount(3)
	assert.Contains(t, bar.View(), "3 jobs")
}

func TestBar_ErrorState(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetState(StateError)
	bar.SetMessage("store unavailable")
	assert.Contains(t, bar.View(), "store unavailable")
}

func TestBar_LoadingState(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetState(StateLoading)
	assert.Contains(t, bar.View(), "Refreshing")
}

func TestBar_ShowsKeyHints(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetWidth(120)
	out := bar.View()
	assert.Contains(t, out, "q: quit")
	assert.Contains(t, out, "r: refresh")
}
