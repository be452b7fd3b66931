package featureflags

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestManagerOnOff(t *testing.T) {
	m := NewManager("freeze_comments=on, freeze_engagement=off, alt=true, legacy=0")

	assert.True(t, m.Enabled("freeze_comments", 1))
	assert.True(t, m.Enabled("FREEZE_COMMENTS", 1), "names are case-insensitive")
	assert.False(t, m.Enabled("freeze_engagement", 1))
	assert.True(t, m.Enabled("alt", 1))
	assert.False(t, m.Enabled("legacy", 1))
	assert.False(t, m.Enabled("unknown", 1), "unknown flags are off")
}

func TestManagerMalformedPairsSkipped(t *testing.T) {
	m := NewManager("broken, =on, noval=, good=on,,")

	assert.True(t, m.Enabled("good", 1))
	assert.False(t, m.Enabled("broken", 1))
	assert.False(t, m.Enabled("noval", 1))
}

func TestManagerPercentRollout(t *testing.T) {
	m := NewManager("new_ranking=50%")

	// Deterministic per user: the same user always lands in the same bucket.
	for _, userID := range []uint{1, 2, 3, 99, 1000} {
		first := m.Enabled("new_ranking", userID)
		for i := 0; i < 5; i++ {
			assert.Equal(t, first, m.Enabled("new_ranking", userID))
		}
	}

	// A 50% rollout should split a large population roughly in half.
	enabled := 0
	const population = 1000
	for userID := uint(1); userID <= population; userID++ {
		if m.Enabled("new_ranking", userID) {
			enabled++
		}
	}
	assert.Greater(t, enabled, population/4)
	assert.Less(t, enabled, 3*population/4)

	// Anonymous users never join a partial rollout.
	assert.False(t, m.Enabled("new_ranking", 0))
}

func TestManagerPercentBounds(t *testing.T) {
	m := NewManager("all=100%,none=0%,bad=x%")

	assert.True(t, m.Enabled("all", 7))
	assert.True(t, m.Enabled("all", 0), "full rollout includes anonymous")
	assert.False(t, m.Enabled("none", 7))
	assert.False(t, m.Enabled("bad", 7))
}

func TestManagerNilSafe(t *testing.T) {
	var m *Manager
	assert.False(t, m.Enabled("anything", 1))
	assert.Empty(t, m.Snapshot(1))
}

func TestManagerSnapshot(t *testing.T) {
	m := NewManager("a=on,b=off")
	snap := m.Snapshot(5)
	assert.Equal(t, map[string]bool{"a": true, "b": false}, snap)
}
