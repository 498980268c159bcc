package kv

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStagedReadsOverlayFirst(t *testing.T) {
	base := NewMemory()
	assert.NoError(t, base.Set("a", []byte("old")))

	staged := NewStaged(base)
	assert.NoError(t, staged.Set("a", []byte("new")))
	assert.NoError(t, staged.Set("b", []byte("fresh")))

	value, ok, err := staged.Get("a")
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("new"), value)

	value, ok, err = staged.Get("b")
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("fresh"), value)

	// Base remains untouched until commit
	value, ok, err = base.Get("a")
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("old"), value)

	_, ok, err = base.Get("b")
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestStagedRemoveShadowsBase(t *testing.T) {
	base := NewMemory()
	assert.NoError(t, base.Set("a", []byte("value")))

	staged := NewStaged(base)
	assert.NoError(t, staged.Remove("a"))

	_, ok, err := staged.Get("a")
	assert.NoError(t, err)
	assert.False(t, ok)

	// Still present underneath
	_, ok, err = base.Get("a")
	assert.NoError(t, err)
	assert.True(t, ok)
}

func TestStagedCommitAppliesAllWrites(t *testing.T) {
	base := NewMemory()
	assert.NoError(t, base.Set("drop", []byte("x")))

	staged := NewStaged(base)
	assert.NoError(t, staged.Set("a", []byte("1")))
	assert.NoError(t, staged.Set("a", []byte("2"))) // rewrite collapses in place
	assert.NoError(t, staged.Set("b", []byte("3")))
	assert.NoError(t, staged.Remove("drop"))
	assert.Equal(t, 3, staged.Pending())

	assert.NoError(t, staged.Commit())
	assert.Equal(t, 0, staged.Pending())

	value, ok, err := base.Get("a")
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("2"), value)

	value, ok, err = base.Get("b")
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("3"), value)

	_, ok, err = base.Get("drop")
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestStagedDiscardLeavesBaseUntouched(t *testing.T) {
	base := NewMemory()

	staged := NewStaged(base)
	assert.NoError(t, staged.Set("a", []byte("1")))
	staged.Discard()

	assert.NoError(t, staged.Commit())
	assert.Equal(t, 0, base.Len())
}
