package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vitrola/internal/models"
	"vitrola/internal/utils"
)

func TestScoreBoardAdd(t *testing.T) {
	b := NewScoreBoard(sequentialIDs())

	ana, err := b.Add("  Ana ")
	require.NoError(t, err)
	assert.Equal(t, models.Participant{ID: "p1", Name: "Ana", Score: 0}, ana)
	assert.Equal(t, "p1", b.ActiveID(), "first participant becomes active")

	_, err = b.Add("Bia")
	require.NoError(t, err)
	assert.Equal(t, "p1", b.ActiveID(), "active is not replaced by later participants")
	assert.Equal(t, 2, b.Len())
}

func TestScoreBoardAddRejectsEmptyName(t *testing.T) {
	b := NewScoreBoard(nil)

	_, err := b.Add("   ")
	var verr utils.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "name", verr.Field)
	assert.Equal(t, 0, b.Len())
}

func TestScoreBoardAdjust(t *testing.T) {
	b := NewScoreBoard(sequentialIDs())
	p, err := b.Add("Ana")
	require.NoError(t, err)

	assert.True(t, b.Adjust(p.ID, 1))
	assert.True(t, b.Adjust(p.ID, -1))
	assert.True(t, b.Adjust(p.ID, -1))
	got, _ := b.Get(p.ID)
	assert.Equal(t, -1, got.Score, "scores have no floor")

	assert.False(t, b.Adjust("missing", 1))
}

func TestScoreBoardSetActive(t *testing.T) {
	b := NewScoreBoard(sequentialIDs())
	_, _ = b.Add("Ana")
	bia, _ := b.Add("Bia")

	assert.True(t, b.SetActive(bia.ID))
	active, ok := b.Active()
	require.True(t, ok)
	assert.Equal(t, "Bia", active.Name)

	assert.False(t, b.SetActive("missing"))
	assert.Equal(t, "", b.ActiveID(), "unknown id clears active")
	_, ok = b.Active()
	assert.False(t, ok)
}

func TestScoreBoardRemove(t *testing.T) {
	b := NewScoreBoard(sequentialIDs())
	ana, _ := b.Add("Ana")
	bia, _ := b.Add("Bia")
	cris, _ := b.Add("Cris")

	require.True(t, b.SetActive(bia.ID))
	assert.True(t, b.Remove(bia.ID))
	assert.Equal(t, "", b.ActiveID(), "removing the active participant never promotes another")
	assert.False(t, b.Remove(bia.ID))

	assert.Equal(t, []models.Participant{
		{ID: ana.ID, Name: "Ana"},
		{ID: cris.ID, Name: "Cris"},
	}, b.List())
}

func TestScoreBoardClear(t *testing.T) {
	b := NewScoreBoard(nil)
	_, _ = b.Add("Ana")
	b.Clear()

	assert.Equal(t, 0, b.Len())
	assert.Equal(t, "", b.ActiveID())
	assert.Empty(t, b.List())
}
