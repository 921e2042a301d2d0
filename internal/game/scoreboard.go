package game

import (
	"strings"

	"vitrola/internal/models"
	"vitrola/internal/utils"
)

// ScoreBoard maps participants to scores. At most one participant is active;
// the active reference never outlives the participant it points to.
type ScoreBoard struct {
	order  []string
	byID   map[string]*models.Participant
	active string
	newID  func() string
}

// NewScoreBoard creates an empty board. newID generates participant ids; nil uses utils.NewID.
func NewScoreBoard(newID func() string) *ScoreBoard {
	if newID == nil {
		newID = utils.NewID
	}
	return &ScoreBoard{
		byID:  make(map[string]*models.Participant),
		newID: newID,
	}
}

// Add creates a participant with score 0. The first participant added while
// nobody is active becomes active.
func (b *ScoreBoard) Add(name string) (models.Participant, error) {
	if err := utils.ValidateParticipantName(name); err != nil {
		return models.Participant{}, err
	}

	p := &models.Participant{ID: b.newID(), Name: strings.TrimSpace(name)}
	b.byID[p.ID] = p
	b.order = append(b.order, p.ID)

	if b.active == "" {
		b.active = p.ID
	}
	return *p, nil
}

// Adjust adds delta to a participant's score. Unknown ids are ignored.
// Scores have no floor or ceiling.
func (b *ScoreBoard) Adjust(id string, delta int) bool {
	p, ok := b.byID[id]
	if !ok {
		return false
	}
	p.Score += delta
	return true
}

// SetActive points the active reference at id. An unknown id clears it.
func (b *ScoreBoard) SetActive(id string) bool {
	if _, ok := b.byID[id]; !ok {
		b.active = ""
		return false
	}
	b.active = id
	return true
}

// Active returns the active participant, if any
func (b *ScoreBoard) Active() (models.Participant, bool) {
	p, ok := b.byID[b.active]
	if !ok {
		return models.Participant{}, false
	}
	return *p, true
}

// ActiveID returns the active participant id or ""
func (b *ScoreBoard) ActiveID() string {
	return b.active
}

// Get returns a participant by id
func (b *ScoreBoard) Get(id string) (models.Participant, bool) {
	p, ok := b.byID[id]
	if !ok {
		return models.Participant{}, false
	}
	return *p, true
}

// Remove deletes a participant. Removing the active one leaves nobody active.
func (b *ScoreBoard) Remove(id string) bool {
	if _, ok := b.byID[id]; !ok {
		return false
	}
	delete(b.byID, id)
	for i, pid := range b.order {
		if pid == id {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}
	if b.active == id {
		b.active = ""
	}
	return true
}

// Clear removes every participant
func (b *ScoreBoard) Clear() {
	b.order = nil
	b.byID = make(map[string]*models.Participant)
	b.active = ""
}

// Len returns the number of participants
func (b *ScoreBoard) Len() int {
	return len(b.order)
}

// List returns the participants in creation order
func (b *ScoreBoard) List() []models.Participant {
	out := make([]models.Participant, 0, len(b.order))
	for _, id := range b.order {
		out = append(out, *b.byID[id])
	}
	return out
}
