// Package save owns the slot lifecycle: up to three independent game
// instances, the active-slot pointer, and the persistence codec.
package save

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/jpbranski/clickfluencer-idle-sub002/internal/game"
)

var (
	ErrSlotEmpty    = errors.New("slot is empty")
	ErrSlotOccupied = errors.New("slot already has a game")
	ErrInvalidSlot  = errors.New("slot id must be 1, 2 or 3")
)

const (
	MinSlot = 1
	MaxSlot = 3
)

// Slot is one stored game instance.
type Slot struct {
	Game      game.GameState `json:"game"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	// Extra preserves unknown top-level keys from an imported payload so they
	// survive a round-trip verbatim.
	Extra map[string]json.RawMessage `json:"extra,omitempty"`
}

// System is the whole persisted save-slot state.
type System struct {
	ActiveSlot int           `json:"activeSlot"`
	Slots      map[int]*Slot `json:"slots"`
}

func (s *System) clone() System {
	out := System{ActiveSlot: s.ActiveSlot, Slots: make(map[int]*Slot, len(s.Slots))}
	for id, sl := range s.Slots {
		c := *sl
		c.Game = sl.Game.Clone()
		out.Slots[id] = &c
	}
	return out
}

// Repository persists the slot system as one unit.
type Repository interface {
	Load() (System, bool, error)
	Save(System) error
}

// MemoryRepo is the in-memory repository used by tests.
type MemoryRepo struct {
	mu    sync.Mutex
	sys   System
	saved bool
}

func NewMemoryRepo() *MemoryRepo { return &MemoryRepo{} }

func (r *MemoryRepo) Load() (System, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.saved {
		return System{}, false, nil
	}
	return r.sys.clone(), true, nil
}

func (r *MemoryRepo) Save(sys System) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sys = sys.clone()
	r.saved = true
	return nil
}
