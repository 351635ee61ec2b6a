package save

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/jpbranski/clickfluencer-idle-sub002/internal/achievement"
	"github.com/jpbranski/clickfluencer-idle-sub002/internal/catalog"
	"github.com/jpbranski/clickfluencer-idle-sub002/internal/config"
	"github.com/jpbranski/clickfluencer-idle-sub002/internal/game"
)

// Manager owns the live slot system. It is the single writer of every
// GameState it holds: engine transforms go in, the achievement ledger is
// re-derived, and the result is committed and persisted in one step.
//
// Persistence after gameplay mutations is fire-and-forget: a failed write is
// logged and the operation still succeeds. Only explicit save operations
// (import, create, delete) surface write errors.
type Manager struct {
	mu     sync.Mutex
	engine *game.Engine
	eval   *achievement.Evaluator
	cat    *catalog.Catalog
	bal    config.Balance
	clock  game.Clock
	repo   Repository
	logger *zap.Logger
	sys    System
}

type ManagerOptions struct {
	Engine  *game.Engine
	Eval    *achievement.Evaluator
	Catalog *catalog.Catalog
	Balance config.Balance
	Clock   game.Clock
	Repo    Repository
	Logger  *zap.Logger
}

// NewManager loads the persisted system, bootstrapping slot 1 with a factory
// game on first run, and settles the active slot (offline progress, session
// count, return-visit check) before returning.
func NewManager(opts ManagerOptions) (*Manager, error) {
	if opts.Clock == nil {
		opts.Clock = game.RealClock{}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	m := &Manager{
		engine: opts.Engine,
		eval:   opts.Eval,
		cat:    opts.Catalog,
		bal:    opts.Balance,
		clock:  opts.Clock,
		repo:   opts.Repo,
		logger: opts.Logger,
	}

	sys, found, err := m.repo.Load()
	if err != nil {
		return nil, err
	}
	if !found || len(sys.Slots) == 0 {
		now := m.clock.Now()
		sys = System{
			ActiveSlot: MinSlot,
			Slots: map[int]*Slot{
				MinSlot: {Game: game.NewGameState(m.cat, now), CreatedAt: now, UpdatedAt: now},
			},
		}
	}
	if _, ok := sys.Slots[sys.ActiveSlot]; !ok {
		sys.ActiveSlot = lowestSlot(sys)
	}
	m.sys = sys

	m.mu.Lock()
	defer m.mu.Unlock()
	m.settleActiveLocked()
	if err := m.repo.Save(m.sys); err != nil {
		return nil, err
	}
	return m, nil
}

func lowestSlot(sys System) int {
	for id := MinSlot; id <= MaxSlot; id++ {
		if _, ok := sys.Slots[id]; ok {
			return id
		}
	}
	return MinSlot
}

// settleActiveLocked runs the slot-load flow on the active slot: return-visit
// unlock from the away gap, one capped offline integration step, and a session
// count bump.
func (m *Manager) settleActiveLocked() {
	slot := m.sys.Slots[m.sys.ActiveSlot]
	if slot == nil {
		return
	}
	now := m.clock.Now()

	away := now.Sub(slot.Game.LastSeenAt)
	if away < 0 {
		// Clock skew; treat as no time passed.
		away = 0
	}

	g := slot.Game
	visit := m.eval.CheckReturnVisit(&g, away, m.bal.ReturnVisitGap)
	g.Achievements = visit.Ledger

	delta := away
	if delta > m.bal.OfflineCap {
		delta = m.bal.OfflineCap
	}
	g, tick := m.engine.AdvanceTime(g, delta)
	if tick.CredsGained > 0 {
		m.logger.Info("offline progress settled",
			zap.Int("slot", m.sys.ActiveSlot),
			zap.Duration("away", away),
			zap.Duration("integrated", delta),
			zap.Float64("creds_gained", tick.CredsGained))
	}

	chk := m.eval.Check(&g)
	g.Achievements = chk.Ledger
	g.Stats.SessionCount++
	g.LastSeenAt = now

	slot.Game = g
	slot.UpdatedAt = now
}

// commitLocked installs a transformed state into the active slot, re-derives
// the achievement ledger, and persists. Returns the IDs unlocked by this
// commit.
func (m *Manager) commitLocked(g game.GameState) []string {
	chk := m.eval.Check(&g)
	g.Achievements = chk.Ledger

	now := m.clock.Now()
	g.LastSeenAt = now

	slot := m.sys.Slots[m.sys.ActiveSlot]
	slot.Game = g
	slot.UpdatedAt = now

	if err := m.repo.Save(m.sys); err != nil {
		m.logger.Error("persist failed", zap.Error(err), zap.Int("slot", m.sys.ActiveSlot))
	}
	return chk.NewlyUnlocked
}

func (m *Manager) activeLocked() (*Slot, bool) {
	slot, ok := m.sys.Slots[m.sys.ActiveSlot]
	return slot, ok
}

// Click applies one manual click to the active slot.
func (m *Manager) Click() (game.ClickOutcome, []string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	slot, ok := m.activeLocked()
	if !ok {
		return game.ClickOutcome{}, nil, ErrSlotEmpty
	}
	next, oc := m.engine.Click(slot.Game)
	if oc.Result == game.ResultThrottled {
		return oc, nil, nil
	}
	unlocked := m.commitLocked(next)
	return oc, unlocked, nil
}

// Tick integrates elapsed time into the active slot.
func (m *Manager) Tick(delta time.Duration) (game.TickOutcome, []string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	slot, ok := m.activeLocked()
	if !ok {
		return game.TickOutcome{}, nil, ErrSlotEmpty
	}
	if delta > m.bal.OfflineCap {
		delta = m.bal.OfflineCap
	}
	next, tick := m.engine.AdvanceTime(slot.Game, delta)
	unlocked := m.commitLocked(next)
	return tick, unlocked, nil
}

// PurchaseGenerator buys one generator unit on the active slot.
func (m *Manager) PurchaseGenerator(id string) (game.Result, []string, error) {
	return m.purchase(func(s game.GameState) (game.GameState, game.Result) {
		return m.engine.PurchaseGenerator(s, id)
	})
}

// PurchaseUpgrade buys an upgrade (or its next level) on the active slot.
func (m *Manager) PurchaseUpgrade(id string) (game.Result, []string, error) {
	return m.purchase(func(s game.GameState) (game.GameState, game.Result) {
		return m.engine.PurchaseUpgrade(s, id)
	})
}

// PurchaseTheme unlocks a theme on the active slot.
func (m *Manager) PurchaseTheme(id string) (game.Result, []string, error) {
	return m.purchase(func(s game.GameState) (game.GameState, game.Result) {
		return m.engine.PurchaseTheme(s, id)
	})
}

// ActivateTheme switches the active theme on the active slot.
func (m *Manager) ActivateTheme(id string) (game.Result, []string, error) {
	return m.purchase(func(s game.GameState) (game.GameState, game.Result) {
		return m.engine.ActivateTheme(s, id)
	})
}

// Prestige resets the active slot for a permanent multiplier.
func (m *Manager) Prestige() (game.Result, []string, error) {
	return m.purchase(func(s game.GameState) (game.GameState, game.Result) {
		return m.engine.Prestige(s)
	})
}

func (m *Manager) purchase(op func(game.GameState) (game.GameState, game.Result)) (game.Result, []string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	slot, ok := m.activeLocked()
	if !ok {
		return "", nil, ErrSlotEmpty
	}
	next, res := op(slot.Game)
	if res != game.ResultOK {
		return res, nil, nil
	}
	unlocked := m.commitLocked(next)
	return res, unlocked, nil
}

// Snapshot returns a deep copy of the active slot's state and its slot ID.
func (m *Manager) Snapshot() (game.GameState, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	slot, ok := m.activeLocked()
	if !ok {
		return game.GameState{}, 0, ErrSlotEmpty
	}
	return slot.Game.Clone(), m.sys.ActiveSlot, nil
}

// Composer exposes the engine's composer for read-only derived views.
func (m *Manager) Composer() game.Composer {
	return m.engine.Composer
}

// SlotInfo is the read-only projection for the slot-selection UI.
type SlotInfo struct {
	ID        int       `json:"id"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Creds     float64   `json:"creds"`
	Prestige  int       `json:"prestige"`
}

// SlotInfos lists every occupied slot.
func (m *Manager) SlotInfos() []SlotInfo {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []SlotInfo
	for id := MinSlot; id <= MaxSlot; id++ {
		slot, ok := m.sys.Slots[id]
		if !ok {
			continue
		}
		out = append(out, SlotInfo{
			ID:        id,
			Active:    id == m.sys.ActiveSlot,
			CreatedAt: slot.CreatedAt,
			UpdatedAt: slot.UpdatedAt,
			Creds:     slot.Game.Creds,
			Prestige:  slot.Game.Prestige,
		})
	}
	return out
}

// CreateSlot installs a factory game at the given empty slot. It does not
// change the active slot.
func (m *Manager) CreateSlot(id int) error {
	if id < MinSlot || id > MaxSlot {
		return ErrInvalidSlot
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sys.Slots[id]; ok {
		return ErrSlotOccupied
	}
	now := m.clock.Now()
	m.sys.Slots[id] = &Slot{Game: game.NewGameState(m.cat, now), CreatedAt: now, UpdatedAt: now}
	return m.repo.Save(m.sys)
}

// SwitchSlot moves the active pointer. Switching to an empty slot is a silent
// no-op and returns false. On a real switch the new slot goes through the
// load flow, so stale derived state from the previous slot cannot leak in.
func (m *Manager) SwitchSlot(id int) bool {
	if id < MinSlot || id > MaxSlot {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sys.Slots[id]; !ok {
		return false
	}
	if id == m.sys.ActiveSlot {
		return true
	}
	m.sys.ActiveSlot = id
	m.settleActiveLocked()
	if err := m.repo.Save(m.sys); err != nil {
		m.logger.Error("persist failed after slot switch", zap.Error(err), zap.Int("slot", id))
	}
	return true
}

// DeleteSlot removes a slot. The system is never left with zero slots:
// deleting the last one installs a fresh factory game in slot 1 instead. If
// the deleted slot was active, the lowest remaining slot becomes active.
func (m *Manager) DeleteSlot(id int) error {
	if id < MinSlot || id > MaxSlot {
		return ErrInvalidSlot
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sys.Slots[id]; !ok {
		return ErrSlotEmpty
	}

	delete(m.sys.Slots, id)
	if len(m.sys.Slots) == 0 {
		now := m.clock.Now()
		m.sys.Slots[MinSlot] = &Slot{Game: game.NewGameState(m.cat, now), CreatedAt: now, UpdatedAt: now}
		m.sys.ActiveSlot = MinSlot
	} else if id == m.sys.ActiveSlot {
		m.sys.ActiveSlot = lowestSlot(m.sys)
		m.settleActiveLocked()
	}
	return m.repo.Save(m.sys)
}

// ExportActive serializes the active slot's state to its textual save form.
func (m *Manager) ExportActive() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	slot, ok := m.activeLocked()
	if !ok {
		return "", ErrSlotEmpty
	}
	return Export(slot.Game, slot.Extra)
}

// ImportActive replaces the active slot's state with a parsed payload.
// Malformed payloads leave the slot untouched.
func (m *Manager) ImportActive(text string) error {
	g, extra, err := Import(text)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	slot, ok := m.activeLocked()
	if !ok {
		return ErrSlotEmpty
	}
	now := m.clock.Now()
	g.LastSeenAt = now
	slot.Game = g
	slot.Extra = extra
	slot.UpdatedAt = now
	return m.repo.Save(m.sys)
}
