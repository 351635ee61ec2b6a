// Package server holds the gameplay API handlers: player intents in, derived
// read-only views out. All game rules live in the engine; handlers only
// translate HTTP to manager calls.
package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jpbranski/clickfluencer-idle-sub002/internal/format"
	"github.com/jpbranski/clickfluencer-idle-sub002/internal/game"
	"github.com/jpbranski/clickfluencer-idle-sub002/internal/save"
	"github.com/jpbranski/clickfluencer-idle-sub002/internal/telemetry"
)

type API struct {
	manager *save.Manager
	metrics *telemetry.Metrics
	amounts *format.Cache
	logger  *zap.Logger
}

func NewAPI(manager *save.Manager, metrics *telemetry.Metrics, logger *zap.Logger) *API {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &API{
		manager: manager,
		metrics: metrics,
		amounts: format.NewCache(256),
		logger:  logger,
	}
}

type idRequest struct {
	ID string `json:"id"`
}

// Click handles POST /api/game/click.
func (a *API) Click(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	oc, unlocked, err := a.manager.Click()
	if err != nil {
		writeErr(w, http.StatusConflict, err.Error())
		return
	}
	switch oc.Result {
	case game.ResultThrottled:
		a.metrics.IncThrottled()
	case game.ResultOK:
		a.metrics.IncClick()
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"result":        oc.Result,
		"yield":         oc.Yield,
		"awardDropped":  oc.AwardDropped,
		"newlyUnlocked": unlocked,
	})
}

// Tick handles POST /api/game/tick with {"elapsedMs": n}.
func (a *API) Tick(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req struct {
		ElapsedMs int64 `json:"elapsedMs"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.ElapsedMs < 0 {
		writeErr(w, http.StatusBadRequest, "elapsedMs must be >= 0")
		return
	}
	tick, unlocked, err := a.manager.Tick(time.Duration(req.ElapsedMs) * time.Millisecond)
	if err != nil {
		writeErr(w, http.StatusConflict, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"credsGained":     tick.CredsGained,
		"notorietyGained": tick.NotorietyGained,
		"newlyUnlocked":   unlocked,
	})
}

// BuyGenerator handles POST /api/game/generators/buy.
func (a *API) BuyGenerator(w http.ResponseWriter, r *http.Request) {
	a.buy(w, r, "generator", a.manager.PurchaseGenerator)
}

// BuyUpgrade handles POST /api/game/upgrades/buy.
func (a *API) BuyUpgrade(w http.ResponseWriter, r *http.Request) {
	a.buy(w, r, "upgrade", a.manager.PurchaseUpgrade)
}

// BuyTheme handles POST /api/game/themes/buy.
func (a *API) BuyTheme(w http.ResponseWriter, r *http.Request) {
	a.buy(w, r, "theme", a.manager.PurchaseTheme)
}

// ActivateTheme handles POST /api/game/themes/activate.
func (a *API) ActivateTheme(w http.ResponseWriter, r *http.Request) {
	a.buy(w, r, "theme_activate", a.manager.ActivateTheme)
}

func (a *API) buy(w http.ResponseWriter, r *http.Request, kind string, op func(string) (game.Result, []string, error)) {
	if r.Method != http.MethodPost {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req idRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.ID) == "" {
		writeErr(w, http.StatusBadRequest, "id is required")
		return
	}
	res, unlocked, err := op(req.ID)
	if err != nil {
		writeErr(w, http.StatusConflict, err.Error())
		return
	}
	if res == game.ResultOK {
		a.metrics.IncPurchase(kind)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"result":        res,
		"newlyUnlocked": unlocked,
	})
}

// Prestige handles POST /api/game/prestige.
func (a *API) Prestige(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	res, unlocked, err := a.manager.Prestige()
	if err != nil {
		writeErr(w, http.StatusConflict, err.Error())
		return
	}
	if res == game.ResultOK {
		a.metrics.IncPrestige()
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"result":        res,
		"newlyUnlocked": unlocked,
	})
}

// State handles GET /api/game/state: the full snapshot plus derived yields.
func (a *API) State(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	snap, slotID, err := a.manager.Snapshot()
	if err != nil {
		writeErr(w, http.StatusConflict, err.Error())
		return
	}
	comp := a.manager.Composer()
	cps := comp.CredsPerSecond(&snap)
	power := comp.ClickPower(&snap)
	writeJSON(w, http.StatusOK, map[string]any{
		"slot":              slotID,
		"game":              snap,
		"clickPower":        power,
		"credsPerSecond":    cps,
		"credsDisplay":      a.amounts.Amount(snap.Creds),
		"clickPowerDisplay": a.amounts.Amount(power),
		"perSecondDisplay":  a.amounts.Amount(cps),
		"playTimeDisplay":   format.Duration(time.Duration(snap.Stats.PlayTimeSeconds * float64(time.Second))),
	})
}

// Breakdown handles GET /api/game/breakdown: the ordered click composition.
func (a *API) Breakdown(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	snap, _, err := a.manager.Snapshot()
	if err != nil {
		writeErr(w, http.StatusConflict, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"steps": a.manager.Composer().ClickBreakdown(&snap),
	})
}

// Slots handles GET /api/slots.
func (a *API) Slots(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"slots": a.manager.SlotInfos()})
}

// SlotOp handles POST /api/slots/{id}/{new|switch|delete}.
func (a *API) SlotOp(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	tail := strings.TrimPrefix(r.URL.Path, "/api/slots/")
	parts := strings.Split(tail, "/")
	if len(parts) != 2 {
		writeErr(w, http.StatusNotFound, "unknown slot operation")
		return
	}
	id, err := strconv.Atoi(parts[0])
	if err != nil {
		writeErr(w, http.StatusBadRequest, "slot id must be a number")
		return
	}

	switch parts[1] {
	case "new":
		if err := a.manager.CreateSlot(id); err != nil {
			code := http.StatusBadRequest
			if errors.Is(err, save.ErrSlotOccupied) {
				code = http.StatusConflict
			}
			writeErr(w, code, err.Error())
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"created": id})
	case "switch":
		switched := a.manager.SwitchSlot(id)
		writeJSON(w, http.StatusOK, map[string]any{"switched": switched})
	case "delete":
		if err := a.manager.DeleteSlot(id); err != nil {
			code := http.StatusBadRequest
			if errors.Is(err, save.ErrSlotEmpty) {
				code = http.StatusNotFound
			}
			writeErr(w, code, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"deleted": id, "slots": a.manager.SlotInfos()})
	default:
		writeErr(w, http.StatusNotFound, "unknown slot operation")
	}
}

// ExportSave handles GET /api/save/export.
func (a *API) ExportSave(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	payload, err := a.manager.ExportActive()
	if err != nil {
		writeErr(w, http.StatusConflict, err.Error())
		return
	}
	a.metrics.IncSave()
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(payload))
}

// ImportSave handles POST /api/save/import with the raw payload as body.
func (a *API) ImportSave(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, 4<<20))
	if err != nil {
		writeErr(w, http.StatusBadRequest, "read body")
		return
	}
	if err := a.manager.ImportActive(string(body)); err != nil {
		if errors.Is(err, save.ErrInvalidFormat) {
			writeErr(w, http.StatusBadRequest, err.Error())
			return
		}
		a.metrics.IncSaveError()
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	a.metrics.IncSave()
	writeJSON(w, http.StatusOK, map[string]any{"imported": true})
}

// DiffSave handles POST /api/save/diff with the raw payload as body.
func (a *API) DiffSave(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, 4<<20))
	if err != nil {
		writeErr(w, http.StatusBadRequest, "read body")
		return
	}
	report, err := save.Diff(string(body))
	if err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"error": msg})
}
