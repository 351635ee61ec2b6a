package save

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/jpbranski/clickfluencer-idle-sub002/internal/game"
)

// ErrInvalidFormat marks an import payload that could not be applied. Nothing
// is partially applied on failure.
var ErrInvalidFormat = errors.New("invalid save format")

// Export serializes a game state to its textual save form. Unknown keys kept
// from a previous import are merged back in verbatim.
func Export(s game.GameState, extra map[string]json.RawMessage) (string, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return "", err
	}
	if len(extra) == 0 {
		pretty, err := json.MarshalIndent(json.RawMessage(b), "", "  ")
		if err != nil {
			return "", err
		}
		return string(pretty), nil
	}

	var m map[string]json.RawMessage
	if err := json.Unmarshal(b, &m); err != nil {
		return "", err
	}
	for k, v := range extra {
		if _, known := m[k]; !known {
			m[k] = v
		}
	}
	pretty, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return "", err
	}
	return string(pretty), nil
}

// Import parses a textual save payload. Malformed payloads return
// ErrInvalidFormat; unknown top-level keys are returned separately so the
// caller can preserve them across the next export.
func Import(text string) (game.GameState, map[string]json.RawMessage, error) {
	var m map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &m); err != nil {
		return game.GameState{}, nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	if m == nil {
		return game.GameState{}, nil, fmt.Errorf("%w: payload is not an object", ErrInvalidFormat)
	}

	var s game.GameState
	if err := json.Unmarshal([]byte(text), &s); err != nil {
		return game.GameState{}, nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}

	known := factoryKeySet()
	extra := map[string]json.RawMessage{}
	for k, v := range m {
		if !known[k] {
			extra[k] = v
		}
	}
	if len(extra) == 0 {
		extra = nil
	}
	return s, extra, nil
}

// DiffReport is a top-level key-set comparison between a save payload and the
// canonical factory shape. Purely diagnostic; nothing is repaired.
type DiffReport struct {
	Missing []string `json:"missing"`
	Extra   []string `json:"extra"`
}

// Diff compares a payload's top-level keys against the factory state shape.
func Diff(text string) (DiffReport, error) {
	var m map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &m); err != nil {
		return DiffReport{}, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	if m == nil {
		return DiffReport{}, fmt.Errorf("%w: payload is not an object", ErrInvalidFormat)
	}

	known := factoryKeySet()
	report := DiffReport{Missing: []string{}, Extra: []string{}}
	for k := range known {
		if _, ok := m[k]; !ok {
			report.Missing = append(report.Missing, k)
		}
	}
	for k := range m {
		if !known[k] {
			report.Extra = append(report.Extra, k)
		}
	}
	sort.Strings(report.Missing)
	sort.Strings(report.Extra)
	return report, nil
}

// factoryKeySet derives the canonical top-level key set from the GameState
// shape itself, so the diff can never drift from the model.
func factoryKeySet() map[string]bool {
	b, err := json.Marshal(game.GameState{})
	if err != nil {
		return map[string]bool{}
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(b, &m); err != nil {
		return map[string]bool{}
	}
	out := make(map[string]bool, len(m))
	for k := range m {
		out[k] = true
	}
	return out
}
