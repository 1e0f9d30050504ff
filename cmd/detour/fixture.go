// Override fixture loading for preview dispatch.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/mesh-intelligence/detour/pkg/router"
	"github.com/mesh-intelligence/detour/pkg/types"
)

// fixtureOverride is one entry in an override fixture file: a matching
// strategy plus either a fixed value or a fixed error message.
//
//	[
//	  {"strategy": "kind", "kind": "fetchMany", "table": "todos", "value": []},
//	  {"strategy": "id", "id": "custom-1", "error": "auth expired"}
//	]
type fixtureOverride struct {
	Strategy string          `json:"strategy"`
	Kind     string          `json:"kind,omitempty"`
	Table    string          `json:"table,omitempty"`
	ID       string          `json:"id,omitempty"`
	Value    json.RawMessage `json:"value,omitempty"`
	Error    string          `json:"error,omitempty"`
}

// loadFixture reads a fixture file and builds its overrides. Entries are
// registered in file order, so later entries win when several match.
func loadFixture(path string) ([]router.Override, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var entries []fixtureOverride
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse fixture: %w", err)
	}

	overrides := make([]router.Override, 0, len(entries))
	for i, entry := range entries {
		o, err := buildOverride(entry)
		if err != nil {
			return nil, fmt.Errorf("fixture entry %d: %w", i, err)
		}
		overrides = append(overrides, o)
	}
	return overrides, nil
}

func buildOverride(entry fixtureOverride) (router.Override, error) {
	producer, err := buildProducer(entry)
	if err != nil {
		return router.Override{}, err
	}

	switch entry.Strategy {
	case "kind":
		if entry.Kind == "" {
			return router.Override{}, fmt.Errorf("kind strategy needs a kind")
		}
		return router.OverrideKind(types.Kind(entry.Kind), entry.Table, producer), nil
	case "id":
		if entry.ID == "" {
			return router.Override{}, fmt.Errorf("id strategy needs an id")
		}
		return router.OverrideID(entry.ID, entry.Table, producer), nil
	default:
		return router.Override{}, fmt.Errorf("unknown strategy %q", entry.Strategy)
	}
}

func buildProducer(entry fixtureOverride) (router.Producer, error) {
	if entry.Error != "" {
		return router.Failure(errors.New(entry.Error)), nil
	}
	if len(entry.Value) == 0 {
		return nil, fmt.Errorf("override needs a value or an error")
	}
	var value any
	if err := json.Unmarshal(entry.Value, &value); err != nil {
		return nil, fmt.Errorf("parse override value: %w", err)
	}
	return router.Value(value), nil
}
