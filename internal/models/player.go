package models

import (
	"encoding/json"
	"fmt"
)

// Player is the canonical in-memory shape of a roster participant. The
// gateway serializes players either as a bare subject-id string (a
// reference) or as an inlined object; UnmarshalJSON folds both shapes into
// this one value so use sites never branch on shape.
type Player struct {
	ID     string `json:"id"`
	Name   string `json:"name,omitempty"`
	Rating int    `json:"rating,omitempty"`
}

// playerInline mirrors Player without methods, to avoid recursive decode.
type playerInline struct {
	ID     string `json:"id"`
	Name   string `json:"name,omitempty"`
	Rating int    `json:"rating,omitempty"`
}

// UnmarshalJSON accepts either "subj-123" or {"id":"subj-123","name":...}.
func (p *Player) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var ref string
		if err := json.Unmarshal(data, &ref); err != nil {
			return fmt.Errorf("player reference: %w", err)
		}
		*p = Player{ID: ref}
		return nil
	}
	var inline playerInline
	if err := json.Unmarshal(data, &inline); err != nil {
		return fmt.Errorf("inline player: %w", err)
	}
	*p = Player(inline)
	return nil
}
