// internal/models/result.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// MatchResult is produced once by the result workflow and afterwards only
// mutated by confirmation and dispute transitions.
type MatchResult struct {
	ID          uuid.UUID `json:"id"`
	ScoreA      int       `json:"scoreA"`
	ScoreB      int       `json:"scoreB"`
	SubmittedBy string    `json:"submittedBy"`
	SubmittedAt time.Time `json:"submittedAt"`

	ConfirmedByOpponent bool `json:"confirmedByOpponent"`
	ValidatedByOfficial bool `json:"validatedByOfficial"`
	Disputed            bool `json:"disputed"`
}

// Final reports whether the result can no longer be confirmed or disputed.
// Validation only gates finality when officials were actually present.
func (r *MatchResult) Final(officialsPresent bool) bool {
	if r == nil {
		return false
	}
	return r.ConfirmedByOpponent && (r.ValidatedByOfficial || !officialsPresent)
}

// Winner returns the side with the higher score, or TeamUnassigned on a tie.
func (r *MatchResult) Winner() Team {
	switch {
	case r.ScoreA > r.ScoreB:
		return TeamA
	case r.ScoreB > r.ScoreA:
		return TeamB
	default:
		return TeamUnassigned
	}
}
