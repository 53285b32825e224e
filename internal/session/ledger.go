// internal/session/ledger.go
package session

import (
	"errors"
	"time"

	"github.com/courtside-app/courtside/internal/models"
)

// ErrInvalidSide rejects set records for anything but team A or B. Ties
// within a set do not exist; exactly one side takes each set.
var ErrInvalidSide = errors.New("set winner must be team A or B")

// SetRecord is one completed set: who took it and how far into the match
// it ended.
type SetRecord struct {
	Winner    models.Team `json:"winner"`
	ElapsedMs int64       `json:"elapsedMs"`
}

// Ledger is the append/undo log of completed sets plus the derived
// per-side tallies. The tallies always equal the count of records won by
// each side; RecordSet and UndoLastSet are exact inverses.
//
// Ledger is not safe for concurrent use; Session serializes access.
type Ledger struct {
	sets   []SetRecord
	scoreA int
	scoreB int
}

// RecordSet appends a set won by side at the given elapsed mark and bumps
// that side's tally. There is no upper bound on set count; the caller
// decides when the match is decided.
func (l *Ledger) RecordSet(side models.Team, elapsed time.Duration) (SetRecord, error) {
	if side != models.TeamA && side != models.TeamB {
		return SetRecord{}, ErrInvalidSide
	}
	rec := SetRecord{Winner: side, ElapsedMs: elapsed.Milliseconds()}
	l.sets = append(l.sets, rec)
	if side == models.TeamA {
		l.scoreA++
	} else {
		l.scoreB++
	}
	return rec, nil
}

// UndoLastSet removes the most recent record and rolls back its tally.
// Returns false without effect when the ledger is empty.
func (l *Ledger) UndoLastSet() (SetRecord, bool) {
	if len(l.sets) == 0 {
		return SetRecord{}, false
	}
	rec := l.sets[len(l.sets)-1]
	l.sets = l.sets[:len(l.sets)-1]
	if rec.Winner == models.TeamA {
		l.scoreA--
	} else {
		l.scoreB--
	}
	return rec, true
}

// Score returns the per-side tallies.
func (l *Ledger) Score() (a, b int) {
	return l.scoreA, l.scoreB
}

// Len returns the number of recorded sets.
func (l *Ledger) Len() int {
	return len(l.sets)
}

// Sets returns a copy of the record list, oldest first.
func (l *Ledger) Sets() []SetRecord {
	out := make([]SetRecord, len(l.sets))
	copy(out, l.sets)
	return out
}

// Restore replaces the ledger with persisted records. Tallies are
// recomputed from the records themselves so a stale persisted tally can
// never disagree with the log.
func (l *Ledger) Restore(sets []SetRecord) {
	l.sets = make([]SetRecord, len(sets))
	copy(l.sets, sets)
	l.scoreA, l.scoreB = 0, 0
	for _, rec := range l.sets {
		if rec.Winner == models.TeamA {
			l.scoreA++
		} else {
			l.scoreB++
		}
	}
}
