// Package timeline builds the ordered list of future phase events for a
// session (§4.8) and picks the next one due relative to a wall-clock
// instant — a pure function of the session record and "now", so the
// worker loop can resume after a restart without losing its place.
package timeline

import (
	"sort"
	"time"

	"silicon-casino/internal/relstore"
)

// Phase names the eight per-round phase kinds this system drives, plus the
// two session-bracket events.
type Phase string

const (
	SessionStart     Phase = "SESSION_START"
	AIMessageStart   Phase = "AI_MESSAGE_START"
	AIMessageEnd     Phase = "AI_MESSAGE_END"
	RoundStart       Phase = "ROUND_START"
	RoundEnd         Phase = "ROUND_END"
	EliminationStart Phase = "ELIMINATION_START"
	EliminationEnd   Phase = "ELIMINATION_END"
	VotingStart      Phase = "VOTING_START"
	VotingEnd        Phase = "VOTING_END"
	SessionEnd       Phase = "SESSION_END"
)

// phaseOrder is the canonical tie-break order named in §4.8: when two
// events share a timestamp, the earlier entry here goes first.
var phaseOrder = map[Phase]int{
	SessionStart:     0,
	AIMessageStart:   1,
	AIMessageEnd:     2,
	RoundStart:       3,
	RoundEnd:         4,
	EliminationStart: 5,
	EliminationEnd:   6,
	VotingStart:      7,
	VotingEnd:        8,
	SessionEnd:       9,
}

// Event is one scheduled phase boundary: a phase kind, the round it belongs
// to (0 for SESSION_START/SESSION_END, which are round-independent), and
// the wall-clock instant it fires at.
type Event struct {
	Phase       Phase
	RoundNumber int
	Time        time.Time
}

// Build produces every phase event for session, in chronological order
// (ties broken by phaseOrder). SESSION_START is included only if now is
// before the session's start time, per §4.8.
func Build(session relstore.Session, now time.Time) []Event {
	events := make([]Event, 0, 2+8*len(session.Rounds))

	if now.Before(session.StartTime) {
		events = append(events, Event{Phase: SessionStart, Time: session.StartTime})
	}
	events = append(events, Event{Phase: SessionEnd, Time: session.EndTime})

	for _, round := range session.Rounds {
		events = append(events,
			Event{Phase: AIMessageStart, RoundNumber: round.Sequence, Time: round.AIMessageStart},
			Event{Phase: AIMessageEnd, RoundNumber: round.Sequence, Time: round.AIMessageEnd},
			Event{Phase: RoundStart, RoundNumber: round.Sequence, Time: round.StartTime},
			Event{Phase: RoundEnd, RoundNumber: round.Sequence, Time: round.EndTime},
			Event{Phase: EliminationStart, RoundNumber: round.Sequence, Time: round.EliminationStart},
			Event{Phase: EliminationEnd, RoundNumber: round.Sequence, Time: round.EliminationEnd},
			Event{Phase: VotingStart, RoundNumber: round.Sequence, Time: round.VotingStartTime},
			Event{Phase: VotingEnd, RoundNumber: round.Sequence, Time: round.VotingEndTime},
		)
	}

	sort.SliceStable(events, func(i, j int) bool {
		if !events[i].Time.Equal(events[j].Time) {
			return events[i].Time.Before(events[j].Time)
		}
		return phaseOrder[events[i].Phase] < phaseOrder[events[j].Phase]
	})
	return events
}

// NextEvent returns the earliest event with Time strictly after now, or
// false if now is at or past the session's end time. It is a pure function
// of the built timeline, which is what makes the worker loop restart-safe:
// resuming after a crash just re-derives the same answer from wall time.
func NextEvent(events []Event, now time.Time) (Event, bool) {
	var best Event
	found := false
	for _, ev := range events {
		if !ev.Time.After(now) {
			continue
		}
		if !found || ev.Time.Before(best.Time) ||
			(ev.Time.Equal(best.Time) && phaseOrder[ev.Phase] < phaseOrder[best.Phase]) {
			best, found = ev, true
		}
	}
	return best, found
}
