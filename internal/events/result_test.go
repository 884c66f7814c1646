package events

import (
	"testing"

	"github.com/google/uuid"
	"github.com/pixil98/go-testutil"
)

type room []uuid.UUID

func (r room) OccupantIds() []uuid.UUID { return r }

func TestResult_Add(t *testing.T) {
	id := uuid.New()
	ev := &SystemMessageEvent{Text: "hi"}

	r := NewResult().Add(id, ev)

	entries := r.Entries()
	testutil.AssertEqual(t, "len", len(entries), 1)
	testutil.AssertEqual(t, "recipient", entries[0].Recipient, id)
	testutil.AssertEqual(t, "audience", entries[0].Audience, Actor)
	testutil.AssertEqual(t, "event", entries[0].Event, Event(ev))
}

func TestResult_Broadcast(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()

	tests := map[string]struct {
		build  func(r *Result, ev Event) *Result
		expIds []uuid.UUID
		expAud Audience
	}{
		"defaults to observers": {
			build: func(r *Result, ev Event) *Result {
				return r.Broadcast([]uuid.UUID{a, b, c}, ev)
			},
			expIds: []uuid.UUID{a, b, c},
			expAud: Observer,
		},
		"exclusions are skipped": {
			build: func(r *Result, ev Event) *Result {
				return r.Broadcast([]uuid.UUID{a, b, c}, ev, a, c)
			},
			expIds: []uuid.UUID{b},
			expAud: Observer,
		},
		"explicit audience": {
			build: func(r *Result, ev Event) *Result {
				return r.BroadcastAs([]uuid.UUID{a, b}, ev, Actor)
			},
			expIds: []uuid.UUID{a, b},
			expAud: Actor,
		},
		"all but player": {
			build: func(r *Result, ev Event) *Result {
				return r.BroadcastToAllButPlayer(room{a, b, c}, b, ev)
			},
			expIds: []uuid.UUID{a, c},
			expAud: Observer,
		},
		"empty room": {
			build: func(r *Result, ev Event) *Result {
				return r.BroadcastToAllButPlayer(room{}, b, ev)
			},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			ev := &SayEvent{Message: "hello"}
			r := tt.build(NewResult(), ev)

			entries := r.Entries()
			testutil.AssertEqual(t, "len", len(entries), len(tt.expIds))
			for i, e := range entries {
				testutil.AssertEqual(t, "recipient", e.Recipient, tt.expIds[i])
				testutil.AssertEqual(t, "audience", e.Audience, tt.expAud)
				testutil.AssertEqual(t, "same event", e.Event, Event(ev))
			}
		})
	}
}

func TestResult_NilIsEmpty(t *testing.T) {
	var r *Result
	testutil.AssertEqual(t, "len", r.Len(), 0)
	testutil.AssertEqual(t, "entries", len(r.Entries()), 0)
}
