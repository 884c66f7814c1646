package presenter

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/pixil98/go-mudcore/internal/events"
	"github.com/pixil98/go-mudcore/internal/game"
	"github.com/pixil98/go-testutil"
)

var (
	alice = events.ActorRef{Id: uuid.New(), Name: "Alice"}
	bob   = events.ActorRef{Id: uuid.New(), Name: "Bob"}
	key   = events.ItemRef{Id: uuid.New(), Name: "brass key"}
)

func TestPresenter_Render(t *testing.T) {
	tests := map[string]struct {
		recipient uuid.UUID
		event     events.Event
		audience  events.Audience
		exp       string
	}{
		"system text": {
			recipient: alice.Id,
			event:     &events.SystemMessageEvent{Text: "Say what?"},
			exp:       "Say what?",
		},
		"say to speaker": {
			recipient: alice.Id,
			event:     &events.SayEvent{Speaker: alice, Message: "hi"},
			exp:       `You say, "hi"`,
		},
		"say to observer": {
			recipient: bob.Id,
			event:     &events.SayEvent{Speaker: alice, Message: "hi"},
			audience:  events.Observer,
			exp:       `Alice says, "hi"`,
		},
		"whisper to sender": {
			recipient: alice.Id,
			event:     &events.WhisperEvent{From: alice, To: bob, Message: "psst"},
			exp:       `You whisper to Bob, "psst"`,
		},
		"whisper to target": {
			recipient: bob.Id,
			event:     &events.WhisperEvent{From: alice, To: bob, Message: "psst"},
			exp:       `Alice whispers to you, "psst"`,
		},
		"channel": {
			recipient: bob.Id,
			event:     &events.ChannelEvent{Channel: "ooc", Speaker: alice, Message: "lag?"},
			audience:  events.Observer,
			exp:       "[OOC] Alice: lag?",
		},
		"mute": {
			recipient: alice.Id,
			event:     &events.MuteEvent{Channel: "ooc", Muted: true},
			exp:       "You will no longer hear the ooc channel.",
		},
		"item given to receiver": {
			recipient: bob.Id,
			event:     &events.ItemGivenEvent{From: alice, To: bob, Item: key},
			exp:       "Alice gives you the brass key.",
		},
		"item given to room": {
			recipient: uuid.New(),
			event:     &events.ItemGivenEvent{From: alice, To: bob, Item: key},
			audience:  events.Observer,
			exp:       "Alice gives the brass key to Bob.",
		},
		"closure observer": {
			recipient: bob.Id,
			event:     &events.ClosureEvent{Actor: alice, Action: game.ActionUnlock, Name: "door"},
			audience:  events.Observer,
			exp:       "Alice unlocks the door.",
		},
		"empty inventory": {
			recipient: alice.Id,
			event:     &events.InventoryEvent{},
			exp:       "You aren't carrying anything.",
		},
		"inventory": {
			recipient: alice.Id,
			event:     &events.InventoryEvent{Items: []events.ItemRef{key}},
			exp:       "You are carrying:\n  brass key",
		},
		"examine locked door": {
			recipient: alice.Id,
			event: &events.ExamineEvent{
				Actor:       alice,
				Target:      "door",
				Description: "a heavy oak door.",
				Closeable:   true,
				State:       game.ClosureState{Closed: true, Locked: true},
			},
			exp: "A heavy oak door. It is closed and locked.",
		},
		"examine plain": {
			recipient: alice.Id,
			event:     &events.ExamineEvent{Actor: alice, Target: "Bob"},
			exp:       "You see nothing special about Bob.",
		},
		"kick confirmed": {
			recipient: alice.Id,
			event:     &events.KickEvent{By: alice, Target: bob},
			exp:       "You kick Bob out.",
		},
		"kicked": {
			recipient: bob.Id,
			event:     &events.DisconnectEvent{Kicked: true, By: alice},
			exp:       "You have been kicked out by Alice.",
		},
		"missing audience renders nothing": {
			recipient: bob.Id,
			event:     &events.InventoryEvent{},
			audience:  events.Observer,
			exp:       "",
		},
	}

	p, err := New()
	if err != nil {
		t.Fatalf("creating presenter: %v", err)
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got := p.Render(tt.recipient, events.Entry{Recipient: tt.recipient, Event: tt.event, Audience: tt.audience})
			testutil.AssertEqual(t, "text", got, tt.exp)
		})
	}
}

func TestPresenter_RenderRoom(t *testing.T) {
	room := game.RoomView{
		Name:        "The Hall",
		Description: "A long stone hall.",
		Exits: []game.ExitState{
			{Exit: game.Exit{Direction: "north", Closure: &game.Closure{Name: "door"}}, State: game.ClosureState{Closed: true}},
			{Exit: game.Exit{Direction: "east"}},
			{Exit: game.Exit{Direction: "down", Hidden: true}},
		},
		Items: []game.Item{
			{ItemSpec: game.ItemSpec{Name: "lantern"}},
			{ItemSpec: game.ItemSpec{Name: "oak chest"}},
		},
		Occupants: []game.ActorInfo{
			{Id: alice.Id, Name: "Alice"},
			{Id: bob.Id, Name: "Bob"},
		},
	}

	p, err := New()
	if err != nil {
		t.Fatalf("creating presenter: %v", err)
	}

	got := p.Render(alice.Id, events.Entry{Recipient: alice.Id, Event: &events.RoomDescriptionEvent{Room: room}})
	exp := strings.Join([]string{
		"The Hall",
		"A long stone hall.",
		"Exits: north (closed), east",
		"You see a lantern, an oak chest here.",
		"Bob is here.",
	}, "\n")
	testutil.AssertEqual(t, "room", got, exp)

	empty := game.RoomView{Name: "Void", Description: "Nothing."}
	got = p.Render(alice.Id, events.Entry{Recipient: alice.Id, Event: &events.RoomDescriptionEvent{Room: empty}})
	testutil.AssertEqual(t, "empty room", got, "Void\nNothing.\nThere are no obvious exits.")
}

func TestPresenter_Options(t *testing.T) {
	tests := map[string]struct {
		opts   []PresenterOpt
		exp    string
		expErr string
	}{
		"override": {
			opts: []PresenterOpt{WithTemplates(map[string]string{
				Key("say", events.Actor): `You say: {{ .Event.Message }}`,
			})},
			exp: "You say: " + strings.Repeat("word ", 3) + "word",
		},
		"wrap width": {
			opts: []PresenterOpt{WithWidth(20)},
			exp:  `You say, "word word` + "\n" + `word word"`,
		},
		"bad template": {
			opts: []PresenterOpt{WithTemplates(map[string]string{
				"say.actor": `{{ .Event.Message `,
			})},
			expErr: "parsing template say.actor",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			p, err := New(tt.opts...)
			if tt.expErr != "" {
				testutil.AssertErrorContains(t, err, tt.expErr)
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			ev := &events.SayEvent{Speaker: alice, Message: "word word word word"}
			got := p.Render(alice.Id, events.Entry{Recipient: alice.Id, Event: ev})
			testutil.AssertEqual(t, "text", got, tt.exp)
		})
	}
}
