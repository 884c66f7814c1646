package events

import (
	"github.com/google/uuid"
	"github.com/pixil98/go-mudcore/internal/game"
)

// ActorRef is the event-facing view of an actor.
type ActorRef struct {
	Id   uuid.UUID
	Name string
}

func ActorRefFromInfo(a game.ActorInfo) ActorRef {
	return ActorRef{Id: a.Id, Name: a.Name}
}

// ItemRef is the event-facing view of an item.
type ItemRef struct {
	Id   uuid.UUID
	Name string
}

func ItemRefFromItem(it game.Item) ItemRef {
	return ItemRef{Id: it.Id, Name: it.Name}
}

// SystemMessageEvent is plain feedback text for a single actor.
type SystemMessageEvent struct {
	Text string
}

func (*SystemMessageEvent) EventName() string { return "system" }

type SayEvent struct {
	Speaker ActorRef
	Message string
}

func (*SayEvent) EventName() string { return "say" }

type EmoteEvent struct {
	Actor  ActorRef
	Action string
}

func (*EmoteEvent) EventName() string { return "emote" }

// WhisperEvent is a private message. Both parties receive it as actors.
type WhisperEvent struct {
	From    ActorRef
	To      ActorRef
	Message string
}

func (*WhisperEvent) EventName() string { return "whisper" }

type ChannelEvent struct {
	Channel string
	Speaker ActorRef
	Message string
}

func (*ChannelEvent) EventName() string { return "channel" }

type MuteEvent struct {
	Channel string
	Muted   bool
}

func (*MuteEvent) EventName() string { return "mute" }

// HelpTopic describes one command family.
type HelpTopic struct {
	Verbs       []string
	Category    string
	Description string
}

type HelpEvent struct {
	Topics []HelpTopic
}

func (*HelpEvent) EventName() string { return "help" }

type RoomDescriptionEvent struct {
	Room game.RoomView
}

func (*RoomDescriptionEvent) EventName() string { return "room" }

// ExamineEvent describes a close look at something.
type ExamineEvent struct {
	Actor       ActorRef
	Target      string
	Description string
	// Self is set when the actor examined themselves.
	Self bool

	// Closeable targets report their closure state.
	Closeable bool
	State     game.ClosureState
}

func (*ExamineEvent) EventName() string { return "examine" }

type ItemTakenEvent struct {
	Actor ActorRef
	Item  ItemRef
}

func (*ItemTakenEvent) EventName() string { return "item_taken" }

type ItemDroppedEvent struct {
	Actor ActorRef
	Item  ItemRef
}

func (*ItemDroppedEvent) EventName() string { return "item_dropped" }

// ItemGivenEvent goes to the giver and receiver as actors and to the rest
// of the room as observers.
type ItemGivenEvent struct {
	From ActorRef
	To   ActorRef
	Item ItemRef
}

func (*ItemGivenEvent) EventName() string { return "item_given" }

type InventoryEvent struct {
	Items []ItemRef
}

func (*InventoryEvent) EventName() string { return "inventory" }

type ClosureEvent struct {
	Actor  ActorRef
	Action game.ClosureAction
	Name   string
}

func (*ClosureEvent) EventName() string { return "closure" }

type ActorDepartedEvent struct {
	Actor     ActorRef
	Direction string
}

func (*ActorDepartedEvent) EventName() string { return "departed" }

type ActorArrivedEvent struct {
	Actor ActorRef
}

func (*ActorArrivedEvent) EventName() string { return "arrived" }

type WhoEvent struct {
	Actors []ActorRef
}

func (*WhoEvent) EventName() string { return "who" }

// KickEvent confirms a kick to the admin who gave it.
type KickEvent struct {
	By     ActorRef
	Target ActorRef
}

func (*KickEvent) EventName() string { return "kick" }

// DisconnectEvent tells a recipient their connection is about to be closed.
// Delivery layers close the session after the text has been sent.
type DisconnectEvent struct {
	Kicked bool
	By     ActorRef
}

func (*DisconnectEvent) EventName() string { return "disconnect" }

// Presence events announce session changes to a room.

type ActorSpawnedEvent struct {
	Actor ActorRef
}

func (*ActorSpawnedEvent) EventName() string { return "spawned" }

type ActorDespawnedEvent struct {
	Actor ActorRef
}

func (*ActorDespawnedEvent) EventName() string { return "despawned" }

type ActorLinkdeadEvent struct {
	Actor ActorRef
}

func (*ActorLinkdeadEvent) EventName() string { return "linkdead" }

type ActorReconnectedEvent struct {
	Actor ActorRef
}

func (*ActorReconnectedEvent) EventName() string { return "reconnected" }
