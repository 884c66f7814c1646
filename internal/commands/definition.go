package commands

import (
	"slices"
	"strings"

	"github.com/pixil98/go-mudcore/internal/game"
)

const (
	CategoryCommunication = "communication"
	CategoryInformation   = "information"
	CategoryObjects       = "objects"
	CategoryMovement      = "movement"
	CategorySystem        = "system"
	CategoryAdmin         = "admin"
)

// ChannelOOC is the global out-of-character chat channel.
const ChannelOOC = "ooc"

var channels = []string{ChannelOOC}

// Definition owns one verb family: its verbs, help text and argument binding.
type Definition interface {
	Verbs() []string
	Category() string
	Description() string

	// TryCreateCommand binds the remaining tokens in pc. A returned error is
	// a *UserError whose text can be shown to the player as is.
	TryCreateCommand(pc *ParsingContext, b *Binder) (Command, error)
}

// directions maps every direction verb to the exit direction it walks.
var directions = map[string]string{
	"north": "north", "n": "north",
	"south": "south", "s": "south",
	"east": "east", "e": "east",
	"west": "west", "w": "west",
	"up": "up", "u": "up",
	"down": "down", "d": "down",
	"northeast": "northeast", "ne": "northeast",
	"northwest": "northwest", "nw": "northwest",
	"southeast": "southeast", "se": "southeast",
	"southwest": "southwest", "sw": "southwest",
}

// DefaultDefinitions returns every built-in verb family.
func DefaultDefinitions() []Definition {
	return []Definition{
		sayDefinition{},
		emoteDefinition{},
		whisperDefinition{},
		channelDefinition{channel: ChannelOOC},
		muteDefinition{},
		lookDefinition{},
		examineDefinition{},
		takeDefinition{},
		dropDefinition{},
		giveDefinition{},
		inventoryDefinition{},
		moveDefinition{},
		closureDefinition{action: game.ActionOpen},
		closureDefinition{action: game.ActionClose},
		closureDefinition{action: game.ActionLock},
		closureDefinition{action: game.ActionUnlock},
		whoDefinition{},
		helpDefinition{},
		quitDefinition{},
		kickDefinition{},
	}
}

type sayDefinition struct{}

func (sayDefinition) Verbs() []string  { return []string{"say"} }
func (sayDefinition) Category() string { return CategoryCommunication }
func (sayDefinition) Description() string {
	return "Say something to everyone in the room. Shortcut: 'message"
}

func (sayDefinition) TryCreateCommand(pc *ParsingContext, _ *Binder) (Command, error) {
	return &SayCommand{base: on(pc), Message: pc.RawRest()}, nil
}

type emoteDefinition struct{}

func (emoteDefinition) Verbs() []string     { return []string{"emote", "pose"} }
func (emoteDefinition) Category() string    { return CategoryCommunication }
func (emoteDefinition) Description() string { return "Act something out. Shortcut: :action" }

func (emoteDefinition) TryCreateCommand(pc *ParsingContext, _ *Binder) (Command, error) {
	return &EmoteCommand{base: on(pc), Action: pc.RawRest()}, nil
}

type whisperDefinition struct{}

func (whisperDefinition) Verbs() []string     { return []string{"whisper", "tell"} }
func (whisperDefinition) Category() string    { return CategoryCommunication }
func (whisperDefinition) Description() string { return "Send a private message to anyone online." }

func (whisperDefinition) TryCreateCommand(pc *ParsingContext, b *Binder) (Command, error) {
	token, ok := pc.Next()
	if !ok {
		return nil, NewUserError("Whisper to whom?")
	}
	res := b.OnlinePlayer(pc, token)
	if !res.Ok() {
		return nil, res.Err()
	}
	if res.Self {
		return nil, NewUserError("You can't whisper to yourself.")
	}
	msg := pc.RawRest()
	if msg == "" {
		return nil, NewUserErrorf("What do you want to whisper to %s?", res.Value.Name)
	}
	return &WhisperCommand{base: on(pc), Target: res.Value, Message: msg}, nil
}

type channelDefinition struct {
	channel string
}

func (d channelDefinition) Verbs() []string { return []string{d.channel} }
func (channelDefinition) Category() string  { return CategoryCommunication }
func (d channelDefinition) Description() string {
	return "Talk on the " + d.channel + " channel."
}

func (d channelDefinition) TryCreateCommand(pc *ParsingContext, _ *Binder) (Command, error) {
	return &ChannelCommand{base: on(pc), Channel: d.channel, Message: pc.RawRest()}, nil
}

type muteDefinition struct{}

func (muteDefinition) Verbs() []string     { return []string{"mute", "unmute"} }
func (muteDefinition) Category() string    { return CategoryCommunication }
func (muteDefinition) Description() string { return "Stop or resume hearing a chat channel." }

func (muteDefinition) TryCreateCommand(pc *ParsingContext, _ *Binder) (Command, error) {
	mute := pc.Verb == "mute"
	token, ok := pc.Next()
	if !ok {
		if mute {
			return nil, NewUserError("Mute which channel?")
		}
		return nil, NewUserError("Unmute which channel?")
	}
	channel := strings.ToLower(token)
	if !slices.Contains(channels, channel) {
		return nil, NewUserErrorf("There is no '%s' channel.", token)
	}
	return &MuteCommand{base: on(pc), Channel: channel, Mute: mute}, nil
}

type lookDefinition struct{}

func (lookDefinition) Verbs() []string     { return []string{"look", "l"} }
func (lookDefinition) Category() string    { return CategoryInformation }
func (lookDefinition) Description() string { return "Look around, or look at something." }

func (lookDefinition) TryCreateCommand(pc *ParsingContext, b *Binder) (Command, error) {
	if tok, ok := pc.Peek(); ok && strings.EqualFold(tok, "at") && pc.Remaining() > 1 {
		pc.Next()
	}
	if pc.Remaining() == 0 {
		return &LookCommand{base: on(pc)}, nil
	}
	return examine(pc, b)
}

type examineDefinition struct{}

func (examineDefinition) Verbs() []string     { return []string{"examine", "ex", "x"} }
func (examineDefinition) Category() string    { return CategoryInformation }
func (examineDefinition) Description() string { return "Take a close look at something or someone." }

func (examineDefinition) TryCreateCommand(pc *ParsingContext, b *Binder) (Command, error) {
	if pc.Remaining() == 0 {
		return nil, NewUserError("Examine what?")
	}
	return examine(pc, b)
}

func examine(pc *ParsingContext, b *Binder) (Command, error) {
	res := b.Examinable(pc, pc.RestJoined())
	if !res.Ok() {
		return nil, res.Err()
	}
	target := res.Value
	return &LookCommand{base: on(pc), Target: &target, Self: res.Self}, nil
}

type takeDefinition struct{}

func (takeDefinition) Verbs() []string     { return []string{"take", "get"} }
func (takeDefinition) Category() string    { return CategoryObjects }
func (takeDefinition) Description() string { return "Pick something up." }

func (takeDefinition) TryCreateCommand(pc *ParsingContext, b *Binder) (Command, error) {
	if pc.Remaining() == 0 {
		return nil, NewUserError("Take what?")
	}
	res := b.RoomItem(pc, pc.RestJoined())
	if !res.Ok() {
		return nil, res.Err()
	}
	return &TakeCommand{base: on(pc), Item: res.Value}, nil
}

type dropDefinition struct{}

func (dropDefinition) Verbs() []string     { return []string{"drop"} }
func (dropDefinition) Category() string    { return CategoryObjects }
func (dropDefinition) Description() string { return "Put down something you are carrying." }

func (dropDefinition) TryCreateCommand(pc *ParsingContext, b *Binder) (Command, error) {
	if pc.Remaining() == 0 {
		return nil, NewUserError("Drop what?")
	}
	res := b.InventoryItem(pc, pc.RestJoined())
	if !res.Ok() {
		return nil, res.Err()
	}
	return &DropCommand{base: on(pc), Item: res.Value}, nil
}

type giveDefinition struct{}

func (giveDefinition) Verbs() []string  { return []string{"give"} }
func (giveDefinition) Category() string { return CategoryObjects }
func (giveDefinition) Description() string {
	return "Hand something to someone: give <item> to <player>."
}

func (giveDefinition) TryCreateCommand(pc *ParsingContext, b *Binder) (Command, error) {
	words := pc.Rest()
	if len(words) < 2 {
		return nil, NewUserError("Give what to whom?")
	}

	itemWords, playerWords := words[:len(words)-1], words[len(words)-1:]
	for i := len(words) - 2; i >= 1; i-- {
		if strings.EqualFold(words[i], "to") {
			itemWords, playerWords = words[:i], words[i+1:]
			break
		}
	}

	item := b.InventoryItem(pc, strings.Join(itemWords, " "))
	if !item.Ok() {
		return nil, item.Err()
	}
	who := b.RoomPlayer(pc, strings.Join(playerWords, " "))
	if !who.Ok() {
		return nil, who.Err()
	}
	if who.Self {
		return nil, NewUserError("You already have it.")
	}
	return &GiveCommand{base: on(pc), Item: item.Value, Recipient: who.Value}, nil
}

type inventoryDefinition struct{}

func (inventoryDefinition) Verbs() []string     { return []string{"inventory", "inv", "i"} }
func (inventoryDefinition) Category() string    { return CategoryObjects }
func (inventoryDefinition) Description() string { return "List what you are carrying." }

func (inventoryDefinition) TryCreateCommand(pc *ParsingContext, _ *Binder) (Command, error) {
	return &InventoryCommand{base: on(pc)}, nil
}

type moveDefinition struct{}

func (moveDefinition) Verbs() []string {
	verbs := []string{"go", "walk", "move"}
	for v := range directions {
		verbs = append(verbs, v)
	}
	slices.Sort(verbs[3:])
	return verbs
}
func (moveDefinition) Category() string { return CategoryMovement }
func (moveDefinition) Description() string {
	return "Walk through an exit: go <exit>, or just the direction."
}

func (moveDefinition) TryCreateCommand(pc *ParsingContext, b *Binder) (Command, error) {
	if dir, ok := directions[pc.Verb]; ok {
		res := b.Direction(pc, dir)
		if !res.Ok() {
			return nil, res.Err()
		}
		return &MoveCommand{base: on(pc), Exit: res.Value}, nil
	}

	if pc.Remaining() == 0 {
		return nil, NewUserError("Go where?")
	}
	token := pc.RestJoined()
	var res BindingResult[game.ExitState]
	if dir, ok := directions[strings.ToLower(token)]; ok {
		res = b.Direction(pc, dir)
	} else {
		res = b.Exit(pc, token)
	}
	if !res.Ok() {
		return nil, res.Err()
	}
	return &MoveCommand{base: on(pc), Exit: res.Value}, nil
}

type closureDefinition struct {
	action game.ClosureAction
}

func (d closureDefinition) Verbs() []string { return []string{d.action.String()} }
func (closureDefinition) Category() string  { return CategoryObjects }
func (d closureDefinition) Description() string {
	switch d.action {
	case game.ActionLock, game.ActionUnlock:
		return "Use a key you carry to " + d.action.String() + " a door or container."
	default:
		return d.action.String() + " a door or container."
	}
}

func (d closureDefinition) TryCreateCommand(pc *ParsingContext, b *Binder) (Command, error) {
	if pc.Remaining() == 0 {
		verb := d.action.String()
		return nil, NewUserErrorf("%s what?", strings.ToUpper(verb[:1])+verb[1:])
	}
	token := pc.RestJoined()

	var res BindingResult[Target]
	switch d.action {
	case game.ActionLock, game.ActionUnlock:
		res = b.Lockable(pc, token)
	default:
		res = b.Openable(pc, token)
	}
	if !res.Ok() {
		return nil, res.Err()
	}
	return &ClosureCommand{base: on(pc), Action: d.action, Target: res.Value}, nil
}

type whoDefinition struct{}

func (whoDefinition) Verbs() []string     { return []string{"who"} }
func (whoDefinition) Category() string    { return CategoryInformation }
func (whoDefinition) Description() string { return "List everyone online." }

func (whoDefinition) TryCreateCommand(pc *ParsingContext, _ *Binder) (Command, error) {
	return &WhoCommand{base: on(pc)}, nil
}

type helpDefinition struct{}

func (helpDefinition) Verbs() []string     { return []string{"help", "commands"} }
func (helpDefinition) Category() string    { return CategorySystem }
func (helpDefinition) Description() string { return "List commands, or describe one: help <command>." }

func (helpDefinition) TryCreateCommand(pc *ParsingContext, _ *Binder) (Command, error) {
	return &HelpCommand{base: on(pc), Topic: strings.ToLower(pc.RestJoined())}, nil
}

type quitDefinition struct{}

func (quitDefinition) Verbs() []string     { return []string{"quit"} }
func (quitDefinition) Category() string    { return CategorySystem }
func (quitDefinition) Description() string { return "Leave the world." }

func (quitDefinition) TryCreateCommand(pc *ParsingContext, _ *Binder) (Command, error) {
	return &QuitCommand{base: on(pc)}, nil
}

type kickDefinition struct{}

func (kickDefinition) Verbs() []string     { return []string{"kick"} }
func (kickDefinition) Category() string    { return CategoryAdmin }
func (kickDefinition) Description() string { return "Disconnect a player." }

func (kickDefinition) TryCreateCommand(pc *ParsingContext, b *Binder) (Command, error) {
	if !pc.Actor.Admin {
		return nil, NewUserError("You don't have permission to do that.")
	}
	token, ok := pc.Next()
	if !ok {
		return nil, NewUserError("Kick whom?")
	}
	res := b.OnlinePlayer(pc, token)
	if !res.Ok() {
		return nil, res.Err()
	}
	if res.Self {
		return nil, NewUserError("Use quit to leave.")
	}
	return &KickCommand{base: on(pc), Target: res.Value}, nil
}
