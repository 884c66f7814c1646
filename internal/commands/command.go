package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/pixil98/go-mudcore/internal/events"
	"github.com/pixil98/go-mudcore/internal/game"
)

// Command is a fully bound command, ready to execute. The set of commands is
// closed: each type routes itself to its handler in Handlers.
type Command interface {
	Actor() uuid.UUID
	dispatch(ctx context.Context, h *Handlers) (*events.Result, error)
}

type base struct {
	actor uuid.UUID
}

func (b base) Actor() uuid.UUID { return b.actor }

func on(pc *ParsingContext) base {
	return base{actor: pc.Actor.Id}
}

// commandName returns a short label such as "Say" for logs and metrics.
func commandName(cmd Command) string {
	name := fmt.Sprintf("%T", cmd)
	name = name[strings.LastIndex(name, ".")+1:]
	return strings.TrimSuffix(name, "Command")
}

type SayCommand struct {
	base
	Message string
}

func (c *SayCommand) dispatch(ctx context.Context, h *Handlers) (*events.Result, error) {
	return h.Say.Handle(ctx, c)
}

type EmoteCommand struct {
	base
	Action string
}

func (c *EmoteCommand) dispatch(ctx context.Context, h *Handlers) (*events.Result, error) {
	return h.Emote.Handle(ctx, c)
}

type WhisperCommand struct {
	base
	Target  game.ActorInfo
	Message string
}

func (c *WhisperCommand) dispatch(ctx context.Context, h *Handlers) (*events.Result, error) {
	return h.Whisper.Handle(ctx, c)
}

type ChannelCommand struct {
	base
	Channel string
	Message string
}

func (c *ChannelCommand) dispatch(ctx context.Context, h *Handlers) (*events.Result, error) {
	return h.Channel.Handle(ctx, c)
}

type MuteCommand struct {
	base
	Channel string
	Mute    bool
}

func (c *MuteCommand) dispatch(ctx context.Context, h *Handlers) (*events.Result, error) {
	return h.Mute.Handle(ctx, c)
}

// LookCommand looks at the room, or at Target when set.
type LookCommand struct {
	base
	Target *Target
	Self   bool
}

func (c *LookCommand) dispatch(ctx context.Context, h *Handlers) (*events.Result, error) {
	return h.Look.Handle(ctx, c)
}

type TakeCommand struct {
	base
	Item game.Item
}

func (c *TakeCommand) dispatch(ctx context.Context, h *Handlers) (*events.Result, error) {
	return h.Take.Handle(ctx, c)
}

type DropCommand struct {
	base
	Item game.Item
}

func (c *DropCommand) dispatch(ctx context.Context, h *Handlers) (*events.Result, error) {
	return h.Drop.Handle(ctx, c)
}

type GiveCommand struct {
	base
	Item      game.Item
	Recipient game.ActorInfo
}

func (c *GiveCommand) dispatch(ctx context.Context, h *Handlers) (*events.Result, error) {
	return h.Give.Handle(ctx, c)
}

type InventoryCommand struct {
	base
}

func (c *InventoryCommand) dispatch(ctx context.Context, h *Handlers) (*events.Result, error) {
	return h.Inventory.Handle(ctx, c)
}

type MoveCommand struct {
	base
	Exit game.ExitState
}

func (c *MoveCommand) dispatch(ctx context.Context, h *Handlers) (*events.Result, error) {
	return h.Move.Handle(ctx, c)
}

type ClosureCommand struct {
	base
	Action game.ClosureAction
	Target Target
}

func (c *ClosureCommand) dispatch(ctx context.Context, h *Handlers) (*events.Result, error) {
	return h.Closure.Handle(ctx, c)
}

type WhoCommand struct {
	base
}

func (c *WhoCommand) dispatch(ctx context.Context, h *Handlers) (*events.Result, error) {
	return h.Who.Handle(ctx, c)
}

type HelpCommand struct {
	base
	Topic string
}

func (c *HelpCommand) dispatch(ctx context.Context, h *Handlers) (*events.Result, error) {
	return h.Help.Handle(ctx, c)
}

type QuitCommand struct {
	base
}

func (c *QuitCommand) dispatch(ctx context.Context, h *Handlers) (*events.Result, error) {
	return h.Quit.Handle(ctx, c)
}

type KickCommand struct {
	base
	Target game.ActorInfo
}

func (c *KickCommand) dispatch(ctx context.Context, h *Handlers) (*events.Result, error) {
	return h.Kick.Handle(ctx, c)
}
