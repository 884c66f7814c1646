package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-mudcore/internal/events"
)

// Handler executes one type of command.
type Handler[C any] interface {
	Handle(ctx context.Context, cmd C) (*events.Result, error)
}

// HandlerFunc adapts a function to a Handler.
type HandlerFunc[C any] func(ctx context.Context, cmd C) (*events.Result, error)

func (f HandlerFunc[C]) Handle(ctx context.Context, cmd C) (*events.Result, error) {
	return f(ctx, cmd)
}

// Handlers holds exactly one handler per command type.
type Handlers struct {
	Say       Handler[*SayCommand]
	Emote     Handler[*EmoteCommand]
	Whisper   Handler[*WhisperCommand]
	Channel   Handler[*ChannelCommand]
	Mute      Handler[*MuteCommand]
	Look      Handler[*LookCommand]
	Take      Handler[*TakeCommand]
	Drop      Handler[*DropCommand]
	Give      Handler[*GiveCommand]
	Inventory Handler[*InventoryCommand]
	Move      Handler[*MoveCommand]
	Closure   Handler[*ClosureCommand]
	Who       Handler[*WhoCommand]
	Help      Handler[*HelpCommand]
	Quit      Handler[*QuitCommand]
	Kick      Handler[*KickCommand]
}

// Validate checks that every command type has a handler.
func (h *Handlers) Validate() error {
	el := errors.NewErrorList()
	check := func(name string, missing bool) {
		if missing {
			el.Add(fmt.Errorf("no handler registered for %s", name))
		}
	}
	check("say", h.Say == nil)
	check("emote", h.Emote == nil)
	check("whisper", h.Whisper == nil)
	check("channel", h.Channel == nil)
	check("mute", h.Mute == nil)
	check("look", h.Look == nil)
	check("take", h.Take == nil)
	check("drop", h.Drop == nil)
	check("give", h.Give == nil)
	check("inventory", h.Inventory == nil)
	check("move", h.Move == nil)
	check("closure", h.Closure == nil)
	check("who", h.Who == nil)
	check("help", h.Help == nil)
	check("quit", h.Quit == nil)
	check("kick", h.Kick == nil)
	return el.Err()
}

// ExecMetrics observes command executions.
type ExecMetrics interface {
	CommandExecuted(name string, err error)
}

// Executor runs bound commands through their handlers.
type Executor struct {
	handlers Handlers
	metrics  ExecMetrics
}

type ExecutorOpt func(*Executor)

// WithExecMetrics records every execution.
func WithExecMetrics(m ExecMetrics) ExecutorOpt {
	return func(e *Executor) {
		e.metrics = m
	}
}

// NewExecutor creates an Executor. Every command type must have a handler.
func NewExecutor(handlers Handlers, opts ...ExecutorOpt) (*Executor, error) {
	if err := handlers.Validate(); err != nil {
		return nil, err
	}
	e := &Executor{handlers: handlers}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Exec runs cmd. A handler error aborts this command only; it is logged
// with the command and actor and returned wrapped in ErrHandlerFault.
// Panics are logged and re-raised.
func (e *Executor) Exec(ctx context.Context, cmd Command) (res *events.Result, err error) {
	name := commandName(cmd)

	defer func() {
		if r := recover(); r != nil {
			slog.ErrorContext(ctx, "command handler panicked", "command", name, "actor", cmd.Actor(), "panic", r)
			e.observe(name, fmt.Errorf("panic: %v", r))
			panic(r)
		}
	}()

	res, err = cmd.dispatch(ctx, &e.handlers)
	e.observe(name, err)
	if err != nil {
		slog.ErrorContext(ctx, "command handler failed", "command", name, "actor", cmd.Actor(), "error", err)
		return nil, fmt.Errorf("%w: %s: %w", ErrHandlerFault, name, err)
	}
	if res == nil {
		res = events.NewResult()
	}
	return res, nil
}

func (e *Executor) observe(name string, err error) {
	if e.metrics != nil {
		e.metrics.CommandExecuted(name, err)
	}
}

type HandlersOpt func(*handlerDeps)

type handlerDeps struct {
	world   World
	persist Persister
	defs    []Definition
}

// WithPersister saves actors whose state a command changed.
func WithPersister(p Persister) HandlersOpt {
	return func(d *handlerDeps) {
		d.persist = p
	}
}

// NewHandlers builds the standard handler for every command type. defs
// backs the help command.
func NewHandlers(world World, defs []Definition, opts ...HandlersOpt) Handlers {
	d := &handlerDeps{world: world, persist: nopPersister{}, defs: defs}
	for _, opt := range opts {
		opt(d)
	}

	return Handlers{
		Say:       &SayHandler{world: d.world},
		Emote:     &EmoteHandler{world: d.world},
		Whisper:   &WhisperHandler{world: d.world},
		Channel:   &ChannelHandler{world: d.world},
		Mute:      &MuteHandler{world: d.world, persist: d.persist},
		Look:      &LookHandler{world: d.world},
		Take:      &TakeHandler{world: d.world, persist: d.persist},
		Drop:      &DropHandler{world: d.world, persist: d.persist},
		Give:      &GiveHandler{world: d.world, persist: d.persist},
		Inventory: &InventoryHandler{world: d.world},
		Move:      &MoveHandler{world: d.world, persist: d.persist},
		Closure:   &ClosureHandler{world: d.world, persist: d.persist},
		Who:       &WhoHandler{world: d.world},
		Help:      &HelpHandler{world: d.world, defs: d.defs},
		Quit:      HandlerFunc[*QuitCommand](handleQuit),
		Kick:      &KickHandler{world: d.world},
	}
}

// tell is a result holding a single system message for one actor.
func tell(id uuid.UUID, format string, args ...any) *events.Result {
	text := format
	if len(args) > 0 {
		text = fmt.Sprintf(format, args...)
	}
	return events.NewResult().Add(id, &events.SystemMessageEvent{Text: text})
}
