package commands

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/pixil98/go-mudcore/internal/game"
)

const (
	msgNotFound          = "You don't see a '%s' here."
	msgNotCarrying       = "You aren't carrying a '%s'."
	msgNotOnline         = "No one named '%s' is online."
	msgAmbiguous         = "Which '%s' do you mean?"
	msgIndexOutOfRange   = "You don't see that many '%s's."
	msgSelfNotApplicable = "You can't do that to yourself."
	msgNoExit            = "You can't go that way."
)

// BindingResult is either a bound value or a user-facing error, never both.
type BindingResult[T any] struct {
	Value T

	// Self is set when the token referred to the actor.
	Self bool

	// Error is the user-facing failure text.
	Error string

	// Candidates holds the matches of an ambiguous token.
	Candidates []T

	// Choices names the candidates, for presenting a numbered list.
	Choices []string
}

// Ok reports whether a value was bound.
func (r BindingResult[T]) Ok() bool {
	return r.Error == ""
}

// Err returns the failure as a *UserError, or nil on success.
func (r BindingResult[T]) Err() error {
	if r.Ok() {
		return nil
	}
	return &UserError{Message: r.Error, Choices: r.Choices}
}

func bindFailure[T any](format, token string) BindingResult[T] {
	return BindingResult[T]{Error: fmt.Sprintf(format, token)}
}

// Target is anything within the actor's reach that can be named: an item,
// an exit or an actor. Exactly one field is set.
type Target struct {
	Item  *game.Item
	Exit  *game.ExitState
	Actor *game.ActorInfo
}

// Name is how the target is referred to in messages.
func (t Target) Name() string {
	switch {
	case t.Item != nil:
		return t.Item.Name
	case t.Exit != nil:
		if t.Exit.Closure != nil {
			return t.Exit.Closure.Name
		}
		return t.Exit.Direction
	case t.Actor != nil:
		return t.Actor.Name
	}
	return ""
}

// Terms returns what the target answers to.
func (t Target) Terms() Terms {
	switch {
	case t.Item != nil:
		return itemTerms(*t.Item)
	case t.Exit != nil:
		return exitTerms(*t.Exit)
	case t.Actor != nil:
		return actorTerms(*t.Actor)
	}
	return Terms{}
}

// Closure returns the target's closure definition, if it has one.
func (t Target) Closure() *game.Closure {
	switch {
	case t.Item != nil:
		return t.Item.Closure
	case t.Exit != nil:
		return t.Exit.Closure
	}
	return nil
}

// ClosureTarget converts the target for world closure operations.
func (t Target) ClosureTarget() game.ClosureTarget {
	if t.Exit != nil {
		return game.ClosureTarget{Direction: t.Exit.Direction}
	}
	if t.Item != nil {
		return game.ClosureTarget{ItemId: t.Item.Id}
	}
	return game.ClosureTarget{}
}

func itemTerms(it game.Item) Terms {
	return Terms{Name: it.Name, Keywords: it.Keywords}
}

func exitTerms(e game.ExitState) Terms {
	kws := append([]string{}, e.Aliases...)
	kws = append(kws, e.Keywords...)
	if e.Closure != nil {
		kws = append(kws, e.Closure.Name)
	}
	return Terms{Name: e.Direction, Keywords: kws}
}

func actorTerms(a game.ActorInfo) Terms {
	return Terms{Name: a.Name}
}

// BinderWorld is the part of the world the binder searches beyond the
// parsing context's room snapshot.
type BinderWorld interface {
	Inventory(id uuid.UUID) ([]game.Item, error)
	ActiveActors() []game.ActorInfo
}

// Binder resolves command arguments against the right search scope.
type Binder struct {
	world BinderWorld
}

// NewBinder creates a Binder backed by world.
func NewBinder(world BinderWorld) *Binder {
	return &Binder{world: world}
}

// InventoryItem binds an item the actor is carrying.
func (b *Binder) InventoryItem(pc *ParsingContext, token string) BindingResult[game.Item] {
	return bindItem(token, b.inventory(pc), msgNotCarrying)
}

// RoomItem binds an item lying in the actor's room.
func (b *Binder) RoomItem(pc *ParsingContext, token string) BindingResult[game.Item] {
	return bindItem(token, pc.Room.Items, msgNotFound)
}

// OnlinePlayer binds any spawned actor in the world.
func (b *Binder) OnlinePlayer(pc *ParsingContext, token string) BindingResult[game.ActorInfo] {
	return bindActor(pc, token, b.world.ActiveActors(), msgNotOnline)
}

// RoomPlayer binds an actor standing in the same room.
func (b *Binder) RoomPlayer(pc *ParsingContext, token string) BindingResult[game.ActorInfo] {
	return bindActor(pc, token, pc.Room.Occupants, msgNotFound)
}

// Exit binds an exit of the actor's room. An exact direction or alias wins
// outright so that "e" means east even when west also contains an "e".
func (b *Binder) Exit(pc *ParsingContext, token string) BindingResult[game.ExitState] {
	if q := ParseQuery(token); !q.Indexed {
		if e, ok := exactExit(pc.Room.Exits, q.Name); ok {
			return BindingResult[game.ExitState]{Value: e}
		}
	}

	res, err := Search(token, pc.Room.Exits, exitTerms)
	if err != nil {
		return bindFailure[game.ExitState](msgNotFound, token)
	}
	if res.Status == SearchSelf {
		return BindingResult[game.ExitState]{Error: msgSelfNotApplicable}
	}
	return translate(token, res, exitTerms, msgNotFound)
}

// Direction binds the exit leading exactly toward dir, by direction or alias.
// Partial names never match, so "north" does not walk a northeast exit.
func (b *Binder) Direction(pc *ParsingContext, dir string) BindingResult[game.ExitState] {
	if e, ok := exactExit(pc.Room.Exits, dir); ok {
		return BindingResult[game.ExitState]{Value: e}
	}
	return BindingResult[game.ExitState]{Error: msgNoExit}
}

func exactExit(exits []game.ExitState, name string) (game.ExitState, bool) {
	target := fold(name)
	for _, e := range exits {
		if fold(e.Direction) == target {
			return e, true
		}
		for _, a := range e.Aliases {
			if fold(a) == target {
				return e, true
			}
		}
	}
	return game.ExitState{}, false
}

// Openable binds something with a closure: carried items, then room items,
// then exits.
func (b *Binder) Openable(pc *ParsingContext, token string) BindingResult[Target] {
	return b.closureTarget(pc, token, func(c *game.Closure) bool { return true })
}

// Lockable binds something with a lock, searched like Openable.
func (b *Binder) Lockable(pc *ParsingContext, token string) BindingResult[Target] {
	return b.closureTarget(pc, token, func(c *game.Closure) bool { return c.Lock != nil })
}

func (b *Binder) closureTarget(pc *ParsingContext, token string, keep func(*game.Closure) bool) BindingResult[Target] {
	var carried, lying, exits []Target
	for _, t := range itemTargets(b.inventory(pc)) {
		if c := t.Closure(); c != nil && keep(c) {
			carried = append(carried, t)
		}
	}
	for _, t := range itemTargets(pc.Room.Items) {
		if c := t.Closure(); c != nil && keep(c) {
			lying = append(lying, t)
		}
	}
	for _, t := range exitTargets(pc.Room.Exits) {
		if c := t.Closure(); c != nil && keep(c) {
			exits = append(exits, t)
		}
	}

	res := firstScope(token, carried, lying, exits)
	if res.Self {
		return BindingResult[Target]{Error: msgSelfNotApplicable}
	}
	return res
}

// Examinable binds anything the actor could look at: carried items, then
// room items, then exits, then people in the room. The first scope with
// any match decides.
func (b *Binder) Examinable(pc *ParsingContext, token string) BindingResult[Target] {
	var people []Target
	for i := range pc.Room.Occupants {
		people = append(people, Target{Actor: &pc.Room.Occupants[i]})
	}

	res := firstScope(token,
		itemTargets(b.inventory(pc)),
		itemTargets(pc.Room.Items),
		exitTargets(pc.Room.Exits),
		people,
	)
	if res.Self {
		actor := pc.Actor
		res.Value = Target{Actor: &actor}
	}
	return res
}

// firstScope searches each scope in turn. The first scope where anything
// answers to the name decides, including ambiguity and bad indexes.
func firstScope(token string, scopes ...[]Target) BindingResult[Target] {
	for _, scope := range scopes {
		res, err := Search(token, scope, Target.Terms)
		if err != nil {
			return bindFailure[Target](msgNotFound, token)
		}
		if res.Status == SearchSelf {
			return BindingResult[Target]{Self: true}
		}
		if res.Matches > 0 {
			return translate(token, res, Target.Terms, msgNotFound)
		}
	}
	return bindFailure[Target](msgNotFound, token)
}

func bindItem(token string, items []game.Item, notFound string) BindingResult[game.Item] {
	res, err := Search(token, items, itemTerms)
	if err != nil {
		return bindFailure[game.Item](notFound, token)
	}
	if res.Status == SearchSelf {
		return BindingResult[game.Item]{Error: msgSelfNotApplicable}
	}
	return translate(token, res, itemTerms, notFound)
}

func bindActor(pc *ParsingContext, token string, actors []game.ActorInfo, notFound string) BindingResult[game.ActorInfo] {
	res, err := Search(token, actors, actorTerms)
	if err != nil {
		return bindFailure[game.ActorInfo](notFound, token)
	}
	if res.Status == SearchSelf {
		return BindingResult[game.ActorInfo]{Value: pc.Actor, Self: true}
	}
	return translate(token, res, actorTerms, notFound)
}

// translate turns a search outcome into a binding outcome with the
// matching user-facing text.
func translate[T any](token string, res SearchResult[T], terms func(T) Terms, notFound string) BindingResult[T] {
	switch res.Status {
	case SearchFound:
		return BindingResult[T]{Value: res.Match}
	case SearchAmbiguous:
		out := BindingResult[T]{
			Error:      fmt.Sprintf(msgAmbiguous, token),
			Candidates: res.Candidates,
		}
		for _, c := range res.Candidates {
			out.Choices = append(out.Choices, terms(c).Name)
		}
		return out
	case SearchIndexOutOfRange:
		return bindFailure[T](msgIndexOutOfRange, res.Name)
	default:
		return bindFailure[T](notFound, token)
	}
}

func (b *Binder) inventory(pc *ParsingContext) []game.Item {
	items, err := b.world.Inventory(pc.Actor.Id)
	if err != nil {
		return nil
	}
	return items
}

func itemTargets(items []game.Item) []Target {
	out := make([]Target, len(items))
	for i := range items {
		out[i] = Target{Item: &items[i]}
	}
	return out
}

func exitTargets(exits []game.ExitState) []Target {
	out := make([]Target, len(exits))
	for i := range exits {
		out[i] = Target{Exit: &exits[i]}
	}
	return out
}
