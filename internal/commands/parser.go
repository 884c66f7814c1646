package commands

import (
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/pixil98/go-mudcore/internal/game"
)

// ParserWorld is what the parser needs to build a parsing context.
type ParserWorld interface {
	Info(id uuid.UUID) (game.ActorInfo, error)
	RoomOf(id uuid.UUID) (string, error)
	Room(id string) (game.RoomView, error)
}

// shortcuts route a leading punctuation mark to a verb.
var shortcuts = map[byte]string{
	'\'': "say",
	'"':  "say",
	':':  "emote",
}

// Parser turns a line of input into a bound Command.
type Parser struct {
	world  ParserWorld
	binder *Binder
	defs   []Definition
	verbs  map[string]Definition
}

// NewParser indexes defs by verb. Verbs are case-insensitive and must be
// unique across all definitions.
func NewParser(world ParserWorld, binder *Binder, defs []Definition) (*Parser, error) {
	p := &Parser{
		world:  world,
		binder: binder,
		defs:   defs,
		verbs:  map[string]Definition{},
	}
	for _, def := range defs {
		for _, verb := range def.Verbs() {
			verb = strings.ToLower(verb)
			if _, ok := p.verbs[verb]; ok {
				return nil, fmt.Errorf("verb %q already registered", verb)
			}
			p.verbs[verb] = def
		}
	}
	return p, nil
}

// Definitions returns every registered definition in registration order.
func (p *Parser) Definitions() []Definition {
	return slices.Clone(p.defs)
}

// Lookup finds the definition owning verb.
func (p *Parser) Lookup(verb string) (Definition, bool) {
	def, ok := p.verbs[strings.ToLower(verb)]
	return def, ok
}

// Parse resolves the verb of input and lets its definition bind the rest.
// It returns ErrNoInput for a blank line, ErrNotUnderstood for an unknown
// verb and a *UserError when the arguments can't be bound.
func (p *Parser) Parse(actorId uuid.UUID, input string) (Command, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, ErrNoInput
	}

	actor, room, err := actorRoom(p.world, actorId)
	if err != nil {
		return nil, fmt.Errorf("building parsing context: %w", err)
	}

	if verb, ok := shortcuts[input[0]]; ok {
		rest := input[1:]
		if input[0] != ':' && len(rest) > 0 && rest[len(rest)-1] == input[0] {
			rest = rest[:len(rest)-1]
		}
		pc := NewParsingContext(actor, room, rest)
		pc.Verb = verb
		return p.create(pc)
	}

	pc := NewParsingContext(actor, room, input)
	verb, _ := pc.Next()
	pc.Verb = strings.ToLower(verb)
	return p.create(pc)
}

func (p *Parser) create(pc *ParsingContext) (Command, error) {
	def, ok := p.verbs[pc.Verb]
	if !ok {
		return nil, ErrNotUnderstood
	}
	return def.TryCreateCommand(pc, p.binder)
}
