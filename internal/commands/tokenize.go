package commands

import (
	"strings"
	"unicode"

	"github.com/pixil98/go-mudcore/internal/game"
)

// Token is one word of input. Offset is the byte position in the original
// line where the token starts, including any opening quote.
type Token struct {
	Value  string
	Offset int
}

// Tokenize splits input on whitespace outside of single or double quotes.
// Quoted spans become one token with the quotes removed; an unterminated
// quote runs to the end of the input. Empty tokens are never produced.
func Tokenize(input string) []Token {
	var tokens []Token
	var sb strings.Builder
	start := -1
	var quote rune

	flush := func() {
		if sb.Len() > 0 {
			tokens = append(tokens, Token{Value: sb.String(), Offset: start})
		}
		sb.Reset()
		start = -1
	}

	for i, r := range input {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
				continue
			}
			sb.WriteRune(r)
		case r == '"' || r == '\'':
			if start < 0 {
				start = i
			}
			quote = r
		case unicode.IsSpace(r):
			flush()
		default:
			if start < 0 {
				start = i
			}
			sb.WriteRune(r)
		}
	}
	flush()

	return tokens
}

// ParsingContext carries one line of input through parsing and binding.
type ParsingContext struct {
	Actor game.ActorInfo
	Room  game.RoomView

	// Verb is the lower-cased verb the line was routed by.
	Verb string

	input  string
	tokens []Token
	pos    int
}

// NewParsingContext tokenizes input for the given actor and room.
func NewParsingContext(actor game.ActorInfo, room game.RoomView, input string) *ParsingContext {
	return &ParsingContext{
		Actor:  actor,
		Room:   room,
		input:  input,
		tokens: Tokenize(input),
	}
}

// Next consumes and returns the next token.
func (pc *ParsingContext) Next() (string, bool) {
	if pc.pos >= len(pc.tokens) {
		return "", false
	}
	t := pc.tokens[pc.pos]
	pc.pos++
	return t.Value, true
}

// Peek returns the next token without consuming it.
func (pc *ParsingContext) Peek() (string, bool) {
	if pc.pos >= len(pc.tokens) {
		return "", false
	}
	return pc.tokens[pc.pos].Value, true
}

// Remaining returns the number of unconsumed tokens.
func (pc *ParsingContext) Remaining() int {
	return len(pc.tokens) - pc.pos
}

// Rest consumes and returns all remaining tokens.
func (pc *ParsingContext) Rest() []string {
	var out []string
	for _, t := range pc.tokens[pc.pos:] {
		out = append(out, t.Value)
	}
	pc.pos = len(pc.tokens)
	return out
}

// RestJoined consumes the remaining tokens and joins them with single spaces.
func (pc *ParsingContext) RestJoined() string {
	return strings.Join(pc.Rest(), " ")
}

// RawRest consumes the remaining tokens and returns the input text they
// came from, with quotes kept and whitespace outside quotes collapsed.
func (pc *ParsingContext) RawRest() string {
	if pc.pos >= len(pc.tokens) {
		return ""
	}
	raw := pc.input[pc.tokens[pc.pos].Offset:]
	pc.pos = len(pc.tokens)
	return collapseSpace(raw)
}

// collapseSpace trims s and folds each run of whitespace outside a quoted
// span into one space. A quote only opens a span at the start of a word, so
// the apostrophe in "it's" is plain text.
func collapseSpace(s string) string {
	var sb strings.Builder
	var quote rune
	pending := false
	atWord := true

	for _, r := range strings.TrimSpace(s) {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
			sb.WriteRune(r)
		case unicode.IsSpace(r):
			pending = true
			atWord = true
		default:
			if pending {
				sb.WriteByte(' ')
				pending = false
			}
			if atWord && (r == '"' || r == '\'') {
				quote = r
			}
			atWord = false
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
