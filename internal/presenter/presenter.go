package presenter

import (
	"bytes"
	"fmt"
	"log/slog"
	"maps"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/google/uuid"
	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-mudcore/internal/display"
	"github.com/pixil98/go-mudcore/internal/events"
	"github.com/pixil98/go-mudcore/internal/game"
)

// templateFuncs are the sprig functions plus a few world helpers.
var templateFuncs = func() template.FuncMap {
	funcs := sprig.TxtFuncMap()
	funcs["capitalize"] = display.Capitalize
	funcs["exits"] = exitNames
	funcs["itemNames"] = itemNames
	return funcs
}()

type PresenterOpt func(*Presenter)

// WithTemplates replaces or adds templates by Key.
func WithTemplates(overrides map[string]string) PresenterOpt {
	return func(p *Presenter) {
		maps.Copy(p.sources, overrides)
	}
}

// WithWidth sets the column text is wrapped at. Zero disables wrapping.
func WithWidth(width int) PresenterOpt {
	return func(p *Presenter) {
		p.width = width
	}
}

// Presenter turns events into text, one template per event and audience.
type Presenter struct {
	sources   map[string]string
	templates map[string]*template.Template
	width     int
}

// New parses every template up front so a bad one fails at startup.
func New(opts ...PresenterOpt) (*Presenter, error) {
	p := &Presenter{
		sources:   maps.Clone(defaultTemplates),
		templates: map[string]*template.Template{},
		width:     display.DefaultWidth,
	}
	for _, opt := range opts {
		opt(p)
	}

	el := errors.NewErrorList()
	for key, src := range p.sources {
		tmpl, err := template.New(key).Funcs(templateFuncs).Parse(src)
		if err != nil {
			el.Add(fmt.Errorf("parsing template %s: %w", key, err))
			continue
		}
		p.templates[key] = tmpl
	}
	if err := el.Err(); err != nil {
		return nil, err
	}
	return p, nil
}

// view is the data handed to every template.
type view struct {
	Recipient uuid.UUID
	Event     events.Event
}

// Is reports whether ref is the recipient.
func (v view) Is(ref events.ActorRef) bool {
	return ref.Id == v.Recipient
}

// Others returns the names of everyone in occupants but the recipient.
func (v view) Others(occupants []game.ActorInfo) []string {
	var names []string
	for _, o := range occupants {
		if o.Id != v.Recipient {
			names = append(names, o.Name)
		}
	}
	return names
}

// Render returns the text recipient sees for entry. Events without a
// template for the entry's audience render as nothing.
func (p *Presenter) Render(recipient uuid.UUID, entry events.Entry) string {
	if entry.Event == nil {
		return ""
	}

	key := Key(entry.Event.EventName(), entry.Audience)
	tmpl, ok := p.templates[key]
	if !ok {
		slog.Error("no template for event", "template", key)
		return ""
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, view{Recipient: recipient, Event: entry.Event}); err != nil {
		slog.Error("rendering event", "template", key, "error", err)
		return ""
	}

	return display.WrapAt(strings.Trim(buf.String(), "\n"), p.width)
}

func exitNames(room game.RoomView) []string {
	var names []string
	for _, e := range room.VisibleExits() {
		if e.Closure != nil && e.State.Closed {
			names = append(names, fmt.Sprintf("%s (closed)", e.Direction))
			continue
		}
		names = append(names, e.Direction)
	}
	return names
}

func itemNames(items []game.Item) []string {
	names := make([]string, len(items))
	for i, it := range items {
		names[i] = article(it.Name) + " " + it.Name
	}
	return names
}

func article(name string) string {
	if name != "" && strings.ContainsRune("aeiouAEIOU", rune(name[0])) {
		return "an"
	}
	return "a"
}
