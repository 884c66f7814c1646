package player

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/pixil98/go-mudcore/internal"
	"github.com/pixil98/go-mudcore/internal/display"
	"github.com/pixil98/go-mudcore/internal/game"
)

const maxNameTries = 3

// Registry is where actors are looked up by name and new ones are added.
type Registry interface {
	FindActorByName(name string) (game.ActorInfo, bool)
	Register(rec *game.ActorRecord) error
	DefaultRoom() string
}

type loginFlow struct {
	actors Registry
	saver  Saver
}

// Run asks for a name and returns the actor it belongs to, creating one
// for a name nobody has used yet.
func (f *loginFlow) Run(ctx context.Context, r *bufio.Reader, w io.Writer) (game.ActorInfo, error) {
	if _, err := io.WriteString(w, "Welcome!\n"); err != nil {
		return game.ActorInfo{}, err
	}

	for {
		name, err := internal.Prompt(r, w, "By what name do you wish to be known? ",
			internal.WithMaxTries(maxNameTries),
			internal.WithValidator(func(str string) (bool, string) {
				if !game.ValidActorName(str) {
					return false, "Names may only contain letters, please try another.\n"
				}
				return true, ""
			}),
		)
		if err != nil {
			return game.ActorInfo{}, err
		}

		if actor, ok := f.actors.FindActorByName(name); ok {
			return actor, nil
		}

		name = display.Capitalize(strings.ToLower(name))
		ok, err := internal.PromptYN(r, w, fmt.Sprintf("Did I get that right, %s (Y/N)? ", name))
		if err != nil {
			return game.ActorInfo{}, err
		}
		if !ok {
			continue
		}

		actor, err := f.create(ctx, name)
		if err != nil {
			return game.ActorInfo{}, err
		}
		return actor, nil
	}
}

func (f *loginFlow) create(ctx context.Context, name string) (game.ActorInfo, error) {
	rec := &game.ActorRecord{
		Id:   uuid.New(),
		Name: name,
		Room: f.actors.DefaultRoom(),
	}
	if err := f.actors.Register(rec); err != nil {
		return game.ActorInfo{}, fmt.Errorf("registering %s: %w", name, err)
	}
	if err := f.saver.PersistNow(ctx, rec.Id); err != nil {
		return game.ActorInfo{}, fmt.Errorf("saving %s: %w", name, err)
	}
	return game.ActorInfo{Id: rec.Id, Name: rec.Name}, nil
}
