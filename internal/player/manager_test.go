package player

import (
	"bytes"
	"context"
	"errors"
	"io"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pixil98/go-mudcore/internal/commands"
	"github.com/pixil98/go-mudcore/internal/events"
	"github.com/pixil98/go-mudcore/internal/session"
	"github.com/pixil98/go-testutil"
)

type fakeGateway struct {
	mu        sync.Mutex
	attachErr error
	started   chan session.OutputChannel
	ended     []session.ConnectionId
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{started: make(chan session.OutputChannel, 1)}
}

func (g *fakeGateway) OnSessionStarted(_ context.Context, _ uuid.UUID, ch session.OutputChannel) (session.ConnectionId, error) {
	if g.attachErr != nil {
		return 0, g.attachErr
	}
	g.started <- ch
	return 7, nil
}

func (g *fakeGateway) OnSessionEnded(_ context.Context, _ uuid.UUID, connId session.ConnectionId) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.ended = append(g.ended, connId)
}

// scriptedParser treats a few inputs specially and turns everything else
// into a say command.
type scriptedParser struct{}

func (scriptedParser) Parse(_ uuid.UUID, input string) (commands.Command, error) {
	switch input {
	case "":
		return nil, commands.ErrNoInput
	case "xyzzy":
		return nil, commands.ErrNotUnderstood
	case "get thing":
		return nil, &commands.UserError{Message: "Which thing?", Choices: []string{"a rock", "a stick"}}
	case "broken":
		return nil, errors.New("binder exploded")
	}
	return &commands.SayCommand{Message: input}, nil
}

type echoExecutor struct {
	id uuid.UUID
}

func (e echoExecutor) Exec(_ context.Context, cmd commands.Command) (*events.Result, error) {
	say := cmd.(*commands.SayCommand)
	switch say.Message {
	case "panic":
		panic("handler bug")
	case "fail":
		return nil, commands.ErrHandlerFault
	}
	return events.NewResult().Add(e.id, &events.SystemMessageEvent{Text: say.Message}), nil
}

type textDeliverer struct {
	mu    sync.Mutex
	texts []string
}

func (d *textDeliverer) Deliver(_ context.Context, res *events.Result) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, e := range res.Entries() {
		d.texts = append(d.texts, e.Event.(*events.SystemMessageEvent).Text)
	}
}

// relayDeliverer hands results to a background worker that delivers them
// after a delay, the way a message broker relay does.
type relayDeliverer struct {
	queue chan *events.Result
	done  chan struct{}
	out   textDeliverer
}

func newRelayDeliverer() *relayDeliverer {
	d := &relayDeliverer{queue: make(chan *events.Result, 16), done: make(chan struct{})}
	go func() {
		defer close(d.done)
		for res := range d.queue {
			time.Sleep(5 * time.Millisecond)
			d.out.Deliver(context.Background(), res)
		}
	}()
	return d
}

func (d *relayDeliverer) Deliver(_ context.Context, res *events.Result) {
	d.queue <- res
}

func (d *relayDeliverer) drain() []string {
	close(d.queue)
	<-d.done
	return d.out.texts
}

type throttleCounter struct {
	count int
}

func (c *throttleCounter) InputThrottled(uuid.UUID) { c.count++ }

type touchCounter struct {
	mu    sync.Mutex
	count int
}

func (c *touchCounter) Touch(uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.count++
}

type readWriter struct {
	io.Reader
	io.Writer
}

func TestConnectionManager_RunSession(t *testing.T) {
	tests := map[string]struct {
		input  string
		expOut []string
	}{
		"initial look only": {
			input:  "Alice\n",
			expOut: []string{"look"},
		},
		"commands delivered in order": {
			input:  "Alice\nhello\nthere\n",
			expOut: []string{"look", "hello", "there"},
		},
		"blank line is silent": {
			input:  "Alice\n\n",
			expOut: []string{"look"},
		},
		"unknown verb": {
			input:  "Alice\nxyzzy\n",
			expOut: []string{"look", "I don't understand that."},
		},
		"user error with choices": {
			input:  "Alice\nget thing\n",
			expOut: []string{"look", "Which thing?\n  1. a rock\n  2. a stick"},
		},
		"parser failure": {
			input:  "Alice\nbroken\n",
			expOut: []string{"look", "Something went wrong. Please try again."},
		},
		"handler failure": {
			input:  "Alice\nfail\nok\n",
			expOut: []string{"look", "Something went wrong. Please try again.", "ok"},
		},
		"handler panic keeps connection": {
			input:  "Alice\npanic\nok\n",
			expOut: []string{"look", "Something went wrong. Please try again.", "ok"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			w := newTestWorld(t)
			alice := spawnActor(t, w, "Alice")
			gw := newFakeGateway()
			out := &textDeliverer{}
			touches := &touchCounter{}
			m := NewConnectionManager(w, &recordingSaver{}, gw, scriptedParser{}, echoExecutor{id: alice}, out,
				WithActivityTracker(touches))

			var written bytes.Buffer
			err := m.RunSession(context.Background(), readWriter{strings.NewReader(tt.input), &written})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if !slices.Equal(out.texts, tt.expOut) {
				t.Errorf("delivered = %q, want %q", out.texts, tt.expOut)
			}
			testutil.AssertEqual(t, "ended", len(gw.ended), 1)
			testutil.AssertEqual(t, "conn id", gw.ended[0], session.ConnectionId(7))
			testutil.AssertEqual(t, "touches", touches.count, strings.Count(tt.input, "\n"))
		})
	}
}

func TestConnectionManager_RepliesKeepInputOrder(t *testing.T) {
	w := newTestWorld(t)
	alice := spawnActor(t, w, "Alice")
	out := newRelayDeliverer()
	m := NewConnectionManager(w, &recordingSaver{}, newFakeGateway(), scriptedParser{}, echoExecutor{id: alice}, out)

	input := "Alice\nhello\nxyzzy\nfail\nget thing\nthere\n"
	err := m.RunSession(context.Background(), readWriter{strings.NewReader(input), io.Discard})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	exp := []string{
		"look",
		"hello",
		"I don't understand that.",
		"Something went wrong. Please try again.",
		"Which thing?\n  1. a rock\n  2. a stick",
		"there",
	}
	if got := out.drain(); !slices.Equal(got, exp) {
		t.Errorf("delivered = %q, want %q", got, exp)
	}
}

func TestConnectionManager_NewPlayer(t *testing.T) {
	w := newTestWorld(t)
	saver := &recordingSaver{}
	gw := newFakeGateway()
	out := &textDeliverer{}
	m := NewConnectionManager(w, saver, gw, scriptedParser{}, echoExecutor{}, out)

	var written bytes.Buffer
	err := m.RunSession(context.Background(), readWriter{strings.NewReader("bob1\nbob\nn\nBOB\ny\n"), &written})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	actor, ok := w.FindActorByName("Bob")
	testutil.AssertEqual(t, "registered", ok, true)
	testutil.AssertEqual(t, "synced", len(saver.synced), 1)
	testutil.AssertEqual(t, "synced id", saver.synced[0], actor.Id)

	text := written.String()
	testutil.AssertEqual(t, "bad name rejected", strings.Contains(text, "Names may only contain letters"), true)
	testutil.AssertEqual(t, "confirmation asked", strings.Count(text, "Did I get that right, Bob (Y/N)? "), 2)
}

func TestConnectionManager_LoginFailures(t *testing.T) {
	tests := map[string]struct {
		input     string
		attachErr error
		expErr    string
		expText   string
	}{
		"too many bad names": {
			input:  "a1\nb2\nc3\n",
			expErr: "too many tries",
		},
		"attach refused": {
			input:     "Alice\n",
			attachErr: session.ErrStopped,
			expErr:    "attaching Alice",
			expText:   "The world isn't accepting players right now.",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			w := newTestWorld(t)
			spawnActor(t, w, "Alice")
			gw := newFakeGateway()
			gw.attachErr = tt.attachErr
			m := NewConnectionManager(w, &recordingSaver{}, gw, scriptedParser{}, echoExecutor{}, &textDeliverer{})

			var written bytes.Buffer
			err := m.RunSession(context.Background(), readWriter{strings.NewReader(tt.input), &written})

			testutil.AssertErrorContains(t, err, tt.expErr)
			testutil.AssertEqual(t, "output", strings.Contains(written.String(), tt.expText), true)
			testutil.AssertEqual(t, "ended", len(gw.ended), 0)
		})
	}
}

func TestConnectionManager_Throttle(t *testing.T) {
	w := newTestWorld(t)
	alice := spawnActor(t, w, "Alice")
	gw := newFakeGateway()
	out := &textDeliverer{}
	metrics := &throttleCounter{}
	m := NewConnectionManager(w, &recordingSaver{}, gw, scriptedParser{}, echoExecutor{id: alice}, out,
		WithInputRate(0.001, 2), WithMetrics(metrics))

	var written bytes.Buffer
	err := m.RunSession(context.Background(), readWriter{strings.NewReader("Alice\none\ntwo\nthree\n"), &written})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	exp := []string{"look", "one", "two", "Slow down! You're typing too fast."}
	if !slices.Equal(out.texts, exp) {
		t.Errorf("delivered = %q, want %q", out.texts, exp)
	}
	testutil.AssertEqual(t, "throttled", metrics.count, 1)
}

func TestConnectionManager_ClosedByGateway(t *testing.T) {
	w := newTestWorld(t)
	alice := spawnActor(t, w, "Alice")
	gw := newFakeGateway()
	m := NewConnectionManager(w, &recordingSaver{}, gw, scriptedParser{}, echoExecutor{id: alice}, &textDeliverer{})

	pr, pw := io.Pipe()
	defer pw.Close()
	var written bytes.Buffer

	done := make(chan error, 1)
	go func() {
		done <- m.RunSession(context.Background(), readWriter{pr, &written})
	}()

	if _, err := io.WriteString(pw, "Alice\n"); err != nil {
		t.Fatalf("writing name: %v", err)
	}

	var ch session.OutputChannel
	select {
	case ch = <-gw.started:
	case <-time.After(time.Second):
		t.Fatal("session never started")
	}

	if err := ch.WriteOutput("hi"); err != nil {
		t.Fatalf("writing before close: %v", err)
	}
	if err := ch.(io.Closer).Close(); err != nil {
		t.Fatalf("closing: %v", err)
	}
	testutil.AssertEqual(t, "write after close", errors.Is(ch.WriteOutput("late"), io.ErrClosedPipe), true)

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("session did not end when the connection was closed")
	}
	testutil.AssertEqual(t, "ended", len(gw.ended), 1)
}

func TestConnectionManager_ContextCancelled(t *testing.T) {
	w := newTestWorld(t)
	alice := spawnActor(t, w, "Alice")
	gw := newFakeGateway()
	m := NewConnectionManager(w, &recordingSaver{}, gw, scriptedParser{}, echoExecutor{id: alice}, &textDeliverer{})

	pr, pw := io.Pipe()
	defer pw.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- m.RunSession(ctx, readWriter{pr, io.Discard})
	}()

	if _, err := io.WriteString(pw, "Alice\n"); err != nil {
		t.Fatalf("writing name: %v", err)
	}
	<-gw.started
	cancel()

	select {
	case err := <-done:
		testutil.AssertEqual(t, "error", errors.Is(err, context.Canceled), true)
	case <-time.After(time.Second):
		t.Fatal("session did not end on cancel")
	}
}
