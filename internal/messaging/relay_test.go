package messaging

import (
	"context"
	"slices"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pixil98/go-testutil"
)

func TestParseSubject(t *testing.T) {
	id := uuid.New()

	tests := map[string]struct {
		subject       string
		expDisconnect bool
		expErr        string
	}{
		"player":          {subject: PlayerSubject(id)},
		"disconnect":      {subject: DisconnectSubject(id), expDisconnect: true},
		"wrong prefix":    {subject: "room." + id.String(), expErr: "unexpected subject"},
		"bad id":          {subject: "player.bob", expErr: "invalid UUID"},
		"unknown suffix":  {subject: "player." + id.String() + ".mail", expErr: "unexpected subject"},
		"too many tokens": {subject: DisconnectSubject(id) + ".now", expErr: "unexpected subject"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, disconnect, err := parseSubject(tt.subject)
			if tt.expErr != "" {
				testutil.AssertErrorContains(t, err, tt.expErr)
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			testutil.AssertEqual(t, "id", got, id)
			testutil.AssertEqual(t, "disconnect", disconnect, tt.expDisconnect)
		})
	}
}

func TestRelay_EndToEnd(t *testing.T) {
	srv, err := NewNatsServer(WithPort(-1))
	if err != nil {
		t.Fatalf("creating nats server: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{}, 2)
	t.Cleanup(func() {
		cancel()
		<-done
		<-done
	})

	go func() {
		if err := srv.Start(ctx); err != nil {
			t.Errorf("nats server: %v", err)
		}
		done <- struct{}{}
	}()

	gateway := &recordingOutbound{}
	subscribed := make(chan struct{})
	relay := NewRelay(notifyingSubscriber{NatsServer: srv, subscribed: subscribed}, gateway)
	go func() {
		if err := relay.Start(ctx); err != nil {
			t.Errorf("relay: %v", err)
		}
		done <- struct{}{}
	}()

	select {
	case <-subscribed:
	case <-time.After(5 * time.Second):
		t.Fatal("relay never subscribed")
	}

	a, b := uuid.New(), uuid.New()
	pub := NewNatsPublisher(srv)
	for _, step := range []func() error{
		func() error { return pub.DispatchToActor(ctx, a, "one") },
		func() error { return pub.DispatchToActor(ctx, b, "two") },
		func() error { return pub.DispatchToActor(ctx, a, "three") },
		func() error { return pub.ForceDisconnect(ctx, a) },
	} {
		if err := step(); err != nil {
			t.Fatalf("publishing: %v", err)
		}
	}

	exp := []string{
		a.String() + ":one",
		b.String() + ":two",
		a.String() + ":three",
		a.String() + ":!disconnect",
	}
	deadline := time.Now().Add(5 * time.Second)
	for len(gateway.Calls()) < len(exp) && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	got := gateway.Calls()
	if !slices.Equal(got, exp) {
		t.Errorf("relayed: got %v, expected %v", got, exp)
	}
}

func TestNatsServer_NotStarted(t *testing.T) {
	srv, err := NewNatsServer(WithPort(-1))
	if err != nil {
		t.Fatalf("creating nats server: %v", err)
	}

	testutil.AssertErrorContains(t, srv.Publish("player.x", nil), "not started")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	testutil.AssertErrorContains(t, srv.WaitReady(ctx), "context canceled")
}

// notifyingSubscriber signals once the relay's subscription is in place.
type notifyingSubscriber struct {
	*NatsServer
	subscribed chan struct{}
}

func (s notifyingSubscriber) Subscribe(subject string, handler func(string, []byte)) (func(), error) {
	unsubscribe, err := s.NatsServer.Subscribe(subject, handler)
	if err != nil {
		return nil, err
	}
	close(s.subscribed)
	return unsubscribe, nil
}
