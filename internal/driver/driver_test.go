package driver

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/pixil98/go-testutil"
)

type recordingManager struct {
	name string
	err  error
	log  *[]string
	mu   *sync.Mutex
}

func (m recordingManager) Tick(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	*m.log = append(*m.log, m.name)
	return m.err
}

func TestDriver_Tick(t *testing.T) {
	tests := map[string]struct {
		failing string
		exp     []string
	}{
		"all managers run in order": {
			exp: []string{"autosave", "idle", "metrics"},
		},
		"failure doesn't stop the rest": {
			failing: "autosave",
			exp:     []string{"autosave", "idle", "metrics"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			var log []string
			var mu sync.Mutex
			var opts []DriverOpt
			for _, n := range []string{"autosave", "idle", "metrics"} {
				m := recordingManager{name: n, log: &log, mu: &mu}
				if n == tt.failing {
					m.err = errors.New("boom")
				}
				opts = append(opts, WithManager(n, m))
			}

			NewDriver(opts...).Tick(context.Background())

			if !slices.Equal(log, tt.exp) {
				t.Errorf("ran %v, want %v", log, tt.exp)
			}
		})
	}
}

func TestDriver_Start(t *testing.T) {
	var log []string
	var mu sync.Mutex
	d := NewDriver(
		WithTickLength(5*time.Millisecond),
		WithManager("one", recordingManager{name: "one", log: &log, mu: &mu}),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	err := d.Start(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	testutil.AssertEqual(t, "ticked", len(log) > 0, true)
}

func TestWithTickLength_IgnoresZero(t *testing.T) {
	d := NewDriver(WithTickLength(0))
	testutil.AssertEqual(t, "tick length", d.tickLength, DefaultTickLength)
}
