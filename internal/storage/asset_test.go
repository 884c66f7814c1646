package storage

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/pixil98/go-testutil"
)

// testSpec is a simple ValidatingSpec for testing
type testSpec struct {
	valid bool
}

func (s *testSpec) Validate() error {
	if !s.valid {
		return fmt.Errorf("spec is invalid")
	}
	return nil
}

func TestAsset_Validate(t *testing.T) {
	tests := map[string]struct {
		version uint
		id      string
		valid   bool
		expErrs []string
	}{
		"valid asset":          {version: 1, id: "hall", valid: true},
		"uuid identifier":      {version: 1, id: uuid.NewString(), valid: true},
		"version not set":      {id: "hall", valid: true, expErrs: []string{"version must be set"}},
		"empty identifier":     {version: 1, valid: true, expErrs: []string{"id must be set"}},
		"identifier with dots": {version: 1, id: "../hall", valid: true, expErrs: []string{"id must be alphanumeric"}},
		"identifier with underscore": {
			version: 1, id: "great_hall", valid: true,
			expErrs: []string{"id must be alphanumeric"},
		},
		"invalid spec": {version: 1, id: "hall", expErrs: []string{"spec is invalid"}},
		"multiple errors": {
			expErrs: []string{"version must be set", "id must be set", "spec is invalid"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			a := Asset[*testSpec]{Version: tt.version, Identifier: tt.id, Spec: &testSpec{valid: tt.valid}}
			err := a.Validate()

			if len(tt.expErrs) == 0 {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}

			if err == nil {
				t.Fatalf("expected errors %v, got nil", tt.expErrs)
			}
			for _, e := range tt.expErrs {
				if !strings.Contains(err.Error(), e) {
					t.Errorf("error %q does not contain %q", err.Error(), e)
				}
			}
		})
	}
}

func TestNewAsset(t *testing.T) {
	a := NewAsset("hall", &testSpec{valid: true})

	testutil.AssertEqual(t, "version", a.Version, uint(currentVersion))
	testutil.AssertEqual(t, "id", a.Id(), "hall")
	if err := a.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
