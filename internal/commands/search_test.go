package commands

import (
	"errors"
	"slices"
	"testing"

	"github.com/pixil98/go-testutil"
)

type thing struct {
	id       int
	name     string
	keywords []string
}

func thingTerms(th thing) Terms {
	return Terms{Name: th.name, Keywords: th.keywords}
}

func thingIds(things []thing) []int {
	var out []int
	for _, th := range things {
		out = append(out, th.id)
	}
	return out
}

func TestParseQuery(t *testing.T) {
	tests := map[string]struct {
		raw string
		exp Query
	}{
		"plain":             {raw: "sword", exp: Query{Name: "sword"}},
		"dot index":         {raw: "2.sword", exp: Query{Name: "sword", Index: 2, Indexed: true}},
		"trailing index":    {raw: "sword 3", exp: Query{Name: "sword", Index: 3, Indexed: true}},
		"multi word":        {raw: "rusty sword 2", exp: Query{Name: "rusty sword", Index: 2, Indexed: true}},
		"zero index":        {raw: "0.sword", exp: Query{Name: "sword", Index: 0, Indexed: true}},
		"number only":       {raw: "42", exp: Query{Name: "42"}},
		"trimmed":           {raw: "  sword  ", exp: Query{Name: "sword"}},
		"overflowing index": {raw: "99999999999999999999.sword", exp: Query{Name: "99999999999999999999.sword"}},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got := ParseQuery(tt.raw)
			testutil.AssertEqual(t, "name", got.Name, tt.exp.Name)
			testutil.AssertEqual(t, "index", got.Index, tt.exp.Index)
			testutil.AssertEqual(t, "indexed", got.Indexed, tt.exp.Indexed)
		})
	}
}

func TestSearch(t *testing.T) {
	things := []thing{
		{id: 1, name: "sword"},
		{id: 2, name: "rusty sword", keywords: []string{"blade"}},
		{id: 3, name: "shield"},
		{id: 4, name: "sword"},
	}

	tests := map[string]struct {
		query      string
		candidates []thing
		expStatus  SearchStatus
		expMatch   int
		expCands   []int
	}{
		"exact single": {
			query:     "shield",
			expStatus: SearchFound,
			expMatch:  3,
		},
		"keyword": {
			query:     "blade",
			expStatus: SearchFound,
			expMatch:  2,
		},
		"partial keyword": {
			query:     "bla",
			expStatus: SearchFound,
			expMatch:  2,
		},
		"case insensitive": {
			query:     "SHIELD",
			expStatus: SearchFound,
			expMatch:  3,
		},
		"ambiguous keeps order": {
			query:     "sword",
			expStatus: SearchAmbiguous,
			expCands:  []int{1, 2, 4},
		},
		"indexed": {
			query:     "2.sword",
			expStatus: SearchFound,
			expMatch:  2,
		},
		"trailing indexed": {
			query:     "sword 3",
			expStatus: SearchFound,
			expMatch:  4,
		},
		"index too high": {
			query:     "4.sword",
			expStatus: SearchIndexOutOfRange,
		},
		"index zero": {
			query:     "0.sword",
			expStatus: SearchIndexOutOfRange,
		},
		"index with no matches": {
			query:     "1.axe",
			expStatus: SearchIndexOutOfRange,
		},
		"not found": {
			query:     "axe",
			expStatus: SearchNotFound,
		},
		"self": {
			query:     "me",
			expStatus: SearchSelf,
		},
		"self with no candidates": {
			query:      "Self",
			candidates: []thing{},
			expStatus:  SearchSelf,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			cands := things
			if tt.candidates != nil {
				cands = tt.candidates
			}

			got, err := Search(tt.query, cands, thingTerms)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			testutil.AssertEqual(t, "status", got.Status, tt.expStatus)
			if tt.expStatus == SearchFound {
				testutil.AssertEqual(t, "match", got.Match.id, tt.expMatch)
			}
			if ids := thingIds(got.Candidates); !slices.Equal(ids, tt.expCands) {
				t.Errorf("candidates = %v, expected %v", ids, tt.expCands)
			}
		})
	}
}

func TestSearch_EmptyQuery(t *testing.T) {
	for _, q := range []string{"", "   "} {
		_, err := Search(q, []thing{{id: 1, name: "sword"}}, thingTerms)
		if !errors.Is(err, ErrEmptyQuery) {
			t.Errorf("query %q: expected ErrEmptyQuery, got %v", q, err)
		}
	}
}

func TestSearch_Idempotent(t *testing.T) {
	things := []thing{{id: 1, name: "sword"}, {id: 2, name: "sword"}}

	first, _ := Search("sword", things, thingTerms)
	second, _ := Search("sword", things, thingTerms)

	testutil.AssertEqual(t, "status", second.Status, first.Status)
	if !slices.Equal(thingIds(first.Candidates), thingIds(second.Candidates)) {
		t.Errorf("candidates changed between searches: %v then %v", thingIds(first.Candidates), thingIds(second.Candidates))
	}
}
