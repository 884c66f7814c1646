package commands

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
)

var (
	dotIndexPattern      = regexp.MustCompile(`^(\d+)\.(.+)$`)
	trailingIndexPattern = regexp.MustCompile(`^(.+?)\s+(\d+)$`)
)

var selfKeywords = map[string]bool{
	"me":     true,
	"self":   true,
	"myself": true,
}

// Terms are the strings an entity can be found by.
type Terms struct {
	Name     string
	Keywords []string
}

// SearchStatus is the outcome of a search.
type SearchStatus int

const (
	SearchNotFound SearchStatus = iota
	SearchFound
	SearchAmbiguous
	SearchIndexOutOfRange
	SearchSelf
)

func (s SearchStatus) String() string {
	switch s {
	case SearchFound:
		return "found"
	case SearchAmbiguous:
		return "ambiguous"
	case SearchIndexOutOfRange:
		return "index out of range"
	case SearchSelf:
		return "self"
	default:
		return "not found"
	}
}

// SearchResult is the outcome of resolving a query against candidates.
type SearchResult[T any] struct {
	Status SearchStatus

	// Match is set when Status is SearchFound.
	Match T

	// Candidates holds every match when Status is SearchAmbiguous, in
	// container order.
	Candidates []T

	// Name is the query with any index stripped.
	Name string

	// Index is the 1-based index given in the query, or 0 if none.
	Index int

	// Matches counts the candidates answering to Name, before any index is
	// applied.
	Matches int
}

// Query is a parsed search string.
type Query struct {
	Name    string
	Index   int
	Indexed bool
}

// ParseQuery recognizes "<n>.<name>" and "<name> <n>". Anything else, or an
// index that cannot be parsed, is taken as a plain name.
func ParseQuery(raw string) Query {
	raw = strings.TrimSpace(raw)
	if m := dotIndexPattern.FindStringSubmatch(raw); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return Query{Name: strings.TrimSpace(m[2]), Index: n, Indexed: true}
		}
	}
	if m := trailingIndexPattern.FindStringSubmatch(raw); m != nil {
		if n, err := strconv.Atoi(m[2]); err == nil {
			return Query{Name: strings.TrimSpace(m[1]), Index: n, Indexed: true}
		}
	}
	return Query{Name: raw}
}

// IsSelf reports whether name refers to the searcher.
func IsSelf(name string) bool {
	return selfKeywords[fold(name)]
}

// fold returns s case folded. A Caser holds state, so each call gets its own.
func fold(s string) string {
	return cases.Fold().String(s)
}

// Search finds candidates answering to query. The same rules apply to every
// kind of entity; terms selects what an entity answers to.
//
// An entity matches when its name equals the target, when any keyword equals
// or contains the target, or when its name contains the target. Comparison
// ignores case. With an index, the n-th match in candidate order is chosen.
func Search[T any](query string, candidates []T, terms func(T) Terms) (SearchResult[T], error) {
	if strings.TrimSpace(query) == "" {
		return SearchResult[T]{}, ErrEmptyQuery
	}

	q := ParseQuery(query)
	res := SearchResult[T]{Name: q.Name, Index: q.Index}

	if IsSelf(q.Name) {
		res.Status = SearchSelf
		return res, nil
	}

	target := fold(q.Name)
	var matches []T
	for _, c := range candidates {
		if matchesTerms(terms(c), target) {
			matches = append(matches, c)
		}
	}

	res.Matches = len(matches)
	switch {
	case q.Indexed:
		if q.Index < 1 || q.Index > len(matches) {
			res.Status = SearchIndexOutOfRange
			return res, nil
		}
		res.Status = SearchFound
		res.Match = matches[q.Index-1]
	case len(matches) == 0:
		res.Status = SearchNotFound
	case len(matches) == 1:
		res.Status = SearchFound
		res.Match = matches[0]
	default:
		res.Status = SearchAmbiguous
		res.Candidates = matches
	}
	return res, nil
}

func matchesTerms(t Terms, target string) bool {
	name := fold(t.Name)
	if name == target {
		return true
	}
	for _, kw := range t.Keywords {
		if strings.Contains(fold(kw), target) {
			return true
		}
	}
	return strings.Contains(name, target)
}
