package match

import (
	"strings"

	"github.com/taxprep-dev/taxprep/internal/model"
)

// Similarity scores a lower-cased query against a list of lower-cased
// candidate names. Implementations must be deterministic.
type Similarity interface {
	// Scores returns one score per candidate, in candidate order.
	Scores(query string, candidates []string) []float64
	// Accept reports whether a best score clears the matcher's
	// confidence threshold.
	Accept(score float64) bool
	// Name identifies the matcher in config and logs.
	Name() string
}

// Matcher resolves account identifiers against a mapping table snapshot.
// It is pure: identical inputs always produce the identical tax line,
// including tie-breaks (first mapping row in table order wins).
type Matcher struct {
	sim      Similarity
	entries  []model.MappingEntry
	names    []string // lower-cased entry names, parallel to entries
	byNumber map[string]model.MappingEntry
}

// New builds a Matcher over a mapping table snapshot.
func New(sim Similarity, entries []model.MappingEntry) *Matcher {
	m := &Matcher{
		sim:      sim,
		entries:  entries,
		names:    make([]string, len(entries)),
		byNumber: make(map[string]model.MappingEntry, len(entries)),
	}
	for i, e := range entries {
		m.names[i] = strings.ToLower(e.Name)
		num := strings.TrimSpace(e.Number)
		if num == "" {
			continue
		}
		// First entry wins on duplicate numbers.
		if _, seen := m.byNumber[num]; !seen {
			m.byNumber[num] = e
		}
	}
	return m
}

// TaxLine returns the canonical tax line for an account, or "" when no
// confident match exists. An account-number hit returns the mapped line
// verbatim with no similarity gate.
func (m *Matcher) TaxLine(number, description string) string {
	if num := strings.TrimSpace(number); num != "" {
		if e, ok := m.byNumber[num]; ok {
			return e.TaxLine
		}
	}

	desc := strings.ToLower(strings.TrimSpace(description))
	if desc == "" || len(m.entries) == 0 {
		return ""
	}

	scores := m.sim.Scores(desc, m.names)
	bestIdx := 0
	for i, s := range scores {
		if s > scores[bestIdx] {
			bestIdx = i
		}
	}
	if !m.sim.Accept(scores[bestIdx]) {
		return ""
	}
	return m.entries[bestIdx].TaxLine
}
