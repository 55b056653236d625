package kb

import (
	"fmt"
	"sort"
	"strings"
)

const (
	// FuzzyThreshold is the minimum score an entry needs to appear in fuzzy results.
	FuzzyThreshold = 75

	// allKeyword is the free-text query that lists every entry unfiltered.
	allKeyword = "all"
)

// Query is one of AllQuery, ExactFilter or FreeText.
type Query interface {
	isQuery()
}

// AllQuery returns every entry in natural order.
type AllQuery struct{}

// ExactFilter matches entries on every supplied criterion. Zero values are not checked.
type ExactFilter struct {
	ID      int64
	Service string
	User    string
	Tags    []string // every tag must be present on the entry
}

// FreeText ranks entries by fuzzy similarity to Text.
type FreeText struct {
	Text string
}

func (AllQuery) isQuery()    {}
func (ExactFilter) isQuery() {}
func (FreeText) isQuery()    {}

// ParseQuery resolves the kind of query once: "all" lists everything, any other
// non-empty text is a fuzzy search, and otherwise the filter is applied exactly.
func ParseQuery(text string, filter ExactFilter) Query {
	switch {
	case text == allKeyword:
		return AllQuery{}
	case text != "":
		return FreeText{Text: text}
	default:
		return filter
	}
}

// SearchResult is an entry together with the score it matched with.
// All and exact matches score 100.
type SearchResult struct {
	Entry *CredentialEntry
	Score int
}

// Search runs q against a vault snapshot.
//
// An exact filter with no matches fails with ErrNoLogFound; a fuzzy search
// with no matches returns an empty result.
func Search(vault *VaultFile, q Query, scorer Scorer) ([]SearchResult, error) {
	entries := vault.Ordered()

	switch q := q.(type) {
	case AllQuery:
		results := make([]SearchResult, len(entries))
		for i, e := range entries {
			results[i] = SearchResult{Entry: e, Score: 100}
		}
		return results, nil

	case ExactFilter:
		var results []SearchResult
		for _, e := range entries {
			if q.matches(e) {
				results = append(results, SearchResult{Entry: e, Score: 100})
			}
		}
		if len(results) == 0 {
			return nil, ErrNoLogFound
		}
		return results, nil

	case FreeText:
		return fuzzySearch(entries, q.Text, scorer), nil

	default:
		return nil, fmt.Errorf("unsupported query type %T", q)
	}
}

func (f ExactFilter) matches(e *CredentialEntry) bool {
	if f.ID != 0 && e.ID != f.ID {
		return false
	}
	if f.Service != "" && e.Service != f.Service {
		return false
	}
	if f.User != "" && e.User != f.User {
		return false
	}
	for _, tag := range f.Tags {
		if !e.HasTag(tag) {
			return false
		}
	}
	return true
}

func fuzzySearch(entries []*CredentialEntry, text string, scorer Scorer) []SearchResult {
	query := strings.ToLower(text)

	results := []SearchResult{}
	for _, e := range entries {
		score := max(
			scoreField(scorer, query, e.Service),
			scoreField(scorer, query, e.User),
			scoreField(scorer, query, e.Email),
		)
		for _, tag := range e.Tags {
			score = max(score, scoreField(scorer, query, tag))
		}
		if score >= FuzzyThreshold {
			results = append(results, SearchResult{Entry: e, Score: score})
		}
	}

	// Ties keep natural order.
	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	return results
}

func scoreField(scorer Scorer, query, field string) int {
	if field == "" {
		return 0
	}
	return scorer.PartialRatio(query, strings.ToLower(field))
}
