package kb_test

import (
	"errors"
	"reflect"
	"testing"

	"keybin-go/internal/fuzzy"
	"keybin-go/internal/kb"
)

func newVault(entries ...*kb.CredentialEntry) *kb.VaultFile {
	v := kb.NewVaultFile()
	for _, e := range entries {
		v.Entries[e.ID] = e
		v.NextID = max(v.NextID, e.ID)
	}
	return v
}

func resultIDs(results []kb.SearchResult) []int64 {
	ids := []int64{}
	for _, r := range results {
		ids = append(ids, r.Entry.ID)
	}
	return ids
}

func TestSearch_Scenario(t *testing.T) {
	vault := newVault(
		&kb.CredentialEntry{ID: 1, Service: "github", Tags: []string{"work"}},
		&kb.CredentialEntry{ID: 2, Service: "gitlab", Tags: []string{"personal"}},
	)

	got, err := kb.Search(vault, kb.ExactFilter{Tags: []string{"work"}}, fuzzy.Matcher{})
	if err != nil {
		t.Fatalf("exact Search() error = %v", err)
	}
	if ids := resultIDs(got); !reflect.DeepEqual(ids, []int64{1}) {
		t.Errorf("exact tags=[work] = %v, want [1]", ids)
	}

	got, err = kb.Search(vault, kb.FreeText{Text: "git"}, fuzzy.Matcher{})
	if err != nil {
		t.Fatalf("fuzzy Search() error = %v", err)
	}
	if ids := resultIDs(got); !reflect.DeepEqual(ids, []int64{1, 2}) {
		t.Errorf("fuzzy git = %v, want [1 2]", ids)
	}

	_, err = kb.Search(vault, kb.ExactFilter{Tags: []string{"missing"}}, fuzzy.Matcher{})
	if !errors.Is(err, kb.ErrNoLogFound) {
		t.Errorf("exact tags=[missing] error = %v, want ErrNoLogFound", err)
	}
}

func TestSearch_Exact(t *testing.T) {
	vault := newVault(
		&kb.CredentialEntry{ID: 1, Service: "github", User: "alice", Tags: []string{"work", "dev"}},
		&kb.CredentialEntry{ID: 2, Service: "github", User: "bob", Tags: []string{"work"}},
		&kb.CredentialEntry{ID: 4, Service: "aws", User: "alice"},
	)

	tests := []struct {
		name   string
		filter kb.ExactFilter
		want   []int64
	}{
		{name: "by id", filter: kb.ExactFilter{ID: 4}, want: []int64{4}},
		{name: "by service", filter: kb.ExactFilter{Service: "github"}, want: []int64{1, 2}},
		{name: "by user", filter: kb.ExactFilter{User: "alice"}, want: []int64{1, 4}},
		{name: "service and user", filter: kb.ExactFilter{Service: "github", User: "bob"}, want: []int64{2}},
		{name: "tag superset only", filter: kb.ExactFilter{Tags: []string{"work", "dev"}}, want: []int64{1}},
		{name: "empty filter matches all", filter: kb.ExactFilter{}, want: []int64{1, 2, 4}},
		{name: "service is case sensitive", filter: kb.ExactFilter{Service: "GitHub"}},
		{name: "deleted id", filter: kb.ExactFilter{ID: 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := kb.Search(vault, tt.filter, fuzzy.Matcher{})
			if tt.want == nil {
				if !errors.Is(err, kb.ErrNoLogFound) {
					t.Errorf("Search() error = %v, want ErrNoLogFound", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Search() error = %v", err)
			}
			if ids := resultIDs(got); !reflect.DeepEqual(ids, tt.want) {
				t.Errorf("Search() = %v, want %v", ids, tt.want)
			}
			for _, r := range got {
				if r.Score != 100 {
					t.Errorf("exact match score = %d, want 100", r.Score)
				}
			}
		})
	}
}

func TestSearch_All(t *testing.T) {
	vault := newVault(
		&kb.CredentialEntry{ID: 3, Service: "c"},
		&kb.CredentialEntry{ID: 1, Service: "a"},
		&kb.CredentialEntry{ID: 2, Service: "b"},
	)

	got, err := kb.Search(vault, kb.AllQuery{}, fuzzy.Matcher{})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if ids := resultIDs(got); !reflect.DeepEqual(ids, []int64{1, 2, 3}) {
		t.Errorf("Search(all) = %v, want [1 2 3]", ids)
	}

	got, err = kb.Search(kb.NewVaultFile(), kb.AllQuery{}, fuzzy.Matcher{})
	if err != nil {
		t.Fatalf("Search() on empty vault error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Search(all) on empty vault = %v, want empty", resultIDs(got))
	}
}

func TestSearch_Fuzzy(t *testing.T) {
	vault := newVault(
		&kb.CredentialEntry{ID: 1, Service: "gitlab"},
		&kb.CredentialEntry{ID: 2, Service: "my-github"},
		&kb.CredentialEntry{ID: 3, User: "githb"},
		&kb.CredentialEntry{ID: 4, Service: "aws", Tags: []string{"github"}},
		&kb.CredentialEntry{ID: 5, Email: "user@gmail.com"},
	)

	t.Run("ranked by score, ties in natural order", func(t *testing.T) {
		got, err := kb.Search(vault, kb.FreeText{Text: "github"}, fuzzy.Matcher{})
		if err != nil {
			t.Fatalf("Search() error = %v", err)
		}
		if ids := resultIDs(got); !reflect.DeepEqual(ids, []int64{2, 4, 3}) {
			t.Errorf("Search(github) = %v, want [2 4 3]", ids)
		}
		if got[2].Score != 89 {
			t.Errorf("score of githb = %d, want 89", got[2].Score)
		}
	})

	t.Run("email typo", func(t *testing.T) {
		got, err := kb.Search(vault, kb.FreeText{Text: "gmai"}, fuzzy.Matcher{})
		if err != nil {
			t.Fatalf("Search() error = %v", err)
		}
		if len(got) != 1 || got[0].Entry.ID != 5 || got[0].Score < kb.FuzzyThreshold {
			t.Errorf("Search(gmai) = %+v, want entry 5 above threshold", got)
		}
	})

	t.Run("query is case insensitive", func(t *testing.T) {
		got, err := kb.Search(vault, kb.FreeText{Text: "GMAIL"}, fuzzy.Matcher{})
		if err != nil {
			t.Fatalf("Search() error = %v", err)
		}
		if ids := resultIDs(got); !reflect.DeepEqual(ids, []int64{5}) {
			t.Errorf("Search(GMAIL) = %v, want [5]", ids)
		}
	})

	t.Run("tags compare case insensitively", func(t *testing.T) {
		tagged := newVault(&kb.CredentialEntry{ID: 1, Service: "jira", Tags: []string{"WORK"}})
		got, err := kb.Search(tagged, kb.FreeText{Text: "work"}, fuzzy.Matcher{})
		if err != nil {
			t.Fatalf("Search() error = %v", err)
		}
		if len(got) != 1 || got[0].Score != 100 {
			t.Errorf("Search(work) over tag WORK = %+v, want one result scoring 100", got)
		}
	})

	t.Run("nothing above threshold is empty, not an error", func(t *testing.T) {
		got, err := kb.Search(vault, kb.FreeText{Text: "zzzz"}, fuzzy.Matcher{})
		if err != nil {
			t.Fatalf("Search() error = %v", err)
		}
		if len(got) != 0 {
			t.Errorf("Search(zzzz) = %v, want empty", resultIDs(got))
		}
	})
}

func TestParseQuery(t *testing.T) {
	filter := kb.ExactFilter{Service: "github"}

	tests := []struct {
		name string
		text string
		want kb.Query
	}{
		{name: "all keyword", text: "all", want: kb.AllQuery{}},
		{name: "free text", text: "git", want: kb.FreeText{Text: "git"}},
		{name: "no text uses filter", text: "", want: filter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := kb.ParseQuery(tt.text, filter); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseQuery(%q) = %#v, want %#v", tt.text, got, tt.want)
			}
		})
	}
}
