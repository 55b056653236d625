package fuzzy

import "testing"

func TestPartialRatio(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want int
	}{
		{name: "both empty", a: "", b: "", want: 100},
		{name: "one empty", a: "", b: "github", want: 0},
		{name: "other empty", a: "github", b: "", want: 0},
		{name: "identical", a: "github", b: "github", want: 100},
		{name: "substring", a: "git", b: "github", want: 100},
		{name: "substring of second service", a: "git", b: "gitlab", want: 100},
		{name: "argument order does not matter", a: "github", b: "git", want: 100},
		{name: "no overlap", a: "xyz", b: "github", want: 0},
		{name: "one typo", a: "gmai", b: "user@gmail.com", want: 100},
		{name: "transposed", a: "gti", b: "github", want: 80},
		{name: "prefix overhang", a: "xgit", b: "github", want: 86},
		{name: "case sensitive", a: "GIT", b: "github", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PartialRatio(tt.a, tt.b); got != tt.want {
				t.Errorf("PartialRatio(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestPartialRatio_Threshold(t *testing.T) {
	if got := PartialRatio("gmial", "user@gmail.com"); got < 75 {
		t.Errorf("PartialRatio(gmial) = %d, want >= 75", got)
	}
	if got := PartialRatio("work", "personal"); got >= 75 {
		t.Errorf("PartialRatio(work, personal) = %d, want < 75", got)
	}
}

// Windows hanging off the edge of the longer string can lift a pair over the
// search threshold. Scorers that align only at difflib matching blocks try
// "git", "ith" and "hub" here and top out at 67.
func TestPartialRatio_EdgeWindowCrossesThreshold(t *testing.T) {
	got := PartialRatio("gti", "github")
	if got < 75 {
		t.Errorf("PartialRatio(gti, github) = %d, want >= 75", got)
	}
	if got != 80 {
		t.Errorf("PartialRatio(gti, github) = %d, want 80 from window %q", got, "gi")
	}
}

func TestPercent(t *testing.T) {
	tests := []struct {
		score float64
		want  int
	}{
		{62.5, 62},
		{63.5, 64},
		{74.5, 74},
		{75.5, 76},
		{79.99, 80},
		{100, 100},
	}

	for _, tt := range tests {
		if got := percent(tt.score); got != tt.want {
			t.Errorf("percent(%v) = %d, want %d", tt.score, got, tt.want)
		}
	}
}

func TestLCS(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "abc", 3},
		{"abc", "axbxc", 3},
		{"abc", "cba", 1},
		{"gti", "git", 2},
	}

	for _, tt := range tests {
		if got := lcs([]rune(tt.a), []rune(tt.b)); got != tt.want {
			t.Errorf("lcs(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestMatcher(t *testing.T) {
	var m Matcher
	if got := m.PartialRatio("git", "gitlab"); got != 100 {
		t.Errorf("Matcher.PartialRatio() = %d, want 100", got)
	}
}
