package main

import (
	"bytes"
	"strings"
	"testing"
	"unicode"
)

// runGenpass executes the genpass command and resets its flags afterwards.
func runGenpass(t *testing.T, args ...string) string {
	t.Helper()
	t.Cleanup(func() {
		for _, name := range []string{"length", "symbols", "no-symbols", "copy"} {
			f := genpassCmd.Flags().Lookup(name)
			f.Value.Set(f.DefValue)
			f.Changed = false
		}
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(append([]string{"genpass"}, args...))
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("genpass %v: %v", args, err)
	}
	return strings.TrimSpace(out.String())
}

func isSymbol(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

func TestGenpassIncludesSymbolsByDefault(t *testing.T) {
	pw := runGenpass(t, "--length", "400")

	if len(pw) != 400 {
		t.Fatalf("len = %d, want 400", len(pw))
	}
	if !strings.ContainsFunc(pw, isSymbol) {
		t.Errorf("default password has no punctuation: %q", pw)
	}
}

func TestGenpassWithoutSymbols(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no-symbols flag", []string{"--length", "400", "--no-symbols"}},
		{"symbols turned off", []string{"--length", "400", "--symbols=false"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pw := runGenpass(t, tt.args...)
			if len(pw) != 400 {
				t.Fatalf("len = %d, want 400", len(pw))
			}
			if strings.ContainsFunc(pw, isSymbol) {
				t.Errorf("password contains punctuation: %q", pw)
			}
		})
	}
}

func TestGenpassAlias(t *testing.T) {
	pw := runGenpass(t, "--length", "8")
	if len(pw) != 8 {
		t.Errorf("len = %d, want 8", len(pw))
	}

	if cmd, _, err := rootCmd.Find([]string{"gp"}); err != nil || cmd != genpassCmd {
		t.Errorf("gp resolves to %v, %v; want genpass", cmd, err)
	}
}
