package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
)

func TestSanitizeName(t *testing.T) {
	cases := []struct {
		name   string
		input  string
		expect string
	}{
		{"normal short name", "Alice", "Alice"},
		{"exactly 16 chars", "1234567890123456", "1234567890123456"},
		{"long name truncated", "ThisIsAVeryLongUsername", "ThisIsAVeryLongU"},
		{"control chars stripped", "he\x00ll\x1bo", "hello"},
		{"ansi escape partial", "he\x1b[31mllo", "he[31mllo"},
		{"empty input", "", ""},
		{"pure control chars", "\x00\x01\x02\x1b", ""},
		{"multi-byte runes truncated on a rune boundary", "日本語のテスト名前", "日本語のテ"},
		{"emoji truncated on a rune boundary", "🎮Player🎮Name", "🎮Player🎮Na"},
		{"tabs stripped", "hello\tworld", "helloworld"},
		{"newlines stripped", "hello\nworld", "helloworld"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := sanitizeName(tc.input)
			if got != tc.expect {
				t.Errorf("sanitizeName(%q) = %q, want %q", tc.input, got, tc.expect)
			}
		})
	}
}

func TestPlayerDir(t *testing.T) {
	cases := map[string]string{
		"kit":       "kit",
		"":          "anon",
		".":         "anon",
		"..":        "anon",
		"../../etc": ".._.._etc",
		`a\b`:       "a_b",
	}
	for in, want := range cases {
		if got := playerDir(in); got != want {
			t.Errorf("playerDir(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestAllowedTerms(t *testing.T) {
	cases := []struct {
		name    string
		term    string
		allowed bool
	}{
		{"xterm-256color", "xterm-256color", true},
		{"tmux", "tmux", true},
		{"linux", "linux", true},
		{"vt100", "vt100", true},
		{"screen", "screen", true},
		{"rxvt-unicode-256color", "rxvt-unicode-256color", true},
		{"unknown term", "evil-term", false},
		{"path traversal", "../../../etc/passwd", false},
		{"empty string", "", false},
		{"xterm-kitty", "xterm-kitty", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := allowedTerms[tc.term]
			if got != tc.allowed {
				t.Errorf("allowedTerms[%q] = %v, want %v", tc.term, got, tc.allowed)
			}
		})
	}
}

func TestHostKeyPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "host_key")
	first, err := loadOrCreateHostKey(path, zerolog.Nop())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("key not written: %v", err)
	}
	second, err := loadOrCreateHostKey(path, zerolog.Nop())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(first.PublicKey().Marshal()) != string(second.PublicKey().Marshal()) {
		t.Error("reloaded key differs from the generated one")
	}
}

func TestPort(t *testing.T) {
	for in, want := range map[string]string{":2222": "2222", "0.0.0.0:22": "22", "2222": "2222"} {
		if got := port(in); got != want {
			t.Errorf("port(%q) = %q, want %q", in, got, want)
		}
	}
}
