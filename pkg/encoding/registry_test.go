package encoding

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestDeriveAlias(t *testing.T) {
	tests := []struct {
		canonical string
		alias     string
	}{
		{"ISO-8859-1", "iso_8859_1"},
		{"UTF-8", "utf_8"},
		{"EUC-KR", "euc_kr"},
		{"MAC-CYRILLIC", "mac_cyrillic"},
		{"ISO_646.IRV:1991", "iso_646_irv_1991"},
		{"CSA_Z243.4-1985-1", "csa_z243_4_1985_1"},
		{"EBCDIC-AT-DE(-A)", "ebcdic_at_de__a_"},
		{"utf8", "utf8"},
	}
	for _, tt := range tests {
		got := DeriveAlias(tt.canonical)
		if got != tt.alias {
			t.Errorf("DeriveAlias(%q): expected %q, got %q", tt.canonical, tt.alias, got)
		}
		// Derivation is pure: deriving twice must agree.
		if again := DeriveAlias(tt.canonical); again != got {
			t.Errorf("DeriveAlias(%q) not deterministic: %q then %q", tt.canonical, got, again)
		}
	}
}

func TestResolve(t *testing.T) {
	r := NewRegistry([]string{"UTF-8", "UTF-16", "EUC-KR"})
	canonical, ok := r.Resolve("euc_kr")
	if !ok || canonical != "EUC-KR" {
		t.Fatalf("expected (EUC-KR, true), got (%q, %v)", canonical, ok)
	}
	// A leading alias marker is stripped before lookup.
	canonical, ok = r.Resolve("#utf_8")
	if !ok || canonical != "UTF-8" {
		t.Fatalf("expected (UTF-8, true), got (%q, %v)", canonical, ok)
	}
	if _, ok := r.Resolve("latin_9"); ok {
		t.Fatalf("expected unknown alias to not resolve")
	}
}

func TestCompletions(t *testing.T) {
	r := NewRegistry([]string{"UTF-8", "UTF-16", "EUC-KR"})
	got := r.Completions("utf")
	expected := []string{"utf_8", "utf_16"}
	if !reflect.DeepEqual(got, expected) {
		t.Fatalf("expected %#v, got %#v", expected, got)
	}
	// Memoized result must be identical.
	if again := r.Completions("utf"); !reflect.DeepEqual(again, expected) {
		t.Fatalf("expected %#v, got %#v", expected, again)
	}
	if got := r.Completions("euc"); !reflect.DeepEqual(got, []string{"euc_kr"}) {
		t.Fatalf("expected [euc_kr], got %#v", got)
	}
	if got := r.Completions("latin"); len(got) != 0 {
		t.Fatalf("expected no completions, got %#v", got)
	}
	all := r.Completions("")
	if !reflect.DeepEqual(all, []string{"utf_8", "utf_16", "euc_kr"}) {
		t.Fatalf("expected all aliases in build order, got %#v", all)
	}
}

func TestAliasCollision(t *testing.T) {
	// ISO-8859-1 and ISO_8859-1 derive the same alias; the later canonical
	// name silently wins.
	r := NewRegistry([]string{"ISO-8859-1", "ISO_8859-1"})
	if r.Len() != 1 {
		t.Fatalf("expected 1 entry, got %d", r.Len())
	}
	canonical, ok := r.Resolve("iso_8859_1")
	if !ok || canonical != "ISO_8859-1" {
		t.Fatalf("expected later canonical name to win, got (%q, %v)", canonical, ok)
	}
}

func TestParseList(t *testing.T) {
	out := "UTF-8//\nUTF-16//\nEUC-KR// CP949//\n\n"
	expected := []string{"UTF-8", "UTF-16", "EUC-KR", "CP949"}
	if got := ParseList(out); !reflect.DeepEqual(got, expected) {
		t.Fatalf("expected %#v, got %#v", expected, got)
	}
}

func TestDefaultTargetEncoding(t *testing.T) {
	tests := []struct {
		name     string
		env      map[string]string
		expected string
	}{
		{"from LANG", map[string]string{"LANG": "en_US.UTF-8"}, "UTF-8"},
		{"LC_ALL wins", map[string]string{"LC_ALL": "ko_KR.EUC-KR", "LANG": "en_US.UTF-8"}, "EUC-KR"},
		{"modifier stripped", map[string]string{"LANG": "de_DE.ISO-8859-15@euro"}, "ISO-8859-15"},
		{"no charmap", map[string]string{"LANG": "C"}, "UTF-8"},
		{"empty environment", map[string]string{}, "UTF-8"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, name := range []string{"LC_ALL", "LC_CTYPE", "LANG"} {
				t.Setenv(name, tt.env[name])
			}
			if got := DefaultTargetEncoding(); got != tt.expected {
				t.Fatalf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestEnumerate(t *testing.T) {
	dir := t.TempDir()
	fakeIconv := filepath.Join(dir, "iconv")
	script := "#!/bin/sh\nif [ \"$1\" = \"-l\" ]; then\n  printf 'UTF-8//\\nEUC-KR//\\n'\n  exit 0\nfi\nexit 1\n"
	if err := os.WriteFile(fakeIconv, []byte(script), 0755); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	r, err := enumerate(fakeIconv)
	if err != nil {
		t.Fatalf("enumerate: %v", err)
	}
	if r.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", r.Len())
	}
	if canonical, ok := r.Resolve("euc_kr"); !ok || canonical != "EUC-KR" {
		t.Fatalf("expected (EUC-KR, true), got (%q, %v)", canonical, ok)
	}
}

func TestEnumerateMissingConverter(t *testing.T) {
	_, err := enumerate(filepath.Join(t.TempDir(), "no-such-iconv"))
	if err == nil {
		t.Fatalf("expected enumerate to fail for a missing converter")
	}
}
