// Package encoding maintains the registry of character encodings supported
// by the external converter.
//
// Every canonical encoding name reported by the converter gets a derived
// alias that is easier to type on a command line: the name is lower-cased
// and punctuation is replaced with underscores. Alias derivation is a pure
// function of the canonical name; if two canonical names derive to the same
// alias the one reported later overwrites the earlier one.
package encoding

import (
	"os"
	"strings"

	"github.com/derekparker/trie"
	lru "github.com/hashicorp/golang-lru"
)

// AliasMarker tags an alias token on the command line so it can be told
// apart from a plain word.
const AliasMarker = "#"

// completionCacheSize bounds the memoized completion lists. Completion runs
// on every TAB keystroke and the registry never changes after it is built,
// so entries never have to be invalidated.
const completionCacheSize = 128

// Entry pairs a derived alias with the converter's native spelling.
type Entry struct {
	Alias     string
	Canonical string
}

// Registry maps aliases to canonical encoding names. It is immutable after
// construction.
type Registry struct {
	entries []Entry
	byAlias map[string]string
	order   map[string]int
	tr      *trie.Trie
	memo    *lru.Cache
}

// DeriveAlias computes the alias for a canonical encoding name. Lower-case,
// with the punctuation characters ./:-() replaced by underscores.
func DeriveAlias(canonical string) string {
	alias := strings.ToLower(canonical)
	return strings.Map(func(r rune) rune {
		switch r {
		case '.', '/', ':', '-', '(', ')':
			return '_'
		}
		return r
	}, alias)
}

// NewRegistry builds a registry from the converter's list of canonical
// encoding names, in the given order.
func NewRegistry(names []string) *Registry {
	r := &Registry{
		byAlias: make(map[string]string, len(names)),
		order:   make(map[string]int, len(names)),
		tr:      trie.New(),
	}
	r.memo, _ = lru.New(completionCacheSize)
	for _, name := range names {
		alias := DeriveAlias(name)
		if _, seen := r.byAlias[alias]; !seen {
			r.order[alias] = len(r.entries)
			r.entries = append(r.entries, Entry{Alias: alias, Canonical: name})
			r.tr.Add(alias, name)
		} else {
			// Alias collision: the later canonical name wins.
			for i := range r.entries {
				if r.entries[i].Alias == alias {
					r.entries[i].Canonical = name
					break
				}
			}
		}
		r.byAlias[alias] = name
	}
	return r
}

// Len returns the number of aliases in the registry.
func (r *Registry) Len() int {
	return len(r.entries)
}

// Entries returns the registry content in build order.
func (r *Registry) Entries() []Entry {
	return r.entries
}

// Resolve maps an alias to the converter's canonical encoding name. A
// leading alias marker is stripped before the lookup.
func (r *Registry) Resolve(alias string) (string, bool) {
	alias = strings.TrimPrefix(alias, AliasMarker)
	canonical, ok := r.byAlias[alias]
	return canonical, ok
}

// Completions returns all aliases starting with prefix, in registry build
// order. Results are memoized per prefix.
func (r *Registry) Completions(prefix string) []string {
	if r.memo != nil {
		if v, ok := r.memo.Get(prefix); ok {
			return v.([]string)
		}
	}
	keys := r.tr.PrefixSearch(prefix)
	// The trie yields keys in traversal order, the contract is build order.
	sortByOrder(keys, r.order)
	if r.memo != nil {
		r.memo.Add(prefix, keys)
	}
	return keys
}

func sortByOrder(keys []string, order map[string]int) {
	// Insertion sort, completion lists are short.
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && order[keys[j]] < order[keys[j-1]]; j-- {
			keys[j], keys[j-1] = keys[j-1], keys[j]
		}
	}
}

// ParseList parses the converter's self-reported encoding list: one or more
// whitespace-separated names per line, each with an optional trailing
// slash-delimited designator that is stripped.
func ParseList(out string) []string {
	var names []string
	for _, line := range strings.Split(out, "\n") {
		for _, field := range strings.Fields(line) {
			field = strings.TrimRight(field, "/")
			if field != "" {
				names = append(names, field)
			}
		}
	}
	return names
}

// DefaultTargetEncoding derives the initial conversion target from the
// locale environment, falling back to UTF-8.
func DefaultTargetEncoding() string {
	for _, name := range []string{"LC_ALL", "LC_CTYPE", "LANG"} {
		v := os.Getenv(name)
		if v == "" {
			continue
		}
		if i := strings.IndexByte(v, '.'); i >= 0 {
			charmap := v[i+1:]
			if j := strings.IndexByte(charmap, '@'); j >= 0 {
				charmap = charmap[:j]
			}
			if charmap != "" {
				return charmap
			}
		}
	}
	return "UTF-8"
}

// Validate reports whether enc names an encoding known to the registry,
// either as an alias or as a canonical name.
func (r *Registry) Validate(enc string) bool {
	if _, ok := r.Resolve(enc); ok {
		return true
	}
	for _, e := range r.entries {
		if strings.EqualFold(e.Canonical, enc) {
			return true
		}
	}
	return false
}
