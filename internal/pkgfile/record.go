// Package pkgfile reads and writes per-package configuration files: one
// record per line, a package expression followed by modifier-tagged flags.
// Lines that do not parse (comments, blanks, anything malformed) pass
// through byte for byte, and so does every record that has not been edited.
// Files load lazily, track dirty state per record and per file, and only
// dirty files touch the disk on write.
package pkgfile

import (
	"errors"
	"sort"
	"strings"
)

// ErrInvalidRecord indicates text that does not parse as a package record.
var ErrInvalidRecord = errors.New("not a package record")

// Flag is one modifier-tagged token of a record. The modifier is "+", "-",
// or empty. Sorting compares names only; two flags are the same occurrence
// only when modifier and name both match.
type Flag struct {
	Modifier string
	Name     string
}

// ParseFlag splits an optional leading modifier from a token.
func ParseFlag(tok string) Flag {
	if tok != "" && (tok[0] == '+' || tok[0] == '-') {
		return Flag{Modifier: string(tok[0]), Name: tok[1:]}
	}
	return Flag{Name: tok}
}

func (f Flag) String() string { return f.Modifier + f.Name }

// Record is one structured line: a package expression plus its flags in
// declaration order. The raw text is kept so an unedited record writes back
// byte-identically, line terminator included.
type Record struct {
	Package string

	flags []Flag
	raw   string
	dirty bool
}

// ParseRecord parses one line. Empty lines and lines whose first token
// starts with the comment marker return ErrInvalidRecord; the caller decides
// whether that means passthrough or a rejected input.
func ParseRecord(text string) (*Record, error) {
	fields := strings.Fields(text)
	if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
		return nil, ErrInvalidRecord
	}

	r := &Record{Package: fields[0], raw: text}
	for _, tok := range fields[1:] {
		r.flags = append(r.flags, ParseFlag(tok))
	}
	return r, nil
}

// Flags returns the flags most recently declared first, so the first
// occurrence of a name carries the winning modifier.
func (r *Record) Flags() []Flag {
	out := make([]Flag, len(r.flags))
	for i, f := range r.flags {
		out[len(r.flags)-1-i] = f
	}
	return out
}

// Lookup returns every occurrence of a flag name, most recent first.
func (r *Record) Lookup(name string) []Flag {
	var out []Flag
	for _, f := range r.Flags() {
		if f.Name == name {
			out = append(out, f)
		}
	}
	return out
}

// Len reports the number of flags.
func (r *Record) Len() int { return len(r.flags) }

// Dirty reports whether the record was edited since load or last write.
func (r *Record) Dirty() bool { return r.dirty }

// Append adds a flag at the end of the declaration order.
func (r *Record) Append(f Flag) {
	r.flags = append(r.flags, f)
	r.dirty = true
}

// Remove drops the first occurrence equal to f (modifier and name) in
// declaration order. The record is dirtied only when something was removed.
func (r *Record) Remove(f Flag) bool {
	for i, have := range r.flags {
		if have == f {
			r.flags = append(r.flags[:i], r.flags[i+1:]...)
			r.dirty = true
			return true
		}
	}
	return false
}

// RemoveAll drops every occurrence of a flag name and dirties the record
// whether or not anything matched.
func (r *Record) RemoveAll(name string) {
	kept := r.flags[:0]
	for _, f := range r.flags {
		if f.Name != name {
			kept = append(kept, f)
		}
	}
	r.flags = kept
	r.dirty = true
}

// Sort orders flags by name, keeping the declaration order of equal names.
func (r *Record) Sort() {
	sort.SliceStable(r.flags, func(i, j int) bool {
		return r.flags[i].Name < r.flags[j].Name
	})
	r.dirty = true
}

// String serializes the record: the raw text while clean, rebuilt from the
// current expression and flags once dirty.
func (r *Record) String() string {
	if !r.dirty {
		return r.raw
	}
	parts := make([]string, 0, 1+len(r.flags))
	parts = append(parts, r.Package)
	for _, f := range r.flags {
		parts = append(parts, f.String())
	}
	return strings.Join(parts, " ") + "\n"
}
