// Package snapshot models the configuration state handed to validators: a
// set of named tables, each holding rows keyed by a (possibly composite) key.
package snapshot

import (
	"fmt"
	"sort"
	"strings"

	mapset "github.com/deckarep/golang-set"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// KeyDelimiter separates the segments of a composite row key, e.g. "Vlan1000|192.168.0.1".
const KeyDelimiter = "|"

// Row maps field names to values. Values are strings, lists of strings or nested maps.
type Row map[string]interface{}

// Table maps row keys to rows.
type Table map[string]Row

// Config maps table names to tables.
type Config map[string]Table

// Table returns the named table, or an empty table when it is absent.
func (c Config) Table(name string) Table {
	if t, ok := c[name]; ok && t != nil {
		return t
	}
	return Table{}
}

// Row returns the row stored under key, or an empty row when it is absent.
func (t Table) Row(key string) Row {
	if r, ok := t[key]; ok && r != nil {
		return r
	}
	return Row{}
}

// Keys returns the row keys of the table as a set.
func (t Table) Keys() mapset.Set {
	keys := mapset.NewThreadUnsafeSet()
	for k := range t {
		keys.Add(k)
	}
	return keys
}

// String returns a scalar string field, or "" when the field is absent or not a string.
func (r Row) String(field string) string {
	s, _ := r[field].(string)
	return s
}

// StringList returns a list field. An absent field yields an empty list and a
// scalar string yields a one-element list.
func (r Row) StringList(field string) []string {
	switch v := r[field].(type) {
	case nil:
		return []string{}
	case []string:
		return v
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			out = append(out, fmt.Sprint(item))
		}
		return out
	case string:
		return []string{v}
	default:
		return []string{fmt.Sprint(v)}
	}
}

// SplitKey splits a composite row key into its segments.
func SplitKey(key string) []string {
	return strings.Split(key, KeyDelimiter)
}

// KeyPrefix returns the first segment of a composite row key.
func KeyPrefix(key string) string {
	return SplitKey(key)[0]
}

// Equal reports whether two tables, rows or field values hold the same data.
// Missing and empty collections compare equal.
func Equal(a, b interface{}) bool {
	return cmp.Equal(a, b, cmpopts.EquateEmpty())
}

// ChangedKeys is the set of row keys touched by a delta.
type ChangedKeys = mapset.Set

// NewChangedKeys builds a ChangedKeys set.
func NewChangedKeys(keys ...string) ChangedKeys {
	set := mapset.NewThreadUnsafeSet()
	for _, k := range keys {
		set.Add(k)
	}
	return set
}

// SortedStrings returns the string members of set in ascending order.
func SortedStrings(set mapset.Set) []string {
	out := make([]string, 0, set.Cardinality())
	for _, item := range set.ToSlice() {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}
