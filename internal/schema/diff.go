package schema

import (
	"fmt"
	"reflect"
	"sort"
)

// Change records one differing path between two document snapshots.
type Change struct {
	Path string `json:"path"`
	Old  any    `json:"old,omitempty"`
	New  any    `json:"new,omitempty"`
}

// DiffResult is a structural comparison of two JSON-like values, suitable
// for storing in a submission history entry.
type DiffResult struct {
	Added   []Change `json:"added,omitempty"`
	Removed []Change `json:"removed,omitempty"`
	Changed []Change `json:"changed,omitempty"`
}

func (d *DiffResult) Empty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0 && len(d.Changed) == 0
}

// Diff deep-compares two values. Maps are compared key by key; slices are
// compared as unordered collections (matched greedily by equality) because
// history entries must not flag pure reorderings.
func Diff(old, new any) DiffResult {
	var d DiffResult
	diffValue(&d, "", old, new)
	sortChanges(&d)
	return d
}

func diffValue(d *DiffResult, path string, old, new any) {
	oldMap, oldIsMap := asMap(old)
	newMap, newIsMap := asMap(new)
	if oldIsMap && newIsMap {
		diffMaps(d, path, oldMap, newMap)
		return
	}

	oldSlice, oldIsSlice := asSlice(old)
	newSlice, newIsSlice := asSlice(new)
	if oldIsSlice && newIsSlice {
		diffSlices(d, path, oldSlice, newSlice)
		return
	}

	if !looseEqual(old, new) {
		d.Changed = append(d.Changed, Change{Path: path, Old: old, New: new})
	}
}

func diffMaps(d *DiffResult, path string, old, new map[string]any) {
	for k, ov := range old {
		p := joinPath(path, k)
		nv, ok := new[k]
		if !ok {
			d.Removed = append(d.Removed, Change{Path: p, Old: ov})
			continue
		}
		diffValue(d, p, ov, nv)
	}
	for k, nv := range new {
		if _, ok := old[k]; !ok {
			d.Added = append(d.Added, Change{Path: joinPath(path, k), New: nv})
		}
	}
}

// diffSlices treats both sides as bags: every old element looks for an equal
// partner on the new side; leftovers become removed/added entries.
func diffSlices(d *DiffResult, path string, old, new []any) {
	matched := make([]bool, len(new))
	for i, ov := range old {
		found := false
		for j, nv := range new {
			if !matched[j] && looseEqual(ov, nv) {
				matched[j] = true
				found = true
				break
			}
		}
		if !found {
			d.Removed = append(d.Removed, Change{Path: fmt.Sprintf("%s[%d]", path, i), Old: ov})
		}
	}
	for j, nv := range new {
		if !matched[j] {
			d.Added = append(d.Added, Change{Path: fmt.Sprintf("%s[%d]", path, j), New: nv})
		}
	}
}

func asMap(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

func asSlice(v any) ([]any, bool) {
	if s, ok := v.([]any); ok {
		return s, ok
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// looseEqual compares scalars with numeric coercion so that an int 2 and a
// float64 2 decoded from JSON do not show up as a change.
func looseEqual(a, b any) bool {
	if reflect.DeepEqual(a, b) {
		return true
	}
	af, aerr := toFloat(a)
	bf, berr := toFloat(b)
	if aerr == nil && berr == nil {
		return af == bf
	}
	am, aok := asMap(a)
	bm, bok := asMap(b)
	if aok && bok {
		var d DiffResult
		diffMaps(&d, "", am, bm)
		return d.Empty()
	}
	as, aok := asSlice(a)
	bs, bok := asSlice(b)
	if aok && bok {
		if len(as) != len(bs) {
			return false
		}
		var d DiffResult
		diffSlices(&d, "", as, bs)
		return d.Empty()
	}
	return false
}

func joinPath(base, key string) string {
	if base == "" {
		return key
	}
	return base + "." + key
}

func sortChanges(d *DiffResult) {
	byPath := func(cs []Change) func(i, j int) bool {
		return func(i, j int) bool { return cs[i].Path < cs[j].Path }
	}
	sort.Slice(d.Added, byPath(d.Added))
	sort.Slice(d.Removed, byPath(d.Removed))
	sort.Slice(d.Changed, byPath(d.Changed))
}
