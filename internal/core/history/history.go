// Package history keeps the recency lists behind the Find and Replace fields.
package history

// DefaultLimit is the number of entries kept when no limit is configured.
const DefaultLimit = 20

// Recency is a bounded, most-recent-first list of distinct strings.
type Recency struct {
	items []string
	limit int
}

// NewRecency creates an empty list holding at most limit entries. A limit
// below one falls back to DefaultLimit.
func NewRecency(limit int) *Recency {
	if limit < 1 {
		limit = DefaultLimit
	}
	return &Recency{limit: limit}
}

// Add moves v to the head of the list, inserting it when absent and pruning
// the oldest entries past the limit. Empty strings are ignored. Reports
// whether the list changed.
func (r *Recency) Add(v string) bool {
	if v == "" {
		return false
	}
	if len(r.items) > 0 && r.items[0] == v {
		return false
	}

	for i, item := range r.items {
		if item == v {
			r.items = append(r.items[:i], r.items[i+1:]...)
			break
		}
	}

	// Prepend new entry (newest first)
	r.items = append([]string{v}, r.items...)

	if len(r.items) > r.limit {
		r.items = r.items[:r.limit]
	}
	return true
}

// Items returns a copy of the entries, newest first.
func (r *Recency) Items() []string {
	out := make([]string, len(r.items))
	copy(out, r.items)
	return out
}

// Len returns the number of entries.
func (r *Recency) Len() int { return len(r.items) }

// Limit returns the maximum number of entries.
func (r *Recency) Limit() int { return r.limit }

// Head returns the most recent entry.
func (r *Recency) Head() (string, bool) {
	return r.At(0)
}

// At returns the entry at index i, 0 being the most recent.
func (r *Recency) At(i int) (string, bool) {
	if i < 0 || i >= len(r.items) {
		return "", false
	}
	return r.items[i], true
}
