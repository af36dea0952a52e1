package history

// Cursor walks a Recency list from an input field: Older steps back in time,
// Newer steps forward and finally returns to the text the user was typing.
type Cursor struct {
	list  *Recency
	pos   int // -1 while editing the draft
	draft string
}

// NewCursor returns a cursor over list positioned on the draft.
func NewCursor(list *Recency) *Cursor {
	return &Cursor{list: list, pos: -1}
}

// Older returns the next older entry. current is the field value, saved as
// the draft when leaving it. Returns false at the oldest entry.
func (c *Cursor) Older(current string) (string, bool) {
	next := c.pos + 1
	v, ok := c.list.At(next)
	if !ok {
		return "", false
	}
	if c.pos == -1 {
		c.draft = current
	}
	c.pos = next
	return v, true
}

// Newer returns the next newer entry, or the saved draft when stepping past
// the newest one. Returns false when already on the draft.
func (c *Cursor) Newer() (string, bool) {
	if c.pos == -1 {
		return "", false
	}
	c.pos--
	if c.pos == -1 {
		return c.draft, true
	}
	v, _ := c.list.At(c.pos)
	return v, true
}

// Reset puts the cursor back on the draft, e.g. after the list changed.
func (c *Cursor) Reset() {
	c.pos = -1
	c.draft = ""
}
