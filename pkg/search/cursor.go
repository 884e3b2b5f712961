package search

// Cursor is the keyset-pagination resume point: the score and entity id of
// the last row of the previous page. Both nil means "first page". Pagination
// is forward-only; the caller passes the values back verbatim.
type Cursor struct {
	LastScore *int   `json:"lastScore,omitempty"`
	LastID    *int64 `json:"lastId,omitempty"`
}

// Empty reports whether the cursor denotes the first page.
func (c Cursor) Empty() bool {
	return c.LastScore == nil && c.LastID == nil
}

// NextCursor builds the cursor for the page after a row with the given score
// and id. Rows are ordered score DESC, id ASC, so the last row of a page is
// the lowest score seen and, within that score, the highest id.
func NextCursor(score int, id int64) *Cursor {
	return &Cursor{LastScore: &score, LastID: &id}
}
