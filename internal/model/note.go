// Package model contains domain models shared by the generator, loader and DB layers.
package model

// TimeLayout is the second-precision text format stored in created/updated.
const TimeLayout = "2006-01-02 15:04:05"

// Note represents one row of the notes table.
// Timestamps are kept as TEXT (TimeLayout) to match the target schema;
// ID is only set when a row is read back.
type Note struct {
	ID      int64  `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
	Created string `json:"created"`
	Updated string `json:"updated"`
}

// Args returns the insert arguments in column order (title, content, created, updated).
func (n Note) Args() []any {
	return []any{n.Title, n.Content, n.Created, n.Updated}
}
