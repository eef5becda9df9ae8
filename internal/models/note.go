package models

// Note — личная заметка. Slug уникален среди всех заметок.
type Note struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Text     string `json:"text"`
	Slug     string `json:"slug"`
	AuthorID int64  `json:"author_id"`
}
