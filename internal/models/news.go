package models

import "time"

// News — новость. Создаётся импортом или начальным наполнением, не через сайт.
type News struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	Text          string    `json:"text"`
	Date          time.Time `json:"date"`
	SourceLink    string    `json:"source_link,omitempty"`
	CommentsCount int       `json:"comments_count"`
}

// Comment — комментарий к новости. Автор задаётся при создании и не меняется.
type Comment struct {
	ID       int64     `json:"id"`
	NewsID   int64     `json:"news_id"`
	AuthorID int64     `json:"author_id"`
	Author   string    `json:"author,omitempty"`
	Text     string    `json:"text"`
	Created  time.Time `json:"created"`
}
