package models

import "time"

// Book is a read-only catalog record.
type Book struct {
	ID            string    `json:"_id"`
	Title         string    `json:"title"`
	Author        string    `json:"author"`
	Description   string    `json:"description"`
	CoverImage    string    `json:"coverImage"`
	Genre         string    `json:"genre"`
	PublishedYear int       `json:"publishedYear"`
	ISBN          *string   `json:"isbn,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}
