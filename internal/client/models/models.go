// Package models defines the client-side view of API payloads.
package models

import (
	"fmt"
	"strings"
	"time"
)

type User struct {
	ID        string    `json:"_id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

type Book struct {
	ID            string    `json:"_id"`
	Title         string    `json:"title"`
	Author        string    `json:"author"`
	Description   string    `json:"description"`
	CoverImage    string    `json:"coverImage"`
	Genre         string    `json:"genre"`
	PublishedYear int       `json:"publishedYear"`
	ISBN          string    `json:"isbn,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// LibraryEntry is a book on the user's shelf. Book is the populated catalog
// record, sent by the server under "bookId".
type LibraryEntry struct {
	ID           string     `json:"_id"`
	UserID       string     `json:"userId"`
	Book         *Book      `json:"bookId"`
	Status       string     `json:"status"`
	Rating       *int       `json:"rating"`
	DateAdded    time.Time  `json:"dateAdded"`
	DateFinished *time.Time `json:"dateFinished"`
}

// Reading statuses accepted by the server.
var Statuses = []string{"Want to Read", "Currently Reading", "Read"}

// BookID returns the catalog id of the entry's book, or "".
func (e LibraryEntry) BookID() string {
	if e.Book == nil {
		return ""
	}
	return e.Book.ID
}

// Stars renders a rating as "★★★☆☆", or "-" when unrated.
func Stars(rating *int) string {
	if rating == nil {
		return "-"
	}
	n := min(max(*rating, 0), 5)
	return strings.Repeat("★", n) + strings.Repeat("☆", 5-n)
}

func (b Book) String() string {
	if b.PublishedYear > 0 {
		return fmt.Sprintf("%s by %s (%d)", b.Title, b.Author, b.PublishedYear)
	}
	return fmt.Sprintf("%s by %s", b.Title, b.Author)
}
