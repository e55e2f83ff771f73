package models

import "time"

// Status is the reading state of a book in a user's library.
type Status string

const (
	StatusWantToRead       Status = "Want to Read"
	StatusCurrentlyReading Status = "Currently Reading"
	StatusRead             Status = "Read"
)

// Valid reports whether s is one of the known reading states.
func (s Status) Valid() bool {
	switch s {
	case StatusWantToRead, StatusCurrentlyReading, StatusRead:
		return true
	}
	return false
}

// LibraryEntry links a user to a catalog book. Book is populated by reads
// that join the catalog and is serialized under "bookId" for wire
// compatibility with existing clients.
type LibraryEntry struct {
	ID           string     `json:"_id"`
	UserID       string     `json:"userId"`
	BookID       string     `json:"-"`
	Book         *Book      `json:"bookId"`
	Status       Status     `json:"status"`
	Rating       *int       `json:"rating"`
	DateAdded    time.Time  `json:"dateAdded"`
	DateFinished *time.Time `json:"dateFinished"`
}
