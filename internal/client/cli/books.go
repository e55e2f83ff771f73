package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/bookshelf/internal/client/models"
)

// Books lists the catalog.
func (a *App) Books(ctx context.Context) error {
	a.store.FetchBooksStart()
	list, err := a.api.Books(ctx)
	if err != nil {
		a.store.FetchBooksFail(err.Error())
		return a.report(err)
	}
	a.store.FetchBooksSuccess(list)

	if len(list) == 0 {
		a.println("The catalog is empty")
		return nil
	}
	for _, b := range list {
		a.println(fmt.Sprintf("%s  %s", b.ID, b))
	}
	return nil
}

// Book shows one catalog book, plus the user's shelf state for it when known.
func (a *App) Book(ctx context.Context, id string) error {
	b, err := a.api.Book(ctx, id)
	if err != nil {
		return a.report(err)
	}

	a.println(b.String())
	if b.Genre != "" {
		a.println("Genre:", b.Genre)
	}
	if b.ISBN != "" {
		a.println("ISBN:", b.ISBN)
	}
	if b.Description != "" {
		a.println(b.Description)
	}
	a.println("Cover:", b.CoverImage)

	if e, ok := a.store.FindEntry(b.ID); ok {
		a.println(fmt.Sprintf("On your shelf: %s, rating %s", e.Status, models.Stars(e.Rating)))
	}
	return nil
}

// MyBooks lists the user's library with a per-status summary.
func (a *App) MyBooks(ctx context.Context) error {
	a.store.FetchMyBooksStart()
	list, err := a.api.MyBooks(ctx)
	if err != nil {
		a.store.FetchMyBooksFail(err.Error())
		return a.report(err)
	}
	a.store.FetchMyBooksSuccess(list)

	if len(list) == 0 {
		a.println("Your library is empty (try 'books' and 'add <bookId>')")
		return nil
	}

	counts := make(map[string]int, len(models.Statuses))
	for _, e := range list {
		counts[e.Status]++
		title := "(unknown book)"
		if e.Book != nil {
			title = e.Book.String()
		}
		a.println(fmt.Sprintf("%s  %-17s  %s  %s", e.BookID(), e.Status, models.Stars(e.Rating), title))
	}

	summary := fmt.Sprintf("%d books:", len(list))
	for _, s := range models.Statuses {
		summary += fmt.Sprintf(" %s %d;", s, counts[s])
	}
	a.println(summary[:len(summary)-1])
	return nil
}

// Add puts a catalog book on the user's shelf as "Want to Read".
func (a *App) Add(ctx context.Context, bookID string) error {
	e, err := a.api.AddToLibrary(ctx, bookID)
	if err != nil {
		a.store.SetError(err.Error())
		return a.report(err)
	}
	a.store.AddBookSuccess(*e)
	a.println("Book added to your library")
	return nil
}

// SetStatus changes the reading status of a shelved book.
func (a *App) SetStatus(ctx context.Context, bookID, status string) error {
	e, err := a.api.SetStatus(ctx, bookID, status)
	if err != nil {
		a.store.SetError(err.Error())
		return a.report(err)
	}
	a.store.UpdateBookSuccess(*e)
	a.println("Status set to", e.Status)
	return nil
}

// Rate sets the 1-5 rating of a shelved book. Range checks are left to the
// server.
func (a *App) Rate(ctx context.Context, bookID string, rating int) error {
	e, err := a.api.SetRating(ctx, bookID, rating)
	if err != nil {
		a.store.SetError(err.Error())
		return a.report(err)
	}
	a.store.UpdateBookSuccess(*e)
	a.println("Rating set to", models.Stars(e.Rating))
	return nil
}
