package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Me(ctx context.Context) error
	Books(ctx context.Context) error
	Book(ctx context.Context, id string) error
	MyBooks(ctx context.Context) error
	Add(ctx context.Context, bookID string) error
	SetStatus(ctx context.Context, bookID, status string) error
	Rate(ctx context.Context, bookID string, rating int) error
}

// runREPL starts a read–eval–print loop for the bookshelf CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. The loop exits on EOF or when the user types
// "exit" or "quit".
//
// Commands available at any time:
//
//	help                      show available commands
//	books                     list the catalog
//	book <id>                 show one catalog book
//	exit | quit               leave the program
//
// Signed out: register, login.
// Signed in: me, mybooks, add <bookId>, status <bookId> <status>,
// rate <bookId> <1-5>, logout.
//
// Errors returned by command handlers are ignored here; handlers report
// their own errors.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("bookshelf %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: books, book <id>, me, mybooks, add <bookId>, status <bookId> <status>, rate <bookId> <1-5>, logout, exit")
			} else {
				printlnFn("Available commands: register, login, books, book <id>, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "me":
			_ = a.Me(ctx)

		case "books":
			_ = a.Books(ctx)

		case "book":
			if len(args) != 1 {
				printlnFn("Usage: book <id>")
				continue
			}
			_ = a.Book(ctx, args[0])

		case "mybooks":
			_ = a.MyBooks(ctx)

		case "add":
			if len(args) != 1 {
				printlnFn("Usage: add <bookId>")
				continue
			}
			_ = a.Add(ctx, args[0])

		case "status":
			if len(args) < 2 {
				printlnFn("Usage: status <bookId> <want|reading|read>")
				continue
			}
			_ = a.SetStatus(ctx, args[0], parseStatus(strings.Join(args[1:], " ")))

		case "rate":
			if len(args) != 2 {
				printlnFn("Usage: rate <bookId> <1-5>")
				continue
			}
			n, err := strconv.Atoi(args[1])
			if err != nil {
				printlnFn("Usage: rate <bookId> <1-5>")
				continue
			}
			_ = a.Rate(ctx, args[0], n)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			return
		}
	}
}

// parseStatus maps the short aliases accepted on the command line to the
// reading statuses the server knows. Anything else is passed through as typed
// so the server can reject it.
func parseStatus(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "want", "want to read":
		return "Want to Read"
	case "reading", "currently reading":
		return "Currently Reading"
	case "read":
		return "Read"
	}
	return s
}
