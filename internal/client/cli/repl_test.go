package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeExec struct {
	loggedIn bool

	calls []string
}

func (f *fakeExec) record(format string, args ...any) error {
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
	return nil
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) Register(ctx context.Context) error {
	f.loggedIn = true
	return f.record("register")
}
func (f *fakeExec) Login(ctx context.Context) error {
	f.loggedIn = true
	return f.record("login")
}
func (f *fakeExec) Logout(ctx context.Context) error {
	f.loggedIn = false
	return f.record("logout")
}
func (f *fakeExec) Me(ctx context.Context) error      { return f.record("me") }
func (f *fakeExec) Books(ctx context.Context) error   { return f.record("books") }
func (f *fakeExec) MyBooks(ctx context.Context) error { return f.record("mybooks") }
func (f *fakeExec) Book(ctx context.Context, id string) error {
	return f.record("book %s", id)
}
func (f *fakeExec) Add(ctx context.Context, bookID string) error {
	return f.record("add %s", bookID)
}
func (f *fakeExec) SetStatus(ctx context.Context, bookID, status string) error {
	return f.record("status %s %s", bookID, status)
}
func (f *fakeExec) Rate(ctx context.Context, bookID string, rating int) error {
	return f.record("rate %s %d", bookID, rating)
}

// capturePrintln replaces printlnFn for the test and returns the lines
// printed so far.
func capturePrintln(t *testing.T) func() []string {
	t.Helper()
	var lines []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		lines = append(lines, strings.TrimSuffix(fmt.Sprintln(a...), "\n"))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return func() []string { return lines }
}

func feed(lines ...string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(strings.Join(lines, "\n")))
}

func TestRunREPL_DispatchesCommands(t *testing.T) {
	capturePrintln(t)

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "status" }, feed(
		"",
		"login",
		"books",
		"book b1",
		"me",
		"mybooks",
		"add b1",
		"status b1 reading",
		"status b1 Want to Read",
		"rate b1 4",
		"logout",
		"exit",
		"books",
	))

	assert.Equal(t, []string{
		"login",
		"books",
		"book b1",
		"me",
		"mybooks",
		"add b1",
		"status b1 Currently Reading",
		"status b1 Want to Read",
		"rate b1 4",
		"logout",
	}, exec.calls)
}

func TestRunREPL_UsageErrorsDoNotDispatch(t *testing.T) {
	printed := capturePrintln(t)

	exec := &fakeExec{loggedIn: true}
	runREPL(context.Background(), exec, func() string { return "s" }, feed(
		"book",
		"add",
		"status b1",
		"rate b1",
		"rate b1 five",
		"frobnicate",
		"quit",
	))

	assert.Empty(t, exec.calls)
	out := strings.Join(printed(), "\n")
	assert.Contains(t, out, "Usage: book <id>")
	assert.Contains(t, out, "Usage: add <bookId>")
	assert.Contains(t, out, "Usage: status <bookId> <want|reading|read>")
	assert.Contains(t, out, "Usage: rate <bookId> <1-5>")
	assert.Contains(t, out, "Unknown command: frobnicate")
	assert.Contains(t, out, "Bye!")
}

func TestRunREPL_HelpDependsOnSession(t *testing.T) {
	printed := capturePrintln(t)

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "" }, feed("help", "login", "help"))

	var help []string
	for _, l := range printed() {
		if strings.HasPrefix(l, "Available commands:") {
			help = append(help, l)
		}
	}
	if assert.Len(t, help, 2) {
		assert.Contains(t, help[0], "register")
		assert.NotContains(t, help[0], "mybooks")
		assert.Contains(t, help[1], "mybooks")
		assert.NotContains(t, help[1], "register")
	}
}

func TestRunREPL_LastLineWithoutNewline(t *testing.T) {
	capturePrintln(t)

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "" }, bufio.NewReader(strings.NewReader("books")))

	assert.Equal(t, []string{"books"}, exec.calls)
}

func TestRunREPL_PromptShowsStatus(t *testing.T) {
	printed := capturePrintln(t)

	runREPL(context.Background(), &fakeExec{}, func() string { return "(alice@example.com online)" }, feed("exit"))

	assert.Equal(t, "bookshelf (alice@example.com online)> ", printed()[0])
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"want", "Want to Read"},
		{"WANT TO READ", "Want to Read"},
		{"reading", "Currently Reading"},
		{"Currently Reading", "Currently Reading"},
		{"read", "Read"},
		{" Read ", "Read"},
		{"Abandoned", "Abandoned"},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, parseStatus(tc.in))
		})
	}
}
