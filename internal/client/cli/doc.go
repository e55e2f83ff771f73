// Package cli provides the interactive bookshelf command-line client.
//
// It wires configuration, the HTTP API client, the client state store and an
// interactive REPL. Typical flow: ping the server, start a background
// connectivity watcher, then execute user commands until "exit".
//
// Key features:
//   - Register / Login / Logout / Me (session kept in the client's cookie jar)
//   - Browse the catalog: books, book <id>
//   - Manage the personal library: mybooks, add, status, rate
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, StartOnlineStatusWatcher, and runREPL for details.
package cli
