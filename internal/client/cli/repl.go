package cli

import (
	"bufio"
	"context"
	"fmt"
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
	Setup(ctx context.Context) error
	Unlock(ctx context.Context) error
	Lock(ctx context.Context) error
	AddNote(ctx context.Context) error
	EditNote(ctx context.Context) error
	DeleteNote(ctx context.Context) error
	List(ctx context.Context) error
	SetScope(args []string) error
	Sync(ctx context.Context) error
	Status(ctx context.Context) error
	Wallets(ctx context.Context) error
	Watch(ctx context.Context) error
	Unwatch(ctx context.Context) error
}

// runREPL starts a simple read–eval–print loop for the WalletScope CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Not logged in:
//	  - help           — show available commands
//	  - register       — create an account
//	  - login          — authenticate
//	  - exit | quit    — leave the program
//
//	Logged in:
//	  - setup          — choose a diary passphrase (first use)
//	  - unlock / lock  — open or close the diary
//	  - add            — add a note in the current scope
//	  - list | l       — list notes in the current scope
//	  - edit / del     — change or remove a note
//	  - scope [addr]   — switch between global and per-wallet diaries
//	  - sync           — replay queued changes against the server
//	  - status         — show diary and connectivity state
//	  - wallets        — show the watchlist
//	  - watch/unwatch  — manage the watchlist
//	  - logout         — lock the diary and forget the session
//	  - exit | quit    — leave the program
//
// Any errors returned by command handlers are ignored here; handlers should
// log their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("ws> %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: setup, unlock, lock, add, (l)ist, edit, del, scope, sync, status, wallets, watch, unwatch, logout, exit")
			} else {
				printlnFn("Available commands: register, login, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "setup":
			_ = a.Setup(ctx)

		case "unlock":
			_ = a.Unlock(ctx)

		case "lock":
			_ = a.Lock(ctx)

		case "add":
			_ = a.AddNote(ctx)

		case "edit":
			_ = a.EditNote(ctx)

		case "del":
			_ = a.DeleteNote(ctx)

		case "l", "list":
			_ = a.List(ctx)

		case "scope":
			_ = a.SetScope(args)

		case "sync":
			_ = a.Sync(ctx)

		case "status":
			_ = a.Status(ctx)

		case "wallets":
			_ = a.Wallets(ctx)

		case "watch":
			_ = a.Watch(ctx)

		case "unwatch":
			_ = a.Unwatch(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
