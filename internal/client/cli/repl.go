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
	loggedIn() bool

	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Google(ctx context.Context) error
	Logout(ctx context.Context) error
	Whoami(ctx context.Context) error
	Profile(ctx context.Context) error
	Passwd(ctx context.Context) error

	List(ctx context.Context, args []string) error
	Add(ctx context.Context) error
	Edit(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
	Stats(ctx context.Context, args []string) error
	Dashboard(ctx context.Context) error
	Export(ctx context.Context, args []string) error

	Theme(ctx context.Context, args []string) error
}

const (
	helpGuest    = "Available commands: register, login, google, theme, exit"
	helpSignedIn = "Available commands: (d)ashboard, (l)ist [week|month|year|all|FROM TO], add, edit <id>, delete <id>, stats [period], export [FILE], whoami, profile, passwd, theme [light|dark|system], logout, exit"
)

// runREPL starts a simple read–eval–print loop for the WealFlow CLI.
//
// Lines come from reader, the same buffered reader the command prompts use,
// so answers typed ahead of a prompt are not swallowed by the loop. The first
// token is the command and the rest are its arguments. Commands that need a
// session are refused while signed out. Errors from handlers are printed and
// the loop goes on. It exits on EOF or when the user types "exit" or "quit".
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("wealflow %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if line != "" && evalLine(ctx, a, line) {
			return
		}
		if err != nil {
			return
		}
	}
}

// evalLine runs a single command line and reports whether the user asked to quit.
func evalLine(ctx context.Context, a execIface, line string) bool {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return false
	}
	cmd, args := parts[0], parts[1:]

	var err error
	switch cmd {
	case "help":
		if a.loggedIn() {
			printlnFn(helpSignedIn)
		} else {
			printlnFn(helpGuest)
		}

	case "register":
		err = a.Register(ctx)
	case "login":
		err = a.Login(ctx)
	case "google":
		err = a.Google(ctx)
	case "theme":
		err = a.Theme(ctx, args)

	case "logout", "whoami", "profile", "passwd",
		"l", "list", "add", "edit", "delete", "stats", "d", "dashboard", "export":
		if !a.loggedIn() {
			printlnFn("Please log in first.")
			return false
		}
		err = dispatchSignedIn(ctx, a, cmd, args)

	case "exit", "quit":
		printlnFn("Bye!")
		return true

	default:
		printlnFn("Unknown command:", cmd)
	}

	if err != nil {
		printlnFn("Error:", err)
	}
	return false
}

func dispatchSignedIn(ctx context.Context, a execIface, cmd string, args []string) error {
	switch cmd {
	case "logout":
		return a.Logout(ctx)
	case "whoami":
		return a.Whoami(ctx)
	case "profile":
		return a.Profile(ctx)
	case "passwd":
		return a.Passwd(ctx)
	case "l", "list":
		return a.List(ctx, args)
	case "add":
		return a.Add(ctx)
	case "edit":
		return a.Edit(ctx, args)
	case "delete":
		return a.Delete(ctx, args)
	case "stats":
		return a.Stats(ctx, args)
	case "d", "dashboard":
		return a.Dashboard(ctx)
	case "export":
		return a.Export(ctx, args)
	}
	return nil
}
