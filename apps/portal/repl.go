package main

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

var printlnFn = fmt.Println // mockable

// portalApp is the command surface the REPL dispatches to.
type portalApp interface {
	isAuthenticated() bool
	prompt() string
	Login(ctx context.Context) error
	Home(ctx context.Context) error
	Admin(ctx context.Context) error
	Refresh(ctx context.Context) error
	ForgotPassword(ctx context.Context) error
	Logout(ctx context.Context) error
}

// runREPL reads a command per line and dispatches to a. Command handlers
// report their own errors; the loop only exits on EOF, "exit" or "quit".
func runREPL(ctx context.Context, a portalApp, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("darasa> %s > ", a.prompt()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}

		switch cmd := parts[0]; cmd {
		case "help":
			if a.isAuthenticated() {
				printlnFn("Available commands: (h)ome, admin, refresh, logout, exit")
			} else {
				printlnFn("Available commands: login, forgot, refresh, exit")
			}

		case "login":
			_ = a.Login(ctx)

		case "h", "home":
			_ = a.Home(ctx)

		case "admin":
			_ = a.Admin(ctx)

		case "refresh":
			_ = a.Refresh(ctx)

		case "forgot":
			_ = a.ForgotPassword(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
