package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

// execIface is the command surface the REPL drives. The real App satisfies
// it; tests use a stub.
type execIface interface {
	isLoggedIn() bool
	Signup(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Forgot(ctx context.Context) error
	Passwd(ctx context.Context) error
	Post(ctx context.Context) error
	Browse(ctx context.Context) error
	Request(ctx context.Context, args []string) error
	MyRides(ctx context.Context) error
	Accept(ctx context.Context, args []string) error
	Reject(ctx context.Context, args []string) error
	MyRequests(ctx context.Context) error
}

const (
	helpGuest    = "Available commands: signup, login, forgot, browse, exit"
	helpSignedIn = "Available commands: post, browse, request [rideId], myrides, accept [requestId], reject [requestId], myrequests, passwd, logout, exit"
)

// runREPL reads commands from scanner until EOF or exit/quit. Commands that
// need a session report so instead of being dispatched. Handler errors are
// printed and never stop the loop.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("carpool %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		if needsSession(cmd) && !a.isLoggedIn() {
			printlnFn("Please log in first")
			continue
		}

		var err error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpSignedIn)
			} else {
				printlnFn(helpGuest)
			}
		case "signup":
			err = a.Signup(ctx)
		case "login":
			err = a.Login(ctx)
		case "logout":
			err = a.Logout(ctx)
		case "forgot":
			err = a.Forgot(ctx)
		case "passwd":
			err = a.Passwd(ctx)
		case "post":
			err = a.Post(ctx)
		case "browse":
			err = a.Browse(ctx)
		case "request":
			err = a.Request(ctx, args)
		case "myrides":
			err = a.MyRides(ctx)
		case "accept":
			err = a.Accept(ctx, args)
		case "reject":
			err = a.Reject(ctx, args)
		case "myrequests":
			err = a.MyRequests(ctx)
		case "exit", "quit":
			printlnFn("Bye!")
			return
		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			printlnFn("Error:", err)
		}
	}
}

func needsSession(cmd string) bool {
	switch cmd {
	case "logout", "passwd", "post", "request", "myrides", "accept", "reject", "myrequests":
		return true
	}
	return false
}
