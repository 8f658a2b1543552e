package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeExec struct {
	loggedIn bool
	failOn   string

	calls []string
}

func (f *fakeExec) record(name string, args ...string) error {
	call := name
	if len(args) > 0 {
		call += " " + strings.Join(args, " ")
	}
	f.calls = append(f.calls, call)
	if name == f.failOn {
		return errors.New("boom")
	}
	return nil
}

func (f *fakeExec) isLoggedIn() bool                  { return f.loggedIn }
func (f *fakeExec) Signup(ctx context.Context) error  { return f.record("signup") }
func (f *fakeExec) Forgot(ctx context.Context) error  { return f.record("forgot") }
func (f *fakeExec) Passwd(ctx context.Context) error  { return f.record("passwd") }
func (f *fakeExec) Post(ctx context.Context) error    { return f.record("post") }
func (f *fakeExec) Browse(ctx context.Context) error  { return f.record("browse") }
func (f *fakeExec) MyRides(ctx context.Context) error { return f.record("myrides") }
func (f *fakeExec) MyRequests(ctx context.Context) error {
	return f.record("myrequests")
}
func (f *fakeExec) Request(ctx context.Context, args []string) error {
	return f.record("request", args...)
}
func (f *fakeExec) Accept(ctx context.Context, args []string) error {
	return f.record("accept", args...)
}
func (f *fakeExec) Reject(ctx context.Context, args []string) error {
	return f.record("reject", args...)
}
func (f *fakeExec) Login(ctx context.Context) error {
	f.loggedIn = true
	return f.record("login")
}
func (f *fakeExec) Logout(ctx context.Context) error {
	f.loggedIn = false
	return f.record("logout")
}

func captureOutput(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		lines = append(lines, strings.TrimSuffix(fmt.Sprintln(a...), "\n"))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &lines
}

func TestRunREPL_DispatchesCommands(t *testing.T) {
	out := captureOutput(t)

	input := strings.Join([]string{
		"help",
		"post",
		"login",
		"help",
		"",
		"post",
		"browse",
		"request r1",
		"myrides",
		"accept q1",
		"reject q2",
		"reject",
		"myrequests",
		"passwd",
		"foobar",
		"logout",
		"myrides",
		"exit",
		"browse",
	}, "\n")

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "(status)" }, bufio.NewScanner(strings.NewReader(input)))

	assert.Equal(t, []string{
		"login", "post", "browse", "request r1", "myrides", "accept q1", "reject q2", "reject",
		"myrequests", "passwd", "logout",
	}, exec.calls)

	assert.Contains(t, *out, helpGuest)
	assert.Contains(t, *out, helpSignedIn)
	assert.Contains(t, *out, "Please log in first")
	assert.Contains(t, *out, "Unknown command: foobar")
	assert.Contains(t, *out, "carpool (status)> ")
	assert.Equal(t, "Bye!", (*out)[len(*out)-1])
}

func TestRunREPL_GuestCommandsAndErrors(t *testing.T) {
	out := captureOutput(t)

	exec := &fakeExec{failOn: "forgot"}
	runREPL(context.Background(), exec, func() string { return "" },
		bufio.NewScanner(strings.NewReader("signup\nforgot\nbrowse\naccept q1\nquit\n")))

	assert.Equal(t, []string{"signup", "forgot", "browse"}, exec.calls)
	assert.Contains(t, *out, "Error: boom")
}

func TestRunREPL_StopsAtEOF(t *testing.T) {
	captureOutput(t)

	exec := &fakeExec{loggedIn: true}
	runREPL(context.Background(), exec, func() string { return "" }, bufio.NewScanner(strings.NewReader("browse")))

	assert.Equal(t, []string{"browse"}, exec.calls)
}
