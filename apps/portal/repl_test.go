package main

import (
	"bufio"
	"context"
	"strings"
	"testing"
)

type fakeApp struct {
	authenticated bool
	calls         []string
}

func (f *fakeApp) isAuthenticated() bool { return f.authenticated }
func (f *fakeApp) prompt() string        { return "test" }
func (f *fakeApp) Login(_ context.Context) error {
	f.calls = append(f.calls, "login")
	f.authenticated = true
	return nil
}
func (f *fakeApp) Home(_ context.Context) error {
	f.calls = append(f.calls, "home")
	return nil
}
func (f *fakeApp) Admin(_ context.Context) error {
	f.calls = append(f.calls, "admin")
	return nil
}
func (f *fakeApp) Refresh(_ context.Context) error {
	f.calls = append(f.calls, "refresh")
	return nil
}
func (f *fakeApp) ForgotPassword(_ context.Context) error {
	f.calls = append(f.calls, "forgot")
	return nil
}
func (f *fakeApp) Logout(_ context.Context) error {
	f.calls = append(f.calls, "logout")
	f.authenticated = false
	return nil
}

func TestRunREPL_loginFlowAndCommands(t *testing.T) {
	origPrint := printlnFn
	printlnFn = func(...interface{}) (int, error) { return 0, nil }
	defer func() { printlnFn = origPrint }()

	input := strings.NewReader(strings.Join([]string{
		"help",
		"login",
		"help",
		"home",
		"h",
		"admin",
		"refresh",
		"foobar",
		"logout",
		"exit",
	}, "\n"))

	a := &fakeApp{}
	runREPL(context.Background(), a, bufio.NewScanner(input))

	want := []string{"login", "home", "home", "admin", "refresh", "logout"}
	if len(a.calls) != len(want) {
		t.Fatalf("calls = %v, want %v", a.calls, want)
	}
	for i, c := range a.calls {
		if c != want[i] {
			t.Fatalf("calls = %v, want %v", a.calls, want)
		}
	}
}

func TestRunREPL_unknownCommandAndQuit(t *testing.T) {
	origPrint := printlnFn
	printlnFn = func(...interface{}) (int, error) { return 0, nil }
	defer func() { printlnFn = origPrint }()

	input := strings.NewReader("lol\n\nquit\n")
	a := &fakeApp{authenticated: true}
	runREPL(context.Background(), a, bufio.NewScanner(input))

	if len(a.calls) != 0 {
		t.Fatalf("unexpected calls: %v", a.calls)
	}
}
