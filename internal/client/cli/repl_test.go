package cli

import (
	"bufio"
	"context"
	"strings"
	"testing"
)

type fakeExec struct {
	loggedIn bool

	calls     []string
	scopeArgs []string
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) Register(ctx context.Context) error {
	f.calls = append(f.calls, "register")
	return nil
}
func (f *fakeExec) Login(ctx context.Context) error {
	f.calls = append(f.calls, "login")
	f.loggedIn = true
	return nil
}
func (f *fakeExec) Logout(ctx context.Context) error {
	f.calls = append(f.calls, "logout")
	f.loggedIn = false
	return nil
}
func (f *fakeExec) Setup(ctx context.Context) error {
	f.calls = append(f.calls, "setup")
	return nil
}
func (f *fakeExec) Unlock(ctx context.Context) error {
	f.calls = append(f.calls, "unlock")
	return nil
}
func (f *fakeExec) Lock(ctx context.Context) error { f.calls = append(f.calls, "lock"); return nil }
func (f *fakeExec) AddNote(ctx context.Context) error {
	f.calls = append(f.calls, "add")
	return nil
}
func (f *fakeExec) EditNote(ctx context.Context) error {
	f.calls = append(f.calls, "edit")
	return nil
}
func (f *fakeExec) DeleteNote(ctx context.Context) error {
	f.calls = append(f.calls, "del")
	return nil
}
func (f *fakeExec) List(ctx context.Context) error { f.calls = append(f.calls, "list"); return nil }
func (f *fakeExec) SetScope(args []string) error {
	f.calls = append(f.calls, "scope")
	f.scopeArgs = args
	return nil
}
func (f *fakeExec) Sync(ctx context.Context) error { f.calls = append(f.calls, "sync"); return nil }
func (f *fakeExec) Status(ctx context.Context) error {
	f.calls = append(f.calls, "status")
	return nil
}
func (f *fakeExec) Wallets(ctx context.Context) error {
	f.calls = append(f.calls, "wallets")
	return nil
}
func (f *fakeExec) Watch(ctx context.Context) error {
	f.calls = append(f.calls, "watch")
	return nil
}
func (f *fakeExec) Unwatch(ctx context.Context) error {
	f.calls = append(f.calls, "unwatch")
	return nil
}

func TestRunREPL_LoginFlowAndCommands(t *testing.T) {
	origPrint := printlnFn
	printlnFn = func(...any) (int, error) { return 0, nil }
	t.Cleanup(func() { printlnFn = origPrint })

	input := strings.NewReader(strings.Join([]string{
		"help",
		"login",
		"help",
		"unlock",
		"add",
		"list",
		"scope 0xabc",
		"sync",
		"foobar",
		"exit",
	}, "\n"))

	exec := &fakeExec{loggedIn: false}
	sc := bufio.NewScanner(input)

	runREPL(context.Background(), exec, func() string { return "status" }, sc)

	wantOrder := []string{"login", "unlock", "add", "list", "scope", "sync"}
	idx := 0
	for _, c := range exec.calls {
		if idx < len(wantOrder) && c == wantOrder[idx] {
			idx++
		}
	}
	if idx != len(wantOrder) {
		t.Fatalf("commands order mismatch: got %v, want subseq %v", exec.calls, wantOrder)
	}
	if len(exec.scopeArgs) != 1 || exec.scopeArgs[0] != "0xabc" {
		t.Fatalf("scope args: %v", exec.scopeArgs)
	}
}

func TestRunREPL_ExitsOnEOF(t *testing.T) {
	origPrint := printlnFn
	printlnFn = func(...any) (int, error) { return 0, nil }
	t.Cleanup(func() { printlnFn = origPrint })

	exec := &fakeExec{}
	sc := bufio.NewScanner(strings.NewReader(""))

	done := make(chan struct{})
	go func() {
		runREPL(context.Background(), exec, func() string { return "" }, sc)
		close(done)
	}()
	<-done

	if len(exec.calls) != 0 {
		t.Fatalf("unexpected calls: %v", exec.calls)
	}
}
