// Package executortest provides a scripted Executor for tests.
package executortest

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Call records one command run through a Fake.
type Call struct {
	Dir  string
	Name string
	Args []string
}

// String renders the call as a shell-like command line.
func (c Call) String() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

// Fake is an executor.Executor that hands every command to Handler.
// It is safe for concurrent use.
type Fake struct {
	Handler func(call Call) (string, error)
	// Missing lists tools LookPath should report as absent.
	Missing []string

	mu    sync.Mutex
	calls []Call
}

func (f *Fake) Execute(ctx context.Context, name string, args ...string) (string, error) {
	return f.ExecuteInDir(ctx, "", name, args...)
}

func (f *Fake) ExecuteInDir(ctx context.Context, dir string, name string, args ...string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	call := Call{Dir: dir, Name: name, Args: append([]string(nil), args...)}

	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.mu.Unlock()

	if f.Handler == nil {
		return "", nil
	}
	return f.Handler(call)
}

func (f *Fake) LookPath(name string) (string, error) {
	for _, m := range f.Missing {
		if m == name {
			return "", fmt.Errorf("exec: %q: executable file not found in $PATH", name)
		}
	}
	return "/usr/bin/" + name, nil
}

// Calls returns the commands run so far.
func (f *Fake) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}
