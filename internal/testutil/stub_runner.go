package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// StubRunner scripts container runtime invocations. Responses are keyed by
// the space-joined argument list (the binary is recorded but not matched).
type StubRunner struct {
	mu       sync.Mutex
	stubs    map[string][]stubResponse
	defaults map[string]stubResponse
	calls    []Call
}

// Call is one recorded invocation.
type Call struct {
	Bin  string
	Args []string
}

// String returns the space-joined arguments, the key used for stubbing.
func (c Call) String() string {
	return strings.Join(c.Args, " ")
}

type stubResponse struct {
	stdout string
	stderr string
	err    error
}

func NewStubRunner() *StubRunner {
	return &StubRunner{
		stubs:    make(map[string][]stubResponse),
		defaults: make(map[string]stubResponse),
	}
}

// Stub queues a one-shot response for args.
func (s *StubRunner) Stub(args string, stdout, stderr string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stubs[args] = append(s.stubs[args], stubResponse{stdout: stdout, stderr: stderr, err: err})
}

// StubDefault sets the response used once queued responses for args run out.
func (s *StubRunner) StubDefault(args string, stdout, stderr string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.defaults[args] = stubResponse{stdout: stdout, stderr: stderr, err: err}
}

func (s *StubRunner) Exec(ctx context.Context, bin string, args ...string) (string, string, error) {
	key := strings.Join(args, " ")
	s.mu.Lock()
	s.calls = append(s.calls, Call{Bin: bin, Args: append([]string(nil), args...)})
	queue := s.stubs[key]
	if len(queue) == 0 {
		if resp, ok := s.defaults[key]; ok {
			s.mu.Unlock()
			return resp.stdout, resp.stderr, resp.err
		}
		s.mu.Unlock()
		return "", "", fmt.Errorf("unexpected %s call: %s", bin, key)
	}
	resp := queue[0]
	s.stubs[key] = queue[1:]
	s.mu.Unlock()
	return resp.stdout, resp.stderr, resp.err
}

// Calls returns every invocation in order.
func (s *StubRunner) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

func (s *StubRunner) CallsFor(args ...string) int {
	key := strings.Join(args, " ")
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, call := range s.calls {
		if call.String() == key {
			count++
		}
	}
	return count
}
