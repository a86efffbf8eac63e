package sandboxclient

import (
	"context"
	"errors"
	"testing"
)

func TestStub_RunCode_AlwaysUnavailable(t *testing.T) {
	s := Stub{}
	out, err := s.RunCode(context.Background(), "print('hello')")
	if !errors.Is(err, ErrSandboxUnavailable) {
		t.Errorf("RunCode() error = %v, want ErrSandboxUnavailable", err)
	}
	if out != "" {
		t.Errorf("RunCode() output = %q, want empty", out)
	}
}
