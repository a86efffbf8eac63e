// Package sandboxclient provides agent.SandboxClient implementations for
// the Coding action. The default Stub never executes anything; it exists
// so Coding has a concrete, swappable collaborator without committing this
// repository to a particular execution backend.
package sandboxclient

import (
	"context"
	"errors"

	"go-deepresearch/internal/agent"
)

// ErrSandboxUnavailable is returned by Stub.RunCode: no execution backend
// is wired in, so the agent loop should treat Coding as unavailable.
var ErrSandboxUnavailable = errors.New("sandboxclient: no code execution backend configured")

var _ agent.SandboxClient = (*Stub)(nil)

// Stub is a no-op SandboxClient. It never runs submitted code; callers
// that want real execution should implement agent.SandboxClient against
// whatever sandboxing infrastructure they trust and pass that instead.
type Stub struct{}

// RunCode always returns ErrSandboxUnavailable.
func (Stub) RunCode(ctx context.Context, code string) (string, error) {
	return "", ErrSandboxUnavailable
}
