package ports

import (
	"context"

	"github.com/ballet-labs/vacballet/internal/domain"
)

// Commander sends named commands over the device channel.
// Implementations handle serialization, transport, and authentication.
type Commander interface {
	// Send fires the named command with an optional positional parameter
	// list (e.g. [x, y] for a goto). An error means the command did not
	// reach the device; no retry is performed at this layer.
	Send(ctx context.Context, cmd domain.Command, params []int) error

	// Disconnect releases the transport. It is idempotent and must be
	// called exactly once per command invocation regardless of outcome.
	Disconnect() error
}
