// Package ballet is the embeddable vacuum choreography controller.
//
// A [Ballet] owns one device connection per operation: it dials the command
// channel, runs the operation, and guarantees the channel is released on
// every exit path. Operations are synchronous and strictly sequential;
// callers must not run two operations against the same device concurrently.
//
// Basic usage:
//
//	cfg := ballet.Config{Email: "...", Password: "..."}
//	b, err := ballet.New(cfg, ballet.WithLogger(logger))
//	if err != nil {
//		return err
//	}
//	err = b.Dance(ctx, "circle", 800, 600)
package ballet
