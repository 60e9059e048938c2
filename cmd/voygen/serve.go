package main

import (
	"context"
	"fmt"
	"time"

	voygen "github.com/iamneilroberts/voygen-sub008"
)

// shutdownTimeout bounds how long in-flight requests get to finish.
const shutdownTimeout = 10 * time.Second

// Run executes the serve command. It blocks until the context is cancelled.
func (c *ServeCmd) Run(deps *Dependencies) error {
	if deps.Server == nil {
		err := voygen.Errorf(voygen.EINTERNAL, "server is not configured")
		printError(deps, err)
		return err
	}
	if err := deps.Server.Open(); err != nil {
		fmt.Fprintf(deps.Stderr, "error: failed to listen on %s: %v\n", deps.Server.Addr, err)
		return err
	}
	fmt.Fprintf(deps.Stdout, "Listening on %s\n", deps.Server.URL())

	<-deps.Ctx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := deps.Server.Close(ctx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	fmt.Fprintln(deps.Stdout, "Server stopped")
	return nil
}
