package eventsubscribers

import (
	"context"
	"fmt"

	"github.com/etherlabsio/healthcheck/v2"
)

type Pingable interface {
	Ping(ctx context.Context) error
}

// StorageChecker pings the textures storage and names the driver in its failures.
// Drivers which ignore the context are still cut off when the check deadline passes.
func StorageChecker(driver string, storage Pingable) healthcheck.CheckerFunc {
	return func(ctx context.Context) error {
		result := make(chan error, 1)
		go func() {
			result <- storage.Ping(ctx)
		}()

		select {
		case <-ctx.Done():
			return fmt.Errorf("%s storage didn't answer in time: %w", driver, ctx.Err())
		case err := <-result:
			if err != nil {
				return fmt.Errorf("%s storage is unavailable: %w", driver, err)
			}

			return nil
		}
	}
}
