package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/tapdeck-labs/tapdeck/internal/cache"
	"github.com/tapdeck-labs/tapdeck/internal/httpapi"
	"github.com/tapdeck-labs/tapdeck/internal/lockwatch"
)

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Long: `Start the workspace HTTP server.

The server exposes workspace CRUD and the format converters, caches
export responses per workspace, and honors the locked-workspace list,
which is reloaded whenever the lock file changes on disk.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			responseCache := cache.New()
			cc.Store.SetInvalidator(responseCache)

			locks, err := lockwatch.New(cc.Cfg.LockFile, cc.Logger)
			if err != nil {
				return err
			}

			server := httpapi.NewServer(httpapi.Config{
				Addr:   cc.Cfg.ListenAddr,
				Store:  cc.Store,
				Cache:  responseCache,
				Locks:  locks,
				Logger: cc.Logger,
			})

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			// Handle interrupt signals
			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
			go func() {
				<-sigChan
				cc.Logger.Info("shutting down...")
				cancel()
			}()

			eg, egctx := errgroup.WithContext(ctx)
			eg.Go(func() error {
				return locks.Watch(egctx)
			})
			eg.Go(func() error {
				return server.Serve(egctx)
			})
			return eg.Wait()
		},
	}
}
