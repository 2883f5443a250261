package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/okian/eventbuddy/internal/adapters/repository"
	"github.com/okian/eventbuddy/internal/config"
	"github.com/okian/eventbuddy/pkg/logger"
)

func newSeedCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "seed <file>",
		Short: "Import a YAML catalog of users and events into the configured store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.cfg.StoreDriver == config.DriverMemory {
				return ErrEphemeralStore
			}
			ctx := cmd.Context()

			seed, err := repository.LoadSeed(args[0])
			if err != nil {
				return err
			}

			store, closeStore, err := openStore(ctx, c.cfg)
			if err != nil {
				return fmt.Errorf("open %s store: %w", c.cfg.StoreDriver, err)
			}
			defer closeStore()

			if err := seed.Apply(ctx, store); err != nil {
				return err
			}
			c.log.Info(ctx, "seed imported",
				logger.String("driver", c.cfg.StoreDriver),
				logger.Int("users", len(seed.Users)),
				logger.Int("events", len(seed.Events)),
			)
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "imported %d users and %d events\n", len(seed.Users), len(seed.Events))
			return err
		},
	}
}
