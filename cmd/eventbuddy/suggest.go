package main

import (
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/okian/eventbuddy/internal/domain/types"
)

func newSuggestCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "suggest <user-id>",
		Short: "Print the ranked suggestions for one user as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, cleanup, err := c.newService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			res, err := svc.Suggest(ctx, args[0])
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(types.NewSuggestion(args[0], res.DegenerateProfile, res.Events)); err != nil {
				return fmt.Errorf("encode suggestion: %w", err)
			}
			return nil
		},
	}
}
