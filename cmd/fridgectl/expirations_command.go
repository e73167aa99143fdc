package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"fridgectl/internal/expiration"
	"fridgectl/internal/mirror"
	"fridgectl/internal/notifications"
)

func newExpirationsCommand(ctx *commandContext) *cobra.Command {
	var (
		cached bool
		push   bool
	)

	cmd := &cobra.Command{
		Use:   "expirations",
		Short: "Report items that are expired or expiring soon",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			return ctx.withMirror(func(store *mirror.Store) error {
				var items []mirror.Item
				if cached {
					items, err = store.List(cmd.Context())
				} else {
					backend, backendErr := ctx.newBackend()
					if backendErr != nil {
						return backendErr
					}
					items, err = store.Refresh(cmd.Context(), backend)
				}
				if err != nil {
					return err
				}

				report := expiration.Evaluate(items, time.Now())
				if report.Empty() {
					fmt.Fprintln(cmd.OutOrStdout(), "Nothing is expired or expiring soon.")
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderExpirationTable(report))

				if push {
					if err := notifications.NewService(cfg).NotifyExpirations(cmd.Context(), report); err != nil {
						return fmt.Errorf("push expiration notification: %w", err)
					}
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&cached, "cached", false, "read the local mirror without contacting the backend")
	cmd.Flags().BoolVar(&push, "push", false, "also send the report as a push notification")

	return cmd
}
