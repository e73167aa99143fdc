package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag string

	ctx := newCommandContext(&configFlag)

	root := &cobra.Command{
		Use:           "fridgectl",
		Short:         "Reconcile fridge inventory from shelf camera images",
		Long:          "fridgectl submits take-in and take-out shelf images to the fridge backend,\nwalks proposed quantity updates, and keeps a local mirror of the inventory.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
	}

	root.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "path to config file")

	root.AddCommand(
		newScanCommand(ctx),
		newItemsCommand(ctx),
		newExpirationsCommand(ctx),
		newConfigCommand(ctx),
		newTestNotifyCommand(ctx),
	)

	return root
}
