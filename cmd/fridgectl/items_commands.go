package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"fridgectl/internal/fridge"
	"fridgectl/internal/mirror"
	"fridgectl/internal/reconcile"
)

func newItemsCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "items",
		Short: "Inspect and edit the inventory",
	}
	cmd.AddCommand(
		newItemsListCommand(ctx),
		newItemsAddCommand(ctx),
		newItemsSetCommand(ctx),
		newItemsRemoveCommand(ctx),
	)
	return cmd
}

func newItemsListCommand(ctx *commandContext) *cobra.Command {
	var cached bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List inventory items",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withMirror(func(store *mirror.Store) error {
				var (
					items []mirror.Item
					err   error
				)
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
				if len(items) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No items in inventory.")
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderInventoryTable(items))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&cached, "cached", false, "read the local mirror without contacting the backend")

	return cmd
}

func newItemsAddCommand(ctx *commandContext) *cobra.Command {
	var imageData string

	cmd := &cobra.Command{
		Use:   "add <name> <quantity>",
		Short: "Add an item by hand",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withEngine(cmd, func(engine *reconcile.Engine, backend *fridge.Client, store *mirror.Store) error {
				item, err := engine.AddManually(cmd.Context(), args[0], fridge.Quantity(args[1]), imageData)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added %s (id %d, quantity %s)\n", item.Name, item.ID, item.Quantity.String())
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&imageData, "image-data", "", "base64 reference image for the new item")

	return cmd
}

func newItemsSetCommand(ctx *commandContext) *cobra.Command {
	var (
		name     string
		quantity string
		category string
		expires  string
		imageURL string
	)

	cmd := &cobra.Command{
		Use:   "set <id>",
		Short: "Update fields of an existing item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid item id %q", args[0])
			}

			var patch fridge.ItemPatch
			if cmd.Flags().Changed("name") {
				patch.Name = &name
			}
			if cmd.Flags().Changed("quantity") {
				q := fridge.Quantity(quantity)
				patch.Quantity = &q
			}
			if cmd.Flags().Changed("category") {
				patch.Category = &category
			}
			if cmd.Flags().Changed("expires") {
				patch.ExpirationDate = &expires
			}
			if cmd.Flags().Changed("image-url") {
				patch.ImageURL = &imageURL
			}
			if patch == (fridge.ItemPatch{}) {
				return fmt.Errorf("nothing to update; pass at least one of --name, --quantity, --category, --expires, --image-url")
			}

			backend, err := ctx.newBackend()
			if err != nil {
				return err
			}
			item, err := backend.UpdateItem(cmd.Context(), id, patch)
			if err != nil {
				return err
			}

			if err := ctx.withMirror(func(store *mirror.Store) error {
				return store.ReconcileAfterCommit(cmd.Context(), backend)
			}); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s (id %d)\n", item.Name, item.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "new item name")
	cmd.Flags().StringVar(&quantity, "quantity", "", "new quantity")
	cmd.Flags().StringVar(&category, "category", "", "new category")
	cmd.Flags().StringVar(&expires, "expires", "", "new expiration date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&imageURL, "image-url", "", "new reference image URL")

	return cmd
}

func newItemsRemoveCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"remove", "delete"},
		Short:   "Delete an item",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid item id %q", args[0])
			}

			backend, err := ctx.newBackend()
			if err != nil {
				return err
			}
			if err := backend.DeleteItem(cmd.Context(), id); err != nil {
				return err
			}

			if err := ctx.withMirror(func(store *mirror.Store) error {
				return store.ReconcileAfterCommit(cmd.Context(), backend)
			}); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Deleted item %d\n", id)
			return nil
		},
	}
	return cmd
}
