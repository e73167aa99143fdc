package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"fridgectl/internal/fridge"
	"fridgectl/internal/mirror"
	"fridgectl/internal/notifications"
	"fridgectl/internal/reconcile"
)

func newScanCommand(ctx *commandContext) *cobra.Command {
	var (
		takeInPath  string
		takeOutPath string
		confirmAll  bool
		noStore     bool
	)

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Submit shelf images and resolve the proposed updates",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if takeInPath == "" && takeOutPath == "" {
				return fmt.Errorf("at least one of --take-in or --take-out is required")
			}

			takeIn, err := readImage(takeInPath, cfg.Upload.AllowedExtensions)
			if err != nil {
				return err
			}
			takeOut, err := readImage(takeOutPath, cfg.Upload.AllowedExtensions)
			if err != nil {
				return err
			}

			storeImages := cfg.Upload.StoreNewImages && !noStore
			pusher := notifications.NewService(cfg)

			return ctx.withEngine(cmd, func(engine *reconcile.Engine, backend *fridge.Client, store *mirror.Store) error {
				result, err := engine.Submit(cmd.Context(), takeIn, takeOut, storeImages)
				if err != nil {
					if pushErr := pusher.NotifyError(cmd.Context(), err, "scan"); pushErr != nil {
						ctx.ensureLogger().Warn("push notification failed", "error", pushErr)
					}
					return err
				}

				updated := 0
				if engine.State() == reconcile.StateAwaitingConfirmation {
					// Confirmations resolve item IDs through the mirror, so
					// it must reflect the backend before the user decides.
					if _, err := store.Refresh(cmd.Context(), backend); err != nil {
						return err
					}
					pending := engine.Pending()
					if pushErr := pusher.NotifyPendingConfirmations(cmd.Context(), len(pending)); pushErr != nil {
						ctx.ensureLogger().Warn("push notification failed", "error", pushErr)
					}
					fmt.Fprintln(cmd.OutOrStdout(), renderPendingTable(pending))

					switch {
					case confirmAll:
						if err := engine.ConfirmAll(cmd.Context()); err != nil {
							return err
						}
						updated = len(pending) - len(engine.Pending())
					case isatty.IsTerminal(os.Stdin.Fd()):
						prompter := &decisionPrompter{
							engine: engine,
							in:     cmd.InOrStdin(),
							out:    cmd.OutOrStdout(),
						}
						if err := prompter.run(cmd.Context()); err != nil {
							return err
						}
						updated = prompter.resolved
					default:
						fmt.Fprintln(cmd.OutOrStdout(), "Not a terminal; leaving proposed updates unapplied. Re-run with --yes to confirm all.")
						engine.Cancel()
					}
				}
				if pushErr := pusher.NotifyReconciliationComplete(cmd.Context(), len(result.Added), len(result.Removed), updated); pushErr != nil {
					ctx.ensureLogger().Warn("push notification failed", "error", pushErr)
				}

				items, err := store.List(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderInventoryTable(items))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&takeInPath, "take-in", "", "image of items going into the fridge")
	cmd.Flags().StringVar(&takeOutPath, "take-out", "", "image of items coming out of the fridge")
	cmd.Flags().BoolVarP(&confirmAll, "yes", "y", false, "confirm every proposed update without prompting")
	cmd.Flags().BoolVar(&noStore, "no-store-new", false, "do not let the backend learn new item images from this scan")

	return cmd
}

// readImage loads an image file after checking its extension against the
// configured allow list. An empty path yields an empty blob, which the
// engine treats as an omitted image.
func readImage(path string, allowed []string) ([]byte, error) {
	if path == "" {
		return nil, nil
	}
	ext := strings.ToLower(filepath.Ext(path))
	ok := false
	for _, candidate := range allowed {
		if ext == candidate {
			ok = true
			break
		}
	}
	if !ok {
		return nil, fmt.Errorf("unsupported image extension %q for %s (allowed: %s)", ext, path, strings.Join(allowed, ", "))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	return data, nil
}
