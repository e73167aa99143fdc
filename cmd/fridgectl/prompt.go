package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"fridgectl/internal/reconcile"
)

// decisionPrompter walks the pending set one entry at a time. Each answer
// maps to exactly one engine operation; a failed confirm leaves the entry
// in place so the user can retry or skip it.
type decisionPrompter struct {
	engine *reconcile.Engine
	in     io.Reader
	out    io.Writer

	// resolved counts entries applied or added as new, not canceled ones.
	resolved int
}

func (p *decisionPrompter) run(ctx context.Context) error {
	scanner := bufio.NewScanner(p.in)
	for {
		pending := p.engine.Pending()
		if len(pending) == 0 {
			return nil
		}
		entry := pending[0]
		fmt.Fprintf(p.out, "%s: %s -> %s (similarity %.2f)  [y] confirm / [n] add as new / [a] confirm all / [q] cancel: ",
			entry.Name, entry.OldQuantity.String(), entry.NewQuantity.String(), entry.SimilarityScore)

		if !scanner.Scan() {
			fmt.Fprintln(p.out)
			p.engine.Cancel()
			return scanner.Err()
		}

		switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
		case "y", "yes":
			if err := p.engine.Confirm(ctx, entry.Name); err != nil {
				fmt.Fprintf(p.out, "confirm %s: %v\n", entry.Name, err)
			} else {
				p.resolved++
			}
		case "n", "no":
			if err := p.engine.RejectAsNew(ctx, entry.Name); err != nil {
				fmt.Fprintf(p.out, "add %s as new item: %v\n", entry.Name, err)
			} else {
				p.resolved++
			}
		case "a", "all":
			remaining := len(pending)
			if err := p.engine.ConfirmAll(ctx); err != nil {
				fmt.Fprintf(p.out, "confirm all: %v\n", err)
				p.resolved += remaining - len(p.engine.Pending())
				continue
			}
			p.resolved += remaining
			return nil
		case "q", "quit":
			p.engine.Cancel()
			return nil
		default:
			fmt.Fprintln(p.out, "Please answer y, n, a, or q.")
		}
	}
}
