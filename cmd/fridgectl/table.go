package main

import (
	"fmt"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"fridgectl/internal/expiration"
	"fridgectl/internal/mirror"
	"fridgectl/internal/reconcile"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := 0; i < columns; i++ {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := 0; i < columns; i++ {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		columnConfigs = append(columnConfigs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(columnConfigs)

	return tw.Render()
}

func renderInventoryTable(items []mirror.Item) string {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		id := ""
		if item.ServerID != 0 {
			id = strconv.FormatInt(item.ServerID, 10)
		}
		note := ""
		if item.Optimistic {
			note = "pending sync"
		}
		rows = append(rows, []string{id, item.Name, item.Quantity, item.Category, item.ExpirationDate, note})
	}
	return renderTable(
		[]string{"ID", "Name", "Quantity", "Category", "Expires", ""},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignRight, alignLeft, alignLeft, alignLeft},
	)
}

func renderPendingTable(pending []reconcile.PendingUpdate) string {
	rows := make([][]string, 0, len(pending))
	for _, entry := range pending {
		rows = append(rows, []string{
			entry.Name,
			entry.OldQuantity.String(),
			entry.NewQuantity.String(),
			fmt.Sprintf("%.2f", entry.SimilarityScore),
		})
	}
	return renderTable(
		[]string{"Name", "Current", "Proposed", "Similarity"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignRight, alignRight},
	)
}

func renderExpirationTable(report expiration.Report) string {
	rows := make([][]string, 0, len(report.Expired)+len(report.WarningThreeDays)+len(report.WarningWeek))
	appendBucket := func(label string, entries []expiration.Entry) {
		for _, entry := range entries {
			rows = append(rows, []string{label, entry.Name, entry.Expires.Format("2006-01-02"), strconv.Itoa(entry.DaysLeft)})
		}
	}
	appendBucket("expired", report.Expired)
	appendBucket("3 days", report.WarningThreeDays)
	appendBucket("7 days", report.WarningWeek)
	return renderTable(
		[]string{"Bucket", "Name", "Expires", "Days left"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight},
	)
}
