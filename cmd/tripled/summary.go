// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tripled Contributors

package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/tripled-dev/tripled/internal/store"
)

var (
	summaryTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99"))
	summaryDimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	summaryBoxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("62")).Padding(0, 1)
)

func newSummaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Describe the database file and its tables",
		RunE:  runSummary,
	}
}

func runSummary(cmd *cobra.Command, _ []string) error {
	cfg, err := activeConfig(cmd)
	if err != nil {
		return err
	}

	s, err := openReadOnly(cfg.Storage.Path)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	sum, err := s.Summary(cmd.Context())
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), renderSummary(sum))
	return err
}

// renderSummary formats a database summary for the terminal.
func renderSummary(sum *store.Summary) string {
	var b strings.Builder

	b.WriteString(summaryTitleStyle.Render(sum.Path) + "\n")
	b.WriteString(summaryDimStyle.Render(humanize.Bytes(uint64(sum.FileSize))+" on disk") + "\n")

	for _, table := range sum.Tables {
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf("%s (%s rows)\n", summaryTitleStyle.Render(table.Name), humanize.Comma(table.Rows)))

		cols := make([]string, 0, len(table.Columns))
		for _, col := range table.Columns {
			cols = append(cols, col.Name+" "+col.Type)
		}
		b.WriteString(summaryDimStyle.Render("columns: "+strings.Join(cols, ", ")) + "\n")

		if len(table.Example) > 0 {
			b.WriteString(summaryDimStyle.Render("example: "+strings.Join(table.Example, " | ")) + "\n")
		}
	}

	b.WriteString("\n" + fmt.Sprintf("total rows: %s", humanize.Comma(sum.TotalRows)))

	return summaryBoxStyle.Render(b.String())
}
