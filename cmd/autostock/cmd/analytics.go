package cmd

import (
	"context"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/davicafu/autostock/internal/app"
	pendingDomain "github.com/davicafu/autostock/internal/pending/domain"
	sharedDomain "github.com/davicafu/autostock/shared/domain"
)

func analyticsCmd() *cobra.Command {
	var rawStore string
	cmd := &cobra.Command{
		Use:   "analytics",
		Short: "Muestra las analíticas de pendencias de una tienda",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := sharedDomain.ParseStore(rawStore)
			if err != nil {
				return err
			}
			return withContainer(cmd.Context(), func(ctx context.Context, c *app.Container) error {
				analytics, err := c.Aggregator.GetPendingAnalytics(ctx, store)
				if err != nil {
					return err
				}
				if viper.GetBool("JSON") {
					return printJSON(cmd.OutOrStdout(), analytics)
				}
				renderAnalytics(cmd, analytics)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&rawStore, "store", string(sharedDomain.StoreMatriz), "tienda: matriz, filial o all")
	return cmd
}

func renderAnalytics(cmd *cobra.Command, a pendingDomain.PendingAnalytics) {
	tw := table.NewWriter()
	tw.SetOutputMirror(cmd.OutOrStdout())
	tw.SetTitle(fmt.Sprintf("Pendencias %s", a.Store))
	tw.AppendHeader(table.Row{"Category", "Pending", "Completed", "Completion %", "Avg resolution (h)", "Oldest (days)"})
	for _, row := range []struct {
		name  string
		stats pendingDomain.CategoryStats
	}{
		{"tasks", a.Tasks},
		{"insights", a.Insights},
		{"advertisements", a.Advertisements},
	} {
		tw.AppendRow(statsRow(row.name, row.stats))
	}
	tw.AppendSeparator()
	tw.AppendRow(statsRow("overall", a.Overall))
	tw.AppendFooter(table.Row{"trend", a.Trend, "", "health", a.HealthScore, ""})
	tw.Render()
}

func statsRow(name string, s pendingDomain.CategoryStats) table.Row {
	return table.Row{name, s.Pending, s.Completed, fmt.Sprintf("%.2f", s.CompletionRate), fmt.Sprintf("%.2f", s.AvgResolutionHours), s.OldestPendingDays}
}
