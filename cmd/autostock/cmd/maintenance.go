package cmd

import (
	"context"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/davicafu/autostock/internal/app"
	"github.com/davicafu/autostock/internal/maintenance/domain"
)

func maintenanceCmd() *cobra.Command {
	var userID string
	cmd := &cobra.Command{
		Use:   "maintenance <action>",
		Short: "Ejecuta un procedimiento de mantenimiento remoto",
		Long: `Ejecuta uno de los procedimientos de mantenimiento de la base de datos:

  recalculate             recalculate_all_pendencies
  detect_inconsistencies  detect_advertisement_inconsistencies
  cleanup_obsolete        cleanup_obsolete_tasks
  sync_current_state      sync_tasks_with_current_state

Solo disponible con DB_DRIVER=postgres.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			action, err := domain.ParseAction(args[0])
			if err != nil {
				return err
			}
			return withContainer(cmd.Context(), func(ctx context.Context, c *app.Container) error {
				result, err := c.Maintenance.Trigger(ctx, action, userID)
				if err != nil {
					return fmt.Errorf("%s: %w", action, err)
				}
				cmd.Printf("✅ %s completed\n", action)
				if len(result) > 0 {
					cmd.Println(string(result))
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "usuario al que notificar el resultado")
	cmd.AddCommand(maintenanceListCmd())
	return cmd
}

func maintenanceListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Lista las acciones disponibles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := table.NewWriter()
			tw.SetOutputMirror(cmd.OutOrStdout())
			tw.AppendHeader(table.Row{"Action", "Procedure"})
			for _, a := range domain.Actions() {
				tw.AppendRow(table.Row{a, a.Procedure()})
			}
			tw.Render()
			return nil
		},
	}
}
