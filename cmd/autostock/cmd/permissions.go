package cmd

import (
	"sort"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/davicafu/autostock/internal/permission/domain"
)

func permissionsCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "permissions", Short: "Consulta la tabla de permisos"}
	cmd.PersistentFlags().String("file", "", "YAML con overrides de reglas")
	_ = viper.BindPFlag("PERMISSIONS_FILE", cmd.PersistentFlags().Lookup("file"))

	cmd.AddCommand(permissionsCheckCmd())
	cmd.AddCommand(permissionsRulesCmd())
	return cmd
}

func permissionsCheckCmd() *cobra.Command {
	var area, role string
	var level int
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Evalúa si un rol y nivel acceden a un área",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rules, err := domain.LoadRules(viper.GetString("PERMISSIONS_FILE"))
			if err != nil {
				return err
			}
			var lvl *int
			if cmd.Flags().Changed("level") {
				lvl = &level
			}
			decision := rules.Check(domain.Area(area), domain.Role(role), lvl)
			if viper.GetBool("JSON") {
				return printJSON(cmd.OutOrStdout(), decision)
			}

			levelCell := "-"
			if lvl != nil {
				levelCell = strconv.Itoa(*lvl)
			}
			access := "✅ allowed"
			if !decision.HasAccess {
				access = "⛔ denied"
			}
			tw := table.NewWriter()
			tw.SetOutputMirror(cmd.OutOrStdout())
			tw.AppendHeader(table.Row{"Area", "Role", "Level", "Access", "Reason"})
			tw.AppendRow(table.Row{area, role, levelCell, access, decision.Reason})
			tw.Render()
			return nil
		},
	}
	cmd.Flags().StringVar(&area, "area", "", "área (dashboard, inventory, insights, ...)")
	cmd.Flags().StringVar(&role, "role", "", "rol (consultant, salesperson, manager, admin)")
	cmd.Flags().IntVar(&level, "level", 0, "nivel del usuario (sin flag: sin nivel)")
	_ = cmd.MarkFlagRequired("area")
	return cmd
}

func permissionsRulesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "Lista las reglas efectivas por área",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rules, err := domain.LoadRules(viper.GetString("PERMISSIONS_FILE"))
			if err != nil {
				return err
			}
			if viper.GetBool("JSON") {
				return printJSON(cmd.OutOrStdout(), rules)
			}

			areas := make([]string, 0, len(rules))
			for area := range rules {
				areas = append(areas, string(area))
			}
			sort.Strings(areas)

			tw := table.NewWriter()
			tw.SetOutputMirror(cmd.OutOrStdout())
			tw.AppendHeader(table.Row{"Area", "Roles", "Min level"})
			for _, area := range areas {
				rule := rules[domain.Area(area)]
				roles := make([]string, len(rule.Roles))
				for i, r := range rule.Roles {
					roles[i] = string(r)
				}
				tw.AppendRow(table.Row{area, strings.Join(roles, ", "), rule.MinLevel})
			}
			tw.Render()
			return nil
		},
	}
}
