package cmd

import (
	"context"
	"encoding/json"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/davicafu/autostock/internal/app"
	"github.com/davicafu/autostock/internal/config"
	"github.com/davicafu/autostock/pkg/logger"
)

// NewRootCmd construye el árbol de comandos con sus flags enlazados a viper.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "autostock",
		Short: "Autostock reconcilia las pendencias de la concesionaria",
		Long: `autostock sirve la API de pendencias (tareas, insights y anuncios sin publicar)
de las sedes matriz y filial, y ofrece utilidades de operación.

Configuración por variables de entorno (DB_DRIVER, SQLITE_PATH, DATABASE_URL,
REDIS_ADDR, USE_KAFKA, ...) o por los flags globales equivalentes.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return logger.Init(viper.GetString("LOG_LEVEL"))
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.String("log-level", "info", "nivel de log (debug, info, warn, error)")
	flags.String("db-driver", "sqlite", "motor SQL: sqlite o postgres")
	flags.String("sqlite-path", "./autostock.db", "fichero SQLite")
	flags.String("database-url", "", "DSN de PostgreSQL")
	flags.Bool("json", false, "salida en JSON")

	_ = viper.BindPFlag("LOG_LEVEL", flags.Lookup("log-level"))
	_ = viper.BindPFlag("DB_DRIVER", flags.Lookup("db-driver"))
	_ = viper.BindPFlag("SQLITE_PATH", flags.Lookup("sqlite-path"))
	_ = viper.BindPFlag("DATABASE_URL", flags.Lookup("database-url"))
	_ = viper.BindPFlag("JSON", flags.Lookup("json"))

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(maintenanceCmd())
	rootCmd.AddCommand(analyticsCmd())
	rootCmd.AddCommand(permissionsCmd())
	return rootCmd
}

func Execute() error {
	return NewRootCmd().Execute()
}

func initConfig() {
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func init() {
	cobra.OnInitialize(initConfig)
}

// withContainer construye el contenedor, ejecuta fn y libera las conexiones.
func withContainer(ctx context.Context, fn func(ctx context.Context, c *app.Container) error) error {
	c, err := app.Build(ctx, config.LoadConfig(), logger.Logger())
	if err != nil {
		return err
	}
	defer func() {
		if err := c.Close(); err != nil {
			logger.Logger().Warn("Failed to close resources", zap.Error(err))
		}
	}()
	return fn(ctx, c)
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
