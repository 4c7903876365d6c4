package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/voxdroid/tasktrack/internal/app"
	"github.com/voxdroid/tasktrack/internal/config"
	"github.com/voxdroid/tasktrack/internal/db"
	"github.com/voxdroid/tasktrack/internal/server"
)

var version = "0.1.0"

var (
	cfgPath   string
	exportOut string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "tasktrack",
	Short: "Local task tracking backend",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "config file path")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file (default stdout)")

	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(serveCmd, exportCmd, importCmd, configCmd, versionCmd)
}

// loadConfig reads the config file, falling back to defaults when none
// exists yet.
func loadConfig() *config.Config {
	path := cfgPath
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.ReadFromFile(path)
	if err != nil {
		return config.Default(db.DefaultDataDir())
	}
	return cfg
}

func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		logger := newLogger(cfg)

		a, err := app.New(cfg, logger)
		if err != nil {
			return err
		}
		defer a.Close()

		srv := &http.Server{
			Addr:    cfg.ListenAddr,
			Handler: server.New(a.DB, logger).Handler(),
		}

		ctx, stop := signal.NotifyContext(context.Background(),
			os.Interrupt, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			logger.Info("listening", "addr", cfg.ListenAddr)
			errCh <- srv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
		case <-ctx.Done():
			logger.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("shutdown: %w", err)
			}
		}
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all data as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		logger := newLogger(cfg)

		// No instance lock for a read-only snapshot.
		database, err := db.Open(db.Options{Path: cfg.DBPath(), Logger: logger})
		if err != nil {
			return err
		}
		defer database.Close()

		data, err := json.MarshalIndent(database.Export(), "", "  ")
		if err != nil {
			return fmt.Errorf("encoding export: %w", err)
		}
		data = append(data, '\n')

		if exportOut == "" {
			_, err = os.Stdout.Write(data)
			return err
		}
		if err := os.WriteFile(exportOut, data, 0644); err != nil {
			return fmt.Errorf("writing export: %w", err)
		}
		fmt.Printf("Exported to %s\n", exportOut)
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace all data from a JSON export",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		logger := newLogger(cfg)

		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading import file: %w", err)
		}
		var doc db.ExportDocument
		if err := json.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("decoding import file: %w", err)
		}

		// Import is destructive; take the instance lock like serve does.
		a, err := app.New(cfg, logger)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.DB.Import(doc); err != nil {
			return fmt.Errorf("import: %w", err)
		}
		fmt.Printf("Imported %d projects, %d tasks, %d time entries\n",
			len(doc.Projects), len(doc.Tasks), len(doc.TimeEntries))
		return nil
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfgPath
		if path == "" {
			path = config.DefaultPath()
		}
		cfg := config.Default(db.DefaultDataDir())
		if err := config.Init(path, cfg); err != nil {
			return err
		}
		fmt.Printf("Configuration initialized at %s\n", path)
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("tasktrack v%s\n", version)
	},
}
