// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/danielhkuo/bloodbank/auth"
	"github.com/danielhkuo/bloodbank/cliparse"
	"github.com/danielhkuo/bloodbank/db"
	"github.com/danielhkuo/bloodbank/logger"
	"github.com/danielhkuo/bloodbank/middleware"
	"github.com/danielhkuo/bloodbank/models"
	"github.com/danielhkuo/bloodbank/resources"
	"github.com/danielhkuo/bloodbank/router"
	"github.com/danielhkuo/bloodbank/seed"
	"github.com/danielhkuo/bloodbank/store"
)

const (
	serviceName     = "bloodbank"
	shutdownTimeout = 10 * time.Second
)

var (
	cfg cliparse.Config
	log = zap.NewNop()

	withSeed      bool
	adminEmail    string
	adminPassword string
)

var rootCmd = &cobra.Command{
	Use:           "bloodbank",
	Short:         "Blood bank management API",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Resolve(cmd.Flags()); err != nil {
			return err
		}
		l, err := logger.New(cfg.LogLevel, cfg.LogFormat, serviceName)
		if err != nil {
			return err
		}
		log = l
		zap.ReplaceGlobals(log)
		return nil
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE:  serveF,
}

var initDBCmd = &cobra.Command{
	Use:   "init-db",
	Short: "Create the schema, optionally loading sample data",
	RunE:  initDBF,
}

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an administrator account",
	RunE:  createAdminF,
}

func init() {
	cliparse.BindFlags(rootCmd.PersistentFlags(), &cfg)

	initDBCmd.Flags().BoolVar(&withSeed, "seed", false, "Load sample users, donors, events and inventory")

	createAdminCmd.Flags().StringVar(&adminEmail, "email", "", "Administrator email")
	createAdminCmd.Flags().StringVar(&adminPassword, "password", "", "Administrator password")
	createAdminCmd.MarkFlagRequired("email")
	createAdminCmd.MarkFlagRequired("password")

	rootCmd.AddCommand(serveCmd, initDBCmd, createAdminCmd)
}

func main() {
	err := rootCmd.Execute()
	log.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// openStore connects to the configured backend and makes sure the schema exists
func openStore(ctx context.Context) (*sqlx.DB, *store.Store, error) {
	dialect, err := store.ParseDialect(cfg.DatabaseType)
	if err != nil {
		return nil, nil, err
	}

	conn, err := db.Open(ctx, dialect, cfg.DatabaseURL, db.PoolConfig{
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: time.Hour,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	if err := db.CreateSchema(ctx, conn, dialect); err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("schema creation failed: %w", err)
	}
	log.Info("Database schema ready", zap.String("dialect", string(dialect)))

	return conn, store.New(conn, dialect, store.WithLogger(log)), nil
}

func serveF(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, s, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	issuer, err := auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTAlgorithm, cfg.TokenTTL, nil)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	mux := router.NewRouter(router.Deps{
		Store:     s,
		Resources: resources.New(s),
		Issuer:    issuer,
		Log:       log,
		Registry:  reg,
	})

	server := &http.Server{
		Handler:           middleware.CORS(cfg.CORSOrigins)(mux),
		Addr:              ":" + strconv.Itoa(cfg.Port),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Info("Listening", zap.Int("port", cfg.Port))
		errc <- server.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server closed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info("Server closed")
	return nil
}

func initDBF(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	conn, s, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	if !withSeed {
		return nil
	}
	return seed.Run(ctx, resources.New(s), s.Now(), log)
}

func createAdminF(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	conn, s, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	u, err := resources.New(s).Users.Create(ctx, adminEmail, adminPassword, models.RoleAdmin)
	if err != nil {
		return err
	}
	log.Info("Administrator created", zap.String("user_id", u.ID), zap.String("email", u.Email))
	return nil
}
