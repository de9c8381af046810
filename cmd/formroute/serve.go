package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	backend "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	_ "modernc.org/sqlite"

	"github.com/formroute/formroute"
	httpadapter "github.com/formroute/formroute/pkg/adapters/http"
	"github.com/formroute/formroute/pkg/adapters/memory"
	redisadapter "github.com/formroute/formroute/pkg/adapters/redis"
	"github.com/formroute/formroute/pkg/adapters/render"
	"github.com/formroute/formroute/pkg/adapters/sqlite"
	"github.com/formroute/formroute/pkg/adapters/yamlform"
	"github.com/formroute/formroute/pkg/ports"
	"github.com/formroute/formroute/pkg/session"
)

var serveCmd = &cobra.Command{
	Use:   "serve [form definitions...]",
	Short: "Start the HTTP server",
	Long:  `Starts the navigation engine in server mode, exposing the secure JSON API over HTTP. Form definition files given as arguments are loaded into the store at startup.`,
	Run: func(cmd *cobra.Command, args []string) {
		port, _ := cmd.Flags().GetString("port")
		dbPath, _ := cmd.Flags().GetString("db")
		redisAddr, _ := cmd.Flags().GetString("redis")
		logLevel, _ := cmd.Flags().GetString("log-level")

		logger := newLogger(logLevel)

		engine, cleanup, err := buildEngine(dbPath, redisAddr, logger, args)
		if err != nil {
			fmt.Printf("Error initializing engine: %v\n", err)
			os.Exit(1)
		}
		defer cleanup()

		srv := &http.Server{
			Addr:    ":" + port,
			Handler: httpadapter.NewHandler(engine, logger),
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			fmt.Printf("Starting Formroute Server on %s\n", srv.Addr)
			serverErrors <- srv.ListenAndServe()
		}()

		// Channel to listen for interrupt or terminate signals.
		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		// Blocking main and waiting for shutdown.
		select {
		case err := <-serverErrors:
			fmt.Printf("Server error: %v\n", err)
			os.Exit(1)

		case sig := <-shutdown:
			fmt.Printf("\nStart shutdown... Signal: %v\n", sig)

			// Give outstanding requests a deadline for completion.
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				fmt.Printf("Graceful shutdown did not complete in %v: %v\n", 5*time.Second, err)
				if err := srv.Close(); err != nil {
					fmt.Printf("Error killing server: %v\n", err)
				}
			}
			fmt.Println("Formroute Server stopped gracefully")
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	serveCmd.Flags().String("redis", "", "Redis address for sessions and locking (in-process when empty)")
}

// buildEngine wires the store stack from the flags: sqlite or in-memory
// graphs, redis or in-process sessions.
func buildEngine(dbPath, redisAddr string, logger *slog.Logger, formFiles []string) (*formroute.Engine, func(), error) {
	cleanup := func() {}

	var graphs ports.GraphStore
	if dbPath != "" {
		db, err := sql.Open("sqlite", dbPath)
		if err != nil {
			return nil, nil, fmt.Errorf("open database: %w", err)
		}
		store, err := sqlite.NewStore(db)
		if err != nil {
			db.Close()
			return nil, nil, err
		}
		for _, path := range formFiles {
			graph, err := yamlform.Load(path)
			if err != nil {
				db.Close()
				return nil, nil, fmt.Errorf("load %s: %w", path, err)
			}
			id, err := store.CreateForm(context.Background(), graph)
			if err != nil {
				db.Close()
				return nil, nil, fmt.Errorf("seed %s: %w", path, err)
			}
			logger.Info("form loaded", "path", path, "form", id)
		}
		graphs = store
		cleanup = func() { db.Close() }
	} else {
		store := memory.NewGraphStore()
		for _, path := range formFiles {
			graph, err := yamlform.Load(path)
			if err != nil {
				return nil, nil, fmt.Errorf("load %s: %w", path, err)
			}
			store.Seed(graph)
			logger.Info("form loaded", "path", path, "form", graph.ID)
		}
		graphs = store
	}

	opts := []formroute.Option{
		formroute.WithLogger(logger),
		formroute.WithRenderer(render.New()),
	}

	if redisAddr != "" {
		client := backend.NewClient(&backend.Options{Addr: redisAddr})
		locker := redisadapter.NewLocker(client, "formroute:lock:")
		opts = append(opts,
			formroute.WithSessions(redisadapter.NewFromClient(client), session.WithLocker(locker), session.WithLogger(logger)),
			formroute.WithLocker(locker),
		)
		prev := cleanup
		cleanup = func() {
			client.Close()
			prev()
		}
	} else {
		opts = append(opts, formroute.WithSessions(memory.NewSessionStore(), session.WithLogger(logger)))
	}

	return formroute.New(graphs, opts...), cleanup, nil
}

func newLogger(level string) *slog.Logger {
	var l slog.Level
	switch level {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l}))
}
