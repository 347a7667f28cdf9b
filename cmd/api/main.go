// @title           DocQuery API
// @version         1.0
// @description     Upload documents, parse them and ask questions about them within sessions.
// @termsOfService  http://swagger.io/terms/

// @license.name    Apache 2.0
// @license.url     http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:3000
// @BasePath  /
// @schemes   http https
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/akolanti/DocQuery/internal/bootstrap"
	"github.com/akolanti/DocQuery/internal/config"
	"github.com/akolanti/DocQuery/internal/handlers"
	"github.com/akolanti/DocQuery/internal/middleware"
	"github.com/akolanti/DocQuery/internal/server"
	"github.com/akolanti/DocQuery/internal/worker"
	"github.com/akolanti/DocQuery/pkg/logger_i"
)

func main() {
	var configPath, listenAddr string
	flag.StringVar(&configPath, "config", "docquery.toml", "path to the TOML config file")
	flag.StringVar(&listenAddr, "listen-addr", "", "server listen address, overrides the config file")
	flag.Parse()

	rt, err := config.LoadRuntime(configPath)
	logger_i.Init(rt.IsProd)
	logger := logger_i.NewLogger("main")
	if err != nil {
		logger.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}
	if listenAddr != "" {
		rt.ListenAddr = listenAddr
	}

	serviceContext, closeExternalServices := context.WithCancel(context.Background())
	defer closeExternalServices()

	subs, err := bootstrap.OpenSubstrates(serviceContext, rt)
	if err != nil {
		logger.Error("Could not open the persistence substrate", "error", err)
		os.Exit(1)
	}
	defer subs.Close()
	logger.Info("Substrate ready", "kind", subs.Kind)

	pool := worker.NewPool(worker.DefaultOptions())
	ws := bootstrap.NewWorkspace(serviceContext, subs, pool, bootstrap.Providers(serviceContext, rt))

	router := server.NewRouter(handlers.NewHandler(ws), middleware.NewChain(rt))
	srv := server.New(rt.ListenAddr, router)

	serverErr := make(chan error, 1)
	go func() { serverErr <- srv.Start() }()

	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-gracefulShutdown:
		logger.Info("Server is shutting down", "signal", sig.String())
	case err := <-serverErr:
		if err != nil {
			logger.Error("Server stopped unexpectedly", "error", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), config.ShutdownContextTimeout)
	defer cancel()

	done := make(chan struct{})
	go func() {
		_ = srv.Shutdown(ctx)
		// in-flight parses finish before the substrate goes away
		pool.Stop()
		closeExternalServices()
		close(done)
	}()

	select {
	case <-done:
		logger.Info("Gracefully shut down")
	case <-ctx.Done():
		logger.Error("Force shut down")
		os.Exit(1)
	}
}
