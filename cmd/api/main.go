// @title           DocQA API
// @version         1.0
// @description     Question answering over uploaded documents and collections, served as asynchronous jobs.
// @termsOfService  http://swagger.io/terms/

// @license.name    Apache 2.0
// @license.url     http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:3000
// @BasePath  /
// @schemes   http https
package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/akolanti/DocQA/internal/config"
	jobmodel "github.com/akolanti/DocQA/internal/domain/jobModel"
	"github.com/akolanti/DocQA/internal/handlers"
	"github.com/akolanti/DocQA/internal/job"
	"github.com/akolanti/DocQA/internal/mcpServer"
	"github.com/akolanti/DocQA/internal/middleware"
	"github.com/akolanti/DocQA/internal/server"
	"github.com/akolanti/DocQA/internal/worker"
	"github.com/akolanti/DocQA/pkg/logger_i"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	configPath        string
	listenAddr        string
	requestCount      int64
	stopWorkerChannel chan bool
	workerWaitGroup   sync.WaitGroup
)

func main() {
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:   "docqa",
		Short: "Question answering over PDF, DOCX and text documents",
		RunE:  runServe,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "docqa.yaml", "path to the settings file")
	root.PersistentFlags().StringVar(&listenAddr, "listen-addr", "", "server listen address (overrides the settings file)")

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and worker pool",
		RunE:  runServe,
	})
	root.AddCommand(&cobra.Command{
		Use:   "mcp",
		Short: "Serve the engine as MCP tools over stdio",
		RunE:  runMCP,
	})

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadSettings() (*config.Settings, error) {
	settings, err := config.LoadSettings(configPath)
	if err != nil {
		return nil, err
	}
	if listenAddr != "" {
		settings.ListenAddr = listenAddr
	}
	return settings, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}
	logger_i.Init(settings.IsProd)
	var logger = logger_i.NewLogger("main")

	//init buffered job channel
	jobChannel := make(chan jobmodel.Job, config.BufferLimit)
	dispatcherChannel := make(chan bool, 1)
	stopWorkerChannel = make(chan bool, 1)

	serviceContext, closeExternalServices := context.WithCancel(context.Background())
	defer closeExternalServices()

	a, err := buildApp(serviceContext, settings, logger)
	if err != nil {
		logger.Error("Could not start services", "error", err)
		return err
	}
	defer a.close(logger)

	//init job service and job store
	logger.Info("Starting job service")
	service := job.InitJobService(job.ServiceConfig{
		JobChannel:        jobChannel,
		RequestCount:      requestCount,
		DispatcherChannel: dispatcherChannel,
		JobStore:          a.jobStore,
		MessageStore:      a.messageStore,
	})

	handlers.InitJobHandler(service, a.engine)
	middleware.Init(settings)

	//init worker pool
	worker.InitServices(service, a.engine)
	worker.InitWorkerPool(stopWorkerChannel, &workerWaitGroup)

	//server handling
	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)
	stopExecution := make(chan bool, 1)

	shutdownParams := server.ShutdownParams{
		GracefulShutdown: gracefulShutdown,
		StopExecution:    stopExecution,
		WorkerStop:       stopWorkerChannel,
		Group:            &workerWaitGroup,
		CloseServices:    closeExternalServices,
	}
	go server.ShutDownHandler(shutdownParams)
	go server.CreateServer(settings.ListenAddr)

	<-stopExecution
	logger.Info("Server stopped")
	return nil
}

func runMCP(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}
	// stdout carries the protocol
	logger_i.InitTo(os.Stderr, settings.IsProd)
	var logger = logger_i.NewLogger("main")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := buildApp(ctx, settings, logger)
	if err != nil {
		logger.Error("Could not start services", "error", err)
		return err
	}
	defer a.close(logger)

	srv, err := mcpServer.NewServer(a.engine)
	if err != nil {
		return err
	}
	return srv.Run(ctx)
}
