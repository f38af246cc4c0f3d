package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/keamoral/ouijagames/gomicro/config"
	"github.com/keamoral/ouijagames/gomicro/logger"
	"github.com/keamoral/ouijagames/services/storefront/internal/catalog"
	"github.com/keamoral/ouijagames/services/storefront/internal/identity"
	"github.com/keamoral/ouijagames/services/storefront/internal/image"
	"github.com/keamoral/ouijagames/services/storefront/internal/listing"
	"github.com/keamoral/ouijagames/services/storefront/internal/workflow"
	"github.com/keamoral/ouijagames/services/storefront/prometheus"
	prom "github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

const serviceName = "storefront"

const usage = `usage: storefront <command> [flags]

commands:
  register   -user -rut -email -password
  login      -email -password
  logout
  products
  show       <id>
  categories
  add        -name -description -price -stock -img -category -image
  delete     <id>
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	appConfig, err := config.Load(serviceName)
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	if err := logger.InitLogger(&logger.LogConfig{
		Level:       appConfig.Log.Level,
		Environment: appConfig.Server.Env,
		ServiceName: serviceName,
	}); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	log := logger.GetLogger()
	defer log.Sync()

	log.Debug("Starting storefront", appConfig.LogConfig()...)

	a, err := newApp(context.Background(), appConfig, log)
	if err != nil {
		log.Fatal("Failed to initialize storefront", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	command := os.Args[1]
	runErr := a.run(ctx, command, os.Args[2:])

	// push even when the command failed; failures are what the counters track
	if err := prometheus.PushCommand(context.Background(), appConfig.Metrics.PushURL, serviceName, command, a.registry); err != nil {
		log.Warn("Failed to push metrics", zap.String("url", appConfig.Metrics.PushURL), zap.Error(err))
	}

	if runErr != nil {
		fmt.Fprintln(os.Stderr, runErr)
		os.Exit(1)
	}
}

func newApp(ctx context.Context, appConfig *config.Config, log *zap.Logger) (*app, error) {
	registry := prom.NewRegistry()
	metrics := prometheus.NewMetrics(appConfig.Metrics.Prefix, registry)
	httpClient := &http.Client{Timeout: appConfig.Catalog.Timeout}

	session, err := identity.LoadSession(appConfig.Identity.TokenFile)
	if err != nil {
		return nil, err
	}

	catalogClient := catalog.NewClient(appConfig.Catalog.BaseURL, httpClient, session, log, metrics)
	controller := listing.NewController(catalogClient, log)

	// a missing image storage only disables local image selection
	var images workflow.ImageResolver
	storage, err := image.FromConfig(ctx, appConfig.Storage)
	if err != nil {
		log.Warn("Image storage unavailable", zap.Error(err))
	} else {
		images = image.NewResolver(storage, log)
	}

	wf, err := workflow.New(catalogClient, controller, images, log, metrics)
	if err != nil {
		return nil, err
	}

	return &app{
		out:        os.Stdout,
		registry:   registry,
		controller: controller,
		workflow:   wf,
		identity:   identity.NewClient(appConfig.Identity.BaseURL, httpClient, session, appConfig.Identity.ProfileTimeout, log, metrics),
		gate:       identity.NewGate(appConfig.Identity.AuthTimeout),
	}, nil
}
