package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pantryclub/mealplan/internal/catalog"
	"github.com/pantryclub/mealplan/internal/mongo"
	"github.com/pantryclub/mealplan/internal/plan"
	"github.com/pantryclub/mealplan/pkg"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/events"
	"github.com/appetiteclub/apt/middleware"
)

const (
	appNamespace = "MEALPLAN"
	appName      = "mealplan"
	appVersion   = "0.1.0"
)

func main() {
	config, err := apt.LoadConfig(appNamespace, os.Args[1:])
	if err != nil {
		log.Fatalf("%s(%s) cannot setup with error: %v", appName, appVersion, err)
	}

	logLevel, _ := config.GetString("log.level")
	logger := apt.NewLogger(logLevel)

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)
	defer stop()

	// Initialize repositories
	dishRepo := mongo.NewDishRepo(config, logger)
	entryRepo := mongo.NewEntryRepo(dishRepo, logger)

	// Optional NATS publisher; meal-plan events are dropped when unset
	var publisher events.Publisher
	natsURL, _ := config.GetString("nats.url")
	if natsURL != "" {
		natsPublisher, err := pkg.NewNATSPublisher(natsURL)
		if err != nil {
			log.Fatalf("Cannot connect to NATS %s(%s): %v", appName, appVersion, err)
		}
		defer natsPublisher.Close()
		publisher = natsPublisher
	}

	// Day keys are generated in the household's time zone
	loc := time.Local
	if tz, _ := config.GetString("mealplan.timezone"); tz != "" {
		parsed, err := time.LoadLocation(tz)
		if err != nil {
			log.Fatalf("Invalid timezone %q for %s(%s): %v", tz, appName, appVersion, err)
		}
		loc = parsed
	}

	ledger := plan.NewLedger(entryRepo, dishRepo, publisher, logger, loc)

	// Initialize handlers
	catalogHandler := catalog.NewHandler(dishRepo, config, logger)
	planHandler := plan.NewHandler(plan.HandlerDeps{Ledger: ledger}, config, logger)

	// Setup seeding hooks
	seedHooks := apt.LifecycleHooks{
		OnStart: catalog.SeedingFunc(appName, dishRepo.GetDatabase, logger),
	}

	// Setup middleware
	stack := middleware.DefaultStack(middleware.StackOptions{
		Logger:      logger,
		DisableCORS: true, // Internal API service
	})
	stack = append(stack, middleware.InternalOnly())

	options := []apt.Option{
		apt.WithConfig(config),
		apt.WithLogger(logger),
		apt.WithHTTPMiddleware(stack...),
		apt.WithHTTPServerModules("web.port", catalogHandler, planHandler),
		apt.WithLifecycle(dishRepo, entryRepo, seedHooks),
		apt.WithHealthChecks(appName),
	}

	ms := apt.NewMicro(options...)
	logger.Infof("Starting %s(%s)", appName, appVersion)

	if err := ms.Run(ctx); err != nil {
		log.Fatalf("%s(%s) stopped with error: %v", appName, appVersion, err)
	}

	logger.Infof("%s(%s) stopped", appName, appVersion)
}
