package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"lpb-monitor/internal/aggregate"
	"lpb-monitor/internal/assembler"
	"lpb-monitor/internal/cache"
	"lpb-monitor/internal/config"
	"lpb-monitor/internal/config/components"
	"lpb-monitor/internal/database/influx"
	"lpb-monitor/internal/database/postgres"
	"lpb-monitor/internal/database/postgres/repositories"
	"lpb-monitor/internal/delimited"
	"lpb-monitor/internal/interfaces"
	"lpb-monitor/internal/logger"
	"lpb-monitor/internal/models"
	"lpb-monitor/internal/mq"
	"lpb-monitor/internal/mq/handlers"
	"lpb-monitor/internal/normalize"
	"lpb-monitor/internal/query"
	"lpb-monitor/internal/services"
	"lpb-monitor/internal/source"
)

type Application struct {
	config *config.Config

	postgresDB       *postgres.PostgresDB
	influxDB         *influx.InfluxDB
	recordRepository *repositories.RecordRepository
	summaryWriter    *influx.SummaryWriter

	parserPool   *delimited.Pool
	assembler    *assembler.Assembler
	cache        *cache.MemoryCache
	sources      []source.Fetcher
	uploadTarget source.Uploader

	datasetService *services.DatasetService
	uploadService  *services.UploadService
	viewService    *services.ViewService
	refresher      *services.Refresher
	debouncer      *query.Debouncer

	mqttClient     *mq.Client
	topicManager   *mq.TopicManager
	refreshHandler *handlers.RefreshHandler
	filterHandler  *handlers.FilterHandler

	shutdownChan chan os.Signal
	ctx          context.Context
	cancelFunc   context.CancelFunc
}

func main() {
	importFile := flag.String("import", "", "upload a delimited export to the upload target and exit")
	once := flag.Bool("once", false, "run one refresh, log the summaries and exit")
	flag.Parse()

	app := &Application{}

	if err := app.initialize(*importFile == "" && !*once); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize application")
	}

	var err error
	switch {
	case *importFile != "":
		err = app.runImport(*importFile)
	case *once:
		err = app.runOnce()
	default:
		err = app.run()
	}

	if err != nil {
		app.shutdown()
		log.Fatal().Err(err).Msg("Application failed")
	}
}

func (app *Application) initialize(longRunning bool) error {
	var err error

	app.config, err = config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger.NewLogger(app.config.Logger)
	log.Info().
		Str("component", "main").
		Str("version", app.config.Service.Version).
		Strs("sources", app.config.Source.Order).
		Msg("Setting up service...")

	app.ctx, app.cancelFunc = context.WithCancel(context.Background())
	app.shutdownChan = make(chan os.Signal, 1)
	signal.Notify(app.shutdownChan, syscall.SIGINT, syscall.SIGTERM)

	if err := app.initializeDatabases(); err != nil {
		return fmt.Errorf("error while initialize databases: %w", err)
	}

	if longRunning && app.config.MQTT.Enabled {
		if err := app.initializeMQTT(); err != nil {
			return fmt.Errorf("error while initializing MQTT: %w", err)
		}
	}

	if err := app.initializeSources(); err != nil {
		return fmt.Errorf("error while initializing sources: %w", err)
	}

	if err := app.initializeServices(); err != nil {
		return fmt.Errorf("error while initializing services: %w", err)
	}

	if app.mqttClient != nil {
		if err := app.setupTopicHandlers(); err != nil {
			return fmt.Errorf("error while setting up topic handlers: %w", err)
		}
	}

	log.Info().Msg("Successfully initialized application")
	return nil
}

func (app *Application) initializeDatabases() error {
	var err error

	if app.config.Postgres.Enabled {
		app.postgresDB, err = postgres.NewConnection(app.config.Postgres, logger.GetLogger("postgres"))
		if err != nil {
			return fmt.Errorf("could not connect to PostgreSQL: %w", err)
		}
		if err := pingDatabase(app.ctx, app.postgresDB, 10*time.Second); err != nil {
			app.postgresDB.Close()
			app.postgresDB = nil
			return fmt.Errorf("PostgreSQL is not reachable: %w", err)
		}
		app.recordRepository = repositories.NewRecordRepository(app.postgresDB.GetDB())

		log.Info().
			Str("component", "main").
			Str("host", app.config.Postgres.Host).
			Msg("Successfully initialized PostgreSQL")
	}

	if app.config.InfluxDB.Enabled() {
		app.influxDB, err = influx.NewConnection(app.config.InfluxDB, logger.GetLogger("influx"))
		if err != nil {
			return fmt.Errorf("could not connect to InfluxDB: %w", err)
		}
		app.summaryWriter = influx.NewSummaryWriter(app.influxDB.GetWriteAPI(), logger.GetLogger("summary-writer"))
	}

	return nil
}

type pinger interface {
	Ping(ctx context.Context) error
}

func pingDatabase(ctx context.Context, db pinger, timeout time.Duration) error {
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := db.Ping(pingCtx); err != nil {
		return fmt.Errorf("ping failed: %w", err)
	}
	return nil
}

func (app *Application) initializeMQTT() error {
	app.mqttClient = mq.NewClient(app.config.MQTT, logger.GetLogger("mq-client"))

	connectCtx, cancel := context.WithTimeout(app.ctx, 30*time.Second)
	defer cancel()

	if err := app.mqttClient.Connect(connectCtx); err != nil {
		return fmt.Errorf("could not connect to MQTT broker: %w", err)
	}

	log.Info().
		Str("component", "main").
		Str("broker", app.config.MQTT.GetUrl()).
		Msg("Successfully initialized MQTT client")
	return nil
}

func (app *Application) initializeSources() error {
	app.parserPool = delimited.NewPool(app.config.Service.ParseWorkers, logger.GetLogger("parser"))
	app.assembler = assembler.New(normalize.New(), logger.GetLogger("assembler"))

	httpClient := &http.Client{}
	built := make(map[string]source.Fetcher)
	build := func(name string) (source.Fetcher, error) {
		if src, ok := built[name]; ok {
			return src, nil
		}
		src, err := app.newSource(name, httpClient)
		if err != nil {
			return nil, err
		}
		built[name] = src
		return src, nil
	}

	for _, name := range app.config.Source.Order {
		src, err := build(name)
		if err != nil {
			return err
		}
		app.sources = append(app.sources, src)
	}

	target, err := build(app.config.Source.UploadTarget)
	if err != nil {
		return fmt.Errorf("upload target: %w", err)
	}
	if uploader, ok := target.(source.Uploader); ok {
		app.uploadTarget = uploader
	}

	var disk cache.Persister
	if app.config.Cache.Dir != "" {
		store, err := cache.NewFileStore(app.config.Cache.Dir, logger.GetLogger("cache-store"))
		if err != nil {
			return fmt.Errorf("could not open cache directory: %w", err)
		}
		disk = store
	}
	app.cache = cache.NewMemoryCache(app.config.Cache.TTL, disk, logger.GetLogger("cache"))

	return nil
}

func (app *Application) newSource(name string, client *http.Client) (source.Fetcher, error) {
	cfg := app.config.Source

	switch name {
	case components.SourceRest:
		return source.NewRestSource(cfg, client, logger.GetLogger("rest-source")), nil
	case components.SourceEdge:
		return source.NewEdgeSource(cfg, client, logger.GetLogger("edge-source")), nil
	case components.SourceSheet:
		return source.NewSheetSource(cfg, app.parserPool, client, logger.GetLogger("sheet-source")), nil
	case components.SourcePostgres:
		if app.recordRepository == nil {
			return nil, fmt.Errorf("postgres source requires POSTGRES_ENABLED")
		}
		return source.NewPostgresSource(cfg, app.recordRepository, logger.GetLogger("postgres-source")), nil
	default:
		return nil, fmt.Errorf("unknown source %q", name)
	}
}

func (app *Application) initializeServices() error {
	table := app.config.Source.Table

	app.datasetService = services.NewDatasetService(
		app.sources,
		app.assembler,
		app.cache,
		table,
		logger.GetLogger("dataset-service"),
	)

	app.uploadService = services.NewUploadService(
		app.uploadTarget,
		app.parserPool,
		app.assembler,
		app.config.Source.UploadChunkSize,
		table,
		logger.GetLogger("upload-service"),
	)
	app.uploadService.OnUploaded(func(key string) {
		if err := app.datasetService.ClearCache(); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("Failed to invalidate cache after upload")
		}
	})

	var publisher interfaces.IMqClient
	if app.mqttClient != nil {
		publisher = app.mqttClient
	}
	var sink services.SummarySink
	if app.summaryWriter != nil {
		sink = app.summaryWriter
	}
	app.topicManager = mq.NewTopicManager(app.config.MQTT.BaseTopic, logger.GetLogger("topic-manager"))

	app.viewService = services.NewViewService(
		aggregate.New(),
		models.MetricMode(app.config.Service.ViewMetric),
		publisher,
		app.topicManager,
		sink,
		logger.GetLogger("view-service"),
	)
	app.debouncer = query.NewDebouncer(app.config.Service.FilterDebounce, app.viewService.ApplyFilter)

	app.refresher = services.NewRefresher(
		app.datasetService,
		app.viewService,
		table,
		app.config.Service.RefreshInterval,
		logger.GetLogger("refresher"),
	)

	pingCtx, cancel := context.WithTimeout(app.ctx, app.config.Source.FetchTimeout)
	defer cancel()
	for _, status := range app.datasetService.TestConnection(pingCtx) {
		event := log.Info()
		if !status.OK {
			event = log.Warn().Str("error", status.Error)
		}
		event.Str("source", status.Source).Dur("latency", status.Latency).Msg("Connection test")
	}

	log.Info().
		Str("component", "main").
		Msg("Successfully initialized services")
	return nil
}

func (app *Application) setupTopicHandlers() error {
	timeout := app.config.Source.FetchTimeout * time.Duration(len(app.sources)+1)

	app.refreshHandler = handlers.NewRefreshHandler(
		app.refresher,
		logger.GetLogger("refresh-handler"),
		app.topicManager,
		timeout,
	)
	if err := app.mqttClient.Subscribe(app.refreshHandler.Topic(), app.config.MQTT.QoS, app.refreshHandler.HandleMessage); err != nil {
		return fmt.Errorf("error subscribing to refresh topic: %w", err)
	}

	app.filterHandler = handlers.NewFilterHandler(
		app.debouncer,
		logger.GetLogger("filter-handler"),
		app.topicManager,
	)
	if err := app.mqttClient.Subscribe(app.filterHandler.Topic(), app.config.MQTT.QoS, app.filterHandler.HandleMessage); err != nil {
		return fmt.Errorf("error subscribing to filter topic: %w", err)
	}

	return nil
}

func (app *Application) run() error {
	go app.refresher.Run(app.ctx)

	select {
	case sig := <-app.shutdownChan:
		log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
	case <-app.ctx.Done():
		log.Info().Msg("context cancelled, shutting down application")
	}

	return app.shutdown()
}

func (app *Application) runImport(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("could not read import file: %w", err)
	}

	result, err := app.uploadService.ImportCSV(app.ctx, "", raw)
	log.Info().
		Str("file", path).
		Bool("success", result.Success).
		Int("applied", result.Applied).
		Int("submitted", result.Submitted).
		Int("duplicates_dropped", result.DuplicatesDropped).
		Int("dropped", result.Dropped).
		Int("failed_chunk", result.FailedChunk).
		Int("resume_from", result.ResumeFrom).
		Msg("Import finished")
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	return app.shutdown()
}

func (app *Application) runOnce() error {
	if err := app.refresher.Refresh(app.ctx, ""); err != nil {
		return fmt.Errorf("refresh failed: %w", err)
	}

	views, err := app.viewService.Current()
	if err != nil {
		return err
	}

	for _, mode := range []models.GroupMode{models.GroupByUnit, models.GroupByOfficer} {
		view := views.Groups[mode]
		for _, entry := range view.Entries {
			log.Info().
				Str("view", string(mode)).
				Str("key", entry.Key).
				Int("total", entry.Total).
				Int("valid", entry.Valid).
				Int("invalid", entry.Invalid).
				Float64("work_orders", entry.TotalWorkOrders).
				Float64("realized", entry.Realized()).
				Msg("Summary")
		}
	}

	ds := app.viewService.Dataset()
	log.Info().
		Int("records", len(ds.Records)).
		Int("dropped", ds.Dropped).
		Str("source", ds.Source).
		Time("timestamp", ds.Timestamp).
		Msg("Refresh finished")

	return app.shutdown()
}

func (app *Application) shutdown() error {
	if app.debouncer != nil {
		app.debouncer.Stop()
	}

	if app.mqttClient != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		app.mqttClient.Disconnect(ctx)
		cancel()
	}

	if app.parserPool != nil {
		app.parserPool.Close()
	}

	if app.influxDB != nil {
		app.influxDB.Close()
	}

	if app.postgresDB != nil {
		if err := app.postgresDB.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing PostgreSQL connection")
		}
	}

	if app.cancelFunc != nil {
		app.cancelFunc()
	}
	return nil
}
