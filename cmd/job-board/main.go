// cmd/job-board/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"job-board/internal/api"
	"job-board/internal/common/auth"
	commonaws "job-board/internal/common/aws"
	"job-board/internal/common/camunda"
	"job-board/internal/common/config"
	"job-board/internal/common/database"
	"job-board/internal/common/events"
	"job-board/internal/common/logger"
	"job-board/internal/common/observability"
	"job-board/internal/common/session"
	"job-board/internal/workers"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.NewWithOutput(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting job board", zap.String("version", cfg.App.Version), zap.String("environment", cfg.App.Environment))

	obs := observability.New(cfg.Observability.ServiceName, zapLog)
	defer obs.Shutdown()
	if err := obs.EnableTracing(cfg.Observability.ServiceName, cfg.Observability.JaegerEndpoint, cfg.Observability.SampleRatio); err != nil {
		zapLog.Warn("tracing not enabled", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- PostgreSQL ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	if cfg.Database.Postgres.AutoMigrate {
		if err := database.Migrate(ctx, pg.DB); err != nil {
			zapLog.Fatal("schema migration failed", zap.Error(err))
		}
		zapLog.Info("Schema applied")
	}

	// --- Redis ---
	redis := database.NewRedis(cfg.Database.Redis)
	err = retryWithBackoff(func() error {
		return redis.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")
	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redis.Close()
	zapLog.Info("Redis connected successfully")

	// --- Elasticsearch (optional) ---
	var es *database.ElasticsearchClient
	if cfg.Database.Elasticsearch.Enabled {
		err = retryWithBackoff(func() error {
			var err error
			es, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}
			return es.Ping(ctx)
		}, 15, 2*time.Second, zapLog, "Elasticsearch connection")
		if err != nil {
			zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
		}
		if err := es.EnsureIndex(ctx, cfg.Search.JobsIndex); err != nil {
			zapLog.Fatal("failed to prepare jobs index", zap.Error(err))
		}
		zapLog.Info("Elasticsearch connected successfully", zap.String("index", cfg.Search.JobsIndex))
	}

	// --- Events ---
	dispatcher := events.NewDispatcher(log)
	var publisher events.Publisher = dispatcher.Async(10 * time.Second)
	var broker *events.RabbitMQ
	if url := cfg.Messaging.RabbitMQ.URL; url != "" {
		err = retryWithBackoff(func() error {
			var err error
			broker, err = events.NewRabbitMQ(url, cfg.Messaging.RabbitMQ.Exchange, cfg.Messaging.RabbitMQ.Queue, log)
			return err
		}, 10, 2*time.Second, zapLog, "RabbitMQ connection")
		if err != nil {
			zapLog.Fatal("rabbitmq failed after retries", zap.Error(err))
		}
		defer broker.Close()
		publisher = broker
	} else {
		zapLog.Info("No broker configured, dispatching events in process")
	}

	// --- External Service Clients ---
	identity := auth.NewKeycloakClient(
		cfg.Auth.Keycloak.URL,
		cfg.Auth.Keycloak.Realm,
		cfg.Auth.Keycloak.ClientID,
		cfg.Auth.Keycloak.ClientSecret,
	)

	deps := dependencies{
		cfg:       cfg,
		db:        pg.DB,
		sessions:  session.NewStore(redis.GetClient(), seconds(cfg.Auth.SessionTTL), seconds(cfg.Auth.RoleCacheTTL)),
		identity:  identity,
		publisher: publisher,
		log:       log,
	}
	if es != nil {
		deps.es = es.Client
	}
	if cfg.Notifications.Email.Enabled {
		if deps.ses, err = commonaws.NewSESClient(ctx, cfg.Notifications.AWS.Region); err != nil {
			zapLog.Fatal("failed to create SES client", zap.Error(err))
		}
	}
	if cfg.Notifications.SMS.Enabled {
		if deps.sns, err = commonaws.NewSNSClient(ctx, cfg.Notifications.AWS.Region); err != nil {
			zapLog.Fatal("failed to create SNS client", zap.Error(err))
		}
	}

	zapLog.Info("All external service clients initialized")

	// --- Zeebe (optional) ---
	var zeebe *camunda.Client
	if cfg.Camunda.Enabled {
		err = retryWithBackoff(func() error {
			var err error
			zeebe, err = camunda.NewClientWithConfig(&camunda.ClientConfig{
				GatewayAddress:         cfg.Camunda.BrokerAddress,
				UsePlaintextConnection: true,
				RequestTimeout:         config.GetDuration(cfg.Camunda.RequestTimeout),
			})
			return err
		}, 10, 2*time.Second, zapLog, "Zeebe client initialization")
		if err != nil {
			zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
		}
		defer zeebe.Close()
		deps.messages = zeebe
		zapLog.Info("Zeebe client connected successfully")
	}

	set := buildHandlers(deps)
	set.subscribe(dispatcher)

	if broker != nil {
		if err := broker.Consume(ctx, dispatcher.Dispatch); err != nil {
			zapLog.Fatal("failed to start event consumer", zap.Error(err))
		}
		zapLog.Info("Event consumer started")
	}

	var jobWorkers []*camunda.CamundaWorker
	if zeebe != nil {
		for _, w := range set.jobWorkers() {
			if !config.IsWorkerEnabled(cfg, w.taskType) {
				zapLog.Info("worker disabled", zap.String("taskType", w.taskType))
				continue
			}
			jobWorkers = append(jobWorkers, camunda.StartWorker(
				zeebe.GetClient(), w.taskType, config.GetWorkerConfig(cfg, w.taskType), w.handler, obs, zapLog,
			))
		}
		zapLog.Info("Workers registered", zap.Int("count", len(jobWorkers)))
	}

	// --- HTTP API, Health & Metrics ---
	router := api.NewServer(set.operations(), cfg.HTTP, log).Router()
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})
	router.GET("/ready", readyHandler(pg, redis, es, zeebe))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/registry", func(c *gin.Context) {
		c.JSON(http.StatusOK, workers.Catalog().Snapshot(time.Now()))
	})

	srv := &http.Server{
		Addr:         cfg.HTTP.Address,
		Handler:      router,
		ReadTimeout:  config.GetDuration(cfg.HTTP.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.HTTP.WriteTimeout),
	}
	go func() {
		zapLog.Info("HTTP server listening", zap.String("address", cfg.HTTP.Address))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Error("HTTP server failed", zap.Error(err))
			stop()
		}
	}()

	// --- Graceful Shutdown ---
	<-ctx.Done()
	zapLog.Info("Shutdown signal received, stopping workers...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping HTTP server", zap.Error(err))
	}
	for _, w := range jobWorkers {
		w.Stop()
	}

	zapLog.Info("Job board stopped gracefully")
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}

func readyHandler(pg *database.PostgresClient, redis *database.RedisClient, es *database.ElasticsearchClient, zeebe *camunda.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		checks := map[string]string{}
		ready := true
		record := func(name string, err error) {
			if err != nil {
				checks[name] = err.Error()
				ready = false
				return
			}
			checks[name] = "ok"
		}

		record("postgres", pg.Ping(ctx))
		record("redis", redis.Ping(ctx))
		if es != nil {
			record("elasticsearch", es.Ping(ctx))
		}
		if zeebe != nil {
			record("zeebe", zeebe.HealthCheck(ctx))
		}

		status, code := "ready", http.StatusOK
		if !ready {
			status, code = "not_ready", http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{
			"status": status,
			"checks": checks,
			"time":   time.Now().Format(time.RFC3339),
		})
	}
}
