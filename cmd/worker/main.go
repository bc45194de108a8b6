package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/oratoria/presentation-scoring-service/internal/infra/config"
	"github.com/oratoria/presentation-scoring-service/internal/infra/email"
	"github.com/oratoria/presentation-scoring-service/internal/infra/ffmpeg"
	"github.com/oratoria/presentation-scoring-service/internal/infra/metrics"
	miniostorage "github.com/oratoria/presentation-scoring-service/internal/infra/minio"
	"github.com/oratoria/presentation-scoring-service/internal/infra/postgres"
	"github.com/oratoria/presentation-scoring-service/internal/infra/providers"
	"github.com/oratoria/presentation-scoring-service/internal/infra/rabbitmq"
	"github.com/oratoria/presentation-scoring-service/internal/infra/tracing"
	"github.com/oratoria/presentation-scoring-service/internal/usecase"
	"github.com/oratoria/presentation-scoring-service/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	fatalOnErr(err, "load config")

	log, err := logger.New(cfg.LogLevel)
	fatalOnErr(err, "init logger")
	defer log.Sync()

	log.Info("starting presentation-scoring-service")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Tracing (non-fatal if Jaeger unavailable)
	tp, err := tracing.InitTracer(ctx, cfg.JaegerEndpoint)
	if err != nil {
		log.Warn("tracing init failed, continuing without tracing", zap.Error(err))
	} else {
		defer tp.Shutdown(ctx)
	}

	// Database
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	fatalOnErr(err, "connect to postgres")
	defer pool.Close()

	// Migrations
	if err := postgres.RunMigrations(cfg.DatabaseURL); err != nil {
		log.Warn("migration warning", zap.Error(err))
	}

	// MinIO
	storage, err := miniostorage.NewStorage(miniostorage.StorageConfig{
		Endpoint:    cfg.MinIOEndpoint,
		AccessKey:   cfg.MinIOAccessKey,
		SecretKey:   cfg.MinIOSecretKey,
		UseSSL:      cfg.MinIOUseSSL,
		VideoBucket: cfg.MinIOVideoBucket,
	})
	fatalOnErr(err, "create minio storage")
	fatalOnErr(storage.EnsureBuckets(ctx), "ensure minio buckets")

	// RabbitMQ publisher connection
	rmqConn, err := amqp.Dial(cfg.RabbitMQURL)
	fatalOnErr(err, "connect to rabbitmq for publisher")
	defer rmqConn.Close()

	pub, err := rabbitmq.NewPublisher(rmqConn, cfg.RabbitMQExchange)
	fatalOnErr(err, "create rabbitmq publisher")

	statusPub := rabbitmq.NewStatusPublisher(pub)
	dlqPub := rabbitmq.NewDLQPublisher(pub, cfg.RabbitMQDLQ)

	// Infra adapters
	jobs := postgres.NewJobRepository(pool)
	results := postgres.NewResultRepository(pool)
	media := ffmpeg.NewMediaProcessor(cfg.AudioSampleRate, log)
	audio := ffmpeg.NewWAVDecoder()
	notifier := email.NewSMTPNotifier(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPFrom, log)

	// Detection sidecars
	pose := providers.NewPoseClient(cfg.PoseServiceURL)
	face := providers.NewFaceClient(cfg.FaceServiceURL)
	speech := providers.NewTranscriptClient(cfg.TranscriptServiceURL)
	if !pose.Available() {
		log.Warn("pose sidecar unavailable, body analysis will be degraded")
	}
	if !face.Available() {
		log.Warn("face sidecar unavailable, facial analysis will be degraded")
	}
	if !speech.Available() {
		log.Warn("transcript sidecar unavailable, voice text metrics will be degraded")
	}

	// Use case
	uc := usecase.NewAnalyzePresentationUseCase(
		jobs, results, storage, media, audio,
		pose, face, speech,
		statusPub, dlqPub, notifier,
		log,
		usecase.AnalyzePresentationConfig{
			TempDir:         cfg.TempDir,
			MaxRetries:      cfg.MaxRetries,
			BodySampleFPS:   cfg.BodySampleFPS,
			FaceSampleFPS:   cfg.FaceSampleFPS,
			DefaultLanguage: cfg.DefaultLanguage,
		},
	)

	// Metrics server
	metricsSrv := metrics.StartMetricsServer(ctx, cfg.MetricsPort, log)

	// Consumer (worker pool)
	consumer, err := rabbitmq.NewConsumer(rabbitmq.ConsumerConfig{
		URL:         cfg.RabbitMQURL,
		Queue:       cfg.RabbitMQRequestQueue,
		Exchange:    cfg.RabbitMQExchange,
		DLQ:         cfg.RabbitMQDLQ,
		StatusQueue: cfg.RabbitMQStatusQueue,
		Prefetch:    cfg.RabbitMQPrefetch,
		WorkerCount: cfg.WorkerCount,
		BaseDelayMs: cfg.RetryBaseDelayMs,
	}, uc.Execute, log)
	fatalOnErr(err, "create consumer")

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		log.Info("received shutdown signal", zap.String("signal", sig.String()))
		cancel()
	}()

	log.Info("presentation-scoring-service started, consuming messages")

	if err := consumer.Start(ctx); err != nil {
		log.Error("consumer error", zap.Error(err))
	}

	// Shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	metricsSrv.Shutdown(shutdownCtx)

	consumer.Close()
	log.Info("presentation-scoring-service stopped")
}

func fatalOnErr(err error, msg string) {
	if err != nil {
		panic(msg + ": " + err.Error())
	}
}
