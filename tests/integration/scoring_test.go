package integration

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	miniogo "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcminio "github.com/testcontainers/testcontainers-go/modules/minio"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcrabbitmq "github.com/testcontainers/testcontainers-go/modules/rabbitmq"

	"github.com/oratoria/presentation-scoring-service/internal/domain/entity"
	"github.com/oratoria/presentation-scoring-service/internal/infra/email"
	"github.com/oratoria/presentation-scoring-service/internal/infra/ffmpeg"
	miniostorage "github.com/oratoria/presentation-scoring-service/internal/infra/minio"
	"github.com/oratoria/presentation-scoring-service/internal/infra/postgres"
	"github.com/oratoria/presentation-scoring-service/internal/infra/providers"
	"github.com/oratoria/presentation-scoring-service/internal/infra/rabbitmq"
	"github.com/oratoria/presentation-scoring-service/internal/usecase"
	"github.com/oratoria/presentation-scoring-service/pkg/logger"
)

// sidecarStub fakes the landmark and transcription sidecars. Pose frames
// always detect a centered subject; the face mesh endpoint reports no face.
func sidecarStub(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/pose", func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]any{
			"detected": true,
			"landmarks": map[string]any{
				"nose":           map[string]float64{"x": 0.5, "y": 0.3},
				"left_shoulder":  map[string]float64{"x": 0.4, "y": 0.5},
				"right_shoulder": map[string]float64{"x": 0.6, "y": 0.5},
				"left_wrist":     map[string]float64{"x": 0.45, "y": 0.7},
				"right_wrist":    map[string]float64{"x": 0.55, "y": 0.7},
			},
		}
		json.NewEncoder(w).Encode(resp)
	})
	mux.HandleFunc("/face_mesh", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"detected": false})
	})
	mux.HandleFunc("/transcribe", func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]any{
			"text":     "Hola, hoy quiero hablar sobre el objetivo del proyecto. En resumen, los resultados fueron buenos.",
			"language": "es",
			"segments": []map[string]any{
				{"start": 0.0, "end": 3.5, "text": "Hola, hoy quiero hablar sobre el objetivo del proyecto.", "avg_logprob": -0.25},
				{"start": 3.5, "end": 6.0, "text": "En resumen, los resultados fueron buenos.", "avg_logprob": -0.4},
			},
		}
		json.NewEncoder(w).Encode(resp)
	})
	return httptest.NewServer(mux)
}

func TestAnalyzePresentationEndToEnd(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	// Start PostgreSQL container
	pgContainer, err := tcpostgres.Run(ctx,
		"postgres:15-alpine",
		tcpostgres.WithDatabase("scoring"),
		tcpostgres.WithUsername("scoring_user"),
		tcpostgres.WithPassword("scoring_pass"),
		tcpostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	defer pgContainer.Terminate(ctx)

	pgConnStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	// Start RabbitMQ container
	rmqContainer, err := tcrabbitmq.Run(ctx,
		"rabbitmq:3.12-management-alpine",
	)
	require.NoError(t, err)
	defer rmqContainer.Terminate(ctx)

	rmqURL, err := rmqContainer.AmqpURL(ctx)
	require.NoError(t, err)

	// Start MinIO container
	minioContainer, err := tcminio.Run(ctx,
		"minio/minio:latest",
		tcminio.WithUsername("minioadmin"),
		tcminio.WithPassword("minioadmin"),
	)
	require.NoError(t, err)
	defer minioContainer.Terminate(ctx)

	minioEndpoint, err := minioContainer.ConnectionString(ctx)
	require.NoError(t, err)

	// Run migrations
	require.NoError(t, postgres.RunMigrations(pgConnStr))

	// Setup MinIO storage
	storage, err := miniostorage.NewStorage(miniostorage.StorageConfig{
		Endpoint:    minioEndpoint,
		AccessKey:   "minioadmin",
		SecretKey:   "minioadmin",
		UseSSL:      false,
		VideoBucket: "recordings",
	})
	require.NoError(t, err)
	require.NoError(t, storage.EnsureBuckets(ctx))

	// Upload test video to MinIO
	testVideoPath := filepath.Join("..", "testdata", "test.mp4")
	if _, err := os.Stat(testVideoPath); os.IsNotExist(err) {
		t.Skip("test video not found at tests/testdata/test.mp4 - generate it with: ffmpeg -f lavfi -i testsrc=duration=2:size=320x240:rate=25 -f lavfi -i sine=frequency=440:duration=2 -c:v libx264 -pix_fmt yuv420p -c:a aac tests/testdata/test.mp4")
	}

	minioClient, err := miniogo.New(minioEndpoint, &miniogo.Options{
		Creds:  credentials.NewStaticV4("minioadmin", "minioadmin", ""),
		Secure: false,
	})
	require.NoError(t, err)

	videoKey := "testuser/test.mp4"
	_, err = minioClient.FPutObject(ctx, "recordings", videoKey, testVideoPath, miniogo.PutObjectOptions{
		ContentType: "video/mp4",
	})
	require.NoError(t, err)

	// Detection sidecar stub
	sidecar := sidecarStub(t)
	defer sidecar.Close()

	// Setup RabbitMQ publisher connection
	rmqConn, err := amqp.Dial(rmqURL)
	require.NoError(t, err)
	defer rmqConn.Close()

	pub, err := rabbitmq.NewPublisher(rmqConn, "oratoria.analysis")
	require.NoError(t, err)

	statusPub := rabbitmq.NewStatusPublisher(pub)
	dlqPub := rabbitmq.NewDLQPublisher(pub, "analysis.requests.dlq")

	// Setup DB pool
	pool, err := pgxpool.New(ctx, pgConnStr)
	require.NoError(t, err)
	defer pool.Close()

	// Setup use case
	log, _ := logger.New("debug")
	jobs := postgres.NewJobRepository(pool)
	results := postgres.NewResultRepository(pool)
	media := ffmpeg.NewMediaProcessor(16000, log)
	audio := ffmpeg.NewWAVDecoder()
	notifier := email.NewSMTPNotifier("localhost", 1025, "test@test.local", log)

	pose := providers.NewPoseClient(sidecar.URL)
	face := providers.NewFaceClient(sidecar.URL)
	speech := providers.NewTranscriptClient(sidecar.URL)
	require.True(t, pose.Available())
	require.True(t, speech.Available())

	uc := usecase.NewAnalyzePresentationUseCase(
		jobs, results, storage, media, audio,
		pose, face, speech,
		statusPub, dlqPub, notifier,
		log,
		usecase.AnalyzePresentationConfig{
			TempDir:    t.TempDir(),
			MaxRetries: 3,
		},
	)

	// Setup consumer
	consumer, err := rabbitmq.NewConsumer(rabbitmq.ConsumerConfig{
		URL:         rmqURL,
		Queue:       "analysis.requests",
		Exchange:    "oratoria.analysis",
		DLQ:         "analysis.requests.dlq",
		StatusQueue: "analysis.status",
		Prefetch:    1,
		WorkerCount: 1,
		BaseDelayMs: 100,
	}, uc.Execute, log)
	require.NoError(t, err)
	defer consumer.Close()

	consumerCtx, consumerCancel := context.WithCancel(ctx)
	defer consumerCancel()

	go func() {
		consumer.Start(consumerCtx)
	}()
	time.Sleep(500 * time.Millisecond)

	// Publish analysis request
	jobID := uuid.New()
	requestMsg := entity.AnalysisRequestMessage{
		JobID:       jobID,
		UserID:      "testuser",
		VideoKey:    videoKey,
		WithContent: true,
		UserEmail:   "test@test.local",
	}
	msgBody, err := json.Marshal(requestMsg)
	require.NoError(t, err)

	pubCh, err := rmqConn.Channel()
	require.NoError(t, err)
	err = pubCh.PublishWithContext(ctx,
		"oratoria.analysis",
		"analysis.requests",
		false, false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        msgBody,
		},
	)
	require.NoError(t, err)
	pubCh.Close()

	// Wait for status message on analysis.status queue
	statusCh, err := rmqConn.Channel()
	require.NoError(t, err)
	defer statusCh.Close()

	statusMsgs, err := statusCh.Consume("analysis.status", "", true, false, false, false, nil)
	require.NoError(t, err)

	var statusMsg entity.AnalysisStatusMessage
	select {
	case delivery := <-statusMsgs:
		require.NoError(t, json.Unmarshal(delivery.Body, &statusMsg))
	case <-time.After(2 * time.Minute):
		t.Fatal("timeout waiting for status message")
	}

	// Assert status
	assert.Equal(t, jobID, statusMsg.JobID)
	assert.Equal(t, entity.JobStatusCompleted, statusMsg.Status)
	assert.GreaterOrEqual(t, statusMsg.OverallScore, 0.0)
	assert.LessOrEqual(t, statusMsg.OverallScore, 10.0)
	assert.Greater(t, statusMsg.BodyScore, 0.0)
	assert.Equal(t, 0.0, statusMsg.FacialScore) // face stub never detects
	require.NotNil(t, statusMsg.ContentScore)

	// Verify job record in database
	var dbStatus string
	var dbScore float64
	err = pool.QueryRow(ctx,
		"SELECT status, overall_score FROM analysis_jobs WHERE id=$1", jobID,
	).Scan(&dbStatus, &dbScore)
	require.NoError(t, err)
	assert.Equal(t, "COMPLETED", dbStatus)
	assert.Equal(t, statusMsg.OverallScore, dbScore)

	// Verify the full result row
	saved, err := results.FindByJobID(ctx, jobID)
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.NotEmpty(t, saved[0].Transcription)
	assert.NotEmpty(t, saved[0].MovementTimeline)
	assert.NotNil(t, saved[0].Content)

	consumerCancel()

	t.Logf("Test passed: overall score %.1f", statusMsg.OverallScore)
}

func TestAnalyzeMalformedMessage(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	// Start RabbitMQ
	rmqContainer, err := tcrabbitmq.Run(ctx,
		"rabbitmq:3.12-management-alpine",
	)
	require.NoError(t, err)
	defer rmqContainer.Terminate(ctx)

	rmqURL, err := rmqContainer.AmqpURL(ctx)
	require.NoError(t, err)

	// Start PostgreSQL
	pgContainer, err := tcpostgres.Run(ctx,
		"postgres:15-alpine",
		tcpostgres.WithDatabase("scoring"),
		tcpostgres.WithUsername("scoring_user"),
		tcpostgres.WithPassword("scoring_pass"),
		tcpostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	defer pgContainer.Terminate(ctx)

	pgConnStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	require.NoError(t, postgres.RunMigrations(pgConnStr))

	// Start MinIO (no upload needed for this test)
	minioContainer, err := tcminio.Run(ctx,
		"minio/minio:latest",
		tcminio.WithUsername("minioadmin"),
		tcminio.WithPassword("minioadmin"),
	)
	require.NoError(t, err)
	defer minioContainer.Terminate(ctx)

	minioEndpoint, err := minioContainer.ConnectionString(ctx)
	require.NoError(t, err)

	storage, err := miniostorage.NewStorage(miniostorage.StorageConfig{
		Endpoint:    minioEndpoint,
		AccessKey:   "minioadmin",
		SecretKey:   "minioadmin",
		UseSSL:      false,
		VideoBucket: "recordings",
	})
	require.NoError(t, err)
	require.NoError(t, storage.EnsureBuckets(ctx))

	pool, err := pgxpool.New(ctx, pgConnStr)
	require.NoError(t, err)
	defer pool.Close()

	sidecar := sidecarStub(t)
	defer sidecar.Close()

	log, _ := logger.New("debug")
	rmqConn, err := amqp.Dial(rmqURL)
	require.NoError(t, err)
	defer rmqConn.Close()

	pub, err := rabbitmq.NewPublisher(rmqConn, "oratoria.analysis")
	require.NoError(t, err)

	statusPub := rabbitmq.NewStatusPublisher(pub)
	dlqPub := rabbitmq.NewDLQPublisher(pub, "analysis.requests.dlq")

	jobs := postgres.NewJobRepository(pool)
	results := postgres.NewResultRepository(pool)
	media := ffmpeg.NewMediaProcessor(16000, log)
	audio := ffmpeg.NewWAVDecoder()
	notifier := email.NewSMTPNotifier("localhost", 1025, "test@test.local", log)

	uc := usecase.NewAnalyzePresentationUseCase(
		jobs, results, storage, media, audio,
		providers.NewPoseClient(sidecar.URL),
		providers.NewFaceClient(sidecar.URL),
		providers.NewTranscriptClient(sidecar.URL),
		statusPub, dlqPub, notifier,
		log,
		usecase.AnalyzePresentationConfig{
			TempDir:    t.TempDir(),
			MaxRetries: 3,
		},
	)

	consumer, err := rabbitmq.NewConsumer(rabbitmq.ConsumerConfig{
		URL:         rmqURL,
		Queue:       "analysis.requests",
		Exchange:    "oratoria.analysis",
		DLQ:         "analysis.requests.dlq",
		StatusQueue: "analysis.status",
		Prefetch:    1,
		WorkerCount: 1,
		BaseDelayMs: 100,
	}, uc.Execute, log)
	require.NoError(t, err)
	defer consumer.Close()

	consumerCtx, consumerCancel := context.WithCancel(ctx)
	defer consumerCancel()

	go func() {
		consumer.Start(consumerCtx)
	}()
	time.Sleep(500 * time.Millisecond)

	// Publish malformed message
	pubCh, err := rmqConn.Channel()
	require.NoError(t, err)
	err = pubCh.PublishWithContext(ctx,
		"oratoria.analysis",
		"analysis.requests",
		false, false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        []byte(`{invalid json`),
		},
	)
	require.NoError(t, err)
	pubCh.Close()

	// Wait and verify message landed in DLQ
	time.Sleep(2 * time.Second)

	dlqCh, err := rmqConn.Channel()
	require.NoError(t, err)
	defer dlqCh.Close()

	dlqMsg, ok, err := dlqCh.Get("analysis.requests.dlq", true)
	require.NoError(t, err)
	assert.True(t, ok, "malformed message should be in DLQ")
	assert.Equal(t, `{invalid json`, string(dlqMsg.Body))

	consumerCancel()
	t.Log("Test passed: malformed message sent to DLQ")
}
