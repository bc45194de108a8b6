package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/oratoria/presentation-scoring-service/internal/domain/entity"
	"github.com/oratoria/presentation-scoring-service/internal/domain/port"
	"github.com/oratoria/presentation-scoring-service/internal/infra/metrics"
	"github.com/oratoria/presentation-scoring-service/internal/scoring"
	"github.com/oratoria/presentation-scoring-service/internal/scoring/body"
	"github.com/oratoria/presentation-scoring-service/internal/scoring/content"
	"github.com/oratoria/presentation-scoring-service/internal/scoring/facial"
	"github.com/oratoria/presentation-scoring-service/internal/scoring/voice"
)

type AnalyzePresentationUseCase struct {
	jobs      port.JobRepository
	results   port.ResultRepository
	storage   port.VideoStorage
	media     port.MediaProcessor
	audio     port.AudioDecoder
	pose      port.PoseProvider
	face      port.FaceProvider
	speech    port.TranscriptProvider
	publisher port.StatusPublisher
	dlq       port.DLQPublisher
	notifier  port.FailureNotifier
	logger    *zap.Logger

	tempDir         string
	maxRetry        int
	bodyFPS         float64
	faceFPS         float64
	defaultLanguage string
}

type AnalyzePresentationConfig struct {
	TempDir         string
	MaxRetries      int
	BodySampleFPS   float64
	FaceSampleFPS   float64
	DefaultLanguage string
}

func NewAnalyzePresentationUseCase(
	jobs port.JobRepository,
	results port.ResultRepository,
	storage port.VideoStorage,
	media port.MediaProcessor,
	audio port.AudioDecoder,
	pose port.PoseProvider,
	face port.FaceProvider,
	speech port.TranscriptProvider,
	publisher port.StatusPublisher,
	dlq port.DLQPublisher,
	notifier port.FailureNotifier,
	logger *zap.Logger,
	cfg AnalyzePresentationConfig,
) *AnalyzePresentationUseCase {
	if cfg.BodySampleFPS <= 0 {
		cfg.BodySampleFPS = 5
	}
	if cfg.FaceSampleFPS <= 0 {
		cfg.FaceSampleFPS = 8
	}
	if cfg.DefaultLanguage == "" {
		cfg.DefaultLanguage = "es"
	}
	return &AnalyzePresentationUseCase{
		jobs:            jobs,
		results:         results,
		storage:         storage,
		media:           media,
		audio:           audio,
		pose:            pose,
		face:            face,
		speech:          speech,
		publisher:       publisher,
		dlq:             dlq,
		notifier:        notifier,
		logger:          logger,
		tempDir:         cfg.TempDir,
		maxRetry:        cfg.MaxRetries,
		bodyFPS:         cfg.BodySampleFPS,
		faceFPS:         cfg.FaceSampleFPS,
		defaultLanguage: cfg.DefaultLanguage,
	}
}

func (uc *AnalyzePresentationUseCase) Execute(ctx context.Context, rawMsg []byte) error {
	tracer := otel.Tracer("usecase")
	ctx, span := tracer.Start(ctx, "AnalyzePresentationUseCase.Execute")
	defer span.End()

	totalTimer := time.Now()

	var msg entity.AnalysisRequestMessage
	if err := json.Unmarshal(rawMsg, &msg); err != nil {
		uc.logger.Error("failed to unmarshal message", zap.Error(err), zap.ByteString("body", rawMsg))
		_ = uc.dlq.PublishToDLQ(ctx, rawMsg, "unmarshal_error: "+err.Error())
		return nil
	}

	span.SetAttributes(
		attribute.String("job.id", msg.JobID.String()),
		attribute.String("job.video_key", msg.VideoKey),
	)

	log := uc.logger.With(zap.String("job_id", msg.JobID.String()), zap.String("video_key", msg.VideoKey))

	job, err := uc.jobs.FindByID(ctx, msg.JobID)
	if err != nil {
		job = entity.NewAnalysisJob(msg.UserID, msg.VideoKey, uc.language(msg), uc.maxRetry)
		job.ID = msg.JobID
		if err := uc.jobs.Create(ctx, job); err != nil {
			log.Error("failed to create job record", zap.Error(err))
			return fmt.Errorf("create job: %w", err)
		}
	}

	if !job.CanRetry() {
		log.Warn("job exhausted retries, sending to DLQ")
		_ = uc.handlePermanentFailure(ctx, job, msg, rawMsg, "max retries exceeded")
		return nil
	}

	job.MarkProcessing()
	if err := uc.jobs.Update(ctx, job); err != nil {
		log.Error("failed to update job to PROCESSING", zap.Error(err))
		return fmt.Errorf("update job: %w", err)
	}

	metrics.ActiveWorkers.Inc()
	defer metrics.ActiveWorkers.Dec()

	if err := uc.analyzePipeline(ctx, job, msg, rawMsg, log); err != nil {
		return err
	}

	metrics.JobsProcessedTotal.WithLabelValues("completed").Inc()
	metrics.JobProcessingDuration.WithLabelValues("total").Observe(time.Since(totalTimer).Seconds())

	return nil
}

func (uc *AnalyzePresentationUseCase) analyzePipeline(
	ctx context.Context,
	job *entity.AnalysisJob,
	msg entity.AnalysisRequestMessage,
	rawMsg []byte,
	log *zap.Logger,
) error {
	tracer := otel.Tracer("usecase")

	workDir := filepath.Join(uc.tempDir, job.ID.String())
	if err := os.MkdirAll(workDir, 0755); err != nil {
		return fmt.Errorf("create workdir: %w", err)
	}
	defer os.RemoveAll(workDir)

	// Download video from MinIO
	dlStart := time.Now()
	ctx2, spanDl := tracer.Start(ctx, "download_video")
	videoPath := filepath.Join(workDir, "input.mp4")
	if err := uc.storage.DownloadVideo(ctx2, msg.VideoKey, videoPath); err != nil {
		spanDl.End()
		log.Error("failed to download video", zap.Error(err))
		return uc.handleRetryableFailure(ctx, job, msg, rawMsg, "download_video: "+err.Error(), log)
	}
	spanDl.End()
	metrics.JobProcessingDuration.WithLabelValues("download").Observe(time.Since(dlStart).Seconds())

	// Probe duration; a video ffprobe cannot read is not scorable
	ctx3, spanProbe := tracer.Start(ctx, "probe_media")
	probe, err := uc.media.Probe(ctx3, videoPath)
	spanProbe.End()
	if err != nil {
		log.Error("media probe failed", zap.Error(err))
		return uc.handleRetryableFailure(ctx, job, msg, rawMsg, "probe_media: "+err.Error(), log)
	}

	// Run the three modalities concurrently. A modality that produces no
	// signal degrades to its all-zero sub-score instead of failing the job.
	anStart := time.Now()
	ctx4, spanAn := tracer.Start(ctx, "analyze_modalities")

	var (
		bodyReport   body.Report
		facialReport facial.Report
		voiceReport  voice.Report
	)

	g, gctx := errgroup.WithContext(ctx4)
	g.Go(func() error {
		bodyReport = uc.analyzeBody(gctx, videoPath, workDir, probe.Duration, log)
		return nil
	})
	g.Go(func() error {
		facialReport = uc.analyzeFacial(gctx, videoPath, workDir, probe.Duration, log)
		return nil
	})
	g.Go(func() error {
		voiceReport = uc.analyzeVoice(gctx, videoPath, workDir, uc.language(msg), log)
		return nil
	})
	_ = g.Wait()

	spanAn.End()
	metrics.JobProcessingDuration.WithLabelValues("analyze").Observe(time.Since(anStart).Seconds())

	if bodyReport.Frames == 0 {
		metrics.DegradedSessionsTotal.WithLabelValues("body").Inc()
	}
	if facialReport.Frames == 0 {
		metrics.DegradedSessionsTotal.WithLabelValues("facial").Inc()
	}

	var contentScore *entity.SubScore
	if msg.WithContent {
		sub := content.Score(voiceReport.Transcription, msg.Script, uc.language(msg))
		contentScore = &sub
	}

	overall := scoring.Fuse(voiceReport.Score.Value, bodyReport.Score.Value, facialReport.Score.Value)
	if contentScore != nil {
		overall = scoring.FuseWithContent(voiceReport.Score.Value, bodyReport.Score.Value,
			facialReport.Score.Value, contentScore.Value)
	}

	result := &entity.AnalysisResult{
		ID:                 uuid.New(),
		JobID:              job.ID,
		CreatedAt:          time.Now().UTC(),
		OverallScore:       overall,
		Voice:              voiceReport.Score,
		Body:               bodyReport.Score,
		Facial:             facialReport.Score,
		Content:            contentScore,
		Transcription:      voiceReport.Transcription,
		VideoDuration:      probe.Duration,
		MovementTimeline:   bodyReport.Timeline,
		EmotionTimeline:    facialReport.Timeline,
		ConfidenceTimeline: voiceReport.Timeline,
	}

	ctx5, spanSave := tracer.Start(ctx, "persist_result")
	err = uc.results.Save(ctx5, result)
	spanSave.End()
	if err != nil {
		log.Error("failed to persist result", zap.Error(err))
		return uc.handleRetryableFailure(ctx, job, msg, rawMsg, "persist_result: "+err.Error(), log)
	}

	job.MarkCompleted(result.ID, overall, probe.Duration)
	if err := uc.jobs.Update(ctx, job); err != nil {
		log.Error("failed to update job to COMPLETED", zap.Error(err))
		return fmt.Errorf("update job completed: %w", err)
	}

	metrics.OverallScore.Observe(overall)
	uc.publishStatus(ctx, job, result, log)

	log.Info("job completed successfully",
		zap.Float64("overall_score", overall),
		zap.Float64("voice_score", voiceReport.Score.Value),
		zap.Float64("body_score", bodyReport.Score.Value),
		zap.Float64("facial_score", facialReport.Score.Value),
		zap.Float64("duration_secs", probe.Duration),
	)

	return nil
}

// analyzeBody samples frames at the body cadence and folds them through the
// pose aggregator. Every failure path returns the aggregator's degenerate
// result instead of an error.
func (uc *AnalyzePresentationUseCase) analyzeBody(
	ctx context.Context,
	videoPath, workDir string,
	duration float64,
	log *zap.Logger,
) body.Report {
	agg := body.NewAggregator(uc.bodyFPS)

	if !uc.pose.Available() {
		log.Warn("pose provider unavailable, body analysis degraded")
		return agg.Result(duration)
	}

	framesDir := filepath.Join(workDir, "frames_body")
	if err := os.MkdirAll(framesDir, 0755); err != nil {
		log.Error("failed to create body frames dir", zap.Error(err))
		return agg.Result(duration)
	}

	frames, err := uc.media.SampleFrames(ctx, videoPath, framesDir, uc.bodyFPS)
	if err != nil {
		log.Warn("body frame sampling failed", zap.Error(err))
		return agg.Result(duration)
	}
	metrics.FramesAnalyzedTotal.Add(float64(len(frames.Paths)))

	for _, framePath := range frames.Paths {
		if ctx.Err() != nil {
			break
		}
		lm, err := uc.pose.DetectPose(ctx, framePath)
		if err != nil {
			log.Debug("pose detection error", zap.String("frame", framePath), zap.Error(err))
			lm = nil
		}
		agg.Observe(lm)
	}

	return agg.Result(duration)
}

// analyzeFacial samples frames at the face cadence and folds them through
// the face-mesh aggregator.
func (uc *AnalyzePresentationUseCase) analyzeFacial(
	ctx context.Context,
	videoPath, workDir string,
	duration float64,
	log *zap.Logger,
) facial.Report {
	agg := facial.NewAggregator()

	if !uc.face.Available() {
		log.Warn("face provider unavailable, facial analysis degraded")
		return agg.Result(duration)
	}

	framesDir := filepath.Join(workDir, "frames_face")
	if err := os.MkdirAll(framesDir, 0755); err != nil {
		log.Error("failed to create face frames dir", zap.Error(err))
		return agg.Result(duration)
	}

	frames, err := uc.media.SampleFrames(ctx, videoPath, framesDir, uc.faceFPS)
	if err != nil {
		log.Warn("face frame sampling failed", zap.Error(err))
		return agg.Result(duration)
	}
	metrics.FramesAnalyzedTotal.Add(float64(len(frames.Paths)))

	sampleRate := frames.SampleRate
	if sampleRate <= 0 {
		sampleRate = uc.faceFPS
	}

	for i, framePath := range frames.Paths {
		if ctx.Err() != nil {
			break
		}
		lm, err := uc.face.DetectFace(ctx, framePath)
		if err != nil {
			log.Debug("face detection error", zap.String("frame", framePath), zap.Error(err))
			lm = nil
		}
		agg.Observe(float64(i)/sampleRate, lm)
	}

	return agg.Result(duration)
}

// analyzeVoice extracts and decodes the audio track, transcribes it, and
// scores the voice modality. Missing audio or transcription degrade the
// inputs; only the absence of both zeroes the sub-score.
func (uc *AnalyzePresentationUseCase) analyzeVoice(
	ctx context.Context,
	videoPath, workDir, language string,
	log *zap.Logger,
) voice.Report {
	var (
		samples    []float64
		sampleRate int
		transcript *entity.Transcript
	)

	wavPath := filepath.Join(workDir, "audio.wav")
	if err := uc.media.ExtractAudio(ctx, videoPath, wavPath); err != nil {
		log.Warn("audio extraction failed", zap.Error(err))
		wavPath = ""
	}

	if wavPath != "" {
		var err error
		samples, sampleRate, err = uc.audio.DecodeWAV(wavPath)
		if err != nil {
			log.Warn("audio decode failed", zap.Error(err))
			samples, sampleRate = nil, 0
		}

		if uc.speech.Available() {
			transcript, err = uc.speech.Transcribe(ctx, wavPath, language)
			if err != nil {
				log.Warn("transcription failed", zap.Error(err))
				transcript = nil
			}
		} else {
			log.Warn("transcript provider unavailable, voice text metrics degraded")
		}
	}

	report := voice.Analyze(transcript, samples, sampleRate)
	if !transcript.Usable() && len(samples) == 0 {
		metrics.DegradedSessionsTotal.WithLabelValues("voice").Inc()
	}
	return report
}

func (uc *AnalyzePresentationUseCase) handleRetryableFailure(
	ctx context.Context,
	job *entity.AnalysisJob,
	msg entity.AnalysisRequestMessage,
	rawMsg []byte,
	errMsg string,
	log *zap.Logger,
) error {
	job.MarkFailed(errMsg)
	_ = uc.jobs.Update(ctx, job)

	if !job.CanRetry() {
		return uc.handlePermanentFailure(ctx, job, msg, rawMsg, errMsg)
	}

	metrics.RetryTotal.WithLabelValues(strconv.Itoa(job.Attempt)).Inc()
	uc.publishStatus(ctx, job, nil, log)

	return fmt.Errorf("retryable failure (attempt %d/%d): %s", job.Attempt, job.MaxAttempts, errMsg)
}

func (uc *AnalyzePresentationUseCase) handlePermanentFailure(
	ctx context.Context,
	job *entity.AnalysisJob,
	msg entity.AnalysisRequestMessage,
	rawMsg []byte,
	errMsg string,
) error {
	job.MarkFailed(errMsg)
	_ = uc.jobs.Update(ctx, job)

	_ = uc.dlq.PublishToDLQ(ctx, rawMsg, errMsg)

	uc.publishStatus(ctx, job, nil, uc.logger)

	metrics.JobsProcessedTotal.WithLabelValues("dlq").Inc()

	if msg.UserEmail != "" {
		_ = uc.notifier.NotifyFailure(ctx, msg.UserEmail, job.ID.String(), msg.VideoKey, errMsg)
	}

	return nil
}

func (uc *AnalyzePresentationUseCase) publishStatus(
	ctx context.Context,
	job *entity.AnalysisJob,
	result *entity.AnalysisResult,
	log *zap.Logger,
) {
	statusMsg := entity.AnalysisStatusMessage{
		JobID:        job.ID,
		UserID:       job.UserID,
		Status:       job.Status,
		VideoKey:     job.VideoKey,
		OverallScore: job.OverallScore,
		Duration:     job.VideoDuration,
		ErrorMessage: job.ErrorMessage,
		Attempt:      job.Attempt,
		MaxAttempts:  job.MaxAttempts,
	}
	if result != nil {
		statusMsg.VoiceScore = result.Voice.Value
		statusMsg.BodyScore = result.Body.Value
		statusMsg.FacialScore = result.Facial.Value
		if result.Content != nil {
			statusMsg.ContentScore = &result.Content.Value
		}
	}
	data, _ := json.Marshal(statusMsg)
	if err := uc.publisher.PublishStatus(ctx, data); err != nil {
		log.Error("failed to publish status", zap.Error(err))
	}
}

func (uc *AnalyzePresentationUseCase) language(msg entity.AnalysisRequestMessage) string {
	if msg.Language != "" {
		return msg.Language
	}
	return uc.defaultLanguage
}
