package rag

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/futig/realty-advisor/internal/entity"
	"github.com/futig/realty-advisor/internal/metrics"
	"github.com/futig/realty-advisor/internal/pkg/logger"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Stage is a step of the per-request answer pipeline.
type Stage string

const (
	StageReceived   Stage = "received"
	StageRetrieving Stage = "retrieving"
	StageComposing  Stage = "composing"
	StageGenerating Stage = "generating"
	StageCompleted  Stage = "completed"
	StageFailed     Stage = "failed"
)

// Orchestrator answers questions from the indexed corpus. It holds no
// per-request state and is safe for concurrent use once ingestion is done.
type Orchestrator struct {
	retriever ChunkRetriever
	composer  Composer
	generator Generator
	metrics   *metrics.Metrics
	readiness Readiness
}

type OrchestratorOpt func(*Orchestrator)

// WithReadiness makes Answer fail with entity.ErrNotInitialized until r
// reports ready.
func WithReadiness(r Readiness) OrchestratorOpt {
	return func(o *Orchestrator) {
		o.readiness = r
	}
}

func NewOrchestrator(retriever ChunkRetriever, composer Composer, generator Generator, m *metrics.Metrics, opts ...OrchestratorOpt) *Orchestrator {
	o := &Orchestrator{
		retriever: retriever,
		composer:  composer,
		generator: generator,
		metrics:   m,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Answer runs retrieve, compose and generate in order. The first failing
// stage ends the request; nothing is retried and no partial answer is
// returned.
func (o *Orchestrator) Answer(ctx context.Context, question string) (string, error) {
	ctx = logger.WithAction(ctx, "rag_answer")
	run := &pipelineRun{o: o, stage: StageReceived}

	if strings.TrimSpace(question) == "" {
		return "", run.fail(ctx, fmt.Errorf("%w: question", entity.ErrMissingField))
	}
	if o.readiness != nil && !o.readiness.Ready() {
		return "", run.fail(ctx, entity.ErrNotInitialized)
	}
	ctxzap.Info(ctx, "question received", zap.Int("question_length", len(question)))

	run.enter(ctx, StageRetrieving)
	chunks, err := o.retriever.Retrieve(ctx, question)
	if err != nil {
		return "", run.fail(ctx, err)
	}
	if o.metrics != nil {
		o.metrics.RetrievedChunks.Observe(float64(len(chunks)))
	}

	run.enter(ctx, StageComposing)
	prompt, err := o.composer.Compose(question, chunks)
	if err != nil {
		return "", run.fail(ctx, err)
	}

	run.enter(ctx, StageGenerating)
	answer, err := o.generator.Generate(ctx, prompt)
	if err != nil {
		return "", run.fail(ctx, err)
	}

	run.enter(ctx, StageCompleted)
	ctxzap.Info(ctx, "question answered",
		zap.Int("chunks", len(chunks)),
		zap.Int("answer_length", len(answer)),
	)

	return answer, nil
}

type pipelineRun struct {
	o       *Orchestrator
	stage   Stage
	started time.Time
}

func (r *pipelineRun) enter(ctx context.Context, next Stage) {
	r.observe()
	ctxzap.Debug(ctx, "pipeline stage", zap.String("from", string(r.stage)), zap.String("to", string(next)))
	r.stage = next
	r.started = time.Now()

	if next == StageCompleted && r.o.metrics != nil {
		r.o.metrics.QueriesTotal.WithLabelValues("success", string(StageCompleted)).Inc()
	}
}

// fail moves the run to StageFailed, recording the stage it failed in.
func (r *pipelineRun) fail(ctx context.Context, err error) error {
	r.observe()
	ctxzap.Error(ctx, "question failed", zap.String("stage", string(r.stage)), zap.Error(err))
	if r.o.metrics != nil {
		r.o.metrics.QueriesTotal.WithLabelValues("error", string(r.stage)).Inc()
	}
	r.stage = StageFailed
	return err
}

func (r *pipelineRun) observe() {
	if r.o.metrics == nil || r.started.IsZero() {
		return
	}
	r.o.metrics.ObserveStage(string(r.stage), r.started)
}
