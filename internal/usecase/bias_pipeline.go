package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"AlphaPulse/internal/domain/models"
	drepo "AlphaPulse/internal/domain/repository"
	domsvc "AlphaPulse/internal/domain/service"
	"AlphaPulse/pkg/logger"
)

// BiasPipeline runs every registered detector over a fresh valuation
// snapshot and persists whatever was found.
type BiasPipeline struct {
	valuation *ValuationAggregator
	detectors []domsvc.BiasDetector
	store     drepo.BiasStore
	events    drepo.EventPublisher
	cache     domsvc.ScoreCache
	metrics   drepo.Metrics
	log       *logger.Logger
	now       func() time.Time
}

// NewBiasPipeline creates a new BiasPipeline instance.
func NewBiasPipeline(
	valuation *ValuationAggregator,
	detectors []domsvc.BiasDetector,
	store drepo.BiasStore,
	events drepo.EventPublisher,
	cache domsvc.ScoreCache,
	metrics drepo.Metrics,
	log *logger.Logger,
) *BiasPipeline {
	return &BiasPipeline{
		valuation: valuation,
		detectors: detectors,
		store:     store,
		events:    events,
		cache:     cache,
		metrics:   metrics,
		log:       log,
		now:       time.Now,
	}
}

// Detect runs all detectors against the user's current portfolio. Every
// detector runs regardless of prior results; a failing detector is logged
// and skipped while the rest still contribute.
func (p *BiasPipeline) Detect(ctx context.Context, userID string) ([]models.BiasAnalysis, error) {
	snap, err := p.valuation.Snapshot(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("bias detect: %w", err)
	}

	now := p.now()
	findings := make([]models.BiasAnalysis, 0, len(p.detectors))
	for _, d := range p.detectors {
		finding, detected := p.runDetector(d, snap)
		if !detected {
			continue
		}
		finding.ID = "bias_" + uuid.NewString()
		finding.UserID = userID
		finding.DetectedAt = now
		findings = append(findings, finding)
	}

	if len(findings) == 0 {
		return findings, nil
	}

	if err := p.store.InsertBiases(ctx, findings); err != nil {
		p.metrics.RecordError("bias_persist")
		return nil, fmt.Errorf("persist biases: %w", err)
	}
	if err := p.events.PublishBiases(ctx, userID, findings); err != nil {
		// Downstream fan-out is best effort.
		p.log.Warn("bias event publish failed", logger.String("user", userID), logger.Error(err))
		p.metrics.RecordError("bias_publish")
	} else {
		p.metrics.RecordEventPublished("biases")
	}
	if err := p.cache.Invalidate(ctx, userID); err != nil {
		p.log.Warn("score cache invalidate failed", logger.String("user", userID), logger.Error(err))
	}
	return findings, nil
}

func (p *BiasPipeline) runDetector(d domsvc.BiasDetector, snap models.PortfolioSnapshot) (finding models.BiasAnalysis, detected bool) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Error("detector panicked", logger.String("detector", d.Name()),
				logger.String("panic", fmt.Sprint(r)))
			p.metrics.RecordError("detector_" + d.Name())
			detected = false
		}
	}()
	return d.Detect(snap)
}
