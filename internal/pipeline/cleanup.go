package pipeline

import (
	"context"
	"time"

	"go.uber.org/zap"
)

const cleanupTimeout = 30 * time.Second

// cleanup compensates a partially persisted record by deleting in
// reverse write order: translation rows first, then the base record
// (side tables cascade with it). Best effort on a fresh context so a
// cancelled pipeline can still clean up after itself.
func (p *Pipeline) cleanup(plantID string) {
	ctx, cancel := context.WithTimeout(context.Background(), cleanupTimeout)
	defer cancel()

	if err := p.store.DeleteTranslations(ctx, plantID); err != nil {
		zap.L().Error("pipeline: cleanup delete translations failed",
			zap.String("plant_id", plantID), zap.Error(err))
	}
	if err := p.store.DeletePlant(ctx, plantID); err != nil {
		zap.L().Error("pipeline: cleanup delete plant failed",
			zap.String("plant_id", plantID), zap.Error(err))
	}
}
