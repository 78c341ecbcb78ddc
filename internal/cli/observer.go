package cli

import (
	"github.com/studiowebux/harsample/internal/sampling"
	"go.uber.org/zap"
)

// zapObserver logs selection diagnostics as they happen
type zapObserver struct {
	logger *zap.Logger
}

func newZapObserver(logger *zap.Logger) sampling.Observer {
	return zapObserver{logger: logger.Named("select")}
}

func (o zapObserver) Bucket(c sampling.Category, size, quota int) {
	if size == 0 {
		o.logger.Debug("No entries for category, skipping", zap.Stringer("category", c), zap.Int("quota", quota))
		return
	}
	o.logger.Debug("Category bucket",
		zap.Stringer("category", c),
		zap.Int("entries", size),
		zap.Int("quota", quota))
}

func (o zapObserver) Shortfall(c sampling.Category, available, quota int) {
	if available == 0 {
		return
	}
	o.logger.Debug("Category below quota",
		zap.Stringer("category", c),
		zap.Int("available", available),
		zap.Int("quota", quota))
}

func (o zapObserver) Deficit(deficit, remaining int) {
	o.logger.Info("Filling deficit from remaining entries",
		zap.Int("deficit", deficit),
		zap.Int("remaining", remaining))
}

func (o zapObserver) Filled(c sampling.Category, n int) {
	o.logger.Debug("Deficit fill", zap.Stringer("category", c), zap.Int("entries", n))
}
