package cli

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/venviro/chartkit/pkg/config"
	"github.com/venviro/chartkit/pkg/pipeline"
)

// buildRunner creates a pipeline runner with the configured cache backend.
// When the backend is unreachable (e.g. Redis down), the runner falls back
// to no caching instead of failing the command.
func buildRunner(ctx context.Context, cfg config.Config, noCache bool, logger *log.Logger) *pipeline.Runner {
	if noCache {
		return pipeline.NewRunner(nil, nil, logger)
	}

	c, err := config.OpenCache(ctx, cfg.Cache)
	if err != nil {
		logger.Warn("cache unavailable, continuing without", "backend", cfg.Cache.Backend, "err", err)
		c = nil
	}

	runner := pipeline.NewRunner(c, nil, logger)
	if cfg.Cache.TTL.Duration > 0 {
		runner.TTL = cfg.Cache.TTL.Duration
	}
	return runner
}
