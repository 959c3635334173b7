package lobby

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/atomic"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// MapCatalogLoader produces the game mode catalog during startup.
type MapCatalogLoader interface {
	LoadModes(ctx context.Context) ([]*GameMode, error)
}

// UpdateChecker queries whether a newer client version is available.
type UpdateChecker interface {
	CheckForUpdates(ctx context.Context) (versionAvailable string, err error)
}

// StartupResult carries everything the loading phase produced.
type StartupResult struct {
	Modes            []*GameMode
	UpdateAvailable  string
	UpdateCheckError error
}

// Startup runs the loading phase: the map catalog and the update check run
// concurrently, and the call returns once both finish. A failed catalog
// load aborts startup; a failed update check is recorded and startup
// proceeds without it.
func Startup(ctx context.Context, logger *zap.Logger, loader MapCatalogLoader, updates UpdateChecker) (*StartupResult, error) {
	result := &StartupResult{}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		start := time.Now()
		modes, err := loader.LoadModes(ctx)
		if err != nil {
			return fmt.Errorf("loading map catalog: %w", err)
		}
		mapCount := 0
		for _, mode := range modes {
			mapCount += len(mode.Maps)
		}
		logger.Info("Loaded map catalog",
			zap.Int("modes", len(modes)),
			zap.Int("maps", mapCount),
			zap.Duration("elapsed", time.Since(start)))
		result.Modes = modes
		return nil
	})

	g.Go(func() error {
		if updates == nil {
			return nil
		}
		version, err := updates.CheckForUpdates(ctx)
		if err != nil {
			// Version checks fail routinely when offline.
			logger.Warn("Update check failed", zap.Error(err))
			result.UpdateCheckError = err
			return nil
		}
		result.UpdateAvailable = version
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}

// OnlineCounter tracks the number of players online, updated from the
// network thread and read from the update cycle.
type OnlineCounter struct {
	count atomic.Int64
}

func (c *OnlineCounter) Set(n int64)  { c.count.Store(n) }
func (c *OnlineCounter) Add(n int64)  { c.count.Add(n) }
func (c *OnlineCounter) Count() int64 { return c.count.Load() }
