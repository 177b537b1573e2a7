package cli

import (
	"context"
	"errors"

	"github.com/zmcado0/femme-futures-coop/internal/logger"
)

var errWatchUnsupported = errors.New("--watch needs a local source directory")

// watchSource starts watching the source when enabled is true.
// The returned channel is nil when watching is off.
func watchSource(ctx context.Context, enabled bool) (<-chan struct{}, error) {
	if !enabled {
		return nil, nil
	}
	if changeWatcher == nil {
		return nil, errWatchUnsupported
	}
	changes, err := changeWatcher.Watch(ctx)
	if err != nil {
		return nil, err
	}
	logger.Info("Watching source for changes")
	return changes, nil
}

// reloadOnChange re-runs ingestion every time changes fires, until the
// channel closes. Each run replaces the whole collection.
func reloadOnChange(ctx context.Context, changes <-chan struct{}) {
	for range changes {
		result, err := archiveService.Reload(ctx)
		if err != nil {
			logger.Warn("reload failed: %v", err)
			continue
		}
		logger.Info("Reloaded %d newsletters (%d failed)", result.Collection.Len(), result.FailureCount())
	}
}
