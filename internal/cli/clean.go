package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/venviro/chartkit/pkg/cache"
	"github.com/venviro/chartkit/pkg/config"
)

// defaultRetention is how long exported files and cached artifacts are
// kept by clean.
const defaultRetention = 7 * 24 * time.Hour

// newCleanCmd creates the clean command. It removes aged files from the
// export directory and, when the file backend is configured, aged entries
// from the artifact cache. Redis and Mongo expire entries themselves.
func newCleanCmd() *cobra.Command {
	var (
		olderThan time.Duration
		all       bool
		dir       string
	)

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove old exported files and cached artifacts",
		RunE: func(cmd *cobra.Command, args []string) error {
			retention := olderThan
			if all {
				retention = 0
			}
			return runClean(cmd.Context(), dir, retention)
		},
	}

	cmd.Flags().DurationVar(&olderThan, "older-than", defaultRetention, "remove files older than this")
	cmd.Flags().BoolVar(&all, "all", false, "remove all files regardless of age")
	cmd.Flags().StringVarP(&dir, "output", "o", "", "export directory to clean (default: config export dir)")

	return cmd
}

func runClean(ctx context.Context, dir string, retention time.Duration) error {
	cfg := configFromContext(ctx)

	exportDir := outputDir(dir, cfg)
	removed, err := purgeExportDir(exportDir, retention)
	if err != nil {
		return fmt.Errorf("clean export dir: %w", err)
	}
	printSuccess("Removed %d exported files", removed)
	printDetail("Directory: %s", exportDir)

	if cfg.Cache.Backend != config.BackendFile {
		if cfg.Cache.Backend != config.BackendNone {
			printInfo("Cache backend %q expires entries itself, nothing to clean", cfg.Cache.Backend)
		}
		return nil
	}

	fc, err := cache.NewFileCache(cfg.Cache.CacheDir())
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}
	defer fc.Close()

	purged, err := fc.Purge(ctx, retention)
	if err != nil {
		return fmt.Errorf("purge cache: %w", err)
	}
	printSuccess("Removed %d cached artifacts", purged)
	printDetail("Directory: %s", cfg.Cache.CacheDir())
	return nil
}

// purgeExportDir deletes regular files in dir whose modification time is
// older than retention. A retention of 0 deletes every file. The directory
// is not walked recursively and a missing directory counts as clean.
func purgeExportDir(dir string, retention time.Duration) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}

	cutoff := time.Now().Add(-retention)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if retention > 0 && info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(dir, entry.Name())); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}
