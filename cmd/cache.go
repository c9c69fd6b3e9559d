package cmd

import (
	"fmt"

	"kivo-exporter/core/cache"
	"kivo-exporter/core/config"
	"kivo-exporter/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// cacheCmd is the parent command for cache maintenance.
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and manage the on-disk API cache",
	Long: `The exporter keeps a best-effort disk cache of API responses so repeat
runs avoid hitting the network. These commands report its size and clear it.`,
}

// cacheStatsCmd reports per-namespace entry counts.
var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cached entry counts per namespace",
	RunE:  runCacheStats,
}

// cacheClearCmd removes cached entries.
var cacheClearCmd = &cobra.Command{
	Use:   "clear [students|spines]",
	Short: "Remove cached entries (one namespace, or all when omitted)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCacheClear,
}

func init() {
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	RootCmd.AddCommand(cacheCmd)
}

func newCacheStore() (*cache.Store, *zap.Logger, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return cache.NewStore(cfg.Cache, l), l, nil
}

func runCacheStats(cmd *cobra.Command, args []string) error {
	store, l, err := newCacheStore()
	if err != nil {
		return err
	}
	defer func() { _ = l.Sync() }()

	stats, err := store.CollectStats()
	if err != nil {
		return fmt.Errorf("failed to collect cache stats: %w", err)
	}

	l.Info("cache stats",
		zap.Int("students", stats.Students),
		zap.Int("spines", stats.Spines))
	return nil
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	store, l, err := newCacheStore()
	if err != nil {
		return err
	}
	defer func() { _ = l.Sync() }()

	kinds := []cache.Kind{cache.KindStudent, cache.KindSpine}
	if len(args) == 1 {
		switch args[0] {
		case string(cache.KindStudent):
			kinds = []cache.Kind{cache.KindStudent}
		case string(cache.KindSpine):
			kinds = []cache.Kind{cache.KindSpine}
		default:
			return fmt.Errorf("unknown cache namespace: %s", args[0])
		}
	}

	for _, kind := range kinds {
		removed, err := store.Clear(kind)
		if err != nil {
			return fmt.Errorf("failed to clear %s cache: %w", kind, err)
		}
		l.Info("cache cleared",
			zap.String("kind", string(kind)),
			zap.Int("removed", removed))
	}
	return nil
}
