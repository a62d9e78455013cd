package main

import (
	"context"
	"os/signal"
	"path/filepath"
	"sort"
	"sync/atomic"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/ehf-cli/internal/pdfsource"
	"github.com/sells-group/ehf-cli/internal/pipeline"
)

var (
	batchOut   string
	batchLimit int
)

var batchCmd = &cobra.Command{
	Use:   "batch <glob>...",
	Short: "Analyze a batch of extract PDFs",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		paths, err := expandGlobs(args)
		if err != nil {
			return err
		}

		src, err := pdfsource.New(cfg.PDF)
		if err != nil {
			return err
		}

		outDir := batchOut
		if outDir == "" {
			outDir = cfg.Output.Dir
		}

		p := pipeline.New(src, outDir)
		return processBatch(ctx, paths, batchLimit, cfg.Batch.MaxConcurrentDocuments, func(ctx context.Context, path string) (*pipeline.Result, error) {
			return p.Run(ctx, path)
		})
	},
}

func init() {
	batchCmd.Flags().StringVar(&batchOut, "out", "", "output directory (default from config)")
	batchCmd.Flags().IntVar(&batchLimit, "limit", 0, "max number of documents to process (0 = all)")
	rootCmd.AddCommand(batchCmd)
}

// expandGlobs resolves each argument as a glob pattern and returns the
// deduplicated, sorted match set. A literal path with no matches is an error.
func expandGlobs(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var paths []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, eris.Wrapf(err, "batch: bad pattern %s", pattern)
		}
		if len(matches) == 0 {
			return nil, eris.Errorf("batch: no files match %s", pattern)
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				paths = append(paths, m)
			}
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// analyzeFunc is the callback signature for running one document analysis.
type analyzeFunc func(ctx context.Context, path string) (*pipeline.Result, error)

// processBatch applies limit, then analyzes documents concurrently.
// Individual document failures are logged and counted, not fatal.
func processBatch(ctx context.Context, paths []string, limit, concurrency int, analyze analyzeFunc) error {
	if len(paths) == 0 {
		zap.L().Info("no documents to process")
		return nil
	}

	if limit > 0 && len(paths) > limit {
		paths = paths[:limit]
	}
	if concurrency < 1 {
		concurrency = 1
	}

	zap.L().Info("processing batch",
		zap.Int("documents", len(paths)),
		zap.Int("concurrency", concurrency),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	var succeeded, failed atomic.Int64

	for _, path := range paths {
		path := path
		g.Go(func() error {
			log := zap.L().With(zap.String("file", path))

			result, err := analyze(gctx, path)
			if err != nil {
				failed.Add(1)
				log.Error("analysis failed", zap.Error(err))
				return nil // don't abort batch on individual failure
			}

			succeeded.Add(1)
			log.Info("analysis complete",
				zap.Int("formalites", result.Document.Statistiques.NombreTotalFormalites),
				zap.Int("mutations", result.Document.Statistiques.NombreMutations),
			)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return eris.Wrap(err, "batch processing")
	}

	zap.L().Info("batch complete",
		zap.Int64("succeeded", succeeded.Load()),
		zap.Int64("failed", failed.Load()),
	)
	return nil
}
