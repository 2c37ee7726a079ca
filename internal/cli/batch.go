package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/psemenov/veracity/internal/pipeline"
	"github.com/psemenov/veracity/internal/worker"
)

var (
	batchConcurrency int
	outputDir        string
	batchTimeout     time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <manifest>",
	Short: "Verify multiple documents from a manifest file",
	Long: `Batch verifies several documents in parallel:
- Read document paths from a manifest file (one per line, # for comments)
- Each document runs as an independent batch with its own fresh scrape cache
- Individual JSON reports land in the output directory

Example:
  veracity batch documents.txt
  veracity batch documents.txt --concurrency 4 --output-dir ./reports`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 2, "documents verified in parallel")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./veracity-reports", "output directory for reports")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 60*time.Minute, "total timeout for the whole batch")
}

func runBatch(cmd *cobra.Command, args []string) error {
	paths, err := worker.ReadDocumentList(args[0])
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("manifest %s lists no documents", args[0])
	}

	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	logger, err := newLogger()
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	orch, err := pipeline.New(cfg, pipeline.NopSink{}, logger)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, batchTimeout)
	defer cancel()

	fmt.Fprintf(os.Stderr, "Verifying %d documents with %d workers\n", len(paths), batchConcurrency)

	tasks := make([]worker.Task, len(paths))
	for i, path := range paths {
		tasks[i] = &worker.DocumentTask{Path: path, Verifier: orch}
	}

	pool := worker.NewPool(batchConcurrency)
	results := pool.Run(ctx, tasks)

	renderer := pipeline.NewRenderer(cfg.Output.IncludeFooter)
	failed := 0
	for _, res := range results {
		if res == nil {
			failed++
			continue
		}
		doc := res.(*worker.DocumentResult)
		if doc.Error != nil {
			failed++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", doc.Path, doc.Error)
			continue
		}

		outPath := filepath.Join(outputDir, reportFileName(doc.Path))
		if err := renderer.RenderJSON(doc.Report, outPath); err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", doc.Path, err)
			continue
		}
		fmt.Fprintf(os.Stderr, "✓ %s → %s (%d claims, avg %.2f)\n",
			doc.Path, outPath, doc.Report.Summary.TotalClaims, doc.Report.Summary.AverageScore)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d documents failed", failed, len(paths))
	}
	return nil
}

// reportFileName derives a report name from a document path.
func reportFileName(docPath string) string {
	base := filepath.Base(docPath)
	if ext := filepath.Ext(base); ext != "" {
		base = strings.TrimSuffix(base, ext)
	}
	return base + ".report.json"
}
