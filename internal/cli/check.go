package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/psemenov/veracity/internal/model"
	"github.com/psemenov/veracity/internal/pipeline"
)

var (
	outJSON      string
	outMD        string
	checkTimeout time.Duration
	searchURL    string
	llmProvider  string
	llmModel     string
	noFooter     bool
	noAudit      bool
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check <file>",
	Short: "Verify the factual claims in a document",
	Long: `Check runs one document through the full verification pipeline:
- Extract atomic factual claims
- Generate search queries per claim
- Search the web and filter sources by credibility
- Scrape admitted sources (each URL fetched once per run)
- Excerpt the claim-relevant passages
- Score how well the evidence supports each claim

Pass "-" to read the document from stdin.

Example:
  veracity check article.txt
  veracity check article.txt --json report.json --md report.md
  veracity check - --llm-provider ollama --llm-model llama3.1 < draft.md`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringVar(&outJSON, "json", "report.json", "output JSON path")
	checkCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")
	checkCmd.Flags().DurationVar(&checkTimeout, "timeout", 10*time.Minute, "overall batch timeout")
	checkCmd.Flags().StringVar(&searchURL, "search-url", "", "search API base URL (overrides config)")
	checkCmd.Flags().StringVar(&llmProvider, "llm-provider", "", "LLM provider (openai, ollama)")
	checkCmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name")
	checkCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")
	checkCmd.Flags().BoolVar(&noAudit, "no-audit", false, "exclude the search audit from the JSON report")
}

func runCheck(cmd *cobra.Command, args []string) error {
	text, err := readDocument(args[0])
	if err != nil {
		return err
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

	var progress pipeline.ProgressSink = pipeline.NopSink{}
	if verbose {
		progress = pipeline.LogSink{Logger: logger}
	}

	orch, err := pipeline.New(cfg, progress, logger)
	if err != nil {
		return err
	}

	// Ctrl-C cancels cooperatively: in-flight stages finish, nothing new starts
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	report, err := orch.Run(ctx, text)
	if err != nil {
		return fmt.Errorf("verification failed: %w", err)
	}

	renderer := pipeline.NewRenderer(cfg.Output.IncludeFooter)
	if outJSON != "" {
		if err := renderer.RenderJSON(report, outJSON); err != nil {
			return err
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote JSON: %s\n", outJSON)
		}
	}
	if outMD != "" {
		if err := renderer.RenderMarkdown(report, outMD); err != nil {
			return err
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote Markdown: %s\n", outMD)
		}
	}
	renderer.RenderSummary(report)

	return nil
}

// readDocument reads the input document, from stdin when path is "-".
func readDocument(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read document: %w", err)
	}
	return string(data), nil
}

// buildConfig merges defaults, config file, environment, and flags.
func buildConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if searchURL != "" {
		cfg.Search.BaseURL = searchURL
	}
	if llmProvider != "" {
		cfg.LLM.Provider = llmProvider
	}
	if llmModel != "" {
		cfg.LLM.Model = llmModel
	}
	if noFooter {
		cfg.Output.IncludeFooter = false
	}
	if noAudit {
		cfg.Output.IncludeAudit = false
	}
	cfg.Output.Verbose = verbose

	// Key fallbacks from conventional environment variables
	if cfg.LLM.APIKey == "" && cfg.LLM.Provider == "openai" {
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if cfg.Search.APIKey == "" {
		cfg.Search.APIKey = os.Getenv("SEARCH_API_KEY")
	}

	return cfg, nil
}
