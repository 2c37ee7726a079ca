package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/psemenov/veracity/internal/model"
)

// DocumentVerifier runs one document through a full verification batch.
type DocumentVerifier interface {
	VerifyDocument(ctx context.Context, text string) (*model.Report, error)
}

// DocumentTask verifies one document file.
type DocumentTask struct {
	Path     string
	Verifier DocumentVerifier
}

// DocumentResult is the outcome of one document verification.
type DocumentResult struct {
	Path   string
	Report *model.Report
	Error  error
}

// Err returns the task error, if any.
func (r *DocumentResult) Err() error {
	return r.Error
}

// Run reads the document and drives it through the verifier.
func (t *DocumentTask) Run(ctx context.Context) TaskResult {
	data, err := os.ReadFile(t.Path)
	if err != nil {
		return &DocumentResult{Path: t.Path, Error: fmt.Errorf("read document: %w", err)}
	}

	report, err := t.Verifier.VerifyDocument(ctx, string(data))
	if err != nil {
		return &DocumentResult{Path: t.Path, Error: err}
	}

	return &DocumentResult{Path: t.Path, Report: report}
}

// ReadDocumentList reads document paths from a manifest file, one per line.
// Empty lines and #-comments are skipped; duplicates are dropped.
func ReadDocumentList(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open manifest: %w", err)
	}
	defer func() { _ = file.Close() }()

	var paths []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !seen[line] {
			seen[line] = true
			paths = append(paths, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan manifest: %w", err)
	}

	return paths, nil
}
