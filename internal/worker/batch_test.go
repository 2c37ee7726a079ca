package worker

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/psemenov/veracity/internal/model"
)

type fakeVerifier struct {
	lastText string
	report   *model.Report
	err      error
}

func (v *fakeVerifier) VerifyDocument(ctx context.Context, text string) (*model.Report, error) {
	v.lastText = text
	return v.report, v.err
}

func TestDocumentTask_Run(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.txt")
	if err := os.WriteFile(path, []byte("The claim text."), 0644); err != nil {
		t.Fatal(err)
	}

	verifier := &fakeVerifier{report: &model.Report{BatchID: "b1"}}
	task := &DocumentTask{Path: path, Verifier: verifier}

	res := task.Run(context.Background()).(*DocumentResult)
	if res.Err() != nil {
		t.Fatalf("unexpected error: %v", res.Err())
	}
	if verifier.lastText != "The claim text." {
		t.Errorf("verifier got %q", verifier.lastText)
	}
	if res.Report == nil || res.Report.BatchID != "b1" {
		t.Errorf("report not propagated: %+v", res.Report)
	}
}

func TestDocumentTask_MissingFile(t *testing.T) {
	task := &DocumentTask{Path: "/does/not/exist.txt", Verifier: &fakeVerifier{}}
	if task.Run(context.Background()).Err() == nil {
		t.Fatal("expected error for missing document")
	}
}

func TestDocumentTask_VerifierError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.txt")
	if err := os.WriteFile(path, []byte("text"), 0644); err != nil {
		t.Fatal(err)
	}

	task := &DocumentTask{
		Path:     path,
		Verifier: &fakeVerifier{err: errors.New("batch failed")},
	}
	res := task.Run(context.Background()).(*DocumentResult)
	if res.Err() == nil {
		t.Fatal("expected verifier error to surface")
	}
	if res.Path != path {
		t.Errorf("path lost on error: %q", res.Path)
	}
}

func TestReadDocumentList(t *testing.T) {
	dir := t.TempDir()
	manifest := filepath.Join(dir, "docs.txt")
	content := `# fact-check queue
doc1.txt

doc2.txt
doc1.txt
  doc3.txt
`
	if err := os.WriteFile(manifest, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	paths, err := ReadDocumentList(manifest)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"doc1.txt", "doc2.txt", "doc3.txt"}
	if len(paths) != len(want) {
		t.Fatalf("expected %d paths, got %d: %v", len(want), len(paths), paths)
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Errorf("path %d = %q, want %q", i, paths[i], want[i])
		}
	}
}

func TestReadDocumentList_Missing(t *testing.T) {
	if _, err := ReadDocumentList("/does/not/exist"); err == nil {
		t.Fatal("expected error for missing manifest")
	}
}
