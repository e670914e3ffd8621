package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"qcm_edu_backend/internal/util"

	"go.uber.org/zap"
)

type fakeFetcher struct {
	files map[string]string
}

func (f *fakeFetcher) Fetch(_ context.Context, filename string) (io.ReadCloser, error) {
	content, ok := f.files[filename]
	if !ok {
		return nil, util.ErrFileNotFound
	}
	return io.NopCloser(strings.NewReader(content)), nil
}

func TestExtractText(t *testing.T) {
	svc := NewParserService(&fakeFetcher{files: map[string]string{
		"cours.docx":  "stored bytes",
		"notes.txt":   "stored bytes",
		"archive.zip": "stored bytes",
		"cours.DOCX":  "stored bytes",
		"broken.pdf":  "definitely not a pdf",
	}}, zap.NewNop())

	t.Run("stored non-pdf gets a placeholder instead of an error", func(t *testing.T) {
		for _, name := range []string{"cours.docx", "notes.txt", "archive.zip"} {
			text, err := svc.ExtractText(context.Background(), name)
			if err != nil {
				t.Fatalf("ExtractText(%s): %v", name, err)
			}
			if !strings.HasPrefix(text, "Unsupported file format for text extraction:") {
				t.Errorf("ExtractText(%s) = %q, want the placeholder", name, text)
			}
		}
	})

	t.Run("placeholder names the extension", func(t *testing.T) {
		text, _ := svc.ExtractText(context.Background(), "cours.DOCX")
		if !strings.HasSuffix(text, ".docx") {
			t.Errorf("placeholder = %q, want it to end with the lowercased extension", text)
		}
	})

	t.Run("missing file surfaces file not found for any extension", func(t *testing.T) {
		for _, name := range []string{"absent.pdf", "absent.docx", "absent.txt"} {
			if _, err := svc.ExtractText(context.Background(), name); !errors.Is(err, util.ErrFileNotFound) {
				t.Errorf("ExtractText(%s) error = %v, want file not found", name, err)
			}
		}
	})

	t.Run("corrupt pdf surfaces an error", func(t *testing.T) {
		if _, err := svc.ExtractText(context.Background(), "broken.pdf"); err == nil {
			t.Error("expected an error for a corrupt pdf")
		}
	})
}
