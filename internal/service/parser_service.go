package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"
)

// BlobFetcher is the slice of the storage service the parser needs.
type BlobFetcher interface {
	Fetch(ctx context.Context, filename string) (io.ReadCloser, error)
}

// ParserService extracts plain text from stored course documents for quiz
// generation.
type ParserService struct {
	Storage BlobFetcher
	Logger  *zap.Logger
}

func NewParserService(storage BlobFetcher, logger *zap.Logger) *ParserService {
	return &ParserService{Storage: storage, Logger: logger}
}

// ExtractText returns the textual content of the named file. A missing file
// is an error whatever its extension. Only PDF has a real extractor today;
// other formats produce a placeholder sentence so quiz generation still has
// something to say about the file instead of failing.
func (s *ParserService) ExtractText(ctx context.Context, filename string) (string, error) {
	body, err := s.Storage.Fetch(ctx, filename)
	if err != nil {
		return "", err
	}
	defer body.Close()

	ext := strings.ToLower(filepath.Ext(filename))
	if ext != ".pdf" {
		return fmt.Sprintf("Unsupported file format for text extraction: %s", ext), nil
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}

	return extractPDFText(data)
}

func extractPDFText(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// A single unreadable page should not void the whole document.
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}

	return sb.String(), nil
}
