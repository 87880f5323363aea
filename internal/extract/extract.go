// Package extract reads résumé files into plain text documents.
package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/NoBugNinja/Skill-Sync/internal/screening"
)

var (
	// ErrUnreadable is reported for files whose text could not be extracted.
	ErrUnreadable = errors.New("could not read this PDF")
	// ErrUnsupported is reported for file types that are not handled.
	ErrUnsupported = errors.New("unsupported file type")
)

// Extensions lists the handled file extensions.
var Extensions = []string{".pdf", ".txt", ".md"}

// Extractor turns files into screening documents.
type Extractor struct {
	logger *zap.Logger
}

// New returns an extractor.
func New(logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{logger: logger}
}

// Supported reports whether the file name has a handled extension.
func Supported(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Extract reads one file. Failures are reported in the document, never returned.
func (e *Extractor) Extract(ctx context.Context, path string) screening.Document {
	name := filepath.Base(path)

	if err := ctx.Err(); err != nil {
		return screening.Document{FileName: name, Err: err}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		e.logger.Warn("reading file", zap.String("path", path), zap.Error(err))
		return screening.Document{FileName: name, Err: fmt.Errorf("%w: %v", ErrUnreadable, err)}
	}

	return e.FromBytes(name, data)
}

// FromBytes extracts the text of an in-memory file.
func (e *Extractor) FromBytes(name string, data []byte) screening.Document {
	doc := screening.Document{FileName: name}

	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		text, err := pdfText(data)
		if err != nil {
			e.logger.Warn("extracting pdf text", zap.String("file_name", name), zap.Error(err))
			doc.Err = fmt.Errorf("%w: %v", ErrUnreadable, err)
			return doc
		}
		doc.RawText = text
	case ".txt", ".md":
		doc.RawText = strings.ToValidUTF8(string(data), "")
	default:
		doc.Err = fmt.Errorf("%w: %s", ErrUnsupported, name)
		return doc
	}

	e.logger.Debug("extracted text",
		zap.String("file_name", name),
		zap.Int("characters", len(doc.RawText)),
	)

	return doc
}

// ExtractAll reads every path with at most concurrency files at once. The
// documents keep the order of paths. An error is returned only when ctx is done.
func (e *Extractor) ExtractAll(ctx context.Context, paths []string, concurrency int) ([]screening.Document, error) {
	if concurrency <= 0 {
		concurrency = 1
	}

	docs := make([]screening.Document, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			docs[i] = e.Extract(gctx, path)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return docs, nil
}

// pdfText joins the plain text of all pages with newlines. The pdf reader
// panics on some malformed files, so panics are turned into errors.
func pdfText(data []byte) (text string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("malformed pdf: %v", rec)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	pages := make([]string, 0, reader.NumPage())
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		content, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("page %d: %w", i, err)
		}
		pages = append(pages, content)
	}

	return strings.Join(pages, "\n"), nil
}
