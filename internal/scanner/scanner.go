package scanner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/kpauljoseph/pdfexplorer/pkg/logger"
)

type PDFFile struct {
	AbsolutePath string
	RelativePath string
	Size         int64
}

type DirectoryScanner struct {
	logger *logger.Logger
}

func New(logger *logger.Logger) *DirectoryScanner {
	return &DirectoryScanner{logger: logger}
}

// FindPDFs walks dir and returns every .pdf file below it, sorted by
// relative path.
func (s *DirectoryScanner) FindPDFs(ctx context.Context, dir string) ([]PDFFile, error) {
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", dir, err)
	}

	var pdfs []PDFFile
	err = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err != nil {
			return fmt.Errorf("error accessing path %s: %w", path, err)
		}

		if info.IsDir() {
			s.logger.Trace("Scanning directory: %s", path)
			return nil
		}

		if !strings.EqualFold(filepath.Ext(path), ".pdf") {
			return nil
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			relPath = path
		}
		s.logger.Debug("Found PDF: %s", relPath)

		pdfs = append(pdfs, PDFFile{
			AbsolutePath: path,
			RelativePath: relPath,
			Size:         info.Size(),
		})
		return nil
	})

	if err != nil {
		return nil, err
	}

	if len(pdfs) == 0 {
		return nil, fmt.Errorf("no PDF files found in %s or its subdirectories", dir)
	}

	sort.Slice(pdfs, func(i, j int) bool {
		return pdfs[i].RelativePath < pdfs[j].RelativePath
	})
	return pdfs, nil
}
