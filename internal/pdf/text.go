package pdf

import (
	"fmt"

	"github.com/gen2brain/go-fitz"
)

// FitzText extracts page text with MuPDF through go-fitz.
type FitzText struct{}

func (FitzText) PageTextLengths(data []byte) ([]int, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	//Page numbers are zero indexed in the fitz package.
	lengths := make([]int, doc.NumPage())
	for pageNum := range lengths {
		text, err := doc.Text(pageNum)
		if err != nil {
			return nil, fmt.Errorf("failed to extract text from page %d: %w", pageNum, err)
		}
		lengths[pageNum] = len(text)
	}
	return lengths, nil
}
