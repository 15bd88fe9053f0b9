package pdf

import (
	"github.com/kpauljoseph/pdfexplorer/internal/relay"
)

// TextExtractor reports the extracted text length of every page, in order.
type TextExtractor interface {
	PageTextLengths(data []byte) ([]int, error)
}

var (
	_ relay.Module = (*Explorer)(nil)
	_ relay.Handle = (*Session)(nil)
)
