package pdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"hash/crc32"
	"os"
	"sort"

	"github.com/dustin/go-humanize"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/kpauljoseph/pdfexplorer/internal/relay"
	"github.com/kpauljoseph/pdfexplorer/pkg/logger"
	"github.com/kpauljoseph/pdfexplorer/pkg/models"
)

const DefaultMaxObjects = 10000

var (
	ErrEmpty = errors.New("empty file reference")
	ErrParse = errors.New("failed to parse input as PDF")
)

type Options struct {
	// Validate runs pdfcpu validation. Failures are reported in
	// ExploreResult.ValidationError; the round trip is attempted regardless.
	Validate bool
	// ExtractText fills PageInfo.TextLength using go-fitz.
	ExtractText bool
	// MaxObjects caps ExploreResult.Objects; ObjectCount is never capped.
	MaxObjects int
}

func DefaultOptions() Options {
	return Options{
		Validate:   true,
		MaxObjects: DefaultMaxObjects,
	}
}

// Explorer is the PDF processing module handed to the relay.
type Explorer struct {
	opts   Options
	logger *logger.Logger
	text   TextExtractor
}

func NewExplorer(opts Options, log *logger.Logger) *Explorer {
	if log == nil {
		log = logger.Discard()
	}
	if opts.MaxObjects <= 0 {
		opts.MaxObjects = DefaultMaxObjects
	}

	e := &Explorer{opts: opts, logger: log}
	if opts.ExtractText {
		e.text = FitzText{}
	}
	return e
}

// WithTextExtractor replaces the go-fitz backed extractor.
func (e *Explorer) WithTextExtractor(t TextExtractor) *Explorer {
	e.text = t
	return e
}

// Init prepares the pdfcpu configuration shared by every call. It never
// touches the user's pdfcpu config directory.
func (e *Explorer) Init(ctx context.Context) (relay.Handle, error) {
	session, err := e.NewSession(ctx)
	if err != nil {
		return nil, err
	}
	return session, nil
}

func (e *Explorer) NewSession(ctx context.Context) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	api.DisableConfigDir()
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	conf.WriteObjectStream = false
	conf.WriteXRefStream = false

	e.logger.Debug("pdfcpu configuration ready (validation: relaxed)")
	return &Session{conf: conf, opts: e.opts, logger: e.logger, text: e.text}, nil
}

// Session holds the state produced by Init.
type Session struct {
	conf   *model.Configuration
	opts   Options
	logger *logger.Logger
	text   TextExtractor
}

// HandleFile reads ref, parses it, re-serializes it, and reports what it found.
func (s *Session) HandleFile(ctx context.Context, ref models.FileRef) (*models.ExploreResult, error) {
	s.logger.Debug("Handling file %s", ref.DisplayName())

	data, err := readFileRef(ref)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("Read %s from %s", humanize.Bytes(uint64(len(data))), ref.DisplayName())

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pdfCtx, err := s.parse(data)
	if err != nil {
		return nil, err
	}

	result := &models.ExploreResult{
		FileName: ref.DisplayName(),
		FileSize: int64(len(data)),
		Version:  pdfCtx.XRefTable.VersionString(),
		Trailer:  trailerInfo(pdfCtx),
	}

	result.Objects, result.ObjectCount = summarizeObjects(pdfCtx.XRefTable, s.opts.MaxObjects)
	result.Truncated = len(result.Objects) < result.ObjectCount
	s.logger.Info("Parsed %s has %d obj defs.", result.FileName, result.ObjectCount)

	if s.opts.Validate {
		if err := api.ValidateContext(pdfCtx); err != nil {
			result.ValidationError = err.Error()
			s.logger.Info("Validation of %s failed: %v", result.FileName, err)
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result.RoundTrip = s.roundTrip(pdfCtx, data)
	s.logger.Debug("written-out %s has len %d and crc32 %d (vs %d)",
		result.FileName, result.RoundTrip.OutputLength, result.RoundTrip.OutputCRC32, result.RoundTrip.InputCRC32)

	result.Pages = s.pages(data)
	result.PageCount = len(result.Pages)

	return result, nil
}

// ParseAndBack parses data and returns its serialization.
func (s *Session) ParseAndBack(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, ErrEmpty
	}

	pdfCtx, err := s.parse(data)
	if err != nil {
		return nil, err
	}
	if s.opts.Validate {
		if err := api.ValidateContext(pdfCtx); err != nil {
			return nil, fmt.Errorf("failed to validate PDF: %w", err)
		}
	}

	return serialize(pdfCtx)
}

func (s *Session) parse(data []byte) (*model.Context, error) {
	pdfCtx, err := api.ReadContext(bytes.NewReader(data), s.conf)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	return pdfCtx, nil
}

func (s *Session) roundTrip(pdfCtx *model.Context, data []byte) models.RoundTripStats {
	stats := models.RoundTripStats{
		InputLength: len(data),
		InputCRC32:  crc32.ChecksumIEEE(data),
	}

	out, err := serialize(pdfCtx)
	if err != nil {
		stats.Error = err.Error()
		return stats
	}

	stats.OutputLength = len(out)
	stats.OutputCRC32 = crc32.ChecksumIEEE(out)
	stats.Identical = bytes.Equal(out, data)
	return stats
}

func (s *Session) pages(data []byte) []models.PageInfo {
	dims, err := api.PageDims(bytes.NewReader(data), s.conf)
	if err != nil {
		s.logger.Info("Could not read page dimensions: %v", err)
		return nil
	}

	pages := make([]models.PageInfo, len(dims))
	for i, dim := range dims {
		pages[i] = models.PageInfo{Number: i + 1, Width: dim.Width, Height: dim.Height}
		s.logger.Trace("Page %d dimensions: %.2f x %.2f", i+1, dim.Width, dim.Height)
	}

	if s.text == nil {
		return pages
	}

	lengths, err := s.text.PageTextLengths(data)
	if err != nil {
		s.logger.Info("Warning: couldn't extract text: %v", err)
		return pages
	}
	for i := range pages {
		if i < len(lengths) {
			pages[i].TextLength = lengths[i]
		}
	}
	return pages
}

// serialize writes pdfCtx back out without optimizing it, so the output
// stays as close to the parsed input as pdfcpu allows.
func serialize(pdfCtx *model.Context) (out []byte, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			out, err = nil, fmt.Errorf("failed to write PDF: %v", rec)
		}
	}()

	var buf bytes.Buffer
	if err := api.WriteContext(pdfCtx, &buf); err != nil {
		return nil, fmt.Errorf("failed to write PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func readFileRef(ref models.FileRef) ([]byte, error) {
	if len(ref.Data) > 0 {
		return ref.Data, nil
	}
	if ref.Path == "" {
		return nil, ErrEmpty
	}

	data, err := os.ReadFile(ref.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", ref.Path, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%s: %w", ref.Path, ErrEmpty)
	}
	return data, nil
}

// FirstDifference returns the index of the first byte where a and b differ,
// or -1 if they are equal.
func FirstDifference(a, b []byte) int {
	i := 0
	for i < len(a) && i < len(b) && a[i] == b[i] {
		i++
	}
	if i == len(a) && i == len(b) {
		return -1
	}
	return i
}

func sortedObjectNumbers(table map[int]*model.XRefTableEntry) []int {
	numbers := make([]int, 0, len(table))
	for n := range table {
		numbers = append(numbers, n)
	}
	sort.Ints(numbers)
	return numbers
}
