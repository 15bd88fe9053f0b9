package batch

import (
	"time"

	"github.com/dustin/go-humanize"

	"github.com/kpauljoseph/pdfexplorer/internal/relay"
	"github.com/kpauljoseph/pdfexplorer/pkg/logger"
)

type Failure struct {
	File  string
	Error string
}

type ProcessingReport struct {
	StartTime    time.Time
	EndTime      time.Time
	Processed    int
	Succeeded    int
	TotalBytes   int64
	TotalObjects int
	TotalPages   int
	Identical    int
	Failures     []Failure
}

func NewReport() *ProcessingReport {
	return &ProcessingReport{StartTime: time.Now()}
}

func (r *ProcessingReport) Add(reply relay.Reply) {
	r.Processed++
	if reply.Err != nil {
		r.Failures = append(r.Failures, Failure{
			File:  reply.Payload.DisplayName(),
			Error: reply.Err.Error(),
		})
		return
	}

	r.Succeeded++
	if reply.Result == nil {
		return
	}
	r.TotalBytes += reply.Result.FileSize
	r.TotalObjects += reply.Result.ObjectCount
	r.TotalPages += reply.Result.PageCount
	if reply.Result.RoundTrip.Identical {
		r.Identical++
	}
}

func (r *ProcessingReport) Finish() {
	r.EndTime = time.Now()
}

func (r *ProcessingReport) Duration() time.Duration {
	if r.EndTime.IsZero() {
		return time.Since(r.StartTime)
	}
	return r.EndTime.Sub(r.StartTime)
}

func (r *ProcessingReport) Print(log *logger.Logger) {
	log.Info("Processing complete:")
	log.Info("- PDFs processed: %d (%d failed)", r.Processed, len(r.Failures))
	log.Info("- Bytes read: %s", humanize.Bytes(uint64(r.TotalBytes)))
	log.Info("- Objects: %s", humanize.Comma(int64(r.TotalObjects)))
	log.Info("- Pages: %s", humanize.Comma(int64(r.TotalPages)))
	log.Info("- Byte-identical round trips: %d", r.Identical)
	log.Info("- Took: %s", r.Duration().Round(time.Millisecond))

	for _, f := range r.Failures {
		log.Info("  failed %s: %s", f.File, f.Error)
	}
}
