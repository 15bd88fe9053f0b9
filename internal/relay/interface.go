package relay

import (
	"context"

	"github.com/kpauljoseph/pdfexplorer/pkg/models"
)

// Module is the processing collaborator the relay forwards to.
// Init is called exactly once, before any message is handled.
type Module interface {
	Init(ctx context.Context) (Handle, error)
}

// Handle is what a successful Init yields. The relay passes it explicitly
// into every call instead of relying on process-wide state.
type Handle interface {
	HandleFile(ctx context.Context, ref models.FileRef) (*models.ExploreResult, error)
}
