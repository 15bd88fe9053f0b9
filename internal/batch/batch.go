package batch

import (
	"context"
	"errors"
	"fmt"

	"github.com/kpauljoseph/pdfexplorer/internal/relay"
	"github.com/kpauljoseph/pdfexplorer/pkg/models"
)

// Dispatch runs r, feeds it every payload, and calls onReply for each reply
// in arrival order. The relay is closed once all payloads are sent. An error
// from onReply cancels the run.
func Dispatch(ctx context.Context, r *relay.Relay, payloads []models.FileRef, onReply func(relay.Reply) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	runErr := make(chan error, 1)
	go func() {
		runErr <- r.Run(ctx)
	}()

	sendErr := make(chan error, 1)
	go func() {
		defer r.Close()
		for _, payload := range payloads {
			if _, err := r.Send(ctx, payload); err != nil {
				sendErr <- fmt.Errorf("failed to send %s: %w", payload.DisplayName(), err)
				return
			}
		}
		sendErr <- nil
	}()

	var replyErr error
	for reply := range r.Replies() {
		if replyErr != nil {
			continue
		}
		if err := onReply(reply); err != nil {
			replyErr = err
			cancel()
		}
	}

	err := <-runErr
	if replyErr != nil {
		return replyErr
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	if err := <-sendErr; err != nil {
		return err
	}
	return ctx.Err()
}
