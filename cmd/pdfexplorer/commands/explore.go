package commands

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/kpauljoseph/pdfexplorer/internal/batch"
	"github.com/kpauljoseph/pdfexplorer/internal/relay"
	"github.com/kpauljoseph/pdfexplorer/pkg/models"
)

type replyJSON struct {
	ID     uint64                `json:"id"`
	File   string                `json:"file"`
	Result *models.ExploreResult `json:"result,omitempty"`
	Error  string                `json:"error,omitempty"`
}

func toReplyJSON(reply relay.Reply) replyJSON {
	out := replyJSON{
		ID:     reply.ID,
		File:   reply.Payload.DisplayName(),
		Result: reply.Result,
	}
	if reply.Err != nil {
		out.Error = reply.Err.Error()
	}
	return out
}

func newExploreCommand(opts *globalOptions) *cobra.Command {
	var pretty bool

	cmd := &cobra.Command{
		Use:   "explore FILE...",
		Short: "Explore PDF files and print one JSON reply per file",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := opts.setup(cmd)
			if err != nil {
				return err
			}
			defer env.serveMetrics()()

			payloads := make([]models.FileRef, len(args))
			for i, path := range args {
				payloads[i] = models.FileRef{Path: path}
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			if pretty {
				enc.SetIndent("", "  ")
			}

			return batch.Dispatch(cmd.Context(), env.relay(), payloads, func(reply relay.Reply) error {
				return enc.Encode(toReplyJSON(reply))
			})
		},
	}

	cmd.Flags().BoolVar(&pretty, "pretty", false, "indent JSON output")
	return cmd
}
