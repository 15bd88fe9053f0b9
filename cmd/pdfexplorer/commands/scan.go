package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kpauljoseph/pdfexplorer/internal/batch"
	"github.com/kpauljoseph/pdfexplorer/internal/relay"
	"github.com/kpauljoseph/pdfexplorer/internal/scanner"
	"github.com/kpauljoseph/pdfexplorer/pkg/models"
)

func newScanCommand(opts *globalOptions) *cobra.Command {
	var failOnError bool

	cmd := &cobra.Command{
		Use:   "scan DIR",
		Short: "Explore every PDF below a directory and print a summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := opts.setup(cmd)
			if err != nil {
				return err
			}
			defer env.serveMetrics()()

			env.log.Info("Scanning directory: %s", args[0])
			pdfs, err := scanner.New(env.log).FindPDFs(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			env.log.Info("Found %d PDFs to process", len(pdfs))

			payloads := make([]models.FileRef, len(pdfs))
			for i, f := range pdfs {
				payloads[i] = models.FileRef{Name: f.RelativePath, Path: f.AbsolutePath}
			}

			report := batch.NewReport()
			err = batch.Dispatch(cmd.Context(), env.relay(), payloads, func(reply relay.Reply) error {
				report.Add(reply)
				if reply.Err == nil {
					env.log.Debug("%s: %d objects, %d pages", reply.Payload.DisplayName(),
						reply.Result.ObjectCount, reply.Result.PageCount)
				}
				return nil
			})
			report.Finish()
			report.Print(env.log)
			if err != nil {
				return err
			}

			if failOnError && len(report.Failures) > 0 {
				return fmt.Errorf("%d of %d PDFs failed", len(report.Failures), report.Processed)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&failOnError, "fail-on-error", false, "exit non-zero if any PDF fails")
	return cmd
}
