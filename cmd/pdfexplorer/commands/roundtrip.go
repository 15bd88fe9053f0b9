package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/kpauljoseph/pdfexplorer/internal/pdf"
)

const diffContext = 10

func newRoundTripCommand(opts *globalOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "roundtrip",
		Short: "Read a PDF from stdin, parse it, write it back, and compare",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := opts.setup(cmd)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("output") {
				output = env.cfg.RoundTrip.OutputFile
			}

			data, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("failed to read stdin: %w", err)
			}

			session, err := env.explorer().NewSession(cmd.Context())
			if err != nil {
				return err
			}

			out, err := session.ParseAndBack(data)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintln(w, "Called ParseAndBack")

			if err := os.WriteFile(output, out, 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", output, err)
			}
			env.log.Debug("Wrote %s to %s", humanize.Bytes(uint64(len(out))), output)

			i := pdf.FirstDifference(out, data)
			if i < 0 {
				fmt.Fprintln(w, "Success!")
				return nil
			}

			fmt.Fprintf(w, "Unequal serializations: length %d vs length %d\n", len(out), len(data))
			fmt.Fprintf(w, "The first %d bytes are equal.\n", i)
			start := max(0, i-diffContext)
			fmt.Fprintf(w, "written: %q\n", excerpt(out, start))
			fmt.Fprintf(w, "input:   %q\n", excerpt(data, start))
			return fmt.Errorf("round trip differs at byte %d", i)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "where to write the re-serialized PDF (default from config)")
	return cmd
}

func excerpt(b []byte, start int) []byte {
	if start >= len(b) {
		return nil
	}
	return b[start:min(len(b), start+4*diffContext)]
}
