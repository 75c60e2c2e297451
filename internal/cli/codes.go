package cli

import (
	"fmt"

	"github.com/dgallion1/awaketiger/internal/logging"
	"github.com/dgallion1/awaketiger/internal/pipeline"
	"github.com/spf13/cobra"
)

func (cli *CLI) newCodesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "codes <listing>",
		Short: "Build the stock code index from an exchange listing",
		Long: "Reads a listing table (HTML, usually EUC-KR encoded, or CSV), maps the\n" +
			"first column (company name) to the second (stock code) and writes the\n" +
			"result as JSON to the --codes path.",
		Args: cobra.ExactArgs(1),
		RunE: cli.runCodes,
	}
}

func (cli *CLI) runCodes(cmd *cobra.Command, args []string) error {
	ctx, log := logging.ForRun(cmd.Context(), cli.log, "codes")

	idx, err := pipeline.BuildIndex(ctx, args[0], cli.cfg.ListingEncoding, cli.cfg.Codes)
	if err != nil {
		log.Error().Err(err).Str("listing", args[0]).Msg("failed to build stock code index")
		return nil
	}

	fmt.Fprintf(cli.out, "%d companies written to %s\n", idx.Len(), cli.cfg.Codes)
	return nil
}
