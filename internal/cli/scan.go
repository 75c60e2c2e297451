package cli

import (
	"fmt"

	"github.com/dgallion1/awaketiger/internal/config"
	"github.com/dgallion1/awaketiger/internal/logging"
	"github.com/dgallion1/awaketiger/internal/pipeline"
	"github.com/dgallion1/awaketiger/internal/report"
	"github.com/spf13/cobra"
)

func (cli *CLI) newScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan [input]",
		Short: "Render disclosures with year-over-year revenue and profit growth",
		Args:  cobra.MaximumNArgs(1),
		RunE:  cli.runScan,
	}

	f := cmd.Flags()
	f.StringP("filepath", "f", "", "Input disclosure document (.html, .xml, optionally .gz/.zst/.br)")
	f.StringP("output", "o", "", "Output table path (default ./output.html)")
	f.String("listing", "", "Stock listing to rebuild the code index from before scanning")
	f.String("render", "", "Stock code cell: link or code")
	f.String("link-template", "", "News URL template, %s is replaced by the stock code")
	f.String("metrics-file", "", "Write run metrics to this node_exporter textfile")

	cli.bind(f.Lookup("filepath"), config.KeyInput)
	cli.bind(f.Lookup("output"), config.KeyOutput)
	cli.bind(f.Lookup("listing"), config.KeyListing)
	cli.bind(f.Lookup("render"), config.KeyRender)
	cli.bind(f.Lookup("link-template"), config.KeyLinkTemplate)
	cli.bind(f.Lookup("metrics-file"), config.KeyMetricsFile)

	return cmd
}

func (cli *CLI) runScan(cmd *cobra.Command, args []string) error {
	cfg := cli.cfg
	if len(args) == 1 {
		cfg.Input = args[0]
	}
	ctx, log := logging.ForRun(cmd.Context(), cli.log, "scan")

	if err := cfg.Validate(cli.now()); err != nil {
		log.Error().Err(err).Msg("invalid configuration")
		return err
	}

	// Validate already checked both.
	quarters, _ := cfg.Quarters(cli.now())
	variant, _ := report.ParseVariant(cfg.Render)

	job := pipeline.ScanJob{
		Input:           cfg.Input,
		Output:          cfg.Output,
		Codes:           cfg.Codes,
		Listing:         cfg.Listing,
		ListingEncoding: cfg.ListingEncoding,
		Quarters:        quarters,
		Variant:         variant,
		LinkTemplate:    cfg.LinkTemplate,
		MetricsFile:     cfg.MetricsFile,
	}

	log.Info().
		Str("input", job.Input).
		Str("current", string(quarters.Current)).
		Str("prior", string(quarters.Prior)).
		Msg("scanning")

	// Run failures end in the log line; only usage and configuration
	// errors reach the exit status.
	sum, err := pipeline.RunScan(ctx, job, cli.now())
	if err != nil {
		log.Error().Err(err).Msg("scan failed")
		return nil
	}

	fmt.Fprintf(cli.out, "%d of %d disclosures passed (%s vs %s), written to %s\n",
		sum.Rows, sum.Blocks, quarters.Current, quarters.Prior, job.Output)
	return nil
}
