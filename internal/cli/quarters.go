package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (cli *CLI) newQuartersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "quarters",
		Short: "Print the quarter labels a scan would compare",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			q, err := cli.cfg.Quarters(cli.now())
			if err != nil {
				return err
			}
			fmt.Fprintf(cli.out, "current=%s prior=%s\n", q.Current, q.Prior)
			return nil
		},
	}
}
