package cli

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/dgallion1/awaketiger/internal/config"
	"github.com/dgallion1/awaketiger/internal/logging"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Version is overridden at build time.
var Version = "1.0.0"

// CLI represents the command-line interface
type CLI struct {
	v       *viper.Viper
	out     io.Writer
	logOut  io.Writer
	now     func() time.Time
	cfgFile string

	cfg config.Config
	log zerolog.Logger

	rootCmd *cobra.Command
}

// Options contain configuration for the CLI
type Options struct {
	Output    io.Writer        // command output, defaults to stdout
	LogOutput io.Writer        // log output, defaults to stderr
	Now       func() time.Time // clock for default quarters
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.LogOutput == nil {
		opts.LogOutput = os.Stderr
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	cli := &CLI{
		v:      config.New(),
		out:    opts.Output,
		logOut: opts.LogOutput,
		now:    opts.Now,
		log:    zerolog.Nop(),
	}
	cli.rootCmd = cli.newRootCmd()
	return cli
}

func (cli *CLI) Execute() error {
	return cli.ExecuteContext(context.Background())
}

func (cli *CLI) ExecuteContext(ctx context.Context) error {
	return cli.rootCmd.ExecuteContext(ctx)
}

// SetArgs overrides os.Args, for tests.
func (cli *CLI) SetArgs(args []string) {
	cli.rootCmd.SetArgs(args)
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "awaketiger",
		Short:         "Screen disclosure feeds for year-over-year revenue and profit growth",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return cli.setup()
		},
	}
	cmd.SetOut(cli.out)
	cmd.SetErr(cli.logOut)

	f := cmd.PersistentFlags()
	f.StringVar(&cli.cfgFile, "config", "", "Path to a config file (yaml, toml or json)")
	f.String("codes", "", "Path of the stock code index JSON (default ./stockcode.json)")
	f.String("listing-encoding", "", "Encoding of the stock listing file: euc-kr or utf-8")
	f.String("current", "", "Current quarter label, e.g. 2023.2Q (default: latest reported quarter)")
	f.String("prior", "", "Year-ago quarter label, e.g. 2022.2Q (default: current minus one year)")
	f.String("log-level", "", "Log level: debug, info, warn, error")
	f.String("log-format", "", "Log format: console or json")

	cli.bind(f.Lookup("codes"), config.KeyCodes)
	cli.bind(f.Lookup("listing-encoding"), config.KeyListingEnc)
	cli.bind(f.Lookup("current"), config.KeyQuarterCurrent)
	cli.bind(f.Lookup("prior"), config.KeyQuarterPrior)
	cli.bind(f.Lookup("log-level"), config.KeyLogLevel)
	cli.bind(f.Lookup("log-format"), config.KeyLogFormat)

	cmd.AddCommand(cli.newScanCmd())
	cmd.AddCommand(cli.newCodesCmd())
	cmd.AddCommand(cli.newQuartersCmd())

	return cmd
}

func (cli *CLI) setup() error {
	cfg, err := config.Load(cli.v, cli.cfgFile)
	if err != nil {
		return err
	}
	log, err := logging.New(logging.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cli.logOut,
	})
	if err != nil {
		return err
	}
	cli.cfg = cfg
	cli.log = log
	return nil
}

func (cli *CLI) bind(flag *pflag.Flag, key string) {
	// BindPFlag only fails on a nil flag.
	_ = cli.v.BindPFlag(key, flag)
}
