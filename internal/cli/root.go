// Package cli implements basketctl, a command line front end that runs the
// optimization engines locally on JSON request files.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/guttosm/basket-service/config"
	"github.com/guttosm/basket-service/internal/app"
	"github.com/guttosm/basket-service/internal/i18n"
	"github.com/guttosm/basket-service/internal/logger"
	"github.com/spf13/cobra"
)

// Output formats.
const (
	OutputJSON  = "json"
	OutputTable = "table"
)

type options struct {
	file     string
	locale   string
	output   string
	logLevel string
}

// runner carries what every subcommand needs.
type runner struct {
	opts     *options
	in       io.Reader
	out      io.Writer
	services *app.ServiceComponents
}

// NewRootCommand builds the basketctl command tree. Requests are read from
// --file, or from stdin when it is "-" or empty.
func NewRootCommand() *cobra.Command {
	opts := &options{}
	r := &runner{opts: opts}

	root := &cobra.Command{
		Use:   "basketctl",
		Short: "Score products and optimize shopping baskets from the command line.",
		Long: `basketctl runs the basket-service engines without a server.

Every command reads the same JSON body the HTTP API accepts and prints the
result. Configuration comes from the environment (and a .env file if present).`,
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			logger.InitWithWriter(opts.logLevel, false, cmd.ErrOrStderr())

			switch opts.output {
			case OutputJSON, OutputTable:
			default:
				return fmt.Errorf("unknown output format %q (want %s or %s)", opts.output, OutputJSON, OutputTable)
			}

			cfg := config.Load()
			// One-shot runs gain nothing from a score cache.
			cfg.Cache.Enabled = false
			services, err := app.InitializeServices(cfg)
			if err != nil {
				return err
			}
			r.services = services
			r.in = cmd.InOrStdin()
			r.out = cmd.OutOrStdout()
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&opts.file, "file", "f", "-", "request JSON file, - for stdin")
	flags.StringVar(&opts.locale, "locale", i18n.DefaultLocale, "locale of recommendation texts (en, es, pt)")
	flags.StringVarP(&opts.output, "output", "o", OutputJSON, "output format: json or table")
	flags.StringVarP(&opts.logLevel, "loglevel", "l", "warn", "log level: debug, info, warn, error")

	root.AddCommand(
		newScoreCommand(r),
		newCompareCommand(r),
		newOptimizeCommand(r),
		newSubstitutesCommand(r),
		newRouteCommand(r),
		newImpactCommand(r),
	)
	return root
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	if err := NewRootCommand().Execute(); err != nil {
		return 1
	}
	return 0
}

func (r *runner) locale() string {
	return i18n.NormalizeLocale(r.opts.locale)
}

type validator interface {
	Validate() error
}

// decode reads the request into v and validates it when v supports it.
func (r *runner) decode(v interface{}) error {
	in := r.in
	if name := strings.TrimSpace(r.opts.file); name != "" && name != "-" {
		f, err := os.Open(name)
		if err != nil {
			return fmt.Errorf("open request: %w", err)
		}
		defer f.Close()
		in = f
	}

	dec := json.NewDecoder(in)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode request: %w", err)
	}
	if val, ok := v.(validator); ok {
		return val.Validate()
	}
	return nil
}

func (r *runner) printJSON(v interface{}) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func money(minor int64) string {
	sign := ""
	if minor < 0 {
		sign = "-"
		minor = -minor
	}
	return fmt.Sprintf("%s%d.%02d", sign, minor/100, minor%100)
}
