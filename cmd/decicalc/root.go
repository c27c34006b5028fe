package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zephyrtronium/decicalc"
	"github.com/zephyrtronium/decicalc/internal/config"
)

// errFailed is returned when an expression failed. Its message is already
// on the output as the failure's display text.
var errFailed = errors.New("evaluation failed")

// options holds flag values shared by every command.
type options struct {
	cfgFile   string
	precision uint
	places    int
	natural   bool
	grouping  bool
	strip     bool
	history   int
	verbose   bool

	lines bool
	echo  bool
}

func newRootCmd() *cobra.Command {
	var o options
	root := &cobra.Command{
		Use:   "decicalc [expression...]",
		Short: "Arbitrary-precision decimal calculator",
		Long: `decicalc evaluates arithmetic expressions in decimal, never binary
floating point. Each argument is one expression. With no arguments,
standard input is one expression, or one per line with -n.

Expressions use + - * / and ** (or ^) with parentheses. Arguments that
begin with a minus sign must follow --, e.g. decicalc -- -2**2.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd, args)
		},
	}
	pf := root.PersistentFlags()
	pf.StringVar(&o.cfgFile, "config", "", "settings file (default $"+config.EnvVar+", ./decicalc.toml, or the user config directory)")
	pf.UintVar(&o.precision, "precision", decicalc.DefaultPrec, "significant digits retained by arithmetic")
	pf.IntVar(&o.places, "places", 2, "decimal places shown")
	pf.BoolVar(&o.natural, "natural", false, "show each result at its own precision")
	pf.BoolVar(&o.grouping, "grouping", false, "separate thousands with commas")
	pf.BoolVar(&o.strip, "strip", false, "remove trailing fractional zeros")
	pf.IntVar(&o.history, "history", 0, "number of expressions to remember")
	pf.BoolVarP(&o.verbose, "verbose", "v", false, "log evaluations to standard error")
	root.Flags().BoolVarP(&o.lines, "lines", "n", false, "read one expression per line of standard input")
	root.Flags().BoolVar(&o.echo, "echo", false, "print the parse tree of each expression")

	root.AddCommand(newReplCmd(&o), newConfigCmd(&o))
	return root
}

// settings loads the settings file and applies flags given on the command
// line over it.
func (o *options) settings(cmd *cobra.Command) (decicalc.Settings, error) {
	path := o.cfgFile
	if path == "" {
		path = config.Locate()
	}
	s, err := config.Load(path)
	if err != nil {
		return s, err
	}
	f := cmd.Flags()
	if f.Changed("precision") {
		s.Precision = o.precision
	}
	if f.Changed("places") {
		s.DecimalPlaces = o.places
	}
	if f.Changed("natural") && o.natural {
		s.DecimalPlaces = decicalc.NaturalPlaces
	}
	if f.Changed("grouping") {
		s.UseGrouping = o.grouping
	}
	if f.Changed("strip") {
		s.StripTrailingZeros = o.strip
	}
	if f.Changed("history") {
		s.MaxHistory = o.history
	}
	return s, s.Validate()
}

func (o *options) logger(cmd *cobra.Command) *slog.Logger {
	if !o.verbose {
		return slog.New(slog.DiscardHandler)
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func (o *options) session(cmd *cobra.Command) (*decicalc.Session, error) {
	s, err := o.settings(cmd)
	if err != nil {
		return nil, err
	}
	return decicalc.NewSession(s, decicalc.WithLogger(o.logger(cmd)))
}

func (o *options) run(cmd *cobra.Command, args []string) error {
	sess, err := o.session(cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	var n, failed int
	eval := func(expr string) {
		n++
		if o.echo {
			if e, err := decicalc.ParseString(expr, decicalc.MaxDepth(decicalc.DefaultMaxDepth)); err == nil {
				fmt.Fprintf(out, "%v : ", e)
			}
		}
		r, err := sess.Evaluate(expr)
		if err != nil {
			failed++
			r = decicalc.Classify(err).Message()
		}
		fmt.Fprintln(out, r)
	}

	switch {
	case len(args) > 0:
		for _, arg := range args {
			eval(arg)
		}
	case o.lines:
		scan := bufio.NewScanner(cmd.InOrStdin())
		for scan.Scan() {
			if strings.TrimSpace(scan.Text()) == "" {
				continue
			}
			eval(scan.Text())
		}
		if err := scan.Err(); err != nil {
			return fmt.Errorf("couldn't read input: %w", err)
		}
	default:
		b, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("couldn't read input: %w", err)
		}
		eval(string(b))
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d expressions: %w", failed, n, errFailed)
	}
	return nil
}
