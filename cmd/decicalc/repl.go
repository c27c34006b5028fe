package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/zephyrtronium/decicalc"
)

const (
	prompt    = "> "
	errPrompt = "! "
)

const replHelp = `expressions use + - * / ** ^ and parentheses
a line beginning with * / ^ or "+ " or "- " continues from the last result
:clear      leave the error state and forget the last result
:history    list remembered expressions
:prec N     set the number of significant digits
:quit       exit`

func newReplCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Evaluate expressions interactively",
		Long: `Evaluate expressions interactively. The up and down arrows move through
the session history, which holds --history entries.

` + replHelp,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := o.session(cmd)
			if err != nil {
				return err
			}
			return runRepl(cmd, &repl{sess: sess})
		},
	}
}

func runRepl(cmd *cobra.Command, r *repl) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		HistoryLimit:    -1,
		InterruptPrompt: "^C",
		EOFPrompt:       ":quit",
		Listener:        readline.FuncListener(r.navigate),
		Stdout:          cmd.OutOrStdout(),
		Stderr:          cmd.ErrOrStderr(),
	})
	if err != nil {
		return fmt.Errorf("couldn't start line editor: %w", err)
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				if line == "" {
					return nil
				}
				continue
			}
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		out, quit := r.handle(line)
		if quit {
			return nil
		}
		if out != "" {
			fmt.Fprintln(rl.Stdout(), out)
		}
		rl.SetPrompt(r.prompt())
	}
}

// repl is the state of an interactive session.
type repl struct {
	sess *decicalc.Session
}

func (r *repl) prompt() string {
	if r.sess.InErrorState() {
		return errPrompt
	}
	return prompt
}

// handle processes one line of input and returns the text to show, and
// whether to quit.
func (r *repl) handle(line string) (string, bool) {
	cmd := strings.TrimSpace(line)
	switch {
	case cmd == "":
		return "", false
	case cmd == ":quit", cmd == ":q", cmd == "quit", cmd == "exit":
		return "", true
	case cmd == ":help", cmd == "?":
		return replHelp, false
	case cmd == ":clear", cmd == ":c":
		r.sess.Clear()
		return "", false
	case cmd == ":history":
		var b strings.Builder
		for i, e := range r.sess.History().Entries() {
			if i > 0 {
				b.WriteByte('\n')
			}
			fmt.Fprintf(&b, "%3d  %s", i+1, e)
		}
		return b.String(), false
	case strings.HasPrefix(cmd, ":prec"):
		arg := strings.TrimSpace(strings.TrimPrefix(cmd, ":prec"))
		if arg == "" {
			return "precision " + strconv.FormatUint(uint64(r.sess.Prec()), 10), false
		}
		n, err := strconv.ParseUint(arg, 10, 32)
		if err != nil {
			return "precision must be a positive integer", false
		}
		if err := r.sess.SetPrecision(uint(n)); err != nil {
			return err.Error(), false
		}
		return "precision " + arg, false
	}
	expr := cmd
	if last, ok := r.sess.Last(); ok {
		if c, ok := continuation(cmd, last); ok {
			expr = c
		}
	}
	return r.sess.Display(expr), false
}

// continuation makes an expression that applies line to the last result, if
// line begins with a binary operator. Plus and minus must be followed by a
// space, so that "-2" is a new expression and "- 2" subtracts from the last
// result.
func continuation(line, last string) (string, bool) {
	switch {
	case strings.HasPrefix(line, "*"), strings.HasPrefix(line, "/"), strings.HasPrefix(line, "^"):
	case strings.HasPrefix(line, "+ "), strings.HasPrefix(line, "- "):
	default:
		return "", false
	}
	d, err := decicalc.Unformat(last)
	if err != nil {
		return "", false
	}
	return "(" + d.Text('f') + ") " + line, true
}

// navigate moves through the session history on the previous and next line
// keys, replacing the line being edited.
func (r *repl) navigate(line []rune, pos int, key rune) ([]rune, int, bool) {
	var dir decicalc.Direction
	switch key {
	case readline.CharPrev:
		dir = decicalc.Older
	case readline.CharNext:
		dir = decicalc.Newer
	default:
		return nil, 0, false
	}
	h := r.sess.History()
	if h.Len() == 0 {
		return nil, 0, false
	}
	e, ok := h.Navigate(dir)
	if !ok {
		return []rune{}, 0, true
	}
	rs := []rune(e)
	return rs, len(rs), true
}
