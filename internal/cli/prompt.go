package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Henok-Haile/crm-dashboard/internal/dashboard"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func (a *app) promptLine(cmd *cobra.Command, label string) (string, error) {
	if label != "" {
		fmt.Fprint(cmd.OutOrStdout(), label)
	}
	line, err := a.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// promptPassword reads without echo on a terminal and falls back to a plain
// line when input is piped.
func (a *app) promptPassword(cmd *cobra.Command, label string) (string, error) {
	if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(cmd.OutOrStdout(), label)
		pass, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(cmd.OutOrStdout())
		return string(pass), err
	}
	return a.promptLine(cmd, label)
}

// printer shows dashboard notifications: successes on stdout, failures on stderr.
type printer struct {
	out    io.Writer
	errOut io.Writer
}

func newPrinter(cmd *cobra.Command) printer {
	return printer{out: cmd.OutOrStdout(), errOut: cmd.ErrOrStderr()}
}

func (p printer) Notify(n dashboard.Notification) {
	w := p.out
	if n.Level == dashboard.LevelError {
		w = p.errOut
	}
	if n.Description != "" {
		fmt.Fprintf(w, "%s: %s\n", n.Title, n.Description)
		return
	}
	fmt.Fprintln(w, n.Title)
}
