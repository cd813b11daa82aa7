// Package cli implements crmctl, the terminal client of the CRM API.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/Henok-Haile/crm-dashboard/internal/client"
	"github.com/Henok-Haile/crm-dashboard/internal/dashboard/session"
	"github.com/Henok-Haile/crm-dashboard/internal/observability/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	envServer     = "CRMCTL_SERVER"
	defaultServer = "http://localhost:8080"
)

var errNotLoggedIn = errors.New("not logged in: run `crmctl login`")

// reportedError marks a failure already shown to the user as a notification.
type reportedError struct{ err error }

func (e reportedError) Error() string { return e.err.Error() }
func (e reportedError) Unwrap() error { return e.err }

type app struct {
	server  string
	verbose bool

	log    *zap.Logger
	store  tokenStore
	in     *bufio.Reader
	client *client.Client
}

func NewRootCmd(version string) *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:               "crmctl",
		Short:             "Manage your CRM customers from the terminal",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	root.PersistentFlags().StringVar(&a.server, "server", serverDefault(), "CRM server base URL (env "+envServer+")")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log API calls to stderr")

	root.AddCommand(
		newVersionCmd(version),
		a.newSignupCmd(),
		a.newLoginCmd(),
		a.newLogoutCmd(),
		a.newWhoamiCmd(),
		a.newListCmd(),
		a.newStatsCmd(),
		a.newAddCmd(),
		a.newEditCmd(),
		a.newDeleteCmd(),
	)
	return root
}

// Main runs crmctl with args and returns the process exit code.
func Main(version string, args []string) int {
	root := NewRootCmd(version)
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		var reported reportedError
		if !errors.As(err, &reported) {
			fmt.Fprintln(root.ErrOrStderr(), err)
		}
		return 1
	}
	return 0
}

func serverDefault() string {
	if v := strings.TrimSpace(os.Getenv(envServer)); v != "" {
		return v
	}
	return defaultServer
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	level := "warn"
	if a.verbose {
		level = "debug"
	}
	log, err := logger.Build(logger.Config{
		ServiceName: "crmctl",
		Level:       level,
		Format:      "console",
		Output:      "stderr",
		Debug:       a.verbose,
	})
	if err != nil {
		return err
	}
	a.log = log

	store, err := newTokenStore()
	if err != nil {
		return err
	}
	a.store = store
	token, err := store.Load()
	if err != nil {
		return err
	}

	a.client, err = client.New(a.server, client.WithToken(token), client.WithLogger(log))
	if err != nil {
		return err
	}
	a.in = bufio.NewReader(cmd.InOrStdin())
	return nil
}

// session restores the stored token and fails when nobody is signed in.
func (a *app) session(ctx context.Context) (*session.Context, error) {
	sc := session.New(a.client, a.log)
	if err := sc.Init(ctx); err != nil {
		sc.Close()
		return nil, err
	}
	if sc.CurrentUser() == nil {
		sc.Close()
		if a.client.Token() != "" {
			// the server no longer accepts the stored token
			_ = a.store.Clear()
		}
		return nil, errNotLoggedIn
	}
	return sc, nil
}

func newVersionCmd(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the crmctl version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}
}
