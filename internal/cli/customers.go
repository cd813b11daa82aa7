package cli

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/Henok-Haile/crm-dashboard/internal/clock"
	"github.com/Henok-Haile/crm-dashboard/internal/config"
	customerdomain "github.com/Henok-Haile/crm-dashboard/internal/customer/domain"
	"github.com/Henok-Haile/crm-dashboard/internal/dashboard"
	"github.com/Henok-Haile/crm-dashboard/internal/dashboard/session"
	"github.com/bwmarrin/snowflake"
	"github.com/spf13/cobra"
)

// board builds a dashboard that follows sc. Callers Close it.
func (a *app) board(cmd *cobra.Command, sc *session.Context, opts dashboard.Options) *dashboard.Dashboard {
	return dashboard.New(a.client, newPrinter(cmd), sc, clock.New(), opts)
}

type listFlags struct {
	page     int
	pageSize int
	sort     string
	search   string
	from     string
	to       string
}

func (f listFlags) options() (dashboard.Options, error) {
	opts := dashboard.DefaultOptions()
	if f.pageSize < 1 || f.pageSize > config.MaxPageSize {
		return opts, fmt.Errorf("invalid --page-size %d: use 1 to %d", f.pageSize, config.MaxPageSize)
	}
	opts.PageSize = f.pageSize
	return opts, nil
}

// view validates the flags and turns them into a listing view.
func (f listFlags) view(pageSize int) (dashboard.ViewState, error) {
	if _, ok := customerdomain.ParseSort(strings.TrimSpace(f.sort)); !ok {
		return dashboard.ViewState{}, fmt.Errorf("unknown sort %q: use name-asc, name-desc or latest", f.sort)
	}
	if _, err := dashboard.ParseDateBound(f.from, false); err != nil {
		return dashboard.ViewState{}, fmt.Errorf("invalid --from %q: use YYYY-MM-DD", f.from)
	}
	if _, err := dashboard.ParseDateBound(f.to, true); err != nil {
		return dashboard.ViewState{}, fmt.Errorf("invalid --to %q: use YYYY-MM-DD", f.to)
	}
	return dashboard.ParseViewState(url.Values{
		"page": {strconv.Itoa(f.page)},
		"sort": {f.sort},
		"q":    {f.search},
		"from": {f.from},
		"to":   {f.to},
	}, pageSize), nil
}

func (a *app) newListCmd() *cobra.Command {
	var flags listFlags
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List one page of customers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := flags.options()
			if err != nil {
				return err
			}
			view, err := flags.view(opts.PageSize)
			if err != nil {
				return err
			}
			sc, err := a.session(cmd.Context())
			if err != nil {
				return err
			}
			defer sc.Close()

			board := a.board(cmd, sc, opts)
			defer board.Close()
			snap, err := board.Listing.Apply(cmd.Context(), view)
			if err != nil {
				return reportedError{err}
			}
			printListing(cmd, snap)
			return nil
		},
	}
	cmd.Flags().IntVar(&flags.page, "page", 1, "page number")
	cmd.Flags().IntVar(&flags.pageSize, "page-size", dashboard.DefaultPageSize, "customers per page")
	cmd.Flags().StringVar(&flags.sort, "sort", string(customerdomain.SortNameAsc), "name-asc, name-desc or latest")
	cmd.Flags().StringVar(&flags.search, "search", "", "name, email or phone prefix")
	cmd.Flags().StringVar(&flags.from, "from", "", "created on or after YYYY-MM-DD")
	cmd.Flags().StringVar(&flags.to, "to", "", "created on or before YYYY-MM-DD")
	return cmd
}

func printListing(cmd *cobra.Command, snap dashboard.Snapshot) {
	out := cmd.OutOrStdout()
	if len(snap.Visible) == 0 {
		fmt.Fprintln(out, "No matching customers found.")
	} else {
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tPHONE\tNOTES\tCREATED")
		for _, r := range snap.Visible {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", r.ID, r.Name, r.Email, r.Phone, oneLine(r.Notes), dashboard.FormatDate(r.CreatedAt))
		}
		_ = tw.Flush()
	}
	fmt.Fprintf(out, "Page %d of %d\n", snap.Pager.Page, snap.Pager.TotalPages)
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func (a *app) newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show the summary figures",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sc, err := a.session(cmd.Context())
			if err != nil {
				return err
			}
			defer sc.Close()

			board := a.board(cmd, sc, dashboard.DefaultOptions())
			defer board.Close()
			summary := board.Summary
			refreshErr := summary.Refresh(cmd.Context())
			stats := summary.Stats()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Total Customers: %d\n", stats.Total)
			fmt.Fprintf(out, "New This Week:   %d\n", stats.Recent)
			fmt.Fprintf(out, "Latest Entry:    %s\n", stats.Latest)
			return refreshErr
		},
	}
}

type recordFlags struct {
	name  string
	email string
	phone string
	notes string
}

func (f *recordFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "customer name")
	cmd.Flags().StringVar(&f.email, "email", "", "customer email")
	cmd.Flags().StringVar(&f.phone, "phone", "", "customer phone")
	cmd.Flags().StringVar(&f.notes, "notes", "", "free-form notes")
}

// overlay applies the flags the user actually set on top of in.
func (f recordFlags) overlay(cmd *cobra.Command, in dashboard.RecordInput) dashboard.RecordInput {
	if cmd.Flags().Changed("name") {
		in.Name = f.name
	}
	if cmd.Flags().Changed("email") {
		in.Email = f.email
	}
	if cmd.Flags().Changed("phone") {
		in.Phone = f.phone
	}
	if cmd.Flags().Changed("notes") {
		in.Notes = f.notes
	}
	return in
}

func (a *app) newAddCmd() *cobra.Command {
	var flags recordFlags
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a customer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sc, err := a.session(cmd.Context())
			if err != nil {
				return err
			}
			defer sc.Close()

			in := flags.overlay(cmd, dashboard.RecordInput{})
			if in.Name == "" {
				if in.Name, err = a.promptLine(cmd, "Name: "); err != nil {
					return err
				}
			}
			if in.Email == "" {
				if in.Email, err = a.promptLine(cmd, "Email: "); err != nil {
					return err
				}
			}

			board := a.board(cmd, sc, dashboard.DefaultOptions())
			defer board.Close()
			form := board.Form
			form.OpenCreate()
			form.SetFields(in)
			record, err := form.Submit(cmd.Context())
			if err != nil {
				return reportedError{err}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ID: %s\n", record.ID)
			return nil
		},
	}
	flags.bind(cmd)
	return cmd
}

func (a *app) newEditCmd() *cobra.Command {
	var flags recordFlags
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change a customer; unset flags keep their value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := a.session(cmd.Context())
			if err != nil {
				return err
			}
			defer sc.Close()

			record, err := a.lookup(cmd, args[0])
			if err != nil {
				return err
			}

			board := a.board(cmd, sc, dashboard.DefaultOptions())
			defer board.Close()
			form := board.Form
			form.OpenEdit(record)
			form.SetFields(flags.overlay(cmd, form.State().Fields))
			if _, err := form.Submit(cmd.Context()); err != nil {
				return reportedError{err}
			}
			return nil
		},
	}
	flags.bind(cmd)
	return cmd
}

func (a *app) newDeleteCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a customer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := a.session(cmd.Context())
			if err != nil {
				return err
			}
			defer sc.Close()

			record, err := a.lookup(cmd, args[0])
			if err != nil {
				return err
			}

			board := a.board(cmd, sc, dashboard.DefaultOptions())
			defer board.Close()
			deletion := board.Deletion
			deletion.Request(record)
			if !yes {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n%s <%s>\n", dashboard.ConfirmDeleteTitle, dashboard.ConfirmDeleteDescription, record.Name, record.Email)
				answer, err := a.promptLine(cmd, "Type yes to delete: ")
				if err != nil {
					return err
				}
				if !strings.EqualFold(answer, "yes") && !strings.EqualFold(answer, "y") {
					deletion.Cancel()
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
					return nil
				}
			}
			if err := deletion.Confirm(cmd.Context()); err != nil {
				return reportedError{err}
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func (a *app) lookup(cmd *cobra.Command, raw string) (dashboard.Record, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(raw))
	if err != nil || id == 0 {
		return dashboard.Record{}, fmt.Errorf("invalid customer id %q", raw)
	}
	record, err := a.client.Get(cmd.Context(), id)
	if err != nil {
		return dashboard.Record{}, fmt.Errorf("customer %s: %w", id, err)
	}
	return record, nil
}
