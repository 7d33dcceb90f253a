package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"posdesk/internal/calc"
	"posdesk/internal/clock"
	"posdesk/internal/config"
	"posdesk/internal/filter"
	"posdesk/internal/storage"
	"posdesk/internal/ui"
)

type app struct {
	configPath string
	cfg        config.Config
	log        *slog.Logger
	logFile    io.Closer
}

func main() {
	a := &app{}
	root := a.rootCmd()
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "posdesk",
		Short:         "Front desk calculator, clock and order filters for the POS",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logFile != nil {
				a.logFile.Close()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()
			if err := ui.Run(store, a.cfg, a.log); err != nil {
				return fmt.Errorf("error running program: %w", err)
			}
			return nil
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default "+config.ResolveConfigPath()+")")
	root.AddCommand(a.calcCmd(), a.clockCmd(), a.ordersCmd())
	return root
}

func (a *app) load() error {
	if a.configPath == "" {
		a.configPath = config.ResolveConfigPath()
	}
	cfg, err := config.LoadOrCreate(a.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	a.cfg = cfg

	if err := os.MkdirAll(filepath.Dir(cfg.LogPath), 0o755); err != nil && !errors.Is(err, os.ErrExist) {
		return err
	}
	f, err := os.OpenFile(cfg.LogPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log: %w", err)
	}
	a.logFile = f
	a.log = slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelInfo}))
	return nil
}

func (a *app) openStore() (*storage.Store, error) {
	store, err := storage.Open(a.cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if a.cfg.SeedDemo {
		if err := store.SeedDemo(); err != nil {
			store.Close()
			return nil, fmt.Errorf("failed to seed database: %w", err)
		}
	}
	return store, nil
}

func (a *app) calcCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calc [--] EXPRESSION",
		Short: "Evaluate an arithmetic expression",
		Long:  "Evaluate an arithmetic expression. Put -- before an expression that starts with a minus sign.",
		Example: `  posdesk calc 2+3*4
  posdesk calc -- -5+2`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ev := calc.Evaluator{LegacyZeroCheck: a.cfg.Calculator.LegacyZeroCheck}
			out, err := ev.Evaluate(strings.Join(args, ""))
			if err != nil {
				a.log.Info("evaluation failed", "kind", calc.KindOf(err).String(), "err", err)
				fmt.Fprintln(cmd.OutOrStdout(), calc.KindOf(err).Message())
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return fmt.Errorf("%w (use \"posdesk calc -- EXPRESSION\" for expressions starting with '-')", err)
	})
	return cmd
}

func (a *app) newClock() *clock.Clock {
	format, err := clock.ParseFormat(a.cfg.Clock.Format)
	if err != nil {
		format = clock.Format24
	}
	return clock.New(clock.Options{
		Zone:   clock.LoadZone(a.cfg.Clock.Zone, a.cfg.Clock.Offset(), a.log),
		Format: format,
		Logger: a.log,
	})
}

func (a *app) clockCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clock",
		Short: "Inspect the POS clock",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show the clock's zone, format and current time",
		RunE: func(cmd *cobra.Command, args []string) error {
			st := a.newClock().Status()
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "zone\t%s\n", st.Zone)
			fmt.Fprintf(w, "offset\t%s\n", st.Offset)
			fmt.Fprintf(w, "fallback\t%v\n", st.Fallback)
			fmt.Fprintf(w, "format\t%s-hour\n", st.Format)
			fmt.Fprintf(w, "time\t%s\n", clock.FormatTime(st.Current, st.Format))
			return w.Flush()
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "debug",
		Short: "Compare the zoneinfo and fixed-offset strategies",
		RunE: func(cmd *cobra.Command, args []string) error {
			d := a.newClock().Debug()
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "local\t%s\n", d.Local.Format(time.DateTime))
			fmt.Fprintf(w, "utc\t%s\n", d.UTC.Format(time.DateTime))
			fmt.Fprintf(w, "target\t%s\n", d.Target.Format(time.DateTime))
			fmt.Fprintf(w, "formatted\t%s\n", d.Formatted)
			fmt.Fprintf(w, "zoneinfo\t%s\n", d.Primary)
			fmt.Fprintf(w, "fixed offset\t%s\n", d.Fallback)
			return w.Flush()
		},
	})
	return cmd
}

func (a *app) ordersCmd() *cobra.Command {
	var customer, status, payment, sortBy string
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "List POS orders with the filter form's criteria",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			customers, err := store.Customers()
			if err != nil {
				return err
			}
			form := filter.NewOrderForm(customers)
			form.Load(map[string][]string{
				filter.FieldCustomer:      {customer},
				filter.FieldStatus:        {status},
				filter.FieldPaymentStatus: {payment},
				filter.FieldSort:          {sortBy},
			})
			sub := form.Submit()
			q := storage.ParseQuery(sub.Values)
			q.Source = "pos"
			orders, err := store.QueryOrders(q)
			form.Done(sub.ID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, sub.Summary)
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "REFERENCE\tDATE\tCUSTOMER\tSTATUS\tPAYMENT\tTOTAL\tDUE")
			for _, o := range orders {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%.2f\t%.2f\n",
					o.Reference, o.Date.Format("2006-01-02"), o.Customer, o.Status, o.PaymentStatus, o.GrandTotal, o.Due())
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&customer, "customer", "", "customer name")
	cmd.Flags().StringVar(&status, "status", "", "draft, completed, canceled or failed")
	cmd.Flags().StringVar(&payment, "payment-status", "", "unpaid, partial, paid or overpaid")
	cmd.Flags().StringVar(&sortBy, "sort", "", "recently_added, ascending, descending, last_month or last_7_days")
	return cmd
}
