package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/rrayyhanep/Heaven-receipt/internal/app"
	"github.com/rrayyhanep/Heaven-receipt/internal/config"
	"github.com/rrayyhanep/Heaven-receipt/internal/payroll"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type configLoader func(path string) (config.Config, error)

type rootOptions struct {
	configPath string
	verbose    bool
	timeout    time.Duration
}

type figureFlags struct {
	advance float64
	leave   float64
}

func (f *figureFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&f.advance, "advance", 0, "advance taken this month")
	cmd.Flags().Float64Var(&f.leave, "leave", 0, "leave deduction this month")
}

func newRootCmd(load configLoader) *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "slipctl",
		Short:         "Manage employees and salary slips",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "YAML config file (default: $CONFIG_FILE)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log to stderr")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", 30*time.Second, "deadline for store operations")

	root.AddCommand(
		newComputeCmd(),
		newRenderCmd(),
		newGenerateCmd(load, opts),
		newEmployeesCmd(load, opts),
	)
	return root
}

func (o *rootOptions) logger() *zap.Logger {
	if !o.verbose {
		return zap.NewNop()
	}
	l, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return l
}

// withServices opens the configured store for the duration of fn.
func withServices(cmd *cobra.Command, load configLoader, opts *rootOptions, fn func(ctx context.Context, svcs app.Services) error) error {
	cfg, err := load(opts.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := opts.logger()
	defer func() { _ = logger.Sync() }()

	infra, err := app.OpenInfra(cfg, logger)
	if err != nil {
		return err
	}
	defer infra.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
	defer cancel()

	return fn(ctx, app.NewServices(cfg, infra, logger))
}

func writeFigures(cmd *cobra.Command, comp payroll.Computation) error {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	rows := []struct {
		label string
		value decimal.Decimal
	}{
		{"Basic Salary", comp.BasicSalary},
		{"Old Balance", comp.PendingBalance},
		{"Advance Taken", comp.Advance},
		{"Leave Deduction", comp.LeaveDeduction},
		{"Total Salary", comp.TotalSalary},
		{"Net Salary", comp.NetSalary},
		{"Balance to Receive", comp.BalanceToReceive},
	}
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\n", r.label, r.value.StringFixed(2))
	}
	return tw.Flush()
}

func newComputeCmd() *cobra.Command {
	var (
		basic, pending float64
		figures        figureFlags
	)
	cmd := &cobra.Command{
		Use:   "compute",
		Short: "Print the slip figures without touching any store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return writeFigures(cmd, payroll.Compute(basic, pending, figures.advance, figures.leave))
		},
	}
	cmd.Flags().Float64Var(&basic, "basic", 0, "basic salary")
	cmd.Flags().Float64Var(&pending, "pending", 0, "balance carried from earlier months")
	figures.register(cmd)
	return cmd
}

func newRenderCmd() *cobra.Command {
	var (
		name, month, company, currency, out string
		basic, pending                      float64
		figures                             figureFlags
	)
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a slip PDF from figures given on the command line",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			monthYear := payroll.FormatMonthYear(month, time.Now())
			if out == "" {
				out = payroll.SlipFilename(name, monthYear)
			}

			f, err := os.Create(out)
			if err != nil {
				return err
			}
			err = payroll.NewPDFRenderer().Render(f, payroll.SlipContent{
				CompanyName:   company,
				CurrencyLabel: currency,
				MonthYear:     monthYear,
				EmployeeName:  name,
				Figures:       payroll.Compute(basic, pending, figures.advance, figures.leave),
			})
			if cerr := f.Close(); err == nil {
				err = cerr
			}
			if err != nil {
				_ = os.Remove(out)
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "employee name")
	cmd.Flags().StringVar(&month, "month", "", `"January 2026", "2026-01", or empty for this month`)
	cmd.Flags().StringVar(&company, "company", payroll.DefaultCompanyName, "company name")
	cmd.Flags().StringVar(&currency, "currency", payroll.DefaultCurrencyLabel, "currency label")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file")
	cmd.Flags().Float64Var(&basic, "basic", 0, "basic salary")
	cmd.Flags().Float64Var(&pending, "pending", 0, "balance carried from earlier months")
	figures.register(cmd)
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newGenerateCmd(load configLoader, opts *rootOptions) *cobra.Command {
	var (
		month, dir string
		figures    figureFlags
	)
	cmd := &cobra.Command{
		Use:   "generate <employee-id>",
		Short: "Generate a slip for a stored employee and carry the balance forward",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(cmd, load, opts, func(ctx context.Context, svcs app.Services) error {
				doc, err := svcs.Payroll.GenerateSlip(ctx, payroll.GenerateSlipRequest{
					EmployeeID:     args[0],
					MonthYear:      month,
					Advance:        figures.advance,
					LeaveDeduction: figures.leave,
				})
				if err != nil {
					return err
				}

				path := filepath.Join(dir, doc.Filename)
				if err := os.WriteFile(path, doc.Content, 0o644); err != nil {
					return fmt.Errorf("slip generated but not saved, pending balance is now %.2f: %w", doc.PendingBalance, err)
				}

				if err := writeFigures(cmd, doc.Computation); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %s, pending balance now %.2f\n", path, doc.PendingBalance)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&month, "month", "", `"January 2026", "2026-01", or empty for this month`)
	cmd.Flags().StringVarP(&dir, "dir", "d", ".", "directory for the PDF")
	figures.register(cmd)
	return cmd
}

func newEmployeesCmd(load configLoader, opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "employees",
		Short: "Inspect the roster",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List employees sorted by name",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withServices(cmd, load, opts, func(ctx context.Context, svcs app.Services) error {
				empls, err := svcs.Employees.GetAll(ctx)
				if err != nil {
					return err
				}

				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tNAME\tBASIC\tPENDING")
				for _, e := range empls {
					fmt.Fprintf(tw, "%s\t%s\t%.2f\t%.2f\n", e.ID, e.Name, e.BasicSalary, e.PendingBalance)
				}
				return tw.Flush()
			})
		},
	})
	return cmd
}
