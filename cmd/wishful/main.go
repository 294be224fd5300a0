package main

import (
	"fmt"
	"net/http"
	"os"
	"runtime/debug"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/mstanton/wishful/internal/allocation"
	"github.com/mstanton/wishful/internal/config"
	"github.com/mstanton/wishful/internal/domain"
	"github.com/mstanton/wishful/internal/handler"
	"github.com/mstanton/wishful/internal/output"
	"github.com/mstanton/wishful/internal/rebalance"
	"github.com/mstanton/wishful/internal/service"
	"github.com/mstanton/wishful/internal/store"
	"github.com/mstanton/wishful/internal/tui"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const dateLayout = "2006-01-02"

var rootCmd = &cobra.Command{
	Use:   "wishful",
	Short: "Wish list funding planner",
	Long:  "Plans when wish-list goals become affordable from projected income and expenses",
}

var calculateCmd = &cobra.Command{
	Use:   "calculate [plan-file]",
	Short: "Run the allocation calculation over a plan file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		plan, err := config.NewInputParser().LoadFromFile(args[0])
		if err != nil {
			return err
		}

		asOf, err := dateFlag(cmd, "as-of")
		if err != nil {
			return err
		}

		report := allocation.NewOrchestrator().Run(plan.ToInput(asOf))

		format, _ := cmd.Flags().GetString("format")
		formatter := output.GetFormatterByName(format)
		if formatter == nil {
			return fmt.Errorf("unknown format %q (want console, json or csv)", format)
		}
		out, err := formatter.Format(report)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(out)
		return err
	},
}

var previewCmd = &cobra.Command{
	Use:   "preview [plan-file]",
	Short: "Preview a hypothetical goal against a plan file",
	Long: "Runs the identical calculation with a hypothetical goal folded in,\n" +
		"including the sibling rebalancing its insertion would force. Nothing\n" +
		"is written to the plan file.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		plan, err := config.NewInputParser().LoadFromFile(args[0])
		if err != nil {
			return err
		}

		temp, err := goalFromFlags(cmd)
		if err != nil {
			return err
		}

		asOf, err := dateFlag(cmd, "as-of")
		if err != nil {
			return err
		}

		in := plan.ToInput(asOf)
		switch temp.Policy {
		case domain.PolicySequential:
			in.SequentialOverride = rebalance.BumpSequentialInsert(in.SequentialGoals, temp.Order)
		case domain.PolicyPercentage:
			in.PercentageOverride = rebalance.CompressPercentagesInsert(in.PercentageGoals, temp.Percentage)
		}
		in.ExtraGoals = []domain.Goal{temp}

		report := allocation.NewOrchestrator().Run(in)
		outcome := report.OutcomeFor(0)
		if outcome == nil {
			return fmt.Errorf("preview produced no outcome for %q", temp.Name)
		}

		printOutcome(outcome)
		return nil
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate [plan-file]",
	Short: "Validate a plan file without calculating",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		plan, err := config.NewInputParser().LoadFromFile(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("%s is valid: %d incomes, %d expenses, %d goals\n",
			args[0], len(plan.Incomes), len(plan.Expenses), len(plan.Goals))
		return nil
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API over a database",
	Long: "Serves the wish-list API. Configuration comes from the environment:\n" +
		"PORT, DB_DRIVER (sqlite or postgres), DB_CONN, LOG_LEVEL, ADJUST_TARGETS.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.NewAppConfig()
		if err != nil {
			return err
		}

		log := logrus.New()
		if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
			log.SetLevel(level)
		}

		db, err := store.Open(cfg.DBDriver, cfg.DBConn)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer db.Close()

		repo := store.NewRepository(db)
		planner := service.NewPlanner(repo, log)
		planner.AdjustTargets = cfg.AdjustTargets

		h := handler.NewHandler(planner, repo, log)
		log.WithFields(logrus.Fields{
			"port":   cfg.Port,
			"driver": cfg.DBDriver,
		}).Info("starting server")
		return http.ListenAndServe(":"+cfg.Port, h.Router())
	},
}

var tuiCmd = &cobra.Command{
	Use:   "tui [plan-file]",
	Short: "Open the interactive dashboard over a plan file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(args[0]); err != nil {
			return fmt.Errorf("plan file %s: %w", args[0], err)
		}
		p := tea.NewProgram(tui.NewModel(args[0]), tea.WithAltScreen())
		_, err := p.Run()
		return err
	},
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(os.Stdout, "wishful %s (commit %s, built %s)\n", version, commit, date)
			if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
				fmt.Fprintln(os.Stdout, bi.Main.Path)
			}
		},
	}
}

// goalFromFlags builds the hypothetical goal for preview.
func goalFromFlags(cmd *cobra.Command) (domain.Goal, error) {
	name, _ := cmd.Flags().GetString("name")
	costStr, _ := cmd.Flags().GetString("cost")
	policy, _ := cmd.Flags().GetString("policy")

	cost, err := decimal.NewFromString(costStr)
	if err != nil {
		return domain.Goal{}, fmt.Errorf("invalid --cost %q: %w", costStr, err)
	}

	g := domain.Goal{
		Name:   name,
		Cost:   cost,
		Policy: domain.GoalPolicy(policy),
	}

	switch g.Policy {
	case domain.PolicyTargetDate:
		targetStr, _ := cmd.Flags().GetString("target-date")
		if targetStr == "" {
			return domain.Goal{}, fmt.Errorf("--target-date is required for target_date goals")
		}
		target, err := time.Parse(dateLayout, targetStr)
		if err != nil {
			return domain.Goal{}, fmt.Errorf("invalid --target-date %q: %w", targetStr, err)
		}
		g.TargetDate = &target
	case domain.PolicySequential:
		order, _ := cmd.Flags().GetInt("order")
		if order < 1 {
			return domain.Goal{}, fmt.Errorf("--order must be at least 1 for sequential goals")
		}
		g.Order = order
	case domain.PolicyPercentage:
		pctStr, _ := cmd.Flags().GetString("percentage")
		pct, err := decimal.NewFromString(pctStr)
		if err != nil {
			return domain.Goal{}, fmt.Errorf("invalid --percentage %q: %w", pctStr, err)
		}
		g.Percentage = pct
	default:
		return domain.Goal{}, fmt.Errorf("unknown policy %q", policy)
	}

	if err := config.ValidateGoal(&g); err != nil {
		return domain.Goal{}, err
	}
	return g, nil
}

func printOutcome(a *domain.AllocationOutcome) {
	fmt.Printf("Goal:      %s (%s)\n", a.GoalName, a.Policy)
	fmt.Printf("Cost:      %s\n", output.FormatCurrency(a.GoalCost))
	fmt.Printf("Allocated: %s\n", output.FormatCurrency(a.AmountAllocated))
	if a.Feasible {
		if a.CompletionDate != nil {
			fmt.Printf("Fundable:  yes, by %s\n", a.CompletionDate.Format(dateLayout))
		} else {
			fmt.Printf("Fundable:  yes\n")
		}
		if a.Adjusted && a.OriginalTarget != nil {
			fmt.Printf("Note:      target %s is not achievable; date adjusted\n",
				a.OriginalTarget.Format(dateLayout))
		}
	} else {
		fmt.Printf("Fundable:  no, short %s\n", output.FormatCurrency(a.Shortfall))
	}
	if a.Warning != "" {
		fmt.Printf("Warning:   %s\n", a.Warning)
	}
	for _, f := range a.FundedBy {
		fmt.Printf("  %s  %s\n", f.Date.Format(dateLayout), output.FormatCurrency(f.Amount))
	}
}

// dateFlag parses an optional YYYY-MM-DD flag, zero when unset.
func dateFlag(cmd *cobra.Command, name string) (time.Time, error) {
	s, _ := cmd.Flags().GetString(name)
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --%s %q: %w", name, s, err)
	}
	return t, nil
}

func init() {
	calculateCmd.Flags().String("format", "console", "Output format: console, json or csv")
	calculateCmd.Flags().String("as-of", "", "Calculation start date (YYYY-MM-DD, default: plan as_of or today)")

	previewCmd.Flags().String("name", "preview", "Name of the hypothetical goal")
	previewCmd.Flags().String("cost", "", "Cost of the hypothetical goal")
	previewCmd.Flags().String("policy", "target_date", "Policy: target_date, sequential or percentage")
	previewCmd.Flags().String("target-date", "", "Target date for target_date goals (YYYY-MM-DD)")
	previewCmd.Flags().Int("order", 0, "Queue position for sequential goals")
	previewCmd.Flags().String("percentage", "", "Weight for percentage goals (0-100)")
	previewCmd.Flags().String("as-of", "", "Calculation start date (YYYY-MM-DD)")
	previewCmd.MarkFlagRequired("cost")

	rootCmd.AddCommand(calculateCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(versionCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
