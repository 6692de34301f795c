package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"scorecard/internal/catalog"
	"scorecard/internal/config"
	"scorecard/internal/interview"
	"scorecard/internal/ledger"
	"scorecard/internal/scoring"
	"scorecard/internal/session"
)

var (
	questionColor = color.New(color.FgCyan, color.Bold)
	scoreColor    = color.New(color.FgGreen)
	warnColor     = color.New(color.FgYellow)
)

func main() {
	cfg := config.Load()

	rootCmd := &cobra.Command{
		Use:   "scorecard",
		Short: "Human-in-the-loop project evaluation interview",
		Long: "Scorecard interviews a human about a project, scores each answer " +
			"against stored criteria with a language model, and records the scores " +
			"in an external ledger. Sessions are persisted and resumable.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInterview(cmd.Context(), cfg)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run (or resume) the interview loop",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInterview(cmd.Context(), cfg)
		},
	}
	runCmd.Flags().BoolVar(&cfg.FakeScorer, "fake", cfg.FakeScorer, "score with the deterministic offline scorer")
	runCmd.Flags().StringVar(&cfg.Model, "model", cfg.Model, "model used for scoring")
	runCmd.Flags().StringVar(&cfg.StateFile, "state", cfg.StateFile, "session state file")

	resetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Discard the saved session state",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := session.NewStore(cfg.StateFile).Reset(); err != nil {
				return err
			}
			fmt.Println("Session state cleared.")
			return nil
		},
	}
	resetCmd.Flags().StringVar(&cfg.StateFile, "state", cfg.StateFile, "session state file")

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show interview progress",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showStatus(cfg)
		},
	}
	statusCmd.Flags().StringVar(&cfg.StateFile, "state", cfg.StateFile, "session state file")

	rootCmd.AddCommand(runCmd, resetCmd, statusCmd)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runInterview(ctx context.Context, cfg *config.Config) error {
	cat, err := catalog.Load(cfg.QuestionsFile, cfg.CriteriaFile)
	if err != nil {
		// Run degraded but visibly: an empty catalog finishes immediately
		// instead of crashing downstream lookups.
		warnColor.Fprintf(os.Stderr, "FATAL: catalog data unavailable: %v\n", err)
	}

	scorer, err := buildScorer(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = scorer.Close() }()

	led := ledger.NewFromEnv(cfg.LedgerFile)
	defer func() { _ = led.Close() }()

	store := session.NewStore(cfg.StateFile)
	st, resumed := store.Load(cat.Variables())
	if resumed {
		log.Printf("Resumed previous session from %s", store.Path())
	} else {
		log.Printf("Starting a new evaluation session (%d variables)", cat.Len())
	}

	ctrl := interview.New(cat, scorer, led)
	reader := bufio.NewReader(os.Stdin)

	for !st.LoopFinished {
		if ctx.Err() != nil {
			log.Printf("Interrupted; progress saved to %s", store.Path())
			return nil
		}

		action := ctrl.Next(st)
		var input string
		if action == interview.ActionRecordAnswer {
			questionColor.Printf("\n%s\n", st.PendingQuestionText())
			fmt.Print("> Your answer: ")
			line, err := reader.ReadString('\n')
			if err != nil {
				if errors.Is(err, io.EOF) {
					log.Printf("Input closed; progress saved to %s", store.Path())
					return nil
				}
				return fmt.Errorf("read answer: %w", err)
			}
			input = strings.TrimRight(line, "\r\n")
		}

		next, err := ctrl.Step(ctx, st, input)
		if err != nil {
			log.Printf("Interrupted; progress saved to %s", store.Path())
			return nil
		}

		if action == interview.ActionAskQuestion && next.Stage == session.StageAwaitScoring {
			// Placeholder note for an exhausted or missing question.
			warnColor.Printf("%s\n", next.PendingQuestionText())
		}
		if action == interview.ActionScore && next.Stage == session.StageNone {
			if score, ok := next.Scores[st.CurrentVariable]; ok {
				scoreColor.Printf("Scored %s: %d\n", st.CurrentVariable, score)
			}
		}

		st = next
		if err := store.Save(st); err != nil {
			// A failed save weakens resumability but never aborts the turn.
			log.Printf("%v", err)
		}
	}

	scoreColor.Println("\nEvaluation completed.")
	printScores(st)
	return nil
}

func buildScorer(ctx context.Context, cfg *config.Config) (scoring.Scorer, error) {
	if cfg.FakeScorer {
		return scoring.NewFakeScorer(), nil
	}
	if cfg.APIKey == "" {
		return nil, errors.New("GOOGLE_API_KEY not set; add it to .env or run with --fake")
	}
	scorer, err := scoring.NewGeminiScorer(ctx, cfg.Model)
	if err != nil {
		return nil, fmt.Errorf("init scorer: %w", err)
	}
	return scorer, nil
}

func showStatus(cfg *config.Config) error {
	cat, err := catalog.Load(cfg.QuestionsFile, cfg.CriteriaFile)
	if err != nil {
		warnColor.Fprintf(os.Stderr, "warning: catalog data unavailable: %v\n", err)
	}
	st, resumed := session.NewStore(cfg.StateFile).Load(cat.Variables())
	if !resumed {
		fmt.Println("No saved session.")
		return nil
	}

	project := st.ProjectName
	if project == "" {
		project = "(unnamed)"
	}
	fmt.Printf("Project:   %s\n", project)
	fmt.Printf("Stage:     %s\n", stageLabel(st))
	fmt.Printf("Remaining: %d\n", len(st.RemainingVariables))
	printScores(st)
	return nil
}

func stageLabel(st session.State) string {
	if st.LoopFinished {
		return "finished"
	}
	if st.Stage == session.StageNone {
		return "idle"
	}
	return fmt.Sprintf("%s (%s)", st.Stage, st.CurrentVariable)
}

func printScores(st session.State) {
	if len(st.Scores) == 0 {
		fmt.Println("Scores:    (none yet)")
		return
	}
	fmt.Println("Scores:")
	for _, v := range scoredOrder(st) {
		fmt.Printf("  %-24s %d\n", v, st.Scores[v])
	}
}

// scoredOrder lists scored variables in the order they were completed.
func scoredOrder(st session.State) []string {
	seen := make(map[string]bool, len(st.Scores))
	var out []string
	for _, v := range st.ReadyForScoring {
		if _, ok := st.Scores[v]; ok && !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	for v := range st.Scores {
		if !seen[v] {
			out = append(out, v)
		}
	}
	return out
}
