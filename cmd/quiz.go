package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/stepquiz/internal/quiz"
	"github.com/abhisek/stepquiz/internal/store"
)

// saveQuiz persists q and records a revision of it.
func saveQuiz(ctx context.Context, e *env, q quiz.Quiz) (store.Revision, error) {
	if err := e.store.QuizRepo().Save(ctx, q); err != nil {
		return store.Revision{}, err
	}
	revs := e.store.RevisionRepo()
	rev, err := revs.Save(ctx, q)
	if err != nil {
		return store.Revision{}, err
	}
	if err := revs.Prune(ctx, q.ID, revisionsKept); err != nil {
		return store.Revision{}, err
	}
	return rev, nil
}

func readQuizFile(path string) (quiz.Quiz, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return quiz.Quiz{}, fmt.Errorf("read quiz file: %w", err)
	}
	return quiz.Parse(data)
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate FILE",
		Short: "Check a quiz document without storing it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := readQuizFile(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%d steps, %d elements)\n",
				args[0], len(q.Steps), q.ElementCount())
			return nil
		},
	}
}

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Validate a quiz document and store it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := readQuizFile(args[0])
			if err != nil {
				return err
			}
			e, err := openEnv(cmd, false)
			if err != nil {
				return err
			}
			defer e.Close()

			rev, err := saveQuiz(cmd.Context(), e, q)
			if err != nil {
				return err
			}
			e.log.WithFields(map[string]any{"quiz_id": q.ID, "revision": rev.Sequence}).Info("quiz imported")
			fmt.Fprintln(cmd.OutOrStdout(), q.ID)
			return nil
		},
	}
}

func newExportCmd() *cobra.Command {
	var format, output string
	cmd := &cobra.Command{
		Use:   "export ID",
		Short: "Write a stored quiz as JSON or YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd, false)
			if err != nil {
				return err
			}
			defer e.Close()

			q, err := e.store.QuizRepo().Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			var data []byte
			switch strings.ToLower(format) {
			case "json":
				data, err = quiz.Marshal(q)
			case "yaml", "yml":
				data, err = quiz.MarshalYAML(q)
			default:
				return fmt.Errorf("unknown format %q (want json or yaml)", format)
			}
			if err != nil {
				return err
			}

			if output == "" || output == "-" {
				_, err = cmd.OutOrStdout().Write(append(data, '\n'))
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "json", "Output format: json or yaml")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")
	return cmd
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored quizzes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd, false)
			if err != nil {
				return err
			}
			defer e.Close()

			quizzes, err := e.store.QuizRepo().List(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%-36s  %-32s  %5s  %s\n", "ID", "Title", "Steps", "Updated")
			fmt.Fprintln(out, strings.Repeat("─", 96))
			for _, q := range quizzes {
				fmt.Fprintf(out, "%-36s  %-32s  %5d  %s\n",
					q.ID, truncate(q.Title, 32), q.StepCount, q.UpdatedAt.Local().Format("2006-01-02 15:04"))
			}
			fmt.Fprintf(out, "\n%d quizzes\n", len(quizzes))
			return nil
		},
	}
}

func newNewCmd() *cobra.Command {
	var title, description string
	var steps int
	cmd := &cobra.Command{
		Use:   "new",
		Short: "Create a quiz with empty steps",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q := quiz.New(title, description)
			for i := range steps {
				q.Steps = append(q.Steps, quiz.NewStep(fmt.Sprintf("Step %d", i+1)))
			}

			e, err := openEnv(cmd, false)
			if err != nil {
				return err
			}
			defer e.Close()

			if _, err := saveQuiz(cmd.Context(), e, q); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), q.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "Quiz title")
	cmd.Flags().StringVar(&description, "description", "", "Quiz description")
	cmd.Flags().IntVar(&steps, "steps", 1, "Number of empty steps to start with")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a quiz with its sessions and revisions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd, false)
			if err != nil {
				return err
			}
			defer e.Close()

			if err := e.store.QuizRepo().Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			e.log.WithFields(map[string]any{"quiz_id": args[0]}).Info("quiz deleted")
			return nil
		},
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
