package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/stepquiz/internal/quiz"
	"github.com/abhisek/stepquiz/internal/store"
)

func newInspectCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "inspect SESSION",
		Short: "Show a navigation session and its transitions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := openEnv(cmd, false)
			if err != nil {
				return err
			}
			defer e.Close()

			sess, err := e.store.SessionRepo().Get(ctx, args[0])
			if err != nil {
				return err
			}
			events, err := e.store.EventRepo().ListNavigation(ctx, sess.ID, store.QueryOpts{})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(struct {
					ID     string                  `json:"id"`
					State  any                     `json:"state"`
					Events []store.NavigationEvent `json:"events"`
				}{sess.ID, sess.State, events})
			}

			st := sess.State
			fmt.Fprintf(out, "Session:  %s\n", sess.ID)
			fmt.Fprintf(out, "Quiz:     %s\n", st.QuizID)
			fmt.Fprintf(out, "Status:   %s\n", st.Status)
			fmt.Fprintf(out, "Current:  %s\n", st.CurrentStepID)
			fmt.Fprintf(out, "History:  %s\n", strings.Join(st.History, " → "))
			if st.CompletedAt != nil {
				fmt.Fprintf(out, "Finished: %s\n", st.CompletedAt.Local().Format("2006-01-02 15:04:05"))
			}

			fmt.Fprintf(out, "\n%-5s  %-19s  %-24s  %s\n", "Seq", "Time", "Intent", "Move")
			fmt.Fprintln(out, strings.Repeat("─", 80))
			for _, ev := range events {
				move := ev.FromStepID + " → " + ev.ToStepID
				if ev.Completed {
					move += " (completed)"
				}
				fmt.Fprintf(out, "%-5d  %-19s  %-24s  %s\n",
					ev.Sequence, ev.Timestamp.Local().Format("2006-01-02 15:04:05"), truncate(ev.Intent, 24), move)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print as JSON")
	return cmd
}

func newHistoryCmd() *cobra.Command {
	var show int64
	cmd := &cobra.Command{
		Use:   "history ID",
		Short: "List stored revisions of a quiz",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := openEnv(cmd, false)
			if err != nil {
				return err
			}
			defer e.Close()

			revs := e.store.RevisionRepo()
			out := cmd.OutOrStdout()
			if show > 0 {
				rev, err := revs.Get(ctx, args[0], show)
				if err != nil {
					return err
				}
				data, err := quiz.Marshal(rev.Quiz)
				if err != nil {
					return err
				}
				_, err = out.Write(append(data, '\n'))
				return err
			}

			list, err := revs.List(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%-8s  %-19s  %-32s  %5s\n", "Seq", "Saved", "Title", "Steps")
			fmt.Fprintln(out, strings.Repeat("─", 72))
			for _, r := range list {
				fmt.Fprintf(out, "%-8d  %-19s  %-32s  %5d\n",
					r.Sequence, r.Timestamp.Local().Format("2006-01-02 15:04:05"),
					truncate(r.Quiz.Title, 32), len(r.Quiz.Steps))
			}
			return nil
		},
	}
	cmd.Flags().Int64Var(&show, "show", 0, "Print the quiz document of this revision")
	return cmd
}

func newSessionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sessions QUIZ",
		Short: "List navigation sessions of a quiz",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd, false)
			if err != nil {
				return err
			}
			defer e.Close()

			list, err := e.store.SessionRepo().ListByQuiz(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%-36s  %-11s  %-24s  %s\n", "Session", "Status", "Current", "Updated")
			fmt.Fprintln(out, strings.Repeat("─", 96))
			for _, s := range list {
				fmt.Fprintf(out, "%-36s  %-11s  %-24s  %s\n",
					s.ID, s.State.Status, truncate(s.State.CurrentStepID, 24),
					s.UpdatedAt.Local().Format("2006-01-02 15:04:05"))
			}
			return nil
		},
	}
}
