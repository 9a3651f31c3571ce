package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/stepquiz/internal/app"
	"github.com/abhisek/stepquiz/internal/player"
	"github.com/abhisek/stepquiz/internal/quiz"
	"github.com/abhisek/stepquiz/internal/screens/play"
)

func newPlayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "play ID|FILE",
		Short: "Play a stored quiz, or import a quiz file and play it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := openEnv(cmd, true)
			if err != nil {
				return err
			}
			defer e.Close()

			quizID, err := resolveQuizArg(cmd, e, args[0])
			if err != nil {
				return err
			}

			svc := newPlayer(e)
			snap, err := svc.Start(ctx, quizID)
			if err != nil {
				if quiz.PresentAsNotFound(err) {
					return fmt.Errorf("quiz %q not found: %w", quizID, err)
				}
				return err
			}
			return app.Run(play.New(svc, snap))
		},
	}
}

// resolveQuizArg treats arg as a file to import when it exists on disk and
// as a stored quiz id otherwise.
func resolveQuizArg(cmd *cobra.Command, e *env, arg string) (string, error) {
	if _, err := os.Stat(arg); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return arg, nil
		}
		return "", fmt.Errorf("stat %s: %w", arg, err)
	}
	q, err := readQuizFile(arg)
	if err != nil {
		return "", err
	}
	if _, err := saveQuiz(cmd.Context(), e, q); err != nil {
		return "", err
	}
	return q.ID, nil
}

var _ play.Navigator = (*player.Service)(nil)
