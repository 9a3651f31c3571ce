package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/stepquiz/internal/app"
	"github.com/abhisek/stepquiz/internal/player"
	"github.com/abhisek/stepquiz/internal/screens/home"
)

// runApp opens the store and launches the quiz picker.
func runApp(cmd *cobra.Command, _ []string) error {
	e, err := openEnv(cmd, true)
	if err != nil {
		return err
	}
	defer e.Close()

	svc := newPlayer(e)
	return app.Run(home.New(e.store.QuizRepo(), svc))
}

func newPlayer(e *env) *player.Service {
	return player.NewService(
		e.store.QuizRepo(),
		e.store.SessionRepo(),
		e.store.EventRepo(),
		player.WithTransactor(e.store),
		player.WithLogger(e.log),
	)
}
