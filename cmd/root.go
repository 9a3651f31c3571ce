package cmd

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/abhisek/stepquiz/internal/config"
	"github.com/abhisek/stepquiz/internal/logging"
	"github.com/abhisek/stepquiz/internal/store"
)

// revisionsKept bounds the revision history stored per quiz.
const revisionsKept = 20

// NewRootCmd builds the stepquiz command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "stepquiz",
		Short:         "Build and play step-by-step quizzes",
		Long:          "StepQuiz: author multi-step quizzes and funnels, then play them in the terminal.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runApp,
	}

	root.PersistentFlags().String("db", "", "Path to SQLite database file (overrides "+config.EnvDB+")")
	root.PersistentFlags().String("log-level", "", "Log level: trace, debug, info, warn or error")
	root.PersistentFlags().String("log-format", "", "Log format: console or json")
	root.PersistentFlags().String("config", "", "Path to config file (overrides "+config.EnvConfig+")")

	root.AddCommand(
		newValidateCmd(),
		newImportCmd(),
		newExportCmd(),
		newListCmd(),
		newNewCmd(),
		newDeleteCmd(),
		newEditCmd(),
		newPlayCmd(),
		newInspectCmd(),
		newSessionsCmd(),
		newHistoryCmd(),
		newVersionCmd(),
	)
	return root
}

// Execute runs the command tree against os.Args.
func Execute() error {
	return NewRootCmd().Execute()
}

// env is what a command needs once flags are resolved.
type env struct {
	cfg   config.Config
	log   logging.Logger
	store *store.Store
	close func() error
}

func (e *env) Close() error {
	err := e.store.Close()
	if e.close != nil {
		if cerr := e.close(); err == nil {
			err = cerr
		}
	}
	return err
}

// resolveConfig loads settings with flags taking priority.
func resolveConfig(cmd *cobra.Command) (config.Config, error) {
	var o config.Overrides
	o.DBPath, _ = cmd.Flags().GetString("db")
	o.LogLevel, _ = cmd.Flags().GetString("log-level")
	o.LogFormat, _ = cmd.Flags().GetString("log-format")
	o.ConfigPath, _ = cmd.Flags().GetString("config")
	return config.Load(o)
}

// openEnv resolves config, builds the logger and opens the store. Full-screen
// commands pass tui so that logs go to a file beside the database instead of
// the terminal.
func openEnv(cmd *cobra.Command, tui bool) (*env, error) {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return nil, err
	}
	if err := config.EnsureDir(cfg.DBPath); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	var w io.Writer = cmd.ErrOrStderr()
	var closeLog func() error
	if tui {
		f, err := os.OpenFile(filepath.Join(filepath.Dir(cfg.DBPath), "stepquiz.log"),
			os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		w, closeLog = f, f.Close
	}

	log, err := logging.New(w, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		if closeLog != nil {
			closeLog()
		}
		return nil, err
	}

	st, err := store.Open(store.DSN(cfg.DBPath), store.WithLogger(log))
	if err != nil {
		if closeLog != nil {
			closeLog()
		}
		return nil, fmt.Errorf("open store: %w", err)
	}
	log.WithFields(map[string]any{"db": cfg.DBPath}).Debug("store opened")
	return &env{cfg: cfg, log: log, store: st, close: closeLog}, nil
}

// position maps the --at flag to a placement index; negative means the end.
func position(at int) int {
	if at < 0 {
		return math.MaxInt
	}
	return at
}
