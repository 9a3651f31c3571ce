package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/stepquiz/internal/editor"
	"github.com/abhisek/stepquiz/internal/navigation"
	"github.com/abhisek/stepquiz/internal/quiz"
)

// editFunc runs one editor command. The returned string, if any, is printed.
type editFunc func(s *editor.Store, args []string) (string, error)

// runEdit loads quiz args[0] into an editor store, applies fn to the
// remaining args and persists the draft if fn committed anything.
func runEdit(cmd *cobra.Command, args []string, fn editFunc) error {
	e, err := openEnv(cmd, false)
	if err != nil {
		return err
	}
	defer e.Close()

	ctx := cmd.Context()
	q, err := e.store.QuizRepo().Get(ctx, args[0])
	if err != nil {
		return err
	}
	s, err := editor.New(q, editor.WithLogger(e.log))
	if err != nil {
		return err
	}

	var committed *quiz.Quiz
	s.OnCommit(func(q quiz.Quiz) { committed = &q })

	out, err := fn(s, args[1:])
	if err != nil {
		return err
	}
	if committed != nil {
		rev, err := saveQuiz(ctx, e, *committed)
		if err != nil {
			return err
		}
		e.log.WithFields(map[string]any{"quiz_id": q.ID, "revision": rev.Sequence}).
			Info("quiz saved")
	}
	if out != "" {
		fmt.Fprintln(cmd.OutOrStdout(), out)
	}
	return nil
}

func editCmd(use, short string, nargs int, fn func(cmd *cobra.Command) editFunc) *cobra.Command {
	c := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(nargs + 1),
	}
	run := fn(c)
	c.RunE = func(cmd *cobra.Command, args []string) error {
		return runEdit(cmd, args, run)
	}
	return c
}

func newEditCmd() *cobra.Command {
	edit := &cobra.Command{
		Use:   "edit",
		Short: "Change a stored quiz",
	}

	setOptions := editCmd("set-options QUIZ ELEMENT OPTION...", "Replace the options of a multiple-choice element", 1, func(c *cobra.Command) editFunc {
		multiple := c.Flags().Bool("multiple", false, "Allow more than one answer")
		return func(s *editor.Store, args []string) (string, error) {
			el, err := elementOf(s, args[0], quiz.ElementMultipleChoice)
			if err != nil {
				return "", err
			}
			content := el.Content.(quiz.MultipleChoiceContent)
			content.Options = nil
			for _, label := range args[1:] {
				content.Options = append(content.Options, quiz.Choice{ID: quiz.NewID(), Label: label})
			}
			content.Multiple = *multiple
			return "", s.UpdateElement(el.ID, content)
		}
	})
	setOptions.Args = cobra.MinimumNArgs(3)

	edit.AddCommand(
		editCmd("add-step QUIZ", "Add an empty step", 0, func(c *cobra.Command) editFunc {
			title := c.Flags().String("title", "", "Step title")
			at := c.Flags().Int("at", -1, "Position (default: end)")
			return func(s *editor.Store, _ []string) (string, error) {
				return s.AddStep(*title, position(*at))
			}
		}),
		editCmd("move-step QUIZ STEP", "Move a step to a new position", 1, func(c *cobra.Command) editFunc {
			at := c.Flags().Int("at", -1, "Position (default: end)")
			return func(s *editor.Store, args []string) (string, error) {
				d, err := s.BeginStepDrag(args[0])
				if err != nil {
					return "", err
				}
				d.Hover("", position(*at))
				return "", d.Drop()
			}
		}),
		editCmd("remove-step QUIZ STEP", "Remove a step; buttons pointing at it fall back to next", 1, func(c *cobra.Command) editFunc {
			return func(s *editor.Store, args []string) (string, error) {
				return "", s.RemoveStep(args[0])
			}
		}),
		editCmd("rename-step QUIZ STEP TITLE", "Set a step title", 2, func(c *cobra.Command) editFunc {
			return func(s *editor.Store, args []string) (string, error) {
				return "", s.RenameStep(args[0], args[1])
			}
		}),
		editCmd("add-element QUIZ STEP TYPE", "Add an element (text, multiple-choice, navigation-button)", 2, func(c *cobra.Command) editFunc {
			at := c.Flags().Int("at", -1, "Position within the step (default: end)")
			return func(s *editor.Store, args []string) (string, error) {
				t, err := quiz.ParseElementType(args[1])
				if err != nil {
					return "", err
				}
				return s.AddElement(args[0], t, position(*at))
			}
		}),
		editCmd("move-element QUIZ ELEMENT", "Move an element within or across steps", 1, func(c *cobra.Command) editFunc {
			to := c.Flags().String("to", "", "Destination step (default: current step)")
			at := c.Flags().Int("at", -1, "Position within the destination (default: end)")
			return func(s *editor.Store, args []string) (string, error) {
				d, err := s.BeginElementDrag(args[0])
				if err != nil {
					return "", err
				}
				dest := *to
				if dest == "" {
					q := s.Quiz()
					si, _, _ := q.FindElement(args[0])
					dest = q.Steps[si].ID
				}
				d.Hover(dest, position(*at))
				return "", d.Drop()
			}
		}),
		editCmd("remove-element QUIZ ELEMENT", "Remove an element", 1, func(c *cobra.Command) editFunc {
			return func(s *editor.Store, args []string) (string, error) {
				return "", s.RemoveElement(args[0])
			}
		}),
		editCmd("set-target QUIZ ELEMENT TARGET", "Point a navigation button at next, previous, submit or step(ID)", 2, func(c *cobra.Command) editFunc {
			label := c.Flags().String("label", "", "New button label")
			return func(s *editor.Store, args []string) (string, error) {
				in, err := navigation.ParseIntent(args[1])
				if err != nil {
					return "", err
				}
				el, err := elementOf(s, args[0], quiz.ElementNavigationButton)
				if err != nil {
					return "", err
				}
				content := el.Content.(quiz.NavigationButtonContent)
				content.Target = in.Target()
				if *label != "" {
					content.Label = *label
				}
				return "", s.UpdateElement(el.ID, content)
			}
		}),
		editCmd("set-text QUIZ ELEMENT TEXT", "Set a text element's body or a question's prompt", 2, func(c *cobra.Command) editFunc {
			return func(s *editor.Store, args []string) (string, error) {
				el, err := elementOf(s, args[0], "")
				if err != nil {
					return "", err
				}
				switch content := el.Content.(type) {
				case quiz.TextContent:
					content.Text = args[1]
					return "", s.UpdateElement(el.ID, content)
				case quiz.MultipleChoiceContent:
					content.Question = args[1]
					return "", s.UpdateElement(el.ID, content)
				case quiz.NavigationButtonContent:
					content.Label = args[1]
					return "", s.UpdateElement(el.ID, content)
				}
				return "", fmt.Errorf("element %q has no text", el.ID)
			}
		}),
		setOptions,
		editCmd("set-details QUIZ", "Set the quiz title and description", 0, func(c *cobra.Command) editFunc {
			title := c.Flags().String("title", "", "Quiz title")
			description := c.Flags().String("description", "", "Quiz description")
			return func(s *editor.Store, _ []string) (string, error) {
				q := s.Quiz()
				if c.Flags().Changed("title") {
					q.Title = *title
				}
				if c.Flags().Changed("description") {
					q.Description = *description
				}
				return "", s.UpdateDetails(q.Title, q.Description)
			}
		}),
	)

	return edit
}

// elementOf selects elementID in the editor and returns it. want, if set,
// is the required element type.
func elementOf(s *editor.Store, elementID string, want quiz.ElementType) (quiz.Element, error) {
	if err := s.Select(elementID); err != nil {
		return quiz.Element{}, err
	}
	el, ok := s.Quiz().Element(elementID)
	if !ok {
		return quiz.Element{}, quiz.NewError(quiz.ErrUnknownElement,
			fmt.Sprintf("element %q does not exist", elementID), nil,
			map[string]any{"id": elementID})
	}
	if want != "" && el.Type != want {
		return quiz.Element{}, fmt.Errorf("element %q is a %s, not a %s", elementID, el.Type, want)
	}
	return el, nil
}
