package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/nhle/casebot/internal/input"
	"github.com/nhle/casebot/internal/model"
)

const (
	maxTaskLen     = 300
	maxDeadlineLen = 25
)

func newTaskCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage case tasks and deadlines",
	}
	cmd.AddCommand(
		newTaskAddCmd(app),
		newTaskDoneCmd(app),
		newTaskRemoveCmd(app),
		newTaskDueCmd(app),
	)
	return cmd
}

func newTaskAddCmd(app *App) *cobra.Command {
	var description, due string

	cmd := &cobra.Command{
		Use:   "add <case-id>",
		Short: "Add a task to a case",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fields := []input.Field{
				{Key: "description", Title: "Task Description", Placeholder: "Describe the task", Required: true, MaxLen: maxTaskLen, Paragraph: true},
				{Key: "deadline", Title: "Deadline (optional)", Placeholder: "DD.MM.YYYY or DD.MM.YYYY HH:MM", MaxLen: maxDeadlineLen},
			}

			vals := input.Values{"description": description, "deadline": due}
			if description == "" {
				var err error
				if vals, err = app.Collector.Collect(fields); err != nil {
					return err
				}
			} else if err := input.Validate(fields, vals); err != nil {
				return err
			}

			id, err := app.Cases.AddTask(cmd.Context(), app.Config.Actor,
				args[0], vals["description"], vals["deadline"])
			if err != nil {
				return err
			}
			fmt.Printf("✅ Task #%d added to case %s\n", id, idStyle.Render(args[0]))
			return nil
		},
	}

	cmd.Flags().StringVar(&description, "description", "", "task text (skips the form)")
	cmd.Flags().StringVar(&due, "deadline", "", "deadline, DD.MM.YYYY or DD.MM.YYYY HH:MM")
	return cmd
}

func newTaskDoneCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "done <task-id>",
		Short: "Mark a task as done",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseTaskID(args[0])
			if err != nil {
				return err
			}
			if err := app.Cases.CompleteTask(cmd.Context(), app.Config.Actor, id); err != nil {
				return err
			}
			fmt.Printf("Task #%d marked as done ✅\n", id)
			return nil
		},
	}
}

func newTaskRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <task-id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseTaskID(args[0])
			if err != nil {
				return err
			}
			if err := app.Cases.RemoveTask(cmd.Context(), app.Config.Actor, id); err != nil {
				return err
			}
			fmt.Printf("Task #%d removed\n", id)
			return nil
		},
	}
}

func newTaskDueCmd(app *App) *cobra.Command {
	var fromStr, toStr string

	cmd := &cobra.Command{
		Use:   "due",
		Short: "List open tasks due in a period",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := parseDayFlag(fromStr)
			if err != nil {
				return err
			}
			to, err := parseDayFlag(toStr)
			if err != nil {
				return err
			}

			items, err := app.Cases.DueReport(cmd.Context(), time.Now(), from, to)
			if err != nil {
				return err
			}
			if len(items) == 0 {
				fmt.Println("No tasks due in this period.")
				return nil
			}

			fmt.Println(titleStyle.Render(fmt.Sprintf(
				"Due Tasks %s - %s", orLabel(fromStr, "Today"), orLabel(toStr, "Future"))))
			for _, it := range items {
				fmt.Printf("- ❌ %s (Case: %s ID: %s, Due: %s)\n",
					it.Task.Description, it.CaseName, it.Task.CaseID,
					it.Due.Format(model.DeadlineDisplayFormat))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&fromStr, "from", "", "start date DD.MM.YYYY (default: yesterday)")
	cmd.Flags().StringVar(&toStr, "to", "", "end date DD.MM.YYYY (default: open-ended)")
	return cmd
}

func parseTaskID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid task id %q: must be a number", s)
	}
	return id, nil
}

// parseDayFlag parses an optional DD.MM.YYYY flag value.
func parseDayFlag(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("02.01.2006", s)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: use DD.MM.YYYY", s)
	}
	return &t, nil
}

func orLabel(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
