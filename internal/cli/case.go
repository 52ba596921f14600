package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/nhle/casebot/internal/input"
	"github.com/nhle/casebot/internal/mirror"
)

// Field length limits shared by the create and edit forms.
const (
	maxNameLen = 100
	maxTextLen = 4000
)

func newCaseCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "case",
		Short: "Manage cases",
	}
	cmd.AddCommand(
		newCaseCreateCmd(app),
		newCaseViewCmd(app),
		newCaseListCmd(app),
		newCaseEditCmd(app),
		newCaseDeleteCmd(app),
		newCaseLinkCmd(app),
		newCaseUnlinkCmd(app),
	)
	return cmd
}

func caseFields(name, summary, notes string) []input.Field {
	return []input.Field{
		{Key: "name", Title: "Case Name", Placeholder: "Enter case name", Default: name, Required: true, MaxLen: maxNameLen},
		{Key: "summary", Title: "Summary", Placeholder: "Optional summary", Default: summary, MaxLen: maxTextLen, Paragraph: true},
		{Key: "notes", Title: "Notes", Placeholder: "Optional notes", Default: notes, MaxLen: maxTextLen, Paragraph: true},
	}
}

func newCaseCreateCmd(app *App) *cobra.Command {
	var name, summary, notes string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new case with a mirrored forum thread",
		RunE: func(cmd *cobra.Command, args []string) error {
			fields := caseFields(name, summary, notes)

			vals := input.Values{"name": name, "summary": summary, "notes": notes}
			if name == "" {
				var err error
				if vals, err = app.Collector.Collect(fields); err != nil {
					return err
				}
			} else if err := input.Validate(fields, vals); err != nil {
				return err
			}

			c, err := app.Cases.Create(cmd.Context(), app.Config.Actor,
				vals["name"], vals["summary"], vals["notes"])
			if err != nil {
				return err
			}

			fmt.Printf("✅ Case created: %s (%s)\n", idStyle.Render(c.ID), c.Name)
			if c.Mirror.IsSet() {
				fmt.Printf("🔗 Mirror thread: %s\n", c.Mirror.ThreadID)
			} else {
				fmt.Println(warnStyle.Render("⚠ mirror thread was not created"))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "case name (skips the form)")
	cmd.Flags().StringVar(&summary, "summary", "", "case summary")
	cmd.Flags().StringVar(&notes, "notes", "", "case notes")
	return cmd
}

func newCaseViewCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "view <case-id>",
		Short: "Show a case with its contacts and tasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			detail, err := app.Cases.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Println(mirror.RenderCaseSummary(detail.Case, detail.Contacts, detail.Tasks))
			return nil
		},
	}
}

func newCaseListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all cases",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cases, err := app.Cases.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(cases) == 0 {
				fmt.Println("No cases found.")
				return nil
			}

			fmt.Println(titleStyle.Render("Current Cases"))
			for _, c := range cases {
				fmt.Printf("%s  %s\n", idStyle.Render(c.ID), c.Name)
			}
			return nil
		},
	}
}

func newCaseEditCmd(app *App) *cobra.Command {
	var name, summary, notes string

	cmd := &cobra.Command{
		Use:   "edit <case-id>",
		Short: "Edit a case's name, summary, or notes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			detail, err := app.Cases.Get(cmd.Context(), id)
			if err != nil {
				return err
			}

			// Any flag set means non-interactive mode; otherwise the form
			// opens pre-filled with current values.
			if !cmd.Flags().Changed("name") &&
				!cmd.Flags().Changed("summary") &&
				!cmd.Flags().Changed("notes") {
				vals, err := app.Collector.Collect(caseFields(
					detail.Case.Name, detail.Case.Summary, detail.Case.Notes))
				if err != nil {
					return err
				}
				name, summary, notes = vals["name"], vals["summary"], vals["notes"]
			} else {
				if !cmd.Flags().Changed("name") {
					name = detail.Case.Name
				}
				if !cmd.Flags().Changed("summary") {
					summary = detail.Case.Summary
				}
				if !cmd.Flags().Changed("notes") {
					notes = detail.Case.Notes
				}
			}

			if err := app.Cases.Edit(cmd.Context(), app.Config.Actor, id, &name, &summary, &notes); err != nil {
				return err
			}
			fmt.Printf("✅ Case %s updated\n", idStyle.Render(id))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "new case name")
	cmd.Flags().StringVar(&summary, "summary", "", "new summary")
	cmd.Flags().StringVar(&notes, "notes", "", "new notes")
	return cmd
}

func newCaseDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <case-id>",
		Short: "Delete a case and its links and tasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Cases.Delete(cmd.Context(), app.Config.Actor, args[0]); err != nil {
				return err
			}
			fmt.Printf("Case %s deleted\n", idStyle.Render(args[0]))
			return nil
		},
	}
}

func newCaseLinkCmd(app *App) *cobra.Command {
	var role string

	cmd := &cobra.Command{
		Use:   "link <case-id> <contact-id>",
		Short: "Link a contact to a case under a role",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			contactID, err := parseContactID(args[1])
			if err != nil {
				return err
			}

			if role == "" {
				vals, err := app.Collector.Collect([]input.Field{{
					Key:         "role",
					Title:       "Role in Case",
					Placeholder: "e.g. Plaintiff, Defendant, Attorney for Defendant",
					Required:    true,
					MaxLen:      maxNameLen,
				}})
				if err != nil {
					return err
				}
				role = vals["role"]
			}

			if err := app.Cases.Link(cmd.Context(), app.Config.Actor, args[0], contactID, role); err != nil {
				return err
			}
			fmt.Printf("Linked contact %d to case %s as %s\n", contactID, idStyle.Render(args[0]), role)
			return nil
		},
	}

	cmd.Flags().StringVar(&role, "role", "", "contact's role in the case")
	return cmd
}

func newCaseUnlinkCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "unlink <case-id> <contact-id>",
		Short: "Remove a contact's link to a case",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			contactID, err := parseContactID(args[1])
			if err != nil {
				return err
			}
			if err := app.Cases.Unlink(cmd.Context(), app.Config.Actor, args[0], contactID); err != nil {
				return err
			}
			fmt.Printf("Unlinked contact %d from case %s\n", contactID, idStyle.Render(args[0]))
			return nil
		},
	}
}

func parseContactID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid contact id %q: must be a number", s)
	}
	return id, nil
}
