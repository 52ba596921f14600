package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nhle/casebot/internal/input"
	"github.com/nhle/casebot/internal/mirror"
	"github.com/nhle/casebot/internal/model"
	"github.com/nhle/casebot/internal/store"
)

const (
	maxInfoLen   = 200
	maxCNotesLen = 500
	maxStatusLen = 50
)

func newContactCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contact",
		Short: "Manage contacts and parties",
	}
	cmd.AddCommand(
		newContactAddCmd(app),
		newContactViewCmd(app),
		newContactListCmd(app),
		newContactEditCmd(app),
		newContactDeleteCmd(app),
	)
	return cmd
}

func contactFields(c model.Contact) []input.Field {
	return []input.Field{
		{Key: "name", Title: "Name", Default: c.Name, Required: true, MaxLen: maxNameLen},
		{Key: "info", Title: "Contact", Placeholder: "Phone, email, address", Default: c.Info, MaxLen: maxInfoLen, Paragraph: true},
		{Key: "notes", Title: "Notes", Default: c.Notes, MaxLen: maxCNotesLen, Paragraph: true},
		{Key: "status", Title: "Status", Placeholder: "Client / VIP / Of Interest", Default: c.Status, Required: true, MaxLen: maxStatusLen},
		{Key: "user", Title: "Platform User ID (optional)", Placeholder: "User id to link this contact", Default: c.PlatformUserID},
	}
}

func newContactAddCmd(app *App) *cobra.Command {
	var name, info, notes, status, user string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a new contact with a mirrored forum thread",
		RunE: func(cmd *cobra.Command, args []string) error {
			fields := contactFields(model.Contact{
				Name: name, Info: info, Notes: notes, Status: status, PlatformUserID: user,
			})

			vals := input.Values{"name": name, "info": info, "notes": notes, "status": status, "user": user}
			if name == "" {
				var err error
				if vals, err = app.Collector.Collect(fields); err != nil {
					return err
				}
			} else if err := input.Validate(fields, vals); err != nil {
				return err
			}

			c, err := app.Contacts.Add(cmd.Context(), app.Config.Actor, model.Contact{
				Name:           vals["name"],
				Info:           vals["info"],
				Notes:          vals["notes"],
				Status:         vals["status"],
				PlatformUserID: vals["user"],
			})
			if err != nil {
				return err
			}

			fmt.Printf("✅ Contact added: %s (%s)\n", idStyle.Render(fmt.Sprint(c.ID)), c.Name)
			if c.Mirror.IsSet() {
				fmt.Printf("🔗 Mirror thread: %s\n", c.Mirror.ThreadID)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "contact name (skips the form)")
	cmd.Flags().StringVar(&info, "info", "", "contact details")
	cmd.Flags().StringVar(&notes, "notes", "", "notes")
	cmd.Flags().StringVar(&status, "status", "", "status label")
	cmd.Flags().StringVar(&user, "user", "", "linked platform user id")
	return cmd
}

func newContactViewCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "view <contact-id>",
		Short: "Show a contact with its linked cases",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseContactID(args[0])
			if err != nil {
				return err
			}
			detail, err := app.Contacts.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Println(mirror.RenderContactSummary(detail.Contact, detail.Cases))
			return nil
		},
	}
}

func newContactListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all contacts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			contacts, err := app.Contacts.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(contacts) == 0 {
				fmt.Println("No contacts found.")
				return nil
			}

			fmt.Println(titleStyle.Render("Contacts / Parties"))
			for _, c := range contacts {
				fmt.Printf("%s  %s %s\n",
					idStyle.Render(fmt.Sprint(c.ID)), c.Name, dimStyle.Render("("+c.Status+")"))
			}
			return nil
		},
	}
}

func newContactEditCmd(app *App) *cobra.Command {
	var name, info, notes, status, user string

	cmd := &cobra.Command{
		Use:   "edit <contact-id>",
		Short: "Edit a contact's fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseContactID(args[0])
			if err != nil {
				return err
			}
			detail, err := app.Contacts.Get(cmd.Context(), id)
			if err != nil {
				return err
			}

			flagged := false
			for _, f := range []string{"name", "info", "notes", "status", "user"} {
				if cmd.Flags().Changed(f) {
					flagged = true
					break
				}
			}

			if !flagged {
				vals, err := app.Collector.Collect(contactFields(detail.Contact))
				if err != nil {
					return err
				}
				name, info, notes = vals["name"], vals["info"], vals["notes"]
				status, user = vals["status"], vals["user"]
			} else {
				cur := detail.Contact
				if !cmd.Flags().Changed("name") {
					name = cur.Name
				}
				if !cmd.Flags().Changed("info") {
					info = cur.Info
				}
				if !cmd.Flags().Changed("notes") {
					notes = cur.Notes
				}
				if !cmd.Flags().Changed("status") {
					status = cur.Status
				}
				if !cmd.Flags().Changed("user") {
					user = cur.PlatformUserID
				}
			}

			upd := store.ContactUpdate{
				Name: &name, Info: &info, Notes: &notes,
				Status: &status, PlatformUserID: &user,
			}
			if err := app.Contacts.Edit(cmd.Context(), app.Config.Actor, id, upd); err != nil {
				return err
			}
			fmt.Printf("✅ Contact %d updated\n", id)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "new name")
	cmd.Flags().StringVar(&info, "info", "", "new contact details")
	cmd.Flags().StringVar(&notes, "notes", "", "new notes")
	cmd.Flags().StringVar(&status, "status", "", "new status label")
	cmd.Flags().StringVar(&user, "user", "", "new linked platform user id")
	return cmd
}

func newContactDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <contact-id>",
		Short: "Delete a contact and its case links",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseContactID(args[0])
			if err != nil {
				return err
			}
			if err := app.Contacts.Delete(cmd.Context(), app.Config.Actor, id); err != nil {
				return err
			}
			fmt.Printf("Contact %d deleted\n", id)
			return nil
		},
	}
}
