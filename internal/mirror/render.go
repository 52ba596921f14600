// Package mirror keeps an entity's forum thread in sync with the record
// store: the starter message carries a live summary, followed by an
// append-only log of every mutation.
package mirror

import (
	"fmt"
	"strings"
	"time"

	"github.com/nhle/casebot/internal/deadline"
	"github.com/nhle/casebot/internal/model"
	"github.com/nhle/casebot/internal/transport"
)

// RenderCaseSummary builds the full summary view of a case for the
// starter message of its mirror thread.
func RenderCaseSummary(c model.Case, contacts []model.LinkedContact, tasks []model.Task) string {
	var b strings.Builder

	fmt.Fprintf(&b, "## 📂 Case %s: %s\n", c.ID, c.Name)
	b.WriteString(orDefault(c.Summary, "No summary") + "\n\n")
	fmt.Fprintf(&b, "**Notes:** %s\n\n", orDefault(c.Notes, "None"))

	b.WriteString("**Contacts:**\n")
	if len(contacts) == 0 {
		b.WriteString("None linked\n")
	}
	for _, lc := range contacts {
		fmt.Fprintf(&b, "- *%s* %s (ID %d)\n", lc.Role, lc.Name, lc.ID)
	}

	b.WriteString("\n**Tasks:**\n")
	if len(tasks) == 0 {
		b.WriteString("No tasks.\n")
	}
	for _, t := range tasks {
		b.WriteString(renderTaskLine(t) + "\n")
	}

	fmt.Fprintf(&b, "\n_Created at %s_", c.CreatedAt.Format("02.01.2006 15:04"))
	return b.String()
}

// RenderContactSummary builds the full summary view of a contact for the
// starter message of its mirror thread.
func RenderContactSummary(c model.Contact, cases []model.LinkedCase) string {
	var b strings.Builder

	fmt.Fprintf(&b, "## 👤 Contact %d: %s\n", c.ID, c.Name)
	fmt.Fprintf(&b, "**Status:** %s\n", orDefault(c.Status, "None"))
	fmt.Fprintf(&b, "**Contact:** %s\n", orDefault(c.Info, "None"))
	fmt.Fprintf(&b, "**Notes:** %s\n", orDefault(c.Notes, "None"))

	user := "None"
	if c.PlatformUserID != "" {
		user = transport.Mention(c.PlatformUserID)
	}
	fmt.Fprintf(&b, "**Linked user:** %s\n\n", user)

	b.WriteString("**Cases:**\n")
	if len(cases) == 0 {
		b.WriteString("None linked\n")
	}
	for _, lc := range cases {
		fmt.Fprintf(&b, "- %s (ID %s) as **%s**\n", lc.CaseName, lc.CaseID, lc.Role)
	}

	fmt.Fprintf(&b, "\n_Created at %s_", c.CreatedAt.Format("02.01.2006 15:04"))
	return b.String()
}

// RenderLogEntry builds one append-only audit entry for a mirror thread.
func RenderLogEntry(entityLabel, description, actor string, at time.Time) string {
	var b strings.Builder
	b.WriteString("📝 **Log**\n")
	b.WriteString(description + "\n")
	fmt.Fprintf(&b, "— %s, %s\n", actor, at.Format("02.01.2006 15:04"))
	b.WriteString(entityLabel)
	return b.String()
}

// renderTaskLine formats a single task for the case summary. Stored
// deadlines are shown in the display format when they parse, verbatim
// otherwise.
func renderTaskLine(t model.Task) string {
	mark := "[ ]"
	if t.Done {
		mark = "[x]"
	}
	line := fmt.Sprintf("- *#%d* %s %s", t.ID, mark, t.Description)

	if t.Deadline != "" {
		due := t.Deadline
		if dt, ok := deadline.Parse(t.Deadline); ok {
			due = dt.Format(model.DeadlineDisplayFormat)
		}
		line += fmt.Sprintf(" (Due: %s)", due)
	}
	return line
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
