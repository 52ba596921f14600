// Package input is the structured input surface: commands declare the
// named, validated fields they need and a collector gathers the values,
// either interactively or from pre-supplied flags.
package input

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
)

// Field describes one named input value.
type Field struct {
	// Key identifies the field in the collected Values map.
	Key string

	// Title is the prompt label shown to the operator.
	Title string

	// Placeholder is the hint text for an empty field.
	Placeholder string

	// Default pre-fills the field (used by edit forms).
	Default string

	// Required rejects empty submissions.
	Required bool

	// MaxLen caps the value length; 0 means unlimited.
	MaxLen int

	// Paragraph selects a multi-line editor for long text.
	Paragraph bool
}

// Values holds collected field values keyed by Field.Key.
type Values map[string]string

// Collector gathers values for a field set.
type Collector interface {
	Collect(fields []Field) (Values, error)
}

// Validate checks pre-supplied values against the field constraints.
// It is the non-interactive path used when all values arrive via flags.
func Validate(fields []Field, vals Values) error {
	for _, f := range fields {
		v := strings.TrimSpace(vals[f.Key])
		if f.Required && v == "" {
			return fmt.Errorf("field %q is required", f.Key)
		}
		if f.MaxLen > 0 && len(v) > f.MaxLen {
			return fmt.Errorf("field %q exceeds %d characters", f.Key, f.MaxLen)
		}
	}
	return nil
}

// HuhCollector runs an interactive terminal form for the field set.
type HuhCollector struct{}

// Collect presents the fields as a huh form and returns the submitted
// values. Field defaults become the initial values.
func (HuhCollector) Collect(fields []Field) (Values, error) {
	// Bindings live on the heap so huh's Value pointers stay valid.
	bindings := make([]string, len(fields))
	huhFields := make([]huh.Field, 0, len(fields))

	for i, f := range fields {
		bindings[i] = f.Default

		validate := fieldValidator(f)
		if f.Paragraph {
			t := huh.NewText().
				Title(f.Title).
				Placeholder(f.Placeholder).
				Validate(validate).
				Value(&bindings[i])
			if f.MaxLen > 0 {
				t = t.CharLimit(f.MaxLen)
			}
			huhFields = append(huhFields, t)
			continue
		}

		in := huh.NewInput().
			Title(f.Title).
			Placeholder(f.Placeholder).
			Validate(validate).
			Value(&bindings[i])
		if f.MaxLen > 0 {
			in = in.CharLimit(f.MaxLen)
		}
		huhFields = append(huhFields, in)
	}

	form := huh.NewForm(huh.NewGroup(huhFields...))
	if err := form.Run(); err != nil {
		return nil, fmt.Errorf("collecting input: %w", err)
	}

	vals := make(Values, len(fields))
	for i, f := range fields {
		vals[f.Key] = strings.TrimSpace(bindings[i])
	}
	return vals, nil
}

func fieldValidator(f Field) func(string) error {
	return func(s string) error {
		s = strings.TrimSpace(s)
		if f.Required && s == "" {
			return fmt.Errorf("%s is required", f.Title)
		}
		if f.MaxLen > 0 && len(s) > f.MaxLen {
			return fmt.Errorf("%s exceeds %d characters", f.Title, f.MaxLen)
		}
		return nil
	}
}
