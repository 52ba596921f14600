// Package caseid generates human-readable, date-scoped case identifiers.
package caseid

import (
	"fmt"
	"time"
)

// DayFormat is the DDMMYYYY suffix layout shared with the store's
// per-day case count query.
const DayFormat = "02012006"

// Allocate produces the identifier for the next case created on the day
// of now, given how many cases already exist for that day. The sequence
// restarts at 1 every calendar day, so ids look like "3-15082026".
func Allocate(now time.Time, existingToday int) string {
	return fmt.Sprintf("%d-%s", existingToday+1, now.Format(DayFormat))
}
