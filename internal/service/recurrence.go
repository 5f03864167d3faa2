package service

import (
	"log"
	"strings"
	"time"

	"github.com/teambition/rrule-go"
)

// RecurrenceService computes next occurrences from iCalendar RRULE
// strings such as "FREQ=DAILY".
type RecurrenceService struct{}

// NextOccurrence returns the first occurrence of rule at or after now,
// anchored at anchor (typically the task's due date, falling back to
// now). Empty, unparseable or exhausted rules yield ok=false; they must
// never fail a completion.
func (RecurrenceService) NextOccurrence(rule string, anchor, now time.Time) (time.Time, bool) {
	rule = strings.TrimSpace(rule)
	if rule == "" {
		return time.Time{}, false
	}

	r, err := rrule.StrToRRule(rule)
	if err != nil {
		log.Printf("[warn] recurrence rule %q: %v", rule, err)
		return time.Time{}, false
	}
	r.DTStart(anchor)

	next := r.After(now, true)
	if next.IsZero() {
		return time.Time{}, false
	}
	return next, true
}
