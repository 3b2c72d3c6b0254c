package notify

import (
	"fmt"
	"time"

	"tradejournal/internal/models"
	"tradejournal/pkg/id"
)

// Notification titles double as deduplication keys against the existing
// notification log; changing one resets its cooldown history.
const (
	TitleMomentum        = "You're building momentum!"
	TitleStreakMilestone = "10-day journaling streak!"
	TitleDailyReminder   = "Don't forget to journal today!"
	TitlePostSession     = "Close out your trading day"
	TitleWeekStreak      = "One full week of journaling!"
)

// rule is one independently evaluated nudge. cooldownDays of 1 means once
// per calendar day; larger values mean once per that many days, measured
// from the most recent same-title notification.
type rule struct {
	title        string
	severity     models.Severity
	cooldownDays int
	trigger      func(Snapshot, Clock) bool
	message      func(Snapshot) string
}

var rules = []rule{
	{
		title:        TitleMomentum,
		severity:     models.SeveritySuccess,
		cooldownDays: 5,
		trigger: func(s Snapshot, _ Clock) bool {
			disciplined := 0
			for _, n := range s.RecentPostRuleCounts {
				if n > 2 {
					disciplined++
				}
			}
			return disciplined >= 3
		},
		message: func(Snapshot) string {
			return "You followed your rules in most of your recent sessions. Keep it up!"
		},
	},
	{
		title:        TitleStreakMilestone,
		severity:     models.SeveritySuccess,
		cooldownDays: 10,
		trigger: func(s Snapshot, _ Clock) bool {
			return s.JournalStreakDays >= 10
		},
		message: func(s Snapshot) string {
			return fmt.Sprintf("You've journaled %d days in a row. Consistency pays off.", s.JournalStreakDays)
		},
	},
	{
		title:        TitleDailyReminder,
		severity:     models.SeverityInfo,
		cooldownDays: 1,
		trigger: func(s Snapshot, c Clock) bool {
			return c.Hour >= 17 && s.EntriesToday == 0
		},
		message: func(Snapshot) string {
			return "A few minutes of reflection now will sharpen tomorrow's trading."
		},
	},
	{
		title:        TitlePostSession,
		severity:     models.SeverityWarning,
		cooldownDays: 1,
		trigger: func(s Snapshot, c Clock) bool {
			return s.PreSessionToday && !s.PostSessionToday && c.Hour >= 19 && c.Hour < 24
		},
		message: func(Snapshot) string {
			return "You logged a pre-session today but no post-session review yet."
		},
	},
	{
		title:        TitleWeekStreak,
		severity:     models.SeveritySuccess,
		cooldownDays: 7,
		trigger: func(s Snapshot, _ Clock) bool {
			return s.JournalStreakDays == 7
		},
		message: func(Snapshot) string {
			return "Seven consecutive days of journaling. That's a habit forming."
		},
	},
}

// Evaluate runs every rule in list order and returns the notifications to
// append to the log. A rule is skipped when its title already appears in
// the existing log within its cooldown window. Existing notifications are
// never mutated.
func Evaluate(snap Snapshot, existing []models.Notification, clock Clock) []models.Notification {
	var out []models.Notification
	for _, r := range rules {
		if onCooldown(r, existing, clock) {
			continue
		}
		if !r.trigger(snap, clock) {
			continue
		}
		out = append(out, models.Notification{
			ID:        id.New(),
			Title:     r.title,
			Message:   r.message(snap),
			Severity:  r.severity,
			CreatedAt: clock.Today,
		})
	}
	return out
}

// onCooldown reports whether the rule's title appears in the log within its
// cooldown window: same calendar day for daily rules, most recent same-title
// timestamp within N days for multi-day rules.
func onCooldown(r rule, existing []models.Notification, clock Clock) bool {
	var latest time.Time
	found := false
	for _, n := range existing {
		if n.Title != r.title {
			continue
		}
		if !found || n.CreatedAt.After(latest) {
			latest = n.CreatedAt
			found = true
		}
	}
	if !found {
		return false
	}

	if r.cooldownDays <= 1 {
		return sameDate(latest, clock.Today)
	}
	cutoff := clock.Today.AddDate(0, 0, -r.cooldownDays)
	return latest.After(cutoff)
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
