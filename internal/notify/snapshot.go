// Package notify decides which behavioral nudges to surface given the
// journal history, the log of previously emitted notifications and the
// injected clock. Rules are independent, idempotent within their cooldown
// window, and never consult wall-clock time themselves.
package notify

import (
	"sort"
	"time"

	"tradejournal/internal/models"
)

// Clock is the injected time capability: the caller's current local date
// and hour. Supplying it explicitly keeps rule evaluation deterministic
// under test.
type Clock struct {
	Today time.Time
	Hour  int
}

// NewClock builds a Clock from a concrete instant.
func NewClock(now time.Time) Clock {
	return Clock{Today: now, Hour: now.Hour()}
}

// Snapshot is everything the rules need to know about the journal history.
// It is derived from records only, never from ambient state.
type Snapshot struct {
	// JournalStreakDays is the current run of consecutive calendar days
	// with at least one journal entry, ending today or yesterday.
	JournalStreakDays int

	EntriesToday     int
	PreSessionToday  bool
	PostSessionToday bool

	// RecentPostRuleCounts holds the followed-rule tag counts of the 5
	// most recent post-session entries, newest first.
	RecentPostRuleCounts []int
}

// BuildSnapshot derives the rule inputs from the entry history. The today
// argument fixes which calendar day counts as "today".
func BuildSnapshot(entries []models.JournalEntry, today time.Time) Snapshot {
	snap := Snapshot{}
	todayDate := dateOf(today)

	days := make(map[time.Time]bool)
	var posts []models.JournalEntry

	for _, e := range entries {
		d := dateOf(e.CreatedAt)
		days[d] = true

		if d.Equal(todayDate) {
			snap.EntriesToday++
			switch e.Session {
			case models.SessionPre:
				snap.PreSessionToday = true
			case models.SessionPost:
				snap.PostSessionToday = true
			}
		}
		if e.Session == models.SessionPost {
			posts = append(posts, e)
		}
	}

	snap.JournalStreakDays = streakDays(days, todayDate)

	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
	for i, e := range posts {
		if i == 5 {
			break
		}
		snap.RecentPostRuleCounts = append(snap.RecentPostRuleCounts, len(e.FollowedRules))
	}
	return snap
}

// streakDays counts consecutive journaled days ending at today, or at
// yesterday when today has no entry yet (an unfinished day does not break
// the streak).
func streakDays(days map[time.Time]bool, today time.Time) int {
	cursor := today
	if !days[cursor] {
		cursor = cursor.AddDate(0, 0, -1)
	}

	n := 0
	for days[cursor] {
		n++
		cursor = cursor.AddDate(0, 0, -1)
	}
	return n
}

func dateOf(ts time.Time) time.Time {
	return time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, ts.Location())
}
