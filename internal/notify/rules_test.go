package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradejournal/internal/models"
)

func clockAt(day, hour int) Clock {
	return NewClock(at(day, hour))
}

func titles(ns []models.Notification) []string {
	out := make([]string, 0, len(ns))
	for _, n := range ns {
		out = append(out, n.Title)
	}
	return out
}

func noteAt(title string, ts time.Time) models.Notification {
	return models.Notification{ID: "existing", Title: title, CreatedAt: ts}
}

func TestEvaluate_DailyReminder(t *testing.T) {
	t.Parallel()

	snap := Snapshot{EntriesToday: 0}

	got := Evaluate(snap, nil, clockAt(10, 18))
	require.Len(t, got, 1)
	assert.Equal(t, TitleDailyReminder, got[0].Title)
	assert.Equal(t, models.SeverityInfo, got[0].Severity)
	assert.NotEmpty(t, got[0].ID)

	// Before 17:00 the rule stays quiet.
	assert.Empty(t, Evaluate(snap, nil, clockAt(10, 16)))

	// Already journaled today.
	assert.Empty(t, Evaluate(Snapshot{EntriesToday: 1}, nil, clockAt(10, 18)))
}

func TestEvaluate_DailyReminderNotDuplicatedSameDay(t *testing.T) {
	t.Parallel()

	snap := Snapshot{EntriesToday: 0}
	existing := []models.Notification{
		noteAt(TitleDailyReminder, at(10, 17)),
	}

	got := Evaluate(snap, existing, clockAt(10, 18))
	assert.Empty(t, got, "a same-day reminder already exists")

	// The next day it fires again.
	got = Evaluate(snap, existing, clockAt(11, 18))
	require.Len(t, got, 1)
	assert.Equal(t, TitleDailyReminder, got[0].Title)
}

func TestEvaluate_PostSessionNudge(t *testing.T) {
	t.Parallel()

	open := Snapshot{PreSessionToday: true, PostSessionToday: false, EntriesToday: 1}

	got := Evaluate(open, nil, clockAt(10, 19))
	require.Len(t, got, 1)
	assert.Equal(t, TitlePostSession, got[0].Title)
	assert.Equal(t, models.SeverityWarning, got[0].Severity)

	// Too early in the evening.
	assert.Empty(t, Evaluate(open, nil, clockAt(10, 18)))

	// Review already written.
	closed := Snapshot{PreSessionToday: true, PostSessionToday: true, EntriesToday: 2}
	assert.Empty(t, Evaluate(closed, nil, clockAt(10, 20)))

	// No pre-session, nothing to close out.
	assert.Empty(t, Evaluate(Snapshot{EntriesToday: 1}, nil, clockAt(10, 20)))
}

func TestEvaluate_Momentum(t *testing.T) {
	t.Parallel()

	firing := Snapshot{EntriesToday: 1, RecentPostRuleCounts: []int{3, 4, 0, 5, 1}}
	got := Evaluate(firing, nil, clockAt(10, 9))
	require.Len(t, got, 1)
	assert.Equal(t, TitleMomentum, got[0].Title)
	assert.Equal(t, models.SeveritySuccess, got[0].Severity)

	// Only two disciplined sessions out of five.
	quiet := Snapshot{EntriesToday: 1, RecentPostRuleCounts: []int{3, 4, 0, 2, 1}}
	assert.Empty(t, Evaluate(quiet, nil, clockAt(10, 9)))
}

func TestEvaluate_MomentumCooldown(t *testing.T) {
	t.Parallel()

	snap := Snapshot{EntriesToday: 1, RecentPostRuleCounts: []int{3, 4, 5}}

	within := []models.Notification{noteAt(TitleMomentum, at(7, 9))}
	assert.Empty(t, Evaluate(snap, within, clockAt(10, 9)), "3 days ago is inside the 5-day window")

	expired := []models.Notification{noteAt(TitleMomentum, at(4, 9))}
	got := Evaluate(snap, expired, clockAt(10, 9))
	require.Len(t, got, 1)
	assert.Equal(t, TitleMomentum, got[0].Title)
}

func TestEvaluate_StreakRules(t *testing.T) {
	t.Parallel()

	week := Snapshot{EntriesToday: 1, JournalStreakDays: 7}
	got := Evaluate(week, nil, clockAt(10, 9))
	assert.Equal(t, []string{TitleWeekStreak}, titles(got))

	ten := Snapshot{EntriesToday: 1, JournalStreakDays: 10}
	got = Evaluate(ten, nil, clockAt(10, 9))
	assert.Equal(t, []string{TitleStreakMilestone}, titles(got))

	// Day 8: past the week milestone, short of the 10-day one.
	eight := Snapshot{EntriesToday: 1, JournalStreakDays: 8}
	assert.Empty(t, Evaluate(eight, nil, clockAt(10, 9)))

	// The milestone keeps firing past 10 once its cooldown lapses.
	twelve := Snapshot{EntriesToday: 1, JournalStreakDays: 12}
	got = Evaluate(twelve, nil, clockAt(10, 9))
	assert.Equal(t, []string{TitleStreakMilestone}, titles(got))
}

func TestEvaluate_CooldownUsesLatestOccurrence(t *testing.T) {
	t.Parallel()

	snap := Snapshot{EntriesToday: 1, JournalStreakDays: 7}
	existing := []models.Notification{
		noteAt(TitleWeekStreak, at(1, 9)),
		noteAt(TitleWeekStreak, at(8, 9)),
	}

	assert.Empty(t, Evaluate(snap, existing, clockAt(10, 9)),
		"the most recent occurrence governs the window, not the oldest")
}

func TestEvaluate_MultipleRulesFireInOrder(t *testing.T) {
	t.Parallel()

	snap := Snapshot{
		EntriesToday:         0,
		JournalStreakDays:    10,
		RecentPostRuleCounts: []int{3, 3, 3},
	}

	got := Evaluate(snap, nil, clockAt(10, 18))
	assert.Equal(t, []string{TitleMomentum, TitleStreakMilestone, TitleDailyReminder}, titles(got))
	for _, n := range got {
		assert.Equal(t, at(10, 18), n.CreatedAt)
	}

	// IDs are unique per notification.
	assert.NotEqual(t, got[0].ID, got[1].ID)
}
