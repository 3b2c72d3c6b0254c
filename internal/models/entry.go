// Package models provides domain models for the trading journal.
package models

import (
	"math"
	"time"
)

// SessionType distinguishes pre-trading and post-trading journal sessions.
type SessionType string

const (
	SessionPre  SessionType = "pre"
	SessionPost SessionType = "post"
)

// Outcome represents the self-reported result of a post-trading session.
type Outcome string

const (
	OutcomeWin       Outcome = "win"
	OutcomeLoss      Outcome = "loss"
	OutcomeBreakeven Outcome = "breakeven"
)

// Direction represents the side of a trade.
type Direction string

const (
	DirectionBuy  Direction = "buy"
	DirectionSell Direction = "sell"
)

// Trade represents one executed position, always owned by exactly one
// JournalEntry. Numeric fields that were absent or unparsable in the raw
// record are NaN; use the *Valid helpers before arithmetic.
type Trade struct {
	ID             string
	Symbol         string
	Direction      Direction
	EntryPrice     float64
	ExitPrice      float64
	EntryTime      time.Time
	ExitTime       time.Time
	Quantity       float64
	StopLoss       float64
	TakeProfit     float64
	PnL            float64
	Setup          string
	Screenshots    []string
	AccountBalance float64
}

// PnLValid reports whether the trade's realized P&L parsed to a real number.
// Trades with invalid P&L are excluded from every ratio statistic but still
// occupy their position in the streak scan.
func (t Trade) PnLValid() bool {
	return !math.IsNaN(t.PnL) && !math.IsInf(t.PnL, 0)
}

// HasStopLoss reports whether a stop-loss price is present.
func (t Trade) HasStopLoss() bool {
	return !math.IsNaN(t.StopLoss) && t.StopLoss > 0
}

// HasAccountBalance reports whether the trade carries its own account
// balance snapshot.
func (t Trade) HasAccountBalance() bool {
	return !math.IsNaN(t.AccountBalance) && t.AccountBalance > 0
}

// JournalEntry represents one journaling session. The analytics engine
// treats entries as read-only input; they are created and deleted only by
// the storage layer's caller.
type JournalEntry struct {
	ID            string
	CreatedAt     time.Time
	Session       SessionType
	Emotion       string
	EmotionDetail string
	Notes         string

	// Outcome is set on post-session entries only.
	Outcome Outcome

	FollowedRules []string

	// Mistakes is non-empty only when Session is post and Outcome is loss.
	Mistakes []string

	// PreTradingActivities is set on pre-session entries only.
	PreTradingActivities []string

	Trades []Trade
}

// IsLossSession reports whether the entry is a post-session loss, the only
// kind of entry that contributes mistake tags.
func (e JournalEntry) IsLossSession() bool {
	return e.Session == SessionPost && e.Outcome == OutcomeLoss
}

// HasJournalingData reports whether the entry carries journaling content
// beyond its trades. Entries with zero trades are still retained when this
// is true, since they feed emotion and journaling-streak statistics.
func (e JournalEntry) HasJournalingData() bool {
	return e.Emotion != "" || e.Notes != ""
}
