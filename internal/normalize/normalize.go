// Package normalize validates and coerces raw journal records into typed,
// analysis-ready values. Raw records come from the external fetch boundary
// with loosely-typed numerics (JSON string-or-number); normalization is the
// single place where "valid vs. invalid" is decided, so every downstream
// statistic filters on the same classification.
package normalize

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	errs "tradejournal/internal/errors"
	"tradejournal/internal/models"
)

// RawTrade is a trade record as fetched from storage, before coercion.
// Numeric fields are interface{} because upstream records mix numbers,
// numeric strings, and nulls.
type RawTrade struct {
	ID             string      `json:"id"`
	Symbol         string      `json:"symbol"`
	Direction      string      `json:"direction"`
	EntryPrice     interface{} `json:"entryPrice"`
	ExitPrice      interface{} `json:"exitPrice"`
	EntryTime      string      `json:"entryDate"`
	ExitTime       string      `json:"exitDate"`
	Quantity       interface{} `json:"quantity"`
	StopLoss       interface{} `json:"stopLoss"`
	TakeProfit     interface{} `json:"takeProfit"`
	PnL            interface{} `json:"pnl"`
	Setup          string      `json:"setup"`
	Screenshots    []string    `json:"screenshots"`
	AccountBalance interface{} `json:"accountBalance"`
}

// RawEntry is a journaling session record before coercion.
type RawEntry struct {
	ID                   string     `json:"id"`
	CreatedAt            string     `json:"createdAt"`
	Session              string     `json:"sessionType"`
	Emotion              string     `json:"emotion"`
	EmotionDetail        string     `json:"emotionDetail"`
	Notes                string     `json:"notes"`
	Outcome              string     `json:"outcome"`
	FollowedRules        []string   `json:"followedRules"`
	Mistakes             []string   `json:"mistakes"`
	PreTradingActivities []string   `json:"preTradingActivities"`
	Trades               []RawTrade `json:"trades"`
}

// Entries normalizes a heterogeneous collection of raw entries. Trades
// whose entry price or quantity fails numeric coercion are dropped; trades
// whose pnl fails coercion are kept with a NaN sentinel so ratio statistics
// can exclude them without losing their position in the streak scan.
// Entries with zero surviving trades are retained when they still carry
// journaling data. No error escapes: malformed records degrade, never abort.
func Entries(raw []RawEntry) []models.JournalEntry {
	out, _ := EntriesReport(raw)
	return out
}

// EntriesReport is Entries plus a report of every record it dropped, for
// logging at the import boundary. Drops never abort the batch.
func EntriesReport(raw []RawEntry) ([]models.JournalEntry, []*errs.RecordError) {
	out := make([]models.JournalEntry, 0, len(raw))
	var dropped []*errs.RecordError
	for _, re := range raw {
		createdAt, ok := parseTime(re.CreatedAt)
		if !ok {
			// An entry without a usable timestamp cannot feed any
			// time-scoped statistic.
			dropped = append(dropped, errs.NewRecordError(re.ID, "createdAt", re.CreatedAt, nil))
			continue
		}

		e := models.JournalEntry{
			ID:            re.ID,
			CreatedAt:     createdAt,
			Session:       models.SessionType(strings.ToLower(re.Session)),
			Emotion:       re.Emotion,
			EmotionDetail: re.EmotionDetail,
			Notes:         re.Notes,
			Outcome:       models.Outcome(strings.ToLower(re.Outcome)),
			FollowedRules: re.FollowedRules,
		}

		// Tag sets are coerced to honor the session invariants: mistakes
		// belong to post-session losses, pre-trading activities to
		// pre-sessions.
		if e.IsLossSession() {
			e.Mistakes = re.Mistakes
		}
		if e.Session == models.SessionPre {
			e.PreTradingActivities = re.PreTradingActivities
		}

		for _, rt := range re.Trades {
			t, ok := trade(rt, createdAt)
			if !ok {
				dropped = append(dropped, errs.NewRecordError(rt.ID, "entryPrice/quantity", nil, nil))
				continue
			}
			e.Trades = append(e.Trades, t)
		}

		if len(e.Trades) == 0 && !e.HasJournalingData() {
			dropped = append(dropped, errs.NewRecordError(re.ID, "trades", nil, nil))
			continue
		}
		out = append(out, e)
	}
	return out, dropped
}

// trade coerces a single raw trade. The second return is false when the
// trade must be dropped (structurally unusable).
func trade(rt RawTrade, fallbackTime time.Time) (models.Trade, bool) {
	entryPrice := coerceFloat(rt.EntryPrice)
	quantity := coerceFloat(rt.Quantity)
	if !finite(entryPrice) || !finite(quantity) {
		return models.Trade{}, false
	}

	t := models.Trade{
		ID:             rt.ID,
		Symbol:         strings.ToUpper(strings.TrimSpace(rt.Symbol)),
		Direction:      models.Direction(strings.ToLower(rt.Direction)),
		EntryPrice:     entryPrice,
		ExitPrice:      coerceFloat(rt.ExitPrice),
		Quantity:       quantity,
		StopLoss:       coerceFloat(rt.StopLoss),
		TakeProfit:     coerceFloat(rt.TakeProfit),
		PnL:            coerceFloat(rt.PnL),
		Setup:          rt.Setup,
		Screenshots:    rt.Screenshots,
		AccountBalance: coerceFloat(rt.AccountBalance),
	}
	if math.IsInf(t.PnL, 0) {
		t.PnL = math.NaN()
	}

	if ts, ok := parseTime(rt.EntryTime); ok {
		t.EntryTime = ts
	} else {
		t.EntryTime = fallbackTime
	}
	if ts, ok := parseTime(rt.ExitTime); ok {
		t.ExitTime = ts
	}
	return t, true
}

// coerceFloat converts a loosely-typed numeric value to float64. Unparsable
// or absent values resolve to NaN, never to 0, so they cannot bias ratios.
func coerceFloat(v interface{}) float64 {
	switch x := v.(type) {
	case nil:
		return math.NaN()
	case float64:
		return x
	case float32:
		return float64(x)
	case int:
		return float64(x)
	case int64:
		return float64(x)
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return math.NaN()
		}
		return f
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return math.NaN()
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return math.NaN()
		}
		return f
	default:
		return math.NaN()
	}
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if ts, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}
