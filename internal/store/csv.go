package store

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gocarina/gocsv"

	"tradejournal/internal/models"
	"tradejournal/internal/normalize"
)

// csvRow is the flat import/export format: one row per trade, with the
// owning entry's columns repeated. Entries without trades occupy one row
// with the trade columns blank. Numeric trade columns stay strings here;
// coercion is normalize's job, so CSV imports get the same valid/invalid
// classification as every other source.
type csvRow struct {
	EntryID       string `csv:"entry_id"`
	CreatedAt     string `csv:"created_at"`
	Session       string `csv:"session_type"`
	Emotion       string `csv:"emotion"`
	EmotionDetail string `csv:"emotion_detail"`
	Notes         string `csv:"notes"`
	Outcome       string `csv:"outcome"`
	FollowedRules string `csv:"followed_rules"`
	Mistakes      string `csv:"mistakes"`
	PreActivities string `csv:"pre_trading_activities"`

	TradeID        string `csv:"trade_id"`
	Symbol         string `csv:"symbol"`
	Direction      string `csv:"direction"`
	EntryPrice     string `csv:"entry_price"`
	ExitPrice      string `csv:"exit_price"`
	EntryTime      string `csv:"entry_time"`
	ExitTime       string `csv:"exit_time"`
	Quantity       string `csv:"quantity"`
	StopLoss       string `csv:"stop_loss"`
	TakeProfit     string `csv:"take_profit"`
	PnL            string `csv:"pnl"`
	Setup          string `csv:"setup"`
	AccountBalance string `csv:"account_balance"`
}

// ImportCSV reads the flat CSV format into raw entries ready for
// normalization. Rows sharing an entry_id fold into one entry.
func ImportCSV(r io.Reader) ([]normalize.RawEntry, error) {
	var rows []*csvRow
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	byID := make(map[string]*normalize.RawEntry)
	var order []string

	for _, row := range rows {
		if row.EntryID == "" {
			continue
		}
		entry, ok := byID[row.EntryID]
		if !ok {
			entry = &normalize.RawEntry{
				ID:                   row.EntryID,
				CreatedAt:            row.CreatedAt,
				Session:              row.Session,
				Emotion:              row.Emotion,
				EmotionDetail:        row.EmotionDetail,
				Notes:                row.Notes,
				Outcome:              row.Outcome,
				FollowedRules:        splitTags(row.FollowedRules),
				Mistakes:             splitTags(row.Mistakes),
				PreTradingActivities: splitTags(row.PreActivities),
			}
			byID[row.EntryID] = entry
			order = append(order, row.EntryID)
		}

		if row.TradeID == "" && row.Symbol == "" {
			continue
		}
		entry.Trades = append(entry.Trades, normalize.RawTrade{
			ID:             row.TradeID,
			Symbol:         row.Symbol,
			Direction:      row.Direction,
			EntryPrice:     row.EntryPrice,
			ExitPrice:      row.ExitPrice,
			EntryTime:      row.EntryTime,
			ExitTime:       row.ExitTime,
			Quantity:       row.Quantity,
			StopLoss:       row.StopLoss,
			TakeProfit:     row.TakeProfit,
			PnL:            row.PnL,
			Setup:          row.Setup,
			AccountBalance: row.AccountBalance,
		})
	}

	out := make([]normalize.RawEntry, 0, len(order))
	for _, eid := range order {
		out = append(out, *byID[eid])
	}
	return out, nil
}

// ExportCSV writes entries in the flat CSV format.
func ExportCSV(w io.Writer, entries []models.JournalEntry) error {
	var rows []*csvRow
	for _, e := range entries {
		base := csvRow{
			EntryID:       e.ID,
			CreatedAt:     e.CreatedAt.Format(time.RFC3339),
			Session:       string(e.Session),
			Emotion:       e.Emotion,
			EmotionDetail: e.EmotionDetail,
			Notes:         e.Notes,
			Outcome:       string(e.Outcome),
			FollowedRules: joinTags(e.FollowedRules),
			Mistakes:      joinTags(e.Mistakes),
			PreActivities: joinTags(e.PreTradingActivities),
		}

		if len(e.Trades) == 0 {
			row := base
			rows = append(rows, &row)
			continue
		}
		for _, t := range e.Trades {
			row := base
			row.TradeID = t.ID
			row.Symbol = t.Symbol
			row.Direction = string(t.Direction)
			row.EntryPrice = formatFloat(t.EntryPrice)
			row.ExitPrice = formatFloat(t.ExitPrice)
			row.EntryTime = t.EntryTime.Format(time.RFC3339)
			if !t.ExitTime.IsZero() {
				row.ExitTime = t.ExitTime.Format(time.RFC3339)
			}
			row.Quantity = formatFloat(t.Quantity)
			row.StopLoss = formatFloat(t.StopLoss)
			row.TakeProfit = formatFloat(t.TakeProfit)
			row.PnL = formatFloat(t.PnL)
			row.Setup = t.Setup
			row.AccountBalance = formatFloat(t.AccountBalance)
			rows = append(rows, &row)
		}
	}
	return gocsv.Marshal(&rows, w)
}

func splitTags(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ";")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func joinTags(tags []string) string {
	return strings.Join(tags, ";")
}

func formatFloat(f float64) string {
	if f != f { // NaN: the invalid marker exports as blank
		return ""
	}
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.5f", f), "0"), ".")
}
