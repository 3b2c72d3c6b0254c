package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	errs "tradejournal/internal/errors"
	"tradejournal/internal/models"
)

// SQLiteStore implements DataStore using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite-based data store.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, errs.NewStoreError("init schema", err)
	}
	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	-- Journal entries (one row per journaling session)
	CREATE TABLE IF NOT EXISTS entries (
		id TEXT PRIMARY KEY,
		created_at DATETIME NOT NULL,
		session TEXT NOT NULL,
		emotion TEXT,
		emotion_detail TEXT,
		notes TEXT,
		outcome TEXT,
		followed_rules TEXT,
		mistakes TEXT,
		pre_activities TEXT
	);

	-- Trades, each owned by exactly one entry
	CREATE TABLE IF NOT EXISTS trades (
		id TEXT PRIMARY KEY,
		entry_id TEXT NOT NULL,
		symbol TEXT,
		direction TEXT,
		entry_price REAL,
		exit_price REAL,
		entry_time DATETIME,
		exit_time DATETIME,
		quantity REAL,
		stop_loss REAL,
		take_profit REAL,
		pnl REAL,
		setup TEXT,
		screenshots TEXT,
		account_balance REAL,
		FOREIGN KEY (entry_id) REFERENCES entries(id) ON DELETE CASCADE
	);

	-- Append-only notification log
	CREATE TABLE IF NOT EXISTS notifications (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		message TEXT,
		severity TEXT NOT NULL,
		read INTEGER DEFAULT 0,
		created_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_entries_created ON entries(created_at);
	CREATE INDEX IF NOT EXISTS idx_trades_entry ON trades(entry_id);
	CREATE INDEX IF NOT EXISTS idx_notifications_title ON notifications(title, created_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// SaveEntry upserts an entry and replaces its embedded trades.
func (s *SQLiteStore) SaveEntry(ctx context.Context, entry models.JournalEntry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT OR REPLACE INTO entries
		(id, created_at, session, emotion, emotion_detail, notes, outcome, followed_rules, mistakes, pre_activities)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.CreatedAt, string(entry.Session), entry.Emotion, entry.EmotionDetail,
		entry.Notes, string(entry.Outcome),
		marshalTags(entry.FollowedRules), marshalTags(entry.Mistakes), marshalTags(entry.PreTradingActivities),
	)
	if err != nil {
		return fmt.Errorf("save entry: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM trades WHERE entry_id = ?`, entry.ID); err != nil {
		return fmt.Errorf("replace trades: %w", err)
	}
	for _, t := range entry.Trades {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO trades
			(id, entry_id, symbol, direction, entry_price, exit_price, entry_time, exit_time,
			 quantity, stop_loss, take_profit, pnl, setup, screenshots, account_balance)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			t.ID, entry.ID, t.Symbol, string(t.Direction),
			nullable(t.EntryPrice), nullable(t.ExitPrice),
			t.EntryTime, nullableTime(t.ExitTime),
			nullable(t.Quantity), nullable(t.StopLoss), nullable(t.TakeProfit), nullable(t.PnL),
			t.Setup, marshalTags(t.Screenshots), nullable(t.AccountBalance),
		)
		if err != nil {
			return fmt.Errorf("save trade: %w", err)
		}
	}

	return tx.Commit()
}

// GetEntries returns entries matching the filter, trades embedded, ordered
// by creation time ascending.
func (s *SQLiteStore) GetEntries(ctx context.Context, filter EntryFilter) ([]models.JournalEntry, error) {
	query := `SELECT id, created_at, session, emotion, emotion_detail, notes, outcome,
		followed_rules, mistakes, pre_activities FROM entries WHERE 1=1`
	var args []interface{}

	if !filter.StartDate.IsZero() {
		query += " AND created_at >= ?"
		args = append(args, filter.StartDate)
	}
	if !filter.EndDate.IsZero() {
		query += " AND created_at < ?"
		args = append(args, filter.EndDate)
	}
	if filter.Session != "" {
		query += " AND session = ?"
		args = append(args, string(filter.Session))
	}
	query += " ORDER BY created_at ASC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errs.NewStoreError("query entries", err)
	}
	defer rows.Close()

	var entries []models.JournalEntry
	var ids []string
	for rows.Next() {
		var e models.JournalEntry
		var session, outcome string
		var followed, mistakes, activities sql.NullString
		if err := rows.Scan(&e.ID, &e.CreatedAt, &session, &e.Emotion, &e.EmotionDetail,
			&e.Notes, &outcome, &followed, &mistakes, &activities); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		e.Session = models.SessionType(session)
		e.Outcome = models.Outcome(outcome)
		e.FollowedRules = unmarshalTags(followed)
		e.Mistakes = unmarshalTags(mistakes)
		e.PreTradingActivities = unmarshalTags(activities)
		entries = append(entries, e)
		ids = append(ids, e.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return entries, nil
	}

	trades, err := s.tradesFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range entries {
		entries[i].Trades = trades[entries[i].ID]
	}
	return entries, nil
}

func (s *SQLiteStore) tradesFor(ctx context.Context, entryIDs []string) (map[string][]models.Trade, error) {
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(entryIDs)), ",")
	args := make([]interface{}, len(entryIDs))
	for i, id := range entryIDs {
		args[i] = id
	}

	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT id, entry_id, symbol, direction, entry_price, exit_price, entry_time, exit_time,
		       quantity, stop_loss, take_profit, pnl, setup, screenshots, account_balance
		FROM trades WHERE entry_id IN (%s)
		ORDER BY entry_time ASC`, placeholders), args...)
	if err != nil {
		return nil, fmt.Errorf("query trades: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]models.Trade)
	for rows.Next() {
		var t models.Trade
		var entryID, direction string
		var exitTime sql.NullTime
		var entryPrice, exitPrice, quantity, stopLoss, takeProfit, pnl, balance sql.NullFloat64
		var screenshots sql.NullString
		if err := rows.Scan(&t.ID, &entryID, &t.Symbol, &direction,
			&entryPrice, &exitPrice, &t.EntryTime, &exitTime,
			&quantity, &stopLoss, &takeProfit, &pnl, &t.Setup, &screenshots, &balance); err != nil {
			return nil, fmt.Errorf("scan trade: %w", err)
		}
		t.Direction = models.Direction(direction)
		t.EntryPrice = floatOrNaN(entryPrice)
		t.ExitPrice = floatOrNaN(exitPrice)
		t.Quantity = floatOrNaN(quantity)
		t.StopLoss = floatOrNaN(stopLoss)
		t.TakeProfit = floatOrNaN(takeProfit)
		t.PnL = floatOrNaN(pnl)
		t.AccountBalance = floatOrNaN(balance)
		t.Screenshots = unmarshalTags(screenshots)
		if exitTime.Valid {
			t.ExitTime = exitTime.Time
		}
		out[entryID] = append(out[entryID], t)
	}
	return out, rows.Err()
}

// DeleteEntry removes an entry and its trades.
func (s *SQLiteStore) DeleteEntry(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM trades WHERE entry_id = ?`, id); err != nil {
		return fmt.Errorf("delete trades: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM entries WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	return tx.Commit()
}

// AppendNotifications appends to the notification log.
func (s *SQLiteStore) AppendNotifications(ctx context.Context, notifications []models.Notification) error {
	for _, n := range notifications {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO notifications (id, title, message, severity, read, created_at)
			VALUES (?, ?, ?, ?, ?, ?)`,
			n.ID, n.Title, n.Message, string(n.Severity), boolToInt(n.Read), n.CreatedAt,
		)
		if err != nil {
			return errs.NewStoreError("append notification", err)
		}
	}
	return nil
}

// GetNotifications returns log rows matching the filter, newest first.
func (s *SQLiteStore) GetNotifications(ctx context.Context, filter NotificationFilter) ([]models.Notification, error) {
	query := `SELECT id, title, message, severity, read, created_at FROM notifications WHERE 1=1`
	var args []interface{}

	if filter.Title != "" {
		query += " AND title = ?"
		args = append(args, filter.Title)
	}
	if !filter.Since.IsZero() {
		query += " AND created_at >= ?"
		args = append(args, filter.Since)
	}
	if filter.UnreadOnly {
		query += " AND read = 0"
	}
	query += " ORDER BY created_at DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query notifications: %w", err)
	}
	defer rows.Close()

	var out []models.Notification
	for rows.Next() {
		var n models.Notification
		var severity string
		var read int
		if err := rows.Scan(&n.ID, &n.Title, &n.Message, &severity, &read, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		n.Severity = models.Severity(severity)
		n.Read = read != 0
		out = append(out, n)
	}
	return out, rows.Err()
}

// MarkNotificationRead flips the read flag; the only permitted mutation of
// an existing log row.
func (s *SQLiteStore) MarkNotificationRead(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE notifications SET read = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("mark read: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("notification %q: %w", id, errs.ErrDataNotFound)
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// nullable maps NaN to NULL so invalid markers survive a round trip without
// collapsing to 0.
func nullable(f float64) interface{} {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return f
}

func nullableTime(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t
}

func floatOrNaN(f sql.NullFloat64) float64 {
	if !f.Valid {
		return math.NaN()
	}
	return f.Float64
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func marshalTags(tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return ""
	}
	return string(b)
}

func unmarshalTags(s sql.NullString) []string {
	if !s.Valid || s.String == "" {
		return nil
	}
	var tags []string
	if err := json.Unmarshal([]byte(s.String), &tags); err != nil {
		return nil
	}
	return tags
}
