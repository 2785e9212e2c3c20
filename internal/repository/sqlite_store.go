package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"fitzone-api/internal/domain"
)

// SQLiteStore implements the same operations as Client on a local SQLite
// file, for running the API without AWS.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteStore opens (or creates) the database at path. Use ":memory:"
// for a throwaway store.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("repository: open sqlite: %w", err)
	}
	// One connection keeps ":memory:" databases shared and serializes writers.
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db, now: time.Now}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("repository: init sqlite schema: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	schema := `
    CREATE TABLE IF NOT EXISTS faqs (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        question TEXT NOT NULL,
        answer TEXT NOT NULL,
        category TEXT NOT NULL DEFAULT ''
    );

    CREATE TABLE IF NOT EXISTS catalog (
        kind TEXT NOT NULL,
        name TEXT NOT NULL,
        data TEXT NOT NULL,
        PRIMARY KEY (kind, name)
    );

    CREATE TABLE IF NOT EXISTS profiles (
        profile_key TEXT PRIMARY KEY,
        data TEXT NOT NULL,
        submitted_at DATETIME NOT NULL
    );

    CREATE TABLE IF NOT EXISTS meal_plans (
        profile_key TEXT PRIMARY KEY,
        data TEXT NOT NULL
    );

    CREATE TABLE IF NOT EXISTS conversations (
        conversation_id TEXT PRIMARY KEY,
        turns INTEGER NOT NULL,
        last_activity DATETIME NOT NULL
    );

    CREATE TABLE IF NOT EXISTS messages (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        conversation_id TEXT NOT NULL,
        message_id TEXT NOT NULL,
        role TEXT NOT NULL,
        text TEXT NOT NULL,
        FOREIGN KEY (conversation_id) REFERENCES conversations(conversation_id) ON DELETE CASCADE
    );

    CREATE INDEX IF NOT EXISTS idx_faqs_question ON faqs(question);
    CREATE INDEX IF NOT EXISTS idx_messages_conversation ON messages(conversation_id);
    `
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) ListFAQs(ctx context.Context) ([]domain.KnowledgeEntry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT question, answer, category FROM faqs ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("repository: ListFAQs: %w", err)
	}
	defer rows.Close()

	var faqs []domain.KnowledgeEntry
	for rows.Next() {
		var f domain.KnowledgeEntry
		if err := rows.Scan(&f.Question, &f.Answer, &f.Category); err != nil {
			return nil, fmt.Errorf("repository: ListFAQs scan: %w", err)
		}
		faqs = append(faqs, f)
	}
	return faqs, rows.Err()
}

func (s *SQLiteStore) GetFAQ(ctx context.Context, question string) (domain.KnowledgeEntry, error) {
	var f domain.KnowledgeEntry
	err := s.db.QueryRowContext(ctx,
		`SELECT question, answer, category FROM faqs WHERE question = ? ORDER BY id LIMIT 1`, question,
	).Scan(&f.Question, &f.Answer, &f.Category)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.KnowledgeEntry{}, fmt.Errorf("repository: GetFAQ %q: %w", question, ErrNotFound)
	}
	if err != nil {
		return domain.KnowledgeEntry{}, fmt.Errorf("repository: GetFAQ: %w", err)
	}
	return f, nil
}

func (s *SQLiteStore) AddFAQ(ctx context.Context, faq domain.KnowledgeEntry) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO faqs (question, answer, category) VALUES (?, ?, ?)`,
		faq.Question, faq.Answer, faq.Category)
	if err != nil {
		return fmt.Errorf("repository: AddFAQ: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ListGymLocations(ctx context.Context) ([]domain.GymLocation, error) {
	return listCatalog[domain.GymLocation](ctx, s, pkGym)
}

func (s *SQLiteStore) GetGymLocation(ctx context.Context, name string) (domain.GymLocation, error) {
	var g domain.GymLocation
	return g, s.getCatalog(ctx, pkGym, name, &g)
}

func (s *SQLiteStore) AddGymLocation(ctx context.Context, loc domain.GymLocation) error {
	return s.putCatalog(ctx, pkGym, loc.Name, loc)
}

func (s *SQLiteStore) ListEquipment(ctx context.Context) ([]domain.Equipment, error) {
	return listCatalog[domain.Equipment](ctx, s, pkEquipment)
}

func (s *SQLiteStore) GetEquipment(ctx context.Context, name string) (domain.Equipment, error) {
	var e domain.Equipment
	return e, s.getCatalog(ctx, pkEquipment, name, &e)
}

func (s *SQLiteStore) AddEquipment(ctx context.Context, item domain.Equipment) error {
	return s.putCatalog(ctx, pkEquipment, item.Name, item)
}

func (s *SQLiteStore) ListWorkouts(ctx context.Context) ([]domain.Workout, error) {
	return listCatalog[domain.Workout](ctx, s, pkWorkout)
}

func (s *SQLiteStore) GetWorkout(ctx context.Context, name string) (domain.Workout, error) {
	var w domain.Workout
	return w, s.getCatalog(ctx, pkWorkout, name, &w)
}

func (s *SQLiteStore) AddWorkout(ctx context.Context, w domain.Workout) error {
	return s.putCatalog(ctx, pkWorkout, w.Name, w)
}

func listCatalog[T any](ctx context.Context, s *SQLiteStore, kind string) ([]T, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT data FROM catalog WHERE kind = ? ORDER BY name`, kind)
	if err != nil {
		return nil, fmt.Errorf("repository: list %s: %w", kind, err)
	}
	defer rows.Close()

	var items []T
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("repository: list %s scan: %w", kind, err)
		}
		var item T
		if err := json.Unmarshal([]byte(data), &item); err != nil {
			return nil, fmt.Errorf("repository: list %s decode: %w", kind, err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (s *SQLiteStore) getCatalog(ctx context.Context, kind, name string, v any) error {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT data FROM catalog WHERE kind = ? AND name = ?`, kind, name).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("repository: get %s %q: %w", kind, name, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("repository: get %s: %w", kind, err)
	}
	if err := json.Unmarshal([]byte(data), v); err != nil {
		return fmt.Errorf("repository: get %s decode: %w", kind, err)
	}
	return nil
}

func (s *SQLiteStore) putCatalog(ctx context.Context, kind, name string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("repository: put %s encode: %w", kind, err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO catalog (kind, name, data) VALUES (?, ?, ?)
         ON CONFLICT(kind, name) DO UPDATE SET data = excluded.data`,
		kind, name, string(data))
	if err != nil {
		return fmt.Errorf("repository: put %s: %w", kind, err)
	}
	return nil
}

func (s *SQLiteStore) SubmitProfile(ctx context.Context, key string, profile domain.UserProfile) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("repository: SubmitProfile encode: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO profiles (profile_key, data, submitted_at) VALUES (?, ?, ?)
         ON CONFLICT(profile_key) DO UPDATE SET data = excluded.data, submitted_at = excluded.submitted_at`,
		key, string(data), s.now().UTC())
	if err != nil {
		return fmt.Errorf("repository: SubmitProfile: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetMealPlan(ctx context.Context, key string) (domain.DailyMealPlan, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT data FROM meal_plans WHERE profile_key = ?`, key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.DailyMealPlan{}, fmt.Errorf("repository: GetMealPlan %q: %w", key, ErrNotFound)
	}
	if err != nil {
		return domain.DailyMealPlan{}, fmt.Errorf("repository: GetMealPlan: %w", err)
	}
	var plan domain.DailyMealPlan
	if err := json.Unmarshal([]byte(data), &plan); err != nil {
		return domain.DailyMealPlan{}, fmt.Errorf("repository: GetMealPlan decode: %w", err)
	}
	return plan, nil
}

func (s *SQLiteStore) PutMealPlan(ctx context.Context, key string, plan domain.DailyMealPlan) error {
	data, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("repository: PutMealPlan encode: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO meal_plans (profile_key, data) VALUES (?, ?)
         ON CONFLICT(profile_key) DO UPDATE SET data = excluded.data`,
		key, string(data))
	if err != nil {
		return fmt.Errorf("repository: PutMealPlan: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetConversationTurnCount(ctx context.Context, conversationID string) (int, error) {
	var turns int
	err := s.db.QueryRowContext(ctx, `SELECT turns FROM conversations WHERE conversation_id = ?`, conversationID).Scan(&turns)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("repository: GetConversationTurnCount: %w", err)
	}
	return turns, nil
}

// GetTranscript returns up to limit of the most recent messages, oldest first.
func (s *SQLiteStore) GetTranscript(ctx context.Context, conversationID string, limit int) ([]domain.ChatMessage, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
        SELECT message_id, role, text FROM (
            SELECT id, message_id, role, text FROM messages
            WHERE conversation_id = ?
            ORDER BY id DESC LIMIT ?
        ) ORDER BY id`, conversationID, limit)
	if err != nil {
		return nil, fmt.Errorf("repository: GetTranscript: %w", err)
	}
	defer rows.Close()

	var msgs []domain.ChatMessage
	for rows.Next() {
		var m domain.ChatMessage
		var role string
		if err := rows.Scan(&m.ID, &role, &m.Text); err != nil {
			return nil, fmt.Errorf("repository: GetTranscript scan: %w", err)
		}
		m.Role = domain.Role(role)
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

func (s *SQLiteStore) AppendTurn(ctx context.Context, conversationID string, user, bot domain.ChatMessage, turns int) error {
	if conversationID == "" {
		return errors.New("repository: AppendTurn: conversation id is required")
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("repository: AppendTurn begin: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO conversations (conversation_id, turns, last_activity) VALUES (?, ?, ?)
         ON CONFLICT(conversation_id) DO UPDATE SET turns = excluded.turns, last_activity = excluded.last_activity
         WHERE conversations.turns < excluded.turns`,
		conversationID, turns, s.now().UTC())
	if err != nil {
		return fmt.Errorf("repository: AppendTurn meta: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("repository: AppendTurn %q turn %d: %w", conversationID, turns, ErrTurnConflict)
	}
	for _, m := range []domain.ChatMessage{user, bot} {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO messages (conversation_id, message_id, role, text) VALUES (?, ?, ?, ?)`,
			conversationID, m.ID, string(m.Role), m.Text)
		if err != nil {
			return fmt.Errorf("repository: AppendTurn message: %w", err)
		}
	}
	return tx.Commit()
}
