package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dataSourceName string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err = db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err = store.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	schema := `
    CREATE TABLE IF NOT EXISTS conversations (
        id TEXT PRIMARY KEY, -- UUID
        context TEXT NOT NULL DEFAULT '',
        created_at DATETIME NOT NULL,
        updated_at DATETIME NOT NULL
    );

    CREATE TABLE IF NOT EXISTS turns (
        id INTEGER PRIMARY KEY AUTOINCREMENT, -- defines append order
        conversation_id TEXT NOT NULL,
        role TEXT NOT NULL CHECK (role IN ('user', 'assistant')),
        content TEXT NOT NULL,
        timestamp DATETIME NOT NULL,
        FOREIGN KEY (conversation_id) REFERENCES conversations (id)
    );

    CREATE INDEX IF NOT EXISTS idx_turns_conversation ON turns (conversation_id, id);
    `
	_, err := s.db.Exec(schema)
	return err
}

// GetConversation returns the conversation with its turns in append order,
// or nil if the identifier is unknown.
func (s *SQLiteStore) GetConversation(conversationID string) (*Conversation, error) {
	var conv Conversation
	err := s.db.QueryRow(
		"SELECT id, context, created_at, updated_at FROM conversations WHERE id = ?",
		conversationID,
	).Scan(&conv.ID, &conv.Context, &conv.CreatedAt, &conv.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to query conversation: %w", err)
	}

	rows, err := s.db.Query(
		"SELECT role, content, timestamp FROM turns WHERE conversation_id = ? ORDER BY id ASC",
		conversationID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query turns: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var turn Turn
		if err := rows.Scan(&turn.Role, &turn.Content, &turn.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan turn row: %w", err)
		}
		conv.Turns = append(conv.Turns, turn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate turn rows: %w", err)
	}
	return &conv, nil
}

// SaveExchange appends a user/assistant turn pair and the latest retrieval
// context to the conversation, creating it if absent. The write is
// transactional and refreshes updated_at.
func (s *SQLiteStore) SaveExchange(conversationID string, userTurn, assistantTurn Turn, context string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	_, err = tx.Exec(`
        INSERT INTO conversations (id, context, created_at, updated_at) VALUES (?, ?, ?, ?)
        ON CONFLICT(id) DO UPDATE SET context = excluded.context, updated_at = excluded.updated_at`,
		conversationID, context, now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert conversation: %w", err)
	}

	for _, turn := range []Turn{userTurn, assistantTurn} {
		_, err = tx.Exec(
			"INSERT INTO turns (conversation_id, role, content, timestamp) VALUES (?, ?, ?, ?)",
			conversationID, turn.Role, turn.Content, turn.Timestamp,
		)
		if err != nil {
			return fmt.Errorf("failed to insert %s turn: %w", turn.Role, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit exchange: %w", err)
	}
	return nil
}

// ListConversations returns summaries sorted by most recently updated, each
// with the first user message as a preview.
func (s *SQLiteStore) ListConversations() ([]ConversationSummary, error) {
	rows, err := s.db.Query(`
        SELECT c.id, c.created_at, c.updated_at,
               COALESCE((SELECT t.content FROM turns t WHERE t.conversation_id = c.id ORDER BY t.id ASC LIMIT 1), '')
        FROM conversations c
        ORDER BY c.updated_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query conversations: %w", err)
	}
	defer rows.Close()

	var summaries []ConversationSummary
	for rows.Next() {
		var summary ConversationSummary
		if err := rows.Scan(&summary.ID, &summary.CreatedAt, &summary.UpdatedAt, &summary.Preview); err != nil {
			return nil, fmt.Errorf("failed to scan conversation row: %w", err)
		}
		summaries = append(summaries, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate conversation rows: %w", err)
	}
	return summaries, nil
}
