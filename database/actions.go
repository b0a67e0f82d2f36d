package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	_ "github.com/lib/pq"

	"github.com/Uday261104/lms-v2/config"
	"github.com/Uday261104/lms-v2/model"
)

// ErrActionNotFound is returned when no notification action exists for an id.
var ErrActionNotFound = errors.New("notification action not found")

// ActionStore reads the notification_actions table through plain SQL. The
// table is shared with external tooling, so it is queried directly rather
// than through the ORM.
type ActionStore struct {
	db *sql.DB
}

// OpenActionStore opens a dedicated database/sql connection for the
// notification action table.
func OpenActionStore() (*ActionStore, error) {
	getEnv, err := config.Get()
	if err != nil {
		return nil, err
	}

	connectStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		getEnv.DB_HOST,
		getEnv.DB_PORT,
		getEnv.DB_USER_NAME,
		getEnv.DB_PASSWORD,
		getEnv.DB_NAME,
		getEnv.DB_SSL_MODE,
	)

	db, err := sql.Open("postgres", connectStr)
	if err != nil {
		return nil, err
	}

	log.Println("Successfully connected notification action store.")
	return &ActionStore{db: db}, nil
}

// NewActionStore wraps an existing connection, used by tests.
func NewActionStore(db *sql.DB) *ActionStore {
	return &ActionStore{db: db}
}

// FindAction loads the (message, email_subject, email_body) triple for an id.
func (s *ActionStore) FindAction(ctx context.Context, id int64) (*model.NotificationAction, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT message, email_subject, email_body FROM notification_actions WHERE id = $1",
		id,
	)

	action := model.NotificationAction{ID: id}
	var subject, body sql.NullString
	if err := row.Scan(&action.Message, &subject, &body); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrActionNotFound
		}
		return nil, fmt.Errorf("query notification action %d: %w", id, err)
	}

	action.EmailSubject = subject.String
	action.EmailBody = body.String
	return &action, nil
}

// Close closes the store's connection.
func (s *ActionStore) Close() error {
	return s.db.Close()
}
