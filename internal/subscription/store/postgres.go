package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"newsletter/internal/subscription/models"
	"newsletter/pkg/domain"
	"newsletter/pkg/platform/sentinel"
)

// uniqueViolation is the Postgres error code for unique constraint violations.
const uniqueViolation = "23505"

// PostgresStore reads and mutates subscribers outside a transaction.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed subscription store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) FindSubscriberIDByToken(ctx context.Context, token string) (domain.SubscriberID, error) {
	var raw uuid.UUID
	row := s.db.QueryRowContext(ctx,
		`SELECT subscriber_id FROM subscription_tokens WHERE token = $1`, token)
	if err := row.Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.SubscriberID{}, fmt.Errorf("token not known: %w", sentinel.ErrNotFound)
		}
		return domain.SubscriberID{}, classify("find subscriber by token", err)
	}
	return domain.SubscriberID(raw), nil
}

func (s *PostgresStore) ConfirmSubscriber(ctx context.Context, id domain.SubscriberID) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE subscriptions SET status = 'confirmed' WHERE id = $1`, uuid.UUID(id))
	if err != nil {
		return classify("confirm subscriber", err)
	}
	return nil
}

// PostgresTxStore is the transactional write surface. Construct one per
// transaction with NewPostgresTx; both inserts run on the same *sql.Tx.
type PostgresTxStore struct {
	tx *sql.Tx
}

// NewPostgresTx wraps an open transaction as a TxStore.
func NewPostgresTx(tx *sql.Tx) *PostgresTxStore {
	return &PostgresTxStore{tx: tx}
}

func (s *PostgresTxStore) InsertSubscriber(ctx context.Context, sub models.NewSubscriber) (domain.SubscriberID, error) {
	id := domain.NewSubscriberID()
	_, err := s.tx.ExecContext(ctx,
		`INSERT INTO subscriptions (id, email, name, subscribed_at, status)
		 VALUES ($1, $2, $3, $4, $5)`,
		uuid.UUID(id), sub.Email.String(), sub.Name.String(), time.Now().UTC(), string(models.StatusPending))
	if err != nil {
		return domain.SubscriberID{}, classify("insert subscriber", err)
	}
	return id, nil
}

func (s *PostgresTxStore) StoreToken(ctx context.Context, id domain.SubscriberID, token string) error {
	_, err := s.tx.ExecContext(ctx,
		`INSERT INTO subscription_tokens (token, subscriber_id) VALUES ($1, $2)`,
		token, uuid.UUID(id))
	if err != nil {
		return classify("store token", err)
	}
	return nil
}

// classify maps driver errors onto the store's sentinel contract. Unique
// constraint violations become ErrConflict; everything else is treated as the
// store being unavailable.
func classify(op string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return fmt.Errorf("%s: %v: %w", op, err, sentinel.ErrConflict)
	}
	return fmt.Errorf("%s: %v: %w", op, err, sentinel.ErrUnavailable)
}
