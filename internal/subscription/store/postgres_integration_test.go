//go:build integration

package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"newsletter/internal/subscription/models"
	"newsletter/internal/subscription/store"
	"newsletter/pkg/domain"
	"newsletter/pkg/platform/sentinel"
	"newsletter/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.Require().NoError(store.RunMigrations(context.Background(), s.postgres.DB))
	s.store = store.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	ctx := context.Background()
	// Truncate in dependency order
	s.Require().NoError(s.postgres.TruncateTables(ctx, "subscription_tokens", "subscriptions"))
}

func (s *PostgresStoreSuite) newSubscriber(emailAddr, name string) models.NewSubscriber {
	parsedEmail, err := domain.ParseSubscriberEmail(emailAddr)
	s.Require().NoError(err)
	parsedName, err := domain.ParseSubscriberName(name)
	s.Require().NoError(err)
	return models.NewSubscriber{Email: parsedEmail, Name: parsedName}
}

// signUp runs the insert+token pair in one transaction, mirroring the
// production transaction runner.
func (s *PostgresStoreSuite) signUp(emailAddr, name, token string) (domain.SubscriberID, error) {
	ctx := context.Background()
	tx, err := s.postgres.DB.BeginTx(ctx, nil)
	s.Require().NoError(err)
	defer func() { _ = tx.Rollback() }()

	txStore := store.NewPostgresTx(tx)
	id, err := txStore.InsertSubscriber(ctx, s.newSubscriber(emailAddr, name))
	if err != nil {
		return domain.SubscriberID{}, err
	}
	if err := txStore.StoreToken(ctx, id, token); err != nil {
		return domain.SubscriberID{}, err
	}
	return id, tx.Commit()
}

func (s *PostgresStoreSuite) TestSignUpRoundTrip() {
	ctx := context.Background()
	id, err := s.signUp("mail@marszy.com", "marcin", "integration-token-1")
	s.Require().NoError(err)

	found, err := s.store.FindSubscriberIDByToken(ctx, "integration-token-1")
	s.Require().NoError(err)
	s.Equal(id, found)

	var status, name string
	row := s.postgres.DB.QueryRowContext(ctx,
		`SELECT name, status FROM subscriptions WHERE email = $1`, "mail@marszy.com")
	s.Require().NoError(row.Scan(&name, &status))
	s.Equal("marcin", name)
	s.Equal("pending", status)
}

func (s *PostgresStoreSuite) TestAbortedTransactionLeavesNoPartialPair() {
	ctx := context.Background()
	tx, err := s.postgres.DB.BeginTx(ctx, nil)
	s.Require().NoError(err)

	txStore := store.NewPostgresTx(tx)
	_, err = txStore.InsertSubscriber(ctx, s.newSubscriber("mail@marszy.com", "marcin"))
	s.Require().NoError(err)
	s.Require().NoError(tx.Rollback())

	var count int
	row := s.postgres.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM subscriptions`)
	s.Require().NoError(row.Scan(&count))
	s.Zero(count, "rolled back insert must not be visible")
}

func (s *PostgresStoreSuite) TestDuplicateEmailIsConflict() {
	_, err := s.signUp("mail@marszy.com", "marcin", "integration-token-1")
	s.Require().NoError(err)

	_, err = s.signUp("mail@marszy.com", "marcin again", "integration-token-2")
	s.Require().ErrorIs(err, sentinel.ErrConflict)
}

func (s *PostgresStoreSuite) TestTokenCollisionIsConflict() {
	_, err := s.signUp("a@example.com", "a", "same-token")
	s.Require().NoError(err)

	_, err = s.signUp("b@example.com", "b", "same-token")
	s.Require().ErrorIs(err, sentinel.ErrConflict)

	// The second subscriber must have rolled back with its token.
	var count int
	row := s.postgres.DB.QueryRow(`SELECT COUNT(*) FROM subscriptions WHERE email = 'b@example.com'`)
	s.Require().NoError(row.Scan(&count))
	s.Zero(count)
}

func (s *PostgresStoreSuite) TestUnknownTokenIsNotFound() {
	_, err := s.store.FindSubscriberIDByToken(context.Background(), "never-issued")
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestConfirmIsIdempotent() {
	ctx := context.Background()
	id, err := s.signUp("mail@marszy.com", "marcin", "integration-token-1")
	s.Require().NoError(err)

	s.Require().NoError(s.store.ConfirmSubscriber(ctx, id))
	s.Require().NoError(s.store.ConfirmSubscriber(ctx, id))

	var status string
	row := s.postgres.DB.QueryRowContext(ctx,
		`SELECT status FROM subscriptions WHERE email = $1`, "mail@marszy.com")
	s.Require().NoError(row.Scan(&status))
	s.Equal("confirmed", status)

	// The redeemed token still resolves; used and unknown are indistinguishable
	// only because tokens are never deleted.
	found, err := s.store.FindSubscriberIDByToken(ctx, "integration-token-1")
	s.Require().NoError(err)
	s.Equal(id, found)
}
