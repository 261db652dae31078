package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readconcern"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"
)

// ErrTransactionsUnsupported is returned when the server is a standalone
// mongod. Multi-document transactions need a replica set.
var ErrTransactionsUnsupported = errors.New("mongo deployment does not support transactions")

// illegalOperation is the server code for commands a standalone cannot run.
const illegalOperation = 20

type TransactionFunc func(ctx mongo.SessionContext) error

type TransactionManager interface {
	ExecuteTransaction(ctx context.Context, fn TransactionFunc) error
}

type mongoTransactionManager struct {
	client *mongo.Client
	opts   *options.TransactionOptions
}

func NewTransactionManager(client *mongo.Client) TransactionManager {
	return &mongoTransactionManager{
		client: client,
		opts:   TransactionOptions(),
	}
}

// TransactionOptions reads from a snapshot and commits with majority write
// concern.
func TransactionOptions() *options.TransactionOptions {
	return options.Transaction().
		SetReadConcern(readconcern.Snapshot()).
		SetWriteConcern(writeconcern.Majority())
}

// ExecuteTransaction runs fn inside a session transaction. The driver may
// retry fn on transient errors, so fn must not have side effects outside the
// session. Errors returned by fn keep their identity under errors.Is.
func (m *mongoTransactionManager) ExecuteTransaction(ctx context.Context, fn TransactionFunc) error {
	session, err := m.client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(context.WithoutCancel(ctx))

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (any, error) {
		return nil, fn(sessCtx)
	}, m.opts)
	if err == nil {
		return nil
	}

	if isTransactionsUnsupported(err) {
		return fmt.Errorf("%w: %v", ErrTransactionsUnsupported, err)
	}
	return fmt.Errorf("transaction failed: %w", err)
}

func isTransactionsUnsupported(err error) bool {
	var cmdErr mongo.CommandError
	return errors.As(err, &cmdErr) && cmdErr.Code == illegalOperation
}
