package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
)

// TxManager runs work in a client session transaction. Repositories join it
// because the session travels in the ctx handed to fn.
type TxManager struct {
	client  *mongo.Client
	enabled bool
}

// NewTxManager returns a manager. With enabled false, fn runs directly; use
// that for standalone servers, which have no transactions.
func NewTxManager(client *mongo.Client, enabled bool) *TxManager {
	return &TxManager{client: client, enabled: enabled}
}

func (m *TxManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if !m.enabled || mongo.SessionFromContext(ctx) != nil {
		return fn(ctx)
	}

	session, err := m.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}
