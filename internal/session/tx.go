package session

import (
	"context"
	"errors"
)

// TransactionPolicy is the backend-specific transaction capability. A
// concrete backend adapter supplies one; the session core defines only the
// delegation points.
type TransactionPolicy interface {
	// WrapInTx wraps a single script in a backend transaction.
	WrapInTx(script string) string
	// Commit finalizes the session-scoped transaction.
	Commit(ctx context.Context) error
	// Rollback abandons the session-scoped transaction.
	Rollback(ctx context.Context) error
}

// SetTransactionPolicy configures the transaction capability. With
// sessionScoped set, ExecuteTraversal stops wrapping individual scripts and
// Commit finalizes through the policy instead; sessionID names the
// server-side session forwarded with each submission.
func (s *Session) SetTransactionPolicy(policy TransactionPolicy, sessionScoped bool, sessionID string) {
	s.policy = policy
	s.sessionScoped = sessionScoped
	s.sessionID = sessionID
}

// Commit flushes the pending queue, then finalizes the session-scoped
// transaction when the backend supports transactions and the session runs in
// session-scoped mode.
func (s *Session) Commit(ctx context.Context) error {
	if err := s.Flush(ctx); err != nil {
		return err
	}
	if s.engine.Features().Transactions && s.sessionScoped {
		if s.policy == nil {
			return ErrNoTransactionPolicy
		}
		return s.policy.Commit(ctx)
	}
	return nil
}

// Rollback abandons the session-scoped transaction through the policy.
func (s *Session) Rollback(ctx context.Context) error {
	if s.policy == nil {
		return ErrNoTransactionPolicy
	}
	return s.policy.Rollback(ctx)
}

// AutoCommitPolicy is the policy for backends where every submission already
// runs in its own transaction, such as Neo4j auto-commit queries. Scripts
// pass through unwrapped, Commit is a no-op and Rollback fails: committed
// work cannot be taken back.
type AutoCommitPolicy struct{}

func (AutoCommitPolicy) WrapInTx(script string) string { return script }

func (AutoCommitPolicy) Commit(ctx context.Context) error { return nil }

func (AutoCommitPolicy) Rollback(ctx context.Context) error {
	return errors.New("rollback not supported with auto-commit transactions")
}
