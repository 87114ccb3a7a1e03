package assignment

import (
	"context"
	"time"

	"gorm.io/gorm"

	dbpkg "github.com/angelmondragon/rentalfleet-backend/pkg/db"
	pkgerrors "github.com/angelmondragon/rentalfleet-backend/pkg/errors"
)

// classify maps storage failures onto coded errors. Coded errors pass through.
func classify(err error, action string) error {
	if err == nil {
		return nil
	}
	if pkgerrors.As(err) != nil {
		return err
	}
	if dbpkg.IsSerializationFailure(err) {
		return pkgerrors.Wrap(pkgerrors.CodeTxConflict, err, "concurrent update, retry the request")
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, action)
}

// runSerializable executes fn in a serializable transaction, rerunning it while the
// storage layer reports a transaction conflict.
func (s *service) runSerializable(ctx context.Context, op string, fn func(tx *gorm.DB) error) error {
	attempts := s.maxAttempts
	if attempts < 1 {
		attempts = 1
	}
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		err = classify(s.tx.WithSerializableTx(ctx, fn), op)
		if err == nil || !pkgerrors.HasCode(err, pkgerrors.CodeTxConflict) || attempt == attempts {
			return err
		}
		s.metrics.IncRetry(op)
		if s.logg != nil {
			s.logg.Warn(s.logg.WithFields(ctx, map[string]any{"operation": op, "attempt": attempt}), "retrying assignment transaction")
		}
		if waitErr := sleep(ctx, s.backoff*time.Duration(attempt)); waitErr != nil {
			return pkgerrors.Wrap(pkgerrors.CodeTxConflict, waitErr, "retry aborted")
		}
	}
	return err
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
