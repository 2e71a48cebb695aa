package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/mini_banking_api/internal/apperrors"
	"github.com/SscSPs/mini_banking_api/internal/core/domain"
	portsrepo "github.com/SscSPs/mini_banking_api/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/mini_banking_api/internal/core/ports/services"
)

// MaxIdempotencyKeyLength matches the transactions.idempotency_key column.
const MaxIdempotencyKeyLength = 100

// transferService moves money between two accounts through a UnitOfWork.
// It holds no locks: a concurrent writer surfaces as ErrConcurrencyConflict
// at commit, which is retried only when a RetryPolicy allows it.
type transferService struct {
	BaseService
	uowFactory portsrepo.UnitOfWorkFactory
	txnRepo    portsrepo.TransactionReader
	retry      RetryPolicy
}

// TransferOption is a functional option for configuring the transfer engine
type TransferOption func(*transferService)

// WithRetryPolicy enables bounded retry with jitter on concurrency conflicts.
func WithRetryPolicy(p RetryPolicy) TransferOption {
	return func(s *transferService) {
		s.retry = p
	}
}

// WithTransferClock sets the time source for ledger entries.
func WithTransferClock(now func() time.Time) TransferOption {
	return func(s *transferService) {
		s.Clock = now
	}
}

// NewTransferService creates the transfer engine. txnRepo is only consulted
// for idempotency keys and may be nil when keys are never supplied.
func NewTransferService(uowFactory portsrepo.UnitOfWorkFactory, txnRepo portsrepo.TransactionReader, options ...TransferOption) portssvc.TransferSvc {
	svc := &transferService{
		uowFactory: uowFactory,
		txnRepo:    txnRepo,
		retry:      NoRetry(),
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.TransferSvc = (*transferService)(nil)

// Transfer validates cmd, then withdraws from the source, deposits into the
// destination and records one TRANSFER entry, all committed together.
// Validation order: same account, amount, existence, eligibility, funds.
func (s *transferService) Transfer(ctx context.Context, cmd portssvc.TransferCommand) (*domain.Transaction, error) {
	logAttrs := []any{
		slog.Int64("from_account_id", cmd.FromAccountID),
		slog.Int64("to_account_id", cmd.ToAccountID),
		slog.String("amount", cmd.Amount.String()),
	}
	s.LogDebug(ctx, "Transfer requested", logAttrs...)

	if err := s.validate(cmd); err != nil {
		s.LogWarn(ctx, err, "Transfer rejected", logAttrs...)
		return nil, err
	}

	if cmd.IdempotencyKey != "" {
		if existing, err := s.findReplay(ctx, cmd); err != nil || existing != nil {
			return existing, err
		}
	}

	var entry *domain.Transaction
	err := s.retry.Do(ctx, func(int) error {
		var attemptErr error
		entry, attemptErr = s.attempt(ctx, cmd)
		return attemptErr
	}, func(attempt int, err error, delay time.Duration) {
		s.LogWarn(ctx, err, "Retrying transfer after conflict",
			append(logAttrs, slog.Int("attempt", attempt), slog.Duration("delay", delay))...)
	})

	if err != nil && cmd.IdempotencyKey != "" && lostKeyRace(err) {
		// A concurrent request with the same key may have committed first.
		existing, replayErr := s.findReplay(ctx, cmd)
		if replayErr != nil {
			return nil, replayErr
		}
		if existing != nil {
			return existing, nil
		}
	}
	if err != nil {
		if isBusinessError(err) {
			s.LogWarn(ctx, err, "Transfer failed", logAttrs...)
		} else {
			s.LogError(ctx, err, "Transfer failed", logAttrs...)
		}
		return nil, err
	}

	s.LogInfo(ctx, "Transfer completed", append(logAttrs, slog.Int64("transaction_id", entry.ID))...)
	return entry, nil
}

func (s *transferService) validate(cmd portssvc.TransferCommand) error {
	if cmd.FromAccountID == cmd.ToAccountID {
		return apperrors.NewLedgerError(apperrors.ErrSameAccountTransfer, "", cmd.Amount, cmd.FromAccountID)
	}
	if err := domain.ValidateAmount(cmd.Amount); err != nil {
		return err
	}
	if len([]rune(cmd.Description)) > domain.MaxDescriptionLength {
		return fmt.Errorf("%w: description longer than %d characters", apperrors.ErrValidation, domain.MaxDescriptionLength)
	}
	if len(cmd.IdempotencyKey) > MaxIdempotencyKeyLength {
		return fmt.Errorf("%w: idempotency key longer than %d characters", apperrors.ErrValidation, MaxIdempotencyKeyLength)
	}
	return nil
}

// findReplay returns the entry previously recorded under cmd's key, nil if
// the key is unused, or ErrValidation if the key was used for a different transfer.
func (s *transferService) findReplay(ctx context.Context, cmd portssvc.TransferCommand) (*domain.Transaction, error) {
	if s.txnRepo == nil {
		return nil, nil
	}
	existing, err := s.txnRepo.FindTransactionByIdempotencyKey(ctx, cmd.IdempotencyKey)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		s.LogError(ctx, err, "Failed to look up idempotency key")
		return nil, fmt.Errorf("failed to look up idempotency key: %w", err)
	}
	sameRequest := existing.Type == domain.TransactionTransfer &&
		existing.FromAccountID == cmd.FromAccountID &&
		existing.ToAccountID != nil && *existing.ToAccountID == cmd.ToAccountID &&
		existing.Amount.Equal(cmd.Amount)
	if !sameRequest {
		return nil, fmt.Errorf("%w: idempotency key already used for a different request", apperrors.ErrValidation)
	}
	s.LogInfo(ctx, "Replaying transfer for idempotency key", slog.Int64("transaction_id", existing.ID))
	return existing, nil
}

// attempt runs one read-validate-mutate-commit cycle on fresh state.
func (s *transferService) attempt(ctx context.Context, cmd portssvc.TransferCommand) (*domain.Transaction, error) {
	uow := s.uowFactory.NewUnitOfWork()

	from, to, err := s.loadPair(ctx, uow, cmd)
	if err != nil {
		return nil, err
	}

	if !from.CanTransferTo(to) {
		return nil, apperrors.NewLedgerError(apperrors.ErrTransferNotAllowed, notAllowedReason(from, to), cmd.Amount, from.ID, to.ID)
	}

	if err := from.Withdraw(cmd.Amount); err != nil {
		return nil, err
	}
	if err := to.Deposit(cmd.Amount); err != nil {
		return nil, err
	}

	if err := uow.UpdateAccount(ctx, from); err != nil {
		return nil, err
	}
	if err := uow.UpdateAccount(ctx, to); err != nil {
		return nil, err
	}

	entry := domain.NewTransferTransaction(from.ID, to.ID, cmd.Amount, cmd.Description, s.Now())
	if cmd.IdempotencyKey != "" {
		key := cmd.IdempotencyKey
		entry.IdempotencyKey = &key
	}
	if err := uow.AddTransaction(ctx, entry); err != nil {
		return nil, err
	}

	// Cancellation is honoured up to here; once issued, commit runs to a definite outcome.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := uow.Commit(context.WithoutCancel(ctx)); err != nil {
		return nil, err
	}
	return entry, nil
}

// loadPair reads both accounts and reports every missing id at once.
func (s *transferService) loadPair(ctx context.Context, uow portsrepo.UnitOfWork, cmd portssvc.TransferCommand) (*domain.Account, *domain.Account, error) {
	from, fromErr := uow.GetAccountByID(ctx, cmd.FromAccountID)
	if fromErr != nil && !errors.Is(fromErr, apperrors.ErrAccountNotFound) {
		return nil, nil, fromErr
	}
	to, toErr := uow.GetAccountByID(ctx, cmd.ToAccountID)
	if toErr != nil && !errors.Is(toErr, apperrors.ErrAccountNotFound) {
		return nil, nil, toErr
	}

	var missing []int64
	if fromErr != nil {
		missing = append(missing, cmd.FromAccountID)
	}
	if toErr != nil {
		missing = append(missing, cmd.ToAccountID)
	}
	if len(missing) > 0 {
		return nil, nil, apperrors.NewLedgerError(apperrors.ErrAccountNotFound, "", cmd.Amount, missing...)
	}
	return from, to, nil
}

func notAllowedReason(from, to *domain.Account) string {
	switch {
	case !from.IsActive:
		return "source account is not active"
	case !to.IsActive:
		return "destination account is not active"
	case from.Currency != to.Currency:
		return fmt.Sprintf("currency mismatch %s -> %s", from.Currency, to.Currency)
	}
	return ""
}

// lostKeyRace reports whether err can come from a concurrent commit under the
// same idempotency key. Version checks run before the key check, so the loser
// usually sees a conflict rather than a duplicate.
func lostKeyRace(err error) bool {
	return errors.Is(err, apperrors.ErrDuplicate) || errors.Is(err, apperrors.ErrConcurrencyConflict)
}

// isBusinessError reports whether err is an expected ledger outcome rather
// than an infrastructure failure.
func isBusinessError(err error) bool {
	var ledgerErr *apperrors.LedgerError
	return errors.As(err, &ledgerErr) ||
		errors.Is(err, apperrors.ErrValidation) ||
		errors.Is(err, apperrors.ErrConcurrencyConflict)
}
