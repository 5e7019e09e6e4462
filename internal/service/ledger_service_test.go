package service

import (
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"banking-ledger/internal/domain"
	apperrors "banking-ledger/internal/errors"
)

// fakeStore is an in-memory domain.Store. WithTransaction holds a single
// mutex for the duration of fn, mirroring the row-level serialization the
// Postgres store gets from SELECT ... FOR UPDATE, and restores a snapshot
// when fn fails so failed operations leave no partial state behind.
type fakeStore struct {
	mu           sync.Mutex
	users        map[uuid.UUID]domain.User
	transactions []domain.Transaction
}

func newFakeStore() *fakeStore {
	return &fakeStore{users: make(map[uuid.UUID]domain.User)}
}

func (s *fakeStore) User() domain.UserRepository {
	return &fakeUserRepo{store: s, lock: true}
}

func (s *fakeStore) Transaction() domain.TransactionRepository {
	return &fakeTransactionRepo{store: s, lock: true}
}

func (s *fakeStore) WithTransaction(fn func(domain.Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshotUsers := make(map[uuid.UUID]domain.User, len(s.users))
	for id, u := range s.users {
		snapshotUsers[id] = u
	}
	snapshotTransactions := append([]domain.Transaction(nil), s.transactions...)

	if err := fn(&fakeTxStore{store: s}); err != nil {
		s.users = snapshotUsers
		s.transactions = snapshotTransactions
		return err
	}
	return nil
}

// fakeTxStore hands out repositories that skip locking; the surrounding
// WithTransaction already holds the mutex.
type fakeTxStore struct {
	store *fakeStore
}

func (t *fakeTxStore) User() domain.UserRepository {
	return &fakeUserRepo{store: t.store}
}

func (t *fakeTxStore) Transaction() domain.TransactionRepository {
	return &fakeTransactionRepo{store: t.store}
}

func (t *fakeTxStore) WithTransaction(fn func(domain.Store) error) error {
	return apperrors.ErrCannotBeginTransaction
}

type fakeUserRepo struct {
	store *fakeStore
	lock  bool
}

func (r *fakeUserRepo) CreateUser(user *domain.User) error {
	if r.lock {
		r.store.mu.Lock()
		defer r.store.mu.Unlock()
	}
	for _, u := range r.store.users {
		if u.Email == user.Email {
			return apperrors.ErrDuplicateUser
		}
	}
	r.store.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) GetUser(id uuid.UUID) (*domain.User, error) {
	if r.lock {
		r.store.mu.Lock()
		defer r.store.mu.Unlock()
	}
	user, ok := r.store.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return &user, nil
}

func (r *fakeUserRepo) GetUserForUpdate(id uuid.UUID) (*domain.User, error) {
	return r.GetUser(id)
}

func (r *fakeUserRepo) GetUserByEmail(email string) (*domain.User, error) {
	if r.lock {
		r.store.mu.Lock()
		defer r.store.mu.Unlock()
	}
	for _, u := range r.store.users {
		if u.Email == email {
			user := u
			return &user, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (r *fakeUserRepo) UpdateUserBalance(id uuid.UUID, newBalance decimal.Decimal) error {
	if r.lock {
		r.store.mu.Lock()
		defer r.store.mu.Unlock()
	}
	user, ok := r.store.users[id]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	user.Balance = newBalance
	r.store.users[id] = user
	return nil
}

type fakeTransactionRepo struct {
	store *fakeStore
	lock  bool
}

func (r *fakeTransactionRepo) CreateTransaction(tx *domain.Transaction) error {
	if r.lock {
		r.store.mu.Lock()
		defer r.store.mu.Unlock()
	}
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = time.Now()
	}
	r.store.transactions = append(r.store.transactions, *tx)
	return nil
}

func (r *fakeTransactionRepo) ListTransactions(userID uuid.UUID) ([]domain.Transaction, error) {
	if r.lock {
		r.store.mu.Lock()
		defer r.store.mu.Unlock()
	}
	out := []domain.Transaction{}
	for _, tx := range r.store.transactions {
		if tx.UserID == userID {
			out = append(out, tx)
		}
	}
	return out, nil
}

func (r *fakeTransactionRepo) ListTransactionsByKind(userID uuid.UUID, kind domain.TransactionKind) ([]domain.Transaction, error) {
	if r.lock {
		r.store.mu.Lock()
		defer r.store.mu.Unlock()
	}
	out := []domain.Transaction{}
	for _, tx := range r.store.transactions {
		if tx.UserID == userID && tx.Kind == kind {
			out = append(out, tx)
		}
	}
	return out, nil
}

func (r *fakeTransactionRepo) MonthlyWithdrawalTotal(userID uuid.UUID, at time.Time) (decimal.Decimal, error) {
	if r.lock {
		r.store.mu.Lock()
		defer r.store.mu.Unlock()
	}
	monthStart := time.Date(at.Year(), at.Month(), 1, 0, 0, 0, 0, at.Location())
	monthEnd := monthStart.AddDate(0, 1, 0)

	total := decimal.Zero
	for _, tx := range r.store.transactions {
		if tx.UserID == userID && tx.Kind == domain.TransactionKindWithdrawal &&
			!tx.CreatedAt.Before(monthStart) && tx.CreatedAt.Before(monthEnd) {
			total = total.Add(tx.Amount)
		}
	}
	return total, nil
}

func newTestLedgerService(store domain.Store, now time.Time) *LedgerService {
	svc := NewLedgerService(store, slog.New(slog.NewTextHandler(io.Discard, nil)))
	svc.now = func() time.Time { return now }
	return svc
}

func seedUser(t *testing.T, store *fakeStore, accountType domain.AccountType, balance string) uuid.UUID {
	t.Helper()
	user := domain.User{
		ID:          uuid.New(),
		Name:        "Test User",
		Email:       uuid.NewString() + "@test.local",
		AccountType: accountType,
		Balance:     decimal.RequireFromString(balance),
	}
	store.users[user.ID] = user
	return user.ID
}

func balanceOf(t *testing.T, store *fakeStore, id uuid.UUID) decimal.Decimal {
	t.Helper()
	user, ok := store.users[id]
	require.True(t, ok)
	return user.Balance
}

func TestDepositIncreasesBalanceAndRecords(t *testing.T) {
	store := newFakeStore()
	userID := seedUser(t, store, domain.AccountTypeIndividual, "0")
	svc := newTestLedgerService(store, wednesday)

	tx, err := svc.Deposit(userID, decimal.RequireFromString("100.50"))

	require.NoError(t, err)
	assert.Equal(t, domain.TransactionKindDeposit, tx.Kind)
	assert.True(t, tx.Fee.IsZero())
	assert.True(t, balanceOf(t, store, userID).Equal(decimal.RequireFromString("100.50")))

	deposits, err := svc.ListTransactionsByKind(userID, domain.TransactionKindDeposit)
	require.NoError(t, err)
	require.Len(t, deposits, 1)
	assert.Equal(t, tx.ID, deposits[0].ID)
}

func TestDepositRejectsNonPositiveAmount(t *testing.T) {
	store := newFakeStore()
	userID := seedUser(t, store, domain.AccountTypeIndividual, "0")
	svc := newTestLedgerService(store, wednesday)

	_, err := svc.Deposit(userID, decimal.Zero)
	assert.ErrorIs(t, err, apperrors.ErrInvalidAmount)

	_, err = svc.Deposit(userID, decimal.RequireFromString("-5"))
	assert.ErrorIs(t, err, apperrors.ErrInvalidAmount)
}

func TestDepositUnknownUser(t *testing.T) {
	store := newFakeStore()
	svc := newTestLedgerService(store, wednesday)

	_, err := svc.Deposit(uuid.New(), decimal.RequireFromString("10"))
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestWithdrawDeductsAmountPlusFee(t *testing.T) {
	store := newFakeStore()
	userID := seedUser(t, store, domain.AccountTypeIndividual, "2000")
	svc := newTestLedgerService(store, wednesday)

	tx, err := svc.Withdraw(userID, decimal.RequireFromString("1500"))

	require.NoError(t, err)
	assert.True(t, tx.Fee.Equal(decimal.RequireFromString("0.075")), "fee: %s", tx.Fee)
	// 2000 - 1500 - 0.075
	assert.True(t, balanceOf(t, store, userID).Equal(decimal.RequireFromString("499.925")))
}

func TestWithdrawFridayIsFreeForIndividuals(t *testing.T) {
	store := newFakeStore()
	userID := seedUser(t, store, domain.AccountTypeIndividual, "2000")
	svc := newTestLedgerService(store, friday)

	tx, err := svc.Withdraw(userID, decimal.RequireFromString("1500"))

	require.NoError(t, err)
	assert.True(t, tx.Fee.IsZero())
	assert.True(t, balanceOf(t, store, userID).Equal(decimal.RequireFromString("500")))
}

func TestWithdrawBusinessUsesMonthlyTotal(t *testing.T) {
	store := newFakeStore()
	userID := seedUser(t, store, domain.AccountTypeBusiness, "100000")
	svc := newTestLedgerService(store, wednesday)

	// Prior total 0: base rate applies.
	tx, err := svc.Withdraw(userID, decimal.RequireFromString("1000"))
	require.NoError(t, err)
	assert.True(t, tx.Fee.Equal(decimal.RequireFromString("0.25")), "fee: %s", tx.Fee)

	// Prior total 1000: still below the free tier cap.
	tx, err = svc.Withdraw(userID, decimal.RequireFromString("5000"))
	require.NoError(t, err)
	assert.True(t, tx.Fee.Equal(decimal.RequireFromString("1.25")), "fee: %s", tx.Fee)

	// Prior total 6000: free tier reached.
	tx, err = svc.Withdraw(userID, decimal.RequireFromString("40000"))
	require.NoError(t, err)
	assert.True(t, tx.Fee.IsZero(), "fee: %s", tx.Fee)

	// Prior total 46000: crossing 50000 switches to the reduced rate.
	tx, err = svc.Withdraw(userID, decimal.RequireFromString("10000"))
	require.NoError(t, err)
	assert.True(t, tx.Fee.Equal(decimal.RequireFromString("1.5")), "fee: %s", tx.Fee)
}

func TestWithdrawBusinessMonthlyTotalExcludesOtherMonths(t *testing.T) {
	store := newFakeStore()
	userID := seedUser(t, store, domain.AccountTypeBusiness, "100000")
	store.transactions = append(store.transactions, domain.Transaction{
		ID:        uuid.New(),
		UserID:    userID,
		Kind:      domain.TransactionKindWithdrawal,
		Amount:    decimal.RequireFromString("60000"),
		Fee:       decimal.Zero,
		CreatedAt: wednesday.AddDate(0, -1, 0),
	})
	svc := newTestLedgerService(store, wednesday)

	// Last month's volume does not count; base rate applies.
	tx, err := svc.Withdraw(userID, decimal.RequireFromString("1000"))
	require.NoError(t, err)
	assert.True(t, tx.Fee.Equal(decimal.RequireFromString("0.25")), "fee: %s", tx.Fee)
}

func TestWithdrawInsufficientBalanceLeavesNoTrace(t *testing.T) {
	store := newFakeStore()
	userID := seedUser(t, store, domain.AccountTypeIndividual, "100")
	svc := newTestLedgerService(store, wednesday)

	_, err := svc.Withdraw(userID, decimal.RequireFromString("200"))

	assert.ErrorIs(t, err, apperrors.ErrInsufficientBalance)
	assert.True(t, balanceOf(t, store, userID).Equal(decimal.RequireFromString("100")))

	withdrawals, err := svc.ListTransactionsByKind(userID, domain.TransactionKindWithdrawal)
	require.NoError(t, err)
	assert.Empty(t, withdrawals)
}

func TestWithdrawFeeCountsAgainstBalance(t *testing.T) {
	store := newFakeStore()
	// Balance covers the amount but not amount plus fee.
	userID := seedUser(t, store, domain.AccountTypeBusiness, "1000")
	svc := newTestLedgerService(store, wednesday)

	_, err := svc.Withdraw(userID, decimal.RequireFromString("1000"))

	assert.ErrorIs(t, err, apperrors.ErrInsufficientBalance)
	assert.True(t, balanceOf(t, store, userID).Equal(decimal.RequireFromString("1000")))
}

func TestConcurrentWithdrawalsNeverOverdraw(t *testing.T) {
	store := newFakeStore()
	// Friday: zero fees for Individual accounts, so exactly 10 of the 25
	// requested withdrawals of 100 can succeed against a balance of 1000.
	userID := seedUser(t, store, domain.AccountTypeIndividual, "1000")
	svc := newTestLedgerService(store, friday)

	const workers = 25
	amount := decimal.RequireFromString("100")

	var wg sync.WaitGroup
	results := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Withdraw(userID, amount)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, apperrors.ErrInsufficientBalance)
		}
	}

	assert.Equal(t, 10, succeeded)

	balance := balanceOf(t, store, userID)
	assert.False(t, balance.IsNegative(), "balance overdrawn: %s", balance)
	assert.True(t, balance.IsZero(), "balance: %s", balance)

	withdrawals, err := svc.ListTransactionsByKind(userID, domain.TransactionKindWithdrawal)
	require.NoError(t, err)
	assert.Len(t, withdrawals, succeeded)
}

func TestStatementReturnsBalanceAndHistory(t *testing.T) {
	store := newFakeStore()
	userID := seedUser(t, store, domain.AccountTypeIndividual, "0")
	svc := newTestLedgerService(store, friday)

	_, err := svc.Deposit(userID, decimal.RequireFromString("300"))
	require.NoError(t, err)
	_, err = svc.Withdraw(userID, decimal.RequireFromString("100"))
	require.NoError(t, err)

	statement, err := svc.Statement(userID)

	require.NoError(t, err)
	assert.True(t, statement.Balance.Equal(decimal.RequireFromString("200")))
	assert.Len(t, statement.Transactions, 2)
}
