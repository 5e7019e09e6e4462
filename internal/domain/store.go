package domain

// Store bundles the repositories behind a single unit-of-work boundary.
// WithTransaction runs fn with a store whose repositories share one database
// transaction; returning an error rolls everything back.
type Store interface {
	User() UserRepository
	Transaction() TransactionRepository
	WithTransaction(fn func(Store) error) error
}
