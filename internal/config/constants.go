package config

const (
	// DefaultDatabasePath is where the SQLite database lives unless overridden.
	DefaultDatabasePath = "./data/openshelf.db"

	// DefaultLoanPeriodDays is the loan period used to derive borrow due dates.
	DefaultLoanPeriodDays = 14

	// DefaultMaxBorrowLimit is the borrow limit for a freshly issued library card.
	DefaultMaxBorrowLimit = 5
)
