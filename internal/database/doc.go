// Package database provides the data access layer for the catalog.
//
// # Architecture
//
// The database layer is organized into domain-specific sub-packages:
//
//	database/
//	├── database.go      # Connection setup, migrations
//	├── authors/         # Author CRUD and listing
//	├── genres/          # Genre CRUD and name matching
//	├── languages/       # Language CRUD with restrict-on-delete
//	├── books/           # Book CRUD, pagination, counts
//	├── instances/       # Book copy CRUD and loan queries
//	└── audit/           # Audit event log
//
// User records are managed directly by the auth service and have no
// repository here.
//
// # Using Sub-packages
//
// Each sub-package provides a Repository type with domain-specific operations:
//
//	// Initialize database connection
//	db, err := database.NewDatabase("./library-catalog.db")
//
//	// Create domain-specific repositories
//	booksRepo := books.NewRepository(db.DB)
//	instancesRepo := instances.NewRepository(db.DB)
//
//	// Use repositories
//	book, err := booksRepo.GetByID(123)
//	loans, err := instancesRepo.LoansForBorrower(userID)
//
// Repositories translate gorm.ErrRecordNotFound into catalog.ErrNotFound and
// referential delete refusals into catalog.ErrConflict, so callers match with
// errors.Is against the shared taxonomy rather than GORM internals.
package database
