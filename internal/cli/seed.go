package cli

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/openshelf/catalog/internal/config"
	"github.com/openshelf/catalog/internal/database"
	"github.com/openshelf/catalog/internal/database/authors"
	"github.com/openshelf/catalog/internal/database/books"
	"github.com/openshelf/catalog/internal/database/genres"
	"github.com/openshelf/catalog/internal/database/instances"
	"github.com/openshelf/catalog/internal/database/languages"
	"github.com/openshelf/catalog/internal/entities"
)

// SeedCommand populates the catalog with a small sample dataset for
// local development and demos.
type SeedCommand struct {
	DatabasePath string
	Verbose      bool
}

// NewSeedCommand creates a new SeedCommand
func NewSeedCommand() *SeedCommand {
	return &SeedCommand{}
}

// ParseFlags parses command line flags
func (cmd *SeedCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("seed", flag.ExitOnError)

	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the catalog database file")
	fs.BoolVar(&cmd.Verbose, "verbose", false, "Enable verbose logging")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s seed [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Populate the catalog with sample authors, books and copies.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	return fs.Parse(args)
}

// Run executes the seed command
func (cmd *SeedCommand) Run() error {
	db, err := database.NewDatabase(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	authorRepo := authors.NewRepository(db.DB)
	genreRepo := genres.NewRepository(db.DB)
	languageRepo := languages.NewRepository(db.DB)
	bookRepo := books.NewRepository(db.DB)
	instanceRepo := instances.NewRepository(db.DB)

	var bookCount int64
	if bookCount, err = bookRepo.Count(); err != nil {
		return fmt.Errorf("failed to inspect catalog: %w", err)
	}
	if bookCount > 0 {
		fmt.Printf("Catalog already contains %d books, nothing to do\n", bookCount)
		return nil
	}

	english := &entities.Language{Name: "English"}
	spanish := &entities.Language{Name: "Spanish"}
	for _, lang := range []*entities.Language{english, spanish} {
		if err := languageRepo.Create(lang); err != nil {
			return fmt.Errorf("failed to create language %q: %w", lang.Name, err)
		}
	}

	fantasy := &entities.Genre{Name: "Fantasy"}
	scifi := &entities.Genre{Name: "Science Fiction"}
	fiction := &entities.Genre{Name: "Fiction"}
	for _, genre := range []*entities.Genre{fantasy, scifi, fiction} {
		if err := genreRepo.Create(genre); err != nil {
			return fmt.Errorf("failed to create genre %q: %w", genre.Name, err)
		}
	}

	burnett := &entities.Author{
		FirstName:   "Frances Hodgson",
		LastName:    "Burnett",
		DateOfBirth: datePtr(1849, time.November, 24),
		DateOfDeath: datePtr(1924, time.October, 29),
	}
	leGuin := &entities.Author{
		FirstName:   "Ursula K.",
		LastName:    "Le Guin",
		DateOfBirth: datePtr(1929, time.October, 21),
		DateOfDeath: datePtr(2018, time.January, 22),
	}
	rothfuss := &entities.Author{
		FirstName:   "Patrick",
		LastName:    "Rothfuss",
		DateOfBirth: datePtr(1973, time.June, 6),
	}
	for _, author := range []*entities.Author{burnett, leGuin, rothfuss} {
		if err := authorRepo.Create(author); err != nil {
			return fmt.Errorf("failed to create author %q: %w", author.DisplayName(), err)
		}
	}

	catalogBooks := []struct {
		book   *entities.Book
		genres []uint
		copies int
	}{
		{
			book: &entities.Book{
				Title:    "The Secret Garden",
				AuthorID: burnett.ID,
				Summary:  "Mary Lennox discovers a hidden, neglected garden and brings it back to life.",
				ISBN:     "9780141321066",
			},
			genres: []uint{fiction.ID},
			copies: 3,
		},
		{
			book: &entities.Book{
				Title:    "A Wizard of Earthsea",
				AuthorID: leGuin.ID,
				Summary:  "The young wizard Ged unleashes a shadow upon the world and must hunt it down.",
				ISBN:     "9780547773742",
			},
			genres: []uint{fantasy.ID},
			copies: 2,
		},
		{
			book: &entities.Book{
				Title:    "The Left Hand of Darkness",
				AuthorID: leGuin.ID,
				Summary:  "An envoy to the planet Gethen navigates a society without fixed gender.",
				ISBN:     "9780441478125",
			},
			genres: []uint{scifi.ID},
			copies: 2,
		},
		{
			book: &entities.Book{
				Title:    "The Name of the Wind",
				AuthorID: rothfuss.ID,
				Summary:  "Kvothe recounts his rise from street urchin to legendary arcanist.",
				ISBN:     "9780756404741",
			},
			genres: []uint{fantasy.ID},
			copies: 4,
		},
	}

	for _, entry := range catalogBooks {
		if err := bookRepo.Create(entry.book, entry.genres); err != nil {
			return fmt.Errorf("failed to create book %q: %w", entry.book.Title, err)
		}
		for i := 0; i < entry.copies; i++ {
			instance := &entities.BookInstance{
				BookID:     entry.book.ID,
				Imprint:    fmt.Sprintf("Local print, copy %d", i+1),
				Status:     entities.StatusAvailable,
				LanguageID: &english.ID,
			}
			// Put one copy of each title under maintenance
			if i == entry.copies-1 {
				instance.Status = entities.StatusMaintenance
			}
			if err := instanceRepo.Create(instance); err != nil {
				return fmt.Errorf("failed to create copy of %q: %w", entry.book.Title, err)
			}
		}
		if cmd.Verbose {
			fmt.Printf("Created %q with %d copies\n", entry.book.Title, entry.copies)
		}
	}

	fmt.Printf("Seeded %d books, %d authors, %d genres, %d languages\n",
		len(catalogBooks), 3, 3, 2)
	return nil
}

func datePtr(year int, month time.Month, day int) *time.Time {
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &d
}
