package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/openshelf/catalog/internal/auth"
	"github.com/openshelf/catalog/internal/entities"
)

// Default search words for the home page counts, inherited from the
// catalog's original landing page.
const (
	defaultGenreWord = "fiction"
	defaultBookWord  = "secret"
)

// VisitRecorder counts home page visits for the requesting session.
type VisitRecorder interface {
	RecordVisit(r *http.Request) int
}

// HomeController serves the landing page aggregate view.
type HomeController struct {
	books     BookStore
	instances InstanceStore
	authors   AuthorStore
	genres    GenreStore
	visits    VisitRecorder
}

func NewHomeController(books BookStore, instances InstanceStore, authors AuthorStore, genres GenreStore, visits VisitRecorder) *HomeController {
	return &HomeController{
		books:     books,
		instances: instances,
		authors:   authors,
		genres:    genres,
		visits:    visits,
	}
}

// summary holds the aggregate counts shown on the landing page.
type summary struct {
	NumBooks              int64  `json:"num_books"`
	NumInstances          int64  `json:"num_instances"`
	NumInstancesAvailable int64  `json:"num_instances_available"`
	NumAuthors            int64  `json:"num_authors"`
	GenreWord             string `json:"genre_word"`
	BookWord              string `json:"book_word"`
	NumGenresWithWord     int64  `json:"num_genres_with_word"`
	NumBooksWithWord      int64  `json:"num_books_with_word"`
	NumVisits             int    `json:"num_visits"`
}

func (hc *HomeController) buildSummary(c *gin.Context) (summary, error) {
	var (
		s   summary
		err error
	)

	s.GenreWord = c.DefaultQuery("genre_word", defaultGenreWord)
	s.BookWord = c.DefaultQuery("book_word", defaultBookWord)

	if s.NumBooks, err = hc.books.Count(); err != nil {
		return s, err
	}
	if s.NumInstances, err = hc.instances.Count(); err != nil {
		return s, err
	}
	if s.NumInstancesAvailable, err = hc.instances.CountByStatus(entities.StatusAvailable); err != nil {
		return s, err
	}
	if s.NumAuthors, err = hc.authors.Count(); err != nil {
		return s, err
	}
	if s.NumGenresWithWord, err = hc.genres.CountNameContains(s.GenreWord); err != nil {
		return s, err
	}
	if s.NumBooksWithWord, err = hc.books.CountTitleContains(s.BookWord); err != nil {
		return s, err
	}

	// Every request to the home aggregate counts as a visit for the
	// session, in either representation.
	if hc.visits != nil {
		s.NumVisits = hc.visits.RecordVisit(c.Request)
	}

	return s, nil
}

// Index renders the landing page with aggregate counts and the session
// visit counter.
func (hc *HomeController) Index(c *gin.Context) {
	s, err := hc.buildSummary(c)
	if err != nil {
		c.String(http.StatusInternalServerError, "Error loading catalog summary")
		return
	}

	user := CurrentUser(c)
	c.HTML(http.StatusOK, "index", gin.H{
		"Summary":         s,
		"User":            user,
		"CanMarkReturned": auth.HasPermission(user, auth.PermMarkReturned),
	})
}

// Summary handles GET /api/summary, the JSON form of the landing page.
func (hc *HomeController) Summary(c *gin.Context) {
	s, err := hc.buildSummary(c)
	if err != nil {
		respondInternalError(c, err, "summary")
		return
	}

	c.JSON(http.StatusOK, s)
}
