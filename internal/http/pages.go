package http

import (
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/openshelf/catalog/internal/auth"
	"github.com/openshelf/catalog/internal/catalog"
	"github.com/openshelf/catalog/internal/loans"
)

// PagesController renders the browsable HTML views: book and author lists
// with details, the loan lists and the librarian renewal form.
type PagesController struct {
	books     BookStore
	authors   AuthorStore
	instances InstanceStore
	loans     LoanService
}

func NewPagesController(books BookStore, authors AuthorStore, instances InstanceStore, loanService LoanService) *PagesController {
	return &PagesController{
		books:     books,
		authors:   authors,
		instances: instances,
		loans:     loanService,
	}
}

// pagination carries the page links for list templates.
type pagination struct {
	Page       int
	TotalPages int
	HasPrev    bool
	HasNext    bool
	Prev       int
	Next       int
}

func paginate(page int, total int64) pagination {
	pages := totalPages(total)
	return pagination{
		Page:       page,
		TotalPages: pages,
		HasPrev:    page > 1,
		HasNext:    page < pages,
		Prev:       page - 1,
		Next:       page + 1,
	}
}

// BooksPage renders the paginated book list.
func (pc *PagesController) BooksPage(c *gin.Context) {
	page := parsePageParam(c)

	total, err := pc.books.Count()
	if err != nil {
		c.String(http.StatusInternalServerError, "Error loading books")
		return
	}
	books, err := pc.books.List(pageSize, (page-1)*pageSize)
	if err != nil {
		c.String(http.StatusInternalServerError, "Error loading books")
		return
	}

	c.HTML(http.StatusOK, "book_list", gin.H{
		"Books":      books,
		"Total":      total,
		"Pagination": paginate(page, total),
		"User":       CurrentUser(c),
	})
}

// BookPage renders one book with its copies.
func (pc *PagesController) BookPage(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	book, err := pc.books.GetByID(id)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			c.String(http.StatusNotFound, "Book not found")
			return
		}
		c.String(http.StatusInternalServerError, "Error loading book")
		return
	}

	user := CurrentUser(c)
	c.HTML(http.StatusOK, "book_detail", gin.H{
		"Book":            book,
		"User":            user,
		"CanMarkReturned": auth.HasPermission(user, auth.PermMarkReturned),
	})
}

// AuthorsPage renders the paginated author list.
func (pc *PagesController) AuthorsPage(c *gin.Context) {
	page := parsePageParam(c)

	total, err := pc.authors.Count()
	if err != nil {
		c.String(http.StatusInternalServerError, "Error loading authors")
		return
	}
	authors, err := pc.authors.List(pageSize, (page-1)*pageSize)
	if err != nil {
		c.String(http.StatusInternalServerError, "Error loading authors")
		return
	}

	c.HTML(http.StatusOK, "author_list", gin.H{
		"Authors":    authors,
		"Total":      total,
		"Pagination": paginate(page, total),
		"User":       CurrentUser(c),
	})
}

// AuthorPage renders one author with their books.
func (pc *PagesController) AuthorPage(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	author, err := pc.authors.GetByID(id)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			c.String(http.StatusNotFound, "Author not found")
			return
		}
		c.String(http.StatusInternalServerError, "Error loading author")
		return
	}

	c.HTML(http.StatusOK, "author_detail", gin.H{
		"Author": author,
		"User":   CurrentUser(c),
	})
}

// MyLoansPage renders the principal's borrowed copies. The route requires
// authentication.
func (pc *PagesController) MyLoansPage(c *gin.Context) {
	user := CurrentUser(c)
	borrowed, err := pc.loans.LoansFor(user.ID)
	if err != nil {
		c.String(http.StatusInternalServerError, "Error loading loans")
		return
	}

	c.HTML(http.StatusOK, "loans_mine", gin.H{
		"Loans": borrowed,
		"Now":   time.Now(),
		"User":  user,
	})
}

// AllLoansPage renders every copy on loan. The route requires the
// mark-returned permission.
func (pc *PagesController) AllLoansPage(c *gin.Context) {
	user := CurrentUser(c)
	borrowed, err := pc.loans.AllLoans(user)
	if err != nil {
		if errors.Is(err, catalog.ErrForbidden) {
			c.String(http.StatusForbidden, "Permission denied")
			return
		}
		c.String(http.StatusInternalServerError, "Error loading loans")
		return
	}

	c.HTML(http.StatusOK, "loans_all", gin.H{
		"Loans": borrowed,
		"Now":   time.Now(),
		"User":  user,
	})
}

// RenewPage renders the renewal form, prefilled three weeks out.
func (pc *PagesController) RenewPage(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	instance, err := pc.instances.GetByID(id)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			c.String(http.StatusNotFound, "Book instance not found")
			return
		}
		c.String(http.StatusInternalServerError, "Error loading book instance")
		return
	}

	c.HTML(http.StatusOK, "instance_renew", gin.H{
		"Instance":  instance,
		"Proposed":  loans.DefaultRenewalDate(time.Now()).Format(dateLayout),
		"Error":     c.Query("error"),
		"CSRFToken": c.GetString("csrf_token"),
		"User":      CurrentUser(c),
	})
}

// RenewSubmit handles the renewal form post. Validation failures land back
// on the form with the field message.
func (pc *PagesController) RenewSubmit(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	proposed, err := time.Parse(dateLayout, c.PostForm("due_back"))
	if err != nil {
		c.Redirect(http.StatusFound, "/instances/"+id.String()+"/renew?error=expected+YYYY-MM-DD")
		return
	}

	if err := pc.loans.Renew(CurrentUser(c), id, proposed); err != nil {
		var validationErr *catalog.ValidationError
		switch {
		case errors.As(err, &validationErr):
			c.Redirect(http.StatusFound, "/instances/"+id.String()+"/renew?error="+url.QueryEscape(validationErr.Message))
		case errors.Is(err, catalog.ErrNotFound):
			c.String(http.StatusNotFound, "Book instance not found")
		case errors.Is(err, catalog.ErrForbidden):
			c.String(http.StatusForbidden, "Permission denied")
		default:
			c.String(http.StatusInternalServerError, "Error renewing book instance")
		}
		return
	}

	c.Redirect(http.StatusFound, "/loans")
}
