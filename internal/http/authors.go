package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/openshelf/catalog/internal/entities"
)

// AuthorsController serves the author CRUD API.
type AuthorsController struct {
	store AuthorStore
}

func NewAuthorsController(store AuthorStore) *AuthorsController {
	return &AuthorsController{store: store}
}

type authorPayload struct {
	FirstName   string  `json:"first_name" binding:"required"`
	LastName    string  `json:"last_name" binding:"required"`
	DateOfBirth *string `json:"date_of_birth"`
	DateOfDeath *string `json:"date_of_death"`
}

// toEntity converts the payload, reporting a 422 on malformed dates.
func (p authorPayload) toEntity(c *gin.Context) (entities.Author, bool) {
	born, ok := parseDate(p.DateOfBirth)
	if !ok {
		respondFieldError(c, "date_of_birth", "expected YYYY-MM-DD")
		return entities.Author{}, false
	}
	died, ok := parseDate(p.DateOfDeath)
	if !ok {
		respondFieldError(c, "date_of_death", "expected YYYY-MM-DD")
		return entities.Author{}, false
	}
	return entities.Author{
		FirstName:   p.FirstName,
		LastName:    p.LastName,
		DateOfBirth: born,
		DateOfDeath: died,
	}, true
}

// Create handles POST /api/author/create and returns the generated id.
func (ac *AuthorsController) Create(c *gin.Context) {
	var payload authorPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	author, ok := payload.toEntity(c)
	if !ok {
		return
	}

	if err := ac.store.Create(&author); err != nil {
		respondRepositoryError(c, err, "author")
		return
	}

	respondCreated(c, gin.H{"id": author.ID})
}

// Get handles GET /api/author/:id.
func (ac *AuthorsController) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	author, err := ac.store.GetByID(id)
	if err != nil {
		respondRepositoryError(c, err, "author")
		return
	}

	c.JSON(http.StatusOK, projectAuthor(author))
}

// Update handles PUT /api/author/:id with a full field replace.
func (ac *AuthorsController) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var payload authorPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	author, ok := payload.toEntity(c)
	if !ok {
		return
	}

	if err := ac.store.Update(id, author); err != nil {
		respondRepositoryError(c, err, "author")
		return
	}

	respondSuccess(c)
}

// Delete handles DELETE /api/author/:id. Deleting an author who still has
// books yields a 409 conflict rather than a dangling reference.
func (ac *AuthorsController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ac.store.Delete(id); err != nil {
		respondRepositoryError(c, err, "author")
		return
	}

	respondSuccess(c)
}

// List handles GET /api/authors with fixed-size pages.
func (ac *AuthorsController) List(c *gin.Context) {
	page := parsePageParam(c)

	total, err := ac.store.Count()
	if err != nil {
		respondInternalError(c, err, "list authors")
		return
	}

	authors, err := ac.store.List(pageSize, (page-1)*pageSize)
	if err != nil {
		respondInternalError(c, err, "list authors")
		return
	}

	out := make([]AuthorOut, 0, len(authors))
	for i := range authors {
		out = append(out, projectAuthor(&authors[i]))
	}

	c.JSON(http.StatusOK, PaginatedResponse{
		Data:       out,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages(total),
	})
}
