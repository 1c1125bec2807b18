package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/openshelf/catalog/internal/entities"
)

// BooksController serves the book CRUD API.
type BooksController struct {
	store BookStore
}

func NewBooksController(store BookStore) *BooksController {
	return &BooksController{store: store}
}

type bookPayload struct {
	Title    string `json:"title" binding:"required"`
	AuthorID uint   `json:"author_id" binding:"required"`
	Summary  string `json:"summary"`
	ISBN     string `json:"isbn"`
	GenreIDs []uint `json:"genre_ids"`
}

// Create handles POST /api/book/create and responds with the denormalized
// projection: author display name and genre names, not ids.
func (bc *BooksController) Create(c *gin.Context) {
	var payload bookPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	book := entities.Book{
		Title:    payload.Title,
		Summary:  payload.Summary,
		ISBN:     payload.ISBN,
		AuthorID: payload.AuthorID,
	}
	if err := bc.store.Create(&book, payload.GenreIDs); err != nil {
		respondRepositoryError(c, err, "book")
		return
	}

	// Re-read to pick up the preloaded author and genres for the projection.
	created, err := bc.store.GetByID(book.ID)
	if err != nil {
		respondInternalError(c, err, "create book")
		return
	}

	respondCreated(c, projectBook(created))
}

// Get handles GET /api/book/:id.
func (bc *BooksController) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	book, err := bc.store.GetByID(id)
	if err != nil {
		respondRepositoryError(c, err, "book")
		return
	}

	c.JSON(http.StatusOK, projectBook(book))
}

// Update handles PUT /api/book/:id with a full field replace, including the
// genre set.
func (bc *BooksController) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var payload bookPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	update := entities.Book{
		Title:    payload.Title,
		Summary:  payload.Summary,
		ISBN:     payload.ISBN,
		AuthorID: payload.AuthorID,
	}
	if err := bc.store.Update(id, update, payload.GenreIDs); err != nil {
		respondRepositoryError(c, err, "book")
		return
	}

	respondSuccess(c)
}

// Delete handles DELETE /api/book/:id. Deleting a book that still has
// physical copies yields a 409 conflict.
func (bc *BooksController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := bc.store.Delete(id); err != nil {
		respondRepositoryError(c, err, "book")
		return
	}

	respondSuccess(c)
}

// List handles GET /api/books with fixed-size pages.
func (bc *BooksController) List(c *gin.Context) {
	page := parsePageParam(c)

	total, err := bc.store.Count()
	if err != nil {
		respondInternalError(c, err, "list books")
		return
	}

	books, err := bc.store.List(pageSize, (page-1)*pageSize)
	if err != nil {
		respondInternalError(c, err, "list books")
		return
	}

	out := make([]BookOut, 0, len(books))
	for i := range books {
		out = append(out, projectBook(&books[i]))
	}

	c.JSON(http.StatusOK, PaginatedResponse{
		Data:       out,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages(total),
	})
}
