package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/openshelf/catalog/internal/entities"
)

// GenresController serves the genre CRUD API.
type GenresController struct {
	store GenreStore
}

func NewGenresController(store GenreStore) *GenresController {
	return &GenresController{store: store}
}

type genrePayload struct {
	Name string `json:"name" binding:"required"`
}

// Create handles POST /api/genre/create.
func (gc *GenresController) Create(c *gin.Context) {
	var payload genrePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	genre := entities.Genre{Name: payload.Name}
	if err := gc.store.Create(&genre); err != nil {
		respondRepositoryError(c, err, "genre")
		return
	}

	respondCreated(c, gin.H{"id": genre.ID})
}

// Get handles GET /api/genre/:id.
func (gc *GenresController) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	genre, err := gc.store.GetByID(id)
	if err != nil {
		respondRepositoryError(c, err, "genre")
		return
	}

	c.JSON(http.StatusOK, GenreOut{ID: genre.ID, Name: genre.Name})
}

// Update handles PUT /api/genre/:id.
func (gc *GenresController) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var payload genrePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	if err := gc.store.Update(id, payload.Name); err != nil {
		respondRepositoryError(c, err, "genre")
		return
	}

	respondSuccess(c)
}

// Delete handles DELETE /api/genre/:id.
func (gc *GenresController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := gc.store.Delete(id); err != nil {
		respondRepositoryError(c, err, "genre")
		return
	}

	respondSuccess(c)
}
