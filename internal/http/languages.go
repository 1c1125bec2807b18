package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/openshelf/catalog/internal/entities"
)

// LanguagesController serves the language CRUD API.
type LanguagesController struct {
	store LanguageStore
}

func NewLanguagesController(store LanguageStore) *LanguagesController {
	return &LanguagesController{store: store}
}

type languagePayload struct {
	Name string `json:"name" binding:"required"`
}

// Create handles POST /api/language/create. Language names are unique.
func (lc *LanguagesController) Create(c *gin.Context) {
	var payload languagePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	language := entities.Language{Name: payload.Name}
	if err := lc.store.Create(&language); err != nil {
		respondRepositoryError(c, err, "language")
		return
	}

	respondCreated(c, gin.H{"id": language.ID})
}

// Get handles GET /api/language/:id.
func (lc *LanguagesController) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	language, err := lc.store.GetByID(id)
	if err != nil {
		respondRepositoryError(c, err, "language")
		return
	}

	c.JSON(http.StatusOK, LanguageOut{ID: language.ID, Name: language.Name})
}

// Update handles PUT /api/language/:id.
func (lc *LanguagesController) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var payload languagePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	if err := lc.store.Update(id, payload.Name); err != nil {
		respondRepositoryError(c, err, "language")
		return
	}

	respondSuccess(c)
}

// Delete handles DELETE /api/language/:id. A language still referenced by
// any book copy yields a 409 conflict.
func (lc *LanguagesController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := lc.store.Delete(id); err != nil {
		respondRepositoryError(c, err, "language")
		return
	}

	respondSuccess(c)
}
