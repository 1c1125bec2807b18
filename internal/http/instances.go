package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/openshelf/catalog/internal/entities"
	"github.com/openshelf/catalog/internal/loans"
)

// InstancesController serves the book copy CRUD API and the loan actions.
type InstancesController struct {
	store InstanceStore
	loans LoanService
}

func NewInstancesController(store InstanceStore, loanService LoanService) *InstancesController {
	return &InstancesController{store: store, loans: loanService}
}

type instancePayload struct {
	BookID     uint    `json:"book_id" binding:"required"`
	Imprint    string  `json:"imprint"`
	DueBack    *string `json:"due_back"`
	BorrowerID *uint   `json:"borrower_id"`
	LanguageID *uint   `json:"language_id"`
	Status     string  `json:"status" binding:"required"`
}

func (p instancePayload) toEntity(c *gin.Context) (entities.BookInstance, bool) {
	dueBack, ok := parseDate(p.DueBack)
	if !ok {
		respondFieldError(c, "due_back", "expected YYYY-MM-DD")
		return entities.BookInstance{}, false
	}
	return entities.BookInstance{
		BookID:     p.BookID,
		Imprint:    p.Imprint,
		DueBack:    dueBack,
		BorrowerID: p.BorrowerID,
		LanguageID: p.LanguageID,
		Status:     entities.InstanceStatus(p.Status),
	}, true
}

// Create handles POST /api/book_instance/create. The response projection
// carries the derived is_overdue flag.
func (ic *InstancesController) Create(c *gin.Context) {
	var payload instancePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	instance, ok := payload.toEntity(c)
	if !ok {
		return
	}

	if err := ic.store.Create(&instance); err != nil {
		respondRepositoryError(c, err, "book instance")
		return
	}

	created, err := ic.store.GetByID(instance.ID)
	if err != nil {
		respondInternalError(c, err, "create book instance")
		return
	}

	respondCreated(c, projectInstance(created, time.Now()))
}

// Get handles GET /api/book_instance/:id.
func (ic *InstancesController) Get(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	instance, err := ic.store.GetByID(id)
	if err != nil {
		respondRepositoryError(c, err, "book instance")
		return
	}

	c.JSON(http.StatusOK, projectInstance(instance, time.Now()))
}

// Update handles PUT /api/book_instance/:id with a full field replace.
func (ic *InstancesController) Update(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var payload instancePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	update, ok := payload.toEntity(c)
	if !ok {
		return
	}

	if err := ic.store.Update(id, update); err != nil {
		respondRepositoryError(c, err, "book instance")
		return
	}

	respondSuccess(c)
}

// Delete handles DELETE /api/book_instance/:id.
func (ic *InstancesController) Delete(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := ic.store.Delete(id); err != nil {
		respondRepositoryError(c, err, "book instance")
		return
	}

	respondSuccess(c)
}

type renewPayload struct {
	DueBack *string `json:"due_back"`
}

// Renew handles POST /api/book_instance/:id/renew. The due-back date
// defaults to three weeks from today when none is supplied; dates outside
// the four-week renewal window are rejected with field-level detail.
func (ic *InstancesController) Renew(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var payload renewPayload
	if err := c.ShouldBindJSON(&payload); err != nil && c.Request.ContentLength > 0 {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	proposed := loans.DefaultRenewalDate(time.Now())
	if parsed, ok := parseDate(payload.DueBack); !ok {
		respondFieldError(c, "due_back", "expected YYYY-MM-DD")
		return
	} else if parsed != nil {
		proposed = *parsed
	}

	if err := ic.loans.Renew(CurrentUser(c), id, proposed); err != nil {
		respondRepositoryError(c, err, "book instance")
		return
	}

	respondSuccess(c)
}

// Return handles POST /api/book_instance/:id/return: the copy's borrower
// and due-back are cleared and it becomes available again.
func (ic *InstancesController) Return(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := ic.loans.Return(CurrentUser(c), id); err != nil {
		respondRepositoryError(c, err, "book instance")
		return
	}

	respondSuccess(c)
}
