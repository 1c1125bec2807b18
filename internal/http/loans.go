package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// LoansController serves the borrowed-copy list views.
type LoansController struct {
	loans LoanService
}

func NewLoansController(loanService LoanService) *LoansController {
	return &LoansController{loans: loanService}
}

// Mine handles GET /api/loans/mine: the principal's own copies on loan,
// soonest due first. The route requires authentication.
func (lc *LoansController) Mine(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "authentication required"})
		return
	}

	loans, err := lc.loans.LoansFor(user.ID)
	if err != nil {
		respondInternalError(c, err, "my loans")
		return
	}

	now := time.Now()
	out := make([]InstanceOut, 0, len(loans))
	for i := range loans {
		out = append(out, projectInstance(&loans[i], now))
	}

	c.JSON(http.StatusOK, gin.H{"loans": out, "count": len(out)})
}

// All handles GET /api/loans: every copy on loan across borrowers. The
// loans service rejects principals without the mark-returned permission
// before reading any data.
func (lc *LoansController) All(c *gin.Context) {
	loans, err := lc.loans.AllLoans(CurrentUser(c))
	if err != nil {
		respondRepositoryError(c, err, "loans")
		return
	}

	now := time.Now()
	out := make([]InstanceOut, 0, len(loans))
	for i := range loans {
		out = append(out, projectInstance(&loans[i], now))
	}

	c.JSON(http.StatusOK, gin.H{"loans": out, "count": len(out)})
}
