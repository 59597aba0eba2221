package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	offerdomain "github.com/offerdesk/offerdesk/internal/offer/domain"
)

// publicOfferView hides the tenant internals a shared link must not leak.
type publicOfferView struct {
	OfferNumber  string                  `json:"offer_number"`
	CustomerName string                  `json:"customer_name"`
	OfferDate    string                  `json:"offer_date"`
	DueDate      *string                 `json:"due_date,omitempty"`
	Currency     offerdomain.Currency    `json:"currency"`
	Notes        *string                 `json:"notes,omitempty"`
	Status       offerdomain.Status      `json:"status"`
	Items        []offerdomain.OfferItem `json:"items"`
	Breakdown    offerdomain.Breakdown   `json:"breakdown"`
}

func (s *Server) GetPublicOffer(c *gin.Context) {
	token := strings.TrimSpace(c.Param("token"))
	if token == "" {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	offer, err := s.offerSvc.GetPublic(c.Request.Context(), token)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	const dateLayout = "2006-01-02"
	view := publicOfferView{
		OfferNumber:  offer.OfferNumber,
		CustomerName: offer.CustomerName,
		OfferDate:    offer.OfferDate.Format(dateLayout),
		Currency:     offer.Currency,
		Notes:        offer.Notes,
		Status:       offer.Status,
		Items:        offer.Items,
		Breakdown:    offerdomain.ComputeBreakdown(offer.Items),
	}
	if offer.DueDate != nil {
		due := offer.DueDate.Format(dateLayout)
		view.DueDate = &due
	}

	c.JSON(http.StatusOK, gin.H{"data": view})
}

func (s *Server) GetPublicOfferPDF(c *gin.Context) {
	token := strings.TrimSpace(c.Param("token"))
	if token == "" {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	doc, filename, err := s.offerSvc.GetPublicPDF(c.Request.Context(), token)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Header("Content-Disposition", `inline; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", doc)
}
