package payement

import (
	"errors"
	"net/http"

	"flexgym_back_end/internal/payments"

	"github.com/gin-gonic/gin"
)

// RequestRefund soumet une demande de remboursement au moteur de politique.
func (h *Handler) RequestRefund(c *gin.Context) {
	userID := c.GetString("user_id")
	email := c.GetString("email")

	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Utilisateur non authentifié"})
		return
	}

	var req struct {
		PurchaseID   string  `json:"purchase_id" binding:"required"`
		PurchaseType string  `json:"purchase_type" binding:"required"`
		Amount       float64 `json:"amount"` // indicatif, le montant est recalculé côté serveur
		Reason       string  `json:"reason" binding:"required,min=10,max=500"`
		UserName     string  `json:"user_name"`
		ItemTitle    string  `json:"item_title"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides", "details": err.Error()})
		return
	}

	outcome, err := h.Refunds.RequestRefund(c.Request.Context(), payments.RefundRequest{
		UserID:       userID,
		PurchaseID:   req.PurchaseID,
		PurchaseType: req.PurchaseType,
		Reason:       req.Reason,
		UserEmail:    email,
		UserName:     req.UserName,
		ItemTitle:    req.ItemTitle,
	})
	if err != nil {
		h.writeRefundError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"refund_amount": outcome.RefundAmount,
		"refund_status": outcome.Payment.RefundStatus,
	})
}

// writeRefundError traduit la taxonomie du moteur en réponses HTTP, avec le
// contexte de recherche quand la ligne est introuvable (debug support-desk).
func (h *Handler) writeRefundError(c *gin.Context, err error) {
	var lookupErr *payments.LookupError

	switch {
	case errors.Is(err, payments.ErrInvalidType):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Type d'achat inconnu"})
	case errors.As(err, &lookupErr):
		c.JSON(http.StatusNotFound, gin.H{
			"error":         "Paiement introuvable pour cet achat",
			"debug_context": gin.H{"strategies_essayees": lookupErr.Tried},
		})
	case errors.Is(err, payments.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Achat introuvable"})
	case errors.Is(err, payments.ErrAlreadyProcessed):
		c.JSON(http.StatusConflict, gin.H{"error": "Une demande de remboursement a déjà été traitée pour cet achat"})
	case errors.Is(err, payments.ErrWindowExpired):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Les remboursements ne sont possibles que dans les 7 jours suivant l'achat"})
	case errors.Is(err, payments.ErrNotRefundable):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Les achats boutique ne sont pas remboursables"})
	default:
		// Mutation partielle possible : le client doit vérifier l'état du
		// remboursement avant de soumettre à nouveau.
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Remboursement en cours de traitement, vérifiez son état avant de réessayer"})
	}
}
