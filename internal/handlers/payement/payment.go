package payement

import (
	"errors"
	"log"
	"math"
	"net/http"

	"flexgym_back_end/internal/gateway"
	"flexgym_back_end/internal/payments"
	"flexgym_back_end/internal/utils"

	"github.com/gin-gonic/gin"
)

// RecordPayment confirme un paiement : autorisation passerelle puis
// enregistrement idempotent. Rejouer la même confirmation est sans effet.
func (h *Handler) RecordPayment(c *gin.Context) {
	userID := c.GetString("user_id")
	email := c.GetString("email")

	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Utilisateur non authentifié"})
		return
	}

	var req struct {
		PaymentMethod string `json:"payment_method" binding:"required"`
		PurchaseType  string `json:"purchase_type" binding:"required"`
		PurchaseID    string `json:"purchase_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides", "details": err.Error()})
		return
	}

	purpose, err := payments.ParsePurchaseType(req.PurchaseType)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Type d'achat inconnu"})
		return
	}

	ctx := c.Request.Context()

	// Montant autoritaire depuis l'achat source, jamais depuis le client.
	amount, title, err := h.Recorder.Quote(ctx, purpose, req.PurchaseID)
	if err != nil {
		if errors.Is(err, payments.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Achat introuvable"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture achat"})
		return
	}

	auth, err := h.Gateway.Charge(ctx, int64(math.Round(amount*100)), "eur", req.PaymentMethod, userID, map[string]string{
		"user_id":     userID,
		"email":       email,
		"purpose":     string(purpose),
		"purchase_id": req.PurchaseID,
	})
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Paiement refusé par la passerelle", "details": err.Error()})
		return
	}
	if auth.Status != gateway.StatusSucceeded {
		c.JSON(http.StatusPaymentRequired, gin.H{"error": "Échec du paiement (statut passerelle : " + auth.Status + ")"})
		return
	}

	entry, err := h.Recorder.RecordSuccessfulPayment(ctx, payments.Authorization{
		UserID:        userID,
		UserEmail:     email,
		Purpose:       purpose,
		TargetID:      req.PurchaseID,
		Amount:        float64(auth.Amount) / 100,
		Currency:      auth.Currency,
		TransactionID: auth.TransactionID,
	})
	if err != nil {
		// Le paiement passerelle a réussi : le client doit rejouer la même
		// confirmation, l'enregistrement est idempotent.
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Paiement accepté mais non confirmé, réessayez", "details": err.Error()})
		return
	}

	// Reçu par e-mail, best-effort.
	if email != "" {
		receipt := *entry
		if receipt.ItemTitle == "" {
			receipt.ItemTitle = title
		}
		go func() {
			pdf, err := utils.GenerateReceiptPDF(receipt)
			if err != nil {
				log.Println("❌ Erreur génération reçu PDF:", err)
				pdf = nil
			}
			html := utils.GeneratePaymentReceiptHTML(receipt)
			if err := utils.SendConfirmationEmail(email, "✅ Paiement confirmé - FlexGym", html, pdf); err != nil {
				log.Println("❌ Erreur envoi e-mail reçu:", err)
			} else {
				log.Println("📧 Reçu envoyé à", email)
			}
		}()
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"payment": entry,
	})
}
