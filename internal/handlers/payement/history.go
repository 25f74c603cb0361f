package payement

import (
	"log"
	"net/http"

	"flexgym_back_end/internal/models"

	"github.com/gin-gonic/gin"
)

// GetPurchaseHistory retourne la vue chronologique unifiée des achats de
// l'utilisateur connecté, annotée avec l'état de remboursement.
func (h *Handler) GetPurchaseHistory(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Utilisateur non authentifié"})
		return
	}

	items, err := h.History.GetPurchaseHistory(c.Request.Context(), userID)
	if err != nil {
		log.Println("❌ Erreur lecture historique:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture historique"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"purchases": items,
		"count":     len(items),
	})
}

// GetWallet retourne le portefeuille de l'utilisateur connecté. Un
// portefeuille jamais crédité est rendu vide avec un solde à zéro.
func (h *Handler) GetWallet(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Utilisateur non authentifié"})
		return
	}

	wallet, err := h.Wallets.FindByUser(c.Request.Context(), userID)
	if err != nil {
		log.Println("❌ Erreur lecture portefeuille:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture portefeuille"})
		return
	}
	if wallet == nil {
		wallet = &models.Wallet{
			UserID:       userID,
			Balance:      0,
			Transactions: []models.WalletTransaction{},
		}
	}

	c.JSON(http.StatusOK, wallet)
}
