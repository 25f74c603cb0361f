package payement

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetAllRefundRequests récupère toutes les demandes de remboursement (admin)
func (h *Handler) GetAllRefundRequests(c *gin.Context) {
	entries, err := h.Ledger.ListRefunds(c.Request.Context())
	if err != nil {
		log.Println("❌ Erreur lecture remboursements:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture remboursements"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"refunds": entries,
		"count":   len(entries),
	})
}

// SearchPayments recherche dans le miroir Elasticsearch du grand livre (admin,
// outil support-desk).
func (h *Handler) SearchPayments(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Paramètre q manquant"})
		return
	}

	results, err := h.Indexer.SearchPayments(query)
	if err != nil {
		log.Println("❌ Erreur recherche Elastic:", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Recherche indisponible"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"results": results,
		"count":   len(results),
	})
}
