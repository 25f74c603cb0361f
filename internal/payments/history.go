package payments

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"time"

	"flexgym_back_end/internal/models"

	"github.com/redis/go-redis/v9"
)

// HistoryItem : une ligne de la vue chronologique unifiée des achats.
type HistoryItem struct {
	ID            string    `json:"id"`
	Purpose       string    `json:"purpose"`
	ItemTitle     string    `json:"item_title"`
	Amount        float64   `json:"amount"`
	Status        string    `json:"status"`
	RefundStatus  string    `json:"refund_status"`
	RefundAmount  float64   `json:"refund_amount,omitempty"`
	CanRefund     bool      `json:"can_refund"`
	RefundWindowS int64     `json:"refund_window_remaining_s"` // secondes restantes, 0 si expirée
	CreatedAt     time.Time `json:"created_at"`
}

// History : agrégateur de lecture sur les quatre collections. Aucune
// mutation ; le résultat est mis en cache Redis quelques secondes.
type History struct {
	payments    PaymentStore
	orders      OrderStore
	enrollments EnrollmentStore
	plans       PlanPurchaseStore
	cache       *redis.Client // optionnel
	cacheTTL    time.Duration
	now         func() time.Time
}

func NewHistory(ledger PaymentStore, orders OrderStore, enrollments EnrollmentStore, plans PlanPurchaseStore, cache *redis.Client) *History {
	return &History{
		payments:    ledger,
		orders:      orders,
		enrollments: enrollments,
		plans:       plans,
		cache:       cache,
		cacheTTL:    30 * time.Second,
		now:         time.Now,
	}
}

// GetPurchaseHistory fusionne commandes, inscriptions et souscriptions avec
// le grand livre, triées par date de création décroissante.
func (h *History) GetPurchaseHistory(ctx context.Context, userID string) ([]HistoryItem, error) {
	cacheKey := "purchase_history:" + userID
	if h.cache != nil {
		if raw, err := h.cache.Get(ctx, cacheKey).Result(); err == nil {
			var items []HistoryItem
			if json.Unmarshal([]byte(raw), &items) == nil {
				return items, nil
			}
		}
	}

	ledger, err := h.payments.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: lecture grand livre: %v", ErrPersistence, err)
	}
	byRef := make(map[string]*models.Payment, len(ledger))
	for i := range ledger {
		p := &ledger[i]
		for _, ref := range []string{p.RelatedOrderID, p.RelatedEnrollmentID, p.RelatedPlanID} {
			if ref != "" {
				byRef[ref] = p
			}
		}
	}

	var items []HistoryItem

	orders, err := h.orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: lecture commandes: %v", ErrPersistence, err)
	}
	for _, o := range orders {
		title := "Commande boutique"
		if len(o.Items) > 0 {
			title = o.Items[0].Name
		}
		items = append(items, h.buildItem(o.ID.Hex(), PurposeOrder, title, o.TotalAmount, o.Status, o.CreatedAt, byRef[o.ID.Hex()]))
	}

	enrollments, err := h.enrollments.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: lecture inscriptions: %v", ErrPersistence, err)
	}
	for _, e := range enrollments {
		items = append(items, h.buildItem(e.ID.Hex(), PurposeEnrollment, e.ClassName, e.TotalAmount, e.Status, e.CreatedAt, byRef[e.ID.Hex()]))
	}

	plans, err := h.plans.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: lecture souscriptions: %v", ErrPersistence, err)
	}
	for _, p := range plans {
		items = append(items, h.buildItem(p.ID.Hex(), PurposePlan, p.PlanName, p.Amount, p.Status, p.CreatedAt, byRef[p.ID.Hex()]))
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})

	if h.cache != nil {
		if raw, err := json.Marshal(items); err == nil {
			if err := h.cache.Set(ctx, cacheKey, raw, h.cacheTTL).Err(); err != nil {
				log.Printf("⚠️ Cache historique non écrit pour %s: %v", userID, err)
			}
		}
	}
	return items, nil
}

func (h *History) buildItem(id string, purpose Purpose, title string, amount float64, status string, createdAt time.Time, payment *models.Payment) HistoryItem {
	item := HistoryItem{
		ID:           id,
		Purpose:      string(purpose),
		ItemTitle:    title,
		Amount:       amount,
		Status:       status,
		RefundStatus: models.RefundNone,
		CreatedAt:    createdAt,
	}
	if payment != nil {
		item.RefundStatus = payment.RefundStatus
		item.RefundAmount = payment.RefundAmount

		// Même ancre que le moteur : la fenêtre court depuis la création de l'achat.
		remaining := RefundWindow - h.now().Sub(createdAt)
		if remaining < 0 {
			remaining = 0
		}
		item.RefundWindowS = int64(remaining.Seconds())
		item.CanRefund = purpose != PurposeOrder &&
			payment.RefundStatus == models.RefundNone &&
			payment.PaymentStatus == models.PaymentSucceeded &&
			remaining > 0
	}
	return item
}
