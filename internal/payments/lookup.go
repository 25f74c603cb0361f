package payments

import (
	"context"
	"fmt"
	"log"

	"flexgym_back_end/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// lookupStrategy : une façon de localiser la ligne du grand livre. Selon
// l'écran, le client envoie l'id de l'achat source, le nom de la formule ou
// l'id de la ligne elle-même : on évalue donc chaque forme dans l'ordre.
type lookupStrategy struct {
	name string
	find func(ctx context.Context, userID, purchaseID string) (*models.Payment, error)
}

func (e *Engine) strategies() []lookupStrategy {
	return []lookupStrategy{
		{"référence inscription", e.byRelated("related_enrollment_id")},
		{"référence commande", e.byRelated("related_order_id")},
		{"référence souscription", e.byRelated("related_plan_id")},
		{"nom de formule", e.byPlanName},
		{"id de ligne", e.byLedgerID},
	}
}

func (e *Engine) byRelated(field string) func(context.Context, string, string) (*models.Payment, error) {
	return func(ctx context.Context, userID, purchaseID string) (*models.Payment, error) {
		return e.payments.FindByRelated(ctx, userID, field, purchaseID)
	}
}

// byPlanName retombe sur le nom de formule : on retrouve la souscription
// paid/active correspondante, puis sa ligne de paiement.
func (e *Engine) byPlanName(ctx context.Context, userID, purchaseID string) (*models.Payment, error) {
	plan, err := e.plans.FindActiveByName(ctx, userID, purchaseID)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, nil
	}
	return e.payments.FindByRelated(ctx, userID, "related_plan_id", plan.ID.Hex())
}

func (e *Engine) byLedgerID(ctx context.Context, userID, purchaseID string) (*models.Payment, error) {
	oid, err := primitive.ObjectIDFromHex(purchaseID)
	if err != nil {
		return nil, nil // pas un id de ligne, la stratégie ne s'applique pas
	}
	return e.payments.FindByID(ctx, userID, oid)
}

func (e *Engine) locatePayment(ctx context.Context, userID, purchaseID string) (*models.Payment, error) {
	tried := make([]string, 0, 5)
	for _, s := range e.strategies() {
		p, err := s.find(ctx, userID, purchaseID)
		if err != nil {
			return nil, fmt.Errorf("%w: stratégie %q: %v", ErrPersistence, s.name, err)
		}
		if p != nil {
			log.Printf("🔎 Paiement %s localisé pour user %s (stratégie : %s)", p.ID.Hex(), userID, s.name)
			return p, nil
		}
		tried = append(tried, s.name)
	}
	return nil, &LookupError{Tried: tried}
}
