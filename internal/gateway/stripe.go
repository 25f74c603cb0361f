package gateway

import (
	"context"
	"log"

	"github.com/stripe/stripe-go/v83"
	"github.com/stripe/stripe-go/v83/paymentintent"
)

// Statuts normalisés de la frontière passerelle.
const (
	StatusSucceeded      = "succeeded"
	StatusFailed         = "failed"
	StatusRequiresAction = "requires_action"
)

// Authorization : résultat d'une tentative d'autorisation.
type Authorization struct {
	TransactionID string
	Status        string // succeeded, failed, requires_action
	Amount        int64  // centimes
	Currency      string
}

// Client : frontière Stripe. La clé API globale est initialisée par le point
// d'entrée (stripe.Key), comme le reste du cycle de vie.
type Client struct{}

// Charge crée et confirme un PaymentIntent à partir d'un token de moyen de
// paiement. Le cœur n'agit que sur le statut succeeded.
func (Client) Charge(ctx context.Context, amountMinor int64, currency, paymentMethod, customerRef string, metadata map[string]string) (*Authorization, error) {
	params := &stripe.PaymentIntentParams{
		Amount:        stripe.Int64(amountMinor),
		Currency:      stripe.String(currency),
		PaymentMethod: stripe.String(paymentMethod),
		Confirm:       stripe.Bool(true),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled:        stripe.Bool(true),
			AllowRedirects: stripe.String("never"),
		},
		Metadata: metadata,
	}
	params.Context = ctx

	intent, err := paymentintent.New(params)
	if err != nil {
		log.Println("❌ Erreur Stripe:", err)
		return nil, err
	}

	auth := &Authorization{
		TransactionID: intent.ID,
		Amount:        intent.Amount,
		Currency:      string(intent.Currency),
	}
	switch intent.Status {
	case stripe.PaymentIntentStatusSucceeded:
		auth.Status = StatusSucceeded
	case stripe.PaymentIntentStatusRequiresAction, stripe.PaymentIntentStatusRequiresConfirmation:
		auth.Status = StatusRequiresAction
	default:
		auth.Status = StatusFailed
	}

	log.Printf("💳 PaymentIntent %s : %s (%.2f€) pour %s", intent.ID, auth.Status, float64(intent.Amount)/100, customerRef)
	return auth, nil
}
