package payments

import (
	"context"
	"time"

	"flexgym_back_end/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Frontière document store consommée par le cœur. Les implémentations Mongo
// vivent dans internal/store et sont injectées par le point d'entrée : aucun
// client global ici. Convention : les Find* retournent (nil, nil) quand le
// document n'existe pas ; une erreur signale uniquement un échec de la base.

type OrderStore interface {
	FindByID(ctx context.Context, id string) (*models.Order, error)
	SetStatus(ctx context.Context, id, status string) error
	// CancelPendingExcept annule toutes les commandes pending de l'utilisateur
	// sauf celle indiquée, et retourne le nombre de commandes annulées.
	CancelPendingExcept(ctx context.Context, userID, exceptID string) (int64, error)
	ListByUser(ctx context.Context, userID string) ([]models.Order, error)
}

type EnrollmentStore interface {
	FindByID(ctx context.Context, id string) (*models.Enrollment, error)
	SetStatus(ctx context.Context, id, status string) error
	ListByUser(ctx context.Context, userID string) ([]models.Enrollment, error)
}

type PlanPurchaseStore interface {
	FindByID(ctx context.Context, id string) (*models.PlanPurchase, error)
	// FindActiveByName retrouve une souscription paid/active par nom de formule
	// (le client fournit parfois le nom plutôt que l'id).
	FindActiveByName(ctx context.Context, userID, planName string) (*models.PlanPurchase, error)
	SetStatus(ctx context.Context, id, status string) error
	// MarkRefundedByAmount passe en refunded toutes les souscriptions
	// paid/active de l'utilisateur portant ce montant.
	MarkRefundedByAmount(ctx context.Context, userID string, amount float64) (int64, error)
	ListByUser(ctx context.Context, userID string) ([]models.PlanPurchase, error)
}

type PaymentStore interface {
	// FindSucceededByRef est la sonde d'idempotence : ligne succeeded pour
	// (user, purpose, amount, référence typée).
	FindSucceededByRef(ctx context.Context, userID string, purpose Purpose, amount float64, relatedID string) (*models.Payment, error)
	Insert(ctx context.Context, p *models.Payment) error
	// CancelPending annule les doublons pending pour (user, purpose), en
	// excluant la ligne indiquée.
	CancelPending(ctx context.Context, userID string, purpose Purpose, except primitive.ObjectID) (int64, error)
	FindByRelated(ctx context.Context, userID, relatedField, relatedID string) (*models.Payment, error)
	FindByID(ctx context.Context, userID string, id primitive.ObjectID) (*models.Payment, error)
	// ClaimRefund fait passer atomiquement refund_status de none à requested.
	// Retourne false si une autre demande a déjà gagné le passage.
	ClaimRefund(ctx context.Context, id primitive.ObjectID, reason string, at time.Time) (bool, error)
	// DenyRefund fait passer atomiquement refund_status de none à denied.
	DenyRefund(ctx context.Context, id primitive.ObjectID, reason string, at time.Time) (bool, error)
	// ApplyRefund écrit l'état terminal (requested → refunded) : montant,
	// horodatage et payment_status refunded.
	ApplyRefund(ctx context.Context, id primitive.ObjectID, amount float64, at time.Time) error
	ListByUser(ctx context.Context, userID string) ([]models.Payment, error)
	ListRefunds(ctx context.Context) ([]models.Payment, error)
}

type WalletStore interface {
	// Credit incrémente le solde et ajoute la transaction en une seule
	// opération atomique, en créant le portefeuille au premier usage.
	// Retourne le portefeuille après mutation.
	Credit(ctx context.Context, userID string, tx models.WalletTransaction) (*models.Wallet, error)
	FindByUser(ctx context.Context, userID string) (*models.Wallet, error)
}

// Mailer : frontière de notification. Les échecs sont logués, jamais propagés.
type Mailer interface {
	Send(to, subject, htmlBody string) error
}

// Indexer : miroir support-desk (Elasticsearch), strictement best-effort.
type Indexer interface {
	IndexPayment(p models.Payment)
}
