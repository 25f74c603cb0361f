package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Statuts de paiement
const (
	PaymentSucceeded = "succeeded"
	PaymentPending   = "pending"
	PaymentCancelled = "cancelled"
	PaymentRefunded  = "refunded"
)

// Sous-états de remboursement
const (
	RefundNone      = "none"
	RefundRequested = "requested"
	RefundRefunded  = "refunded"
	RefundDenied    = "denied"
)

// Payment : écriture du grand livre des paiements. Une ligne par autorisation
// réussie, jamais supprimée. Une seule référence related_* est renseignée.
type Payment struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID        string             `bson:"user_id" json:"user_id"`
	GatewayTxnID  string             `bson:"gateway_txn_id" json:"gateway_txn_id"`
	Amount        float64            `bson:"amount" json:"amount"`
	Currency      string             `bson:"currency" json:"currency"`
	Purpose       string             `bson:"purpose" json:"purpose"` // order, enrollment, pricing-plan
	PaymentStatus string             `bson:"payment_status" json:"payment_status"`

	RelatedOrderID      string `bson:"related_order_id,omitempty" json:"related_order_id,omitempty"`
	RelatedEnrollmentID string `bson:"related_enrollment_id,omitempty" json:"related_enrollment_id,omitempty"`
	RelatedPlanID       string `bson:"related_plan_id,omitempty" json:"related_plan_id,omitempty"`

	RefundStatus      string     `bson:"refund_status" json:"refund_status"` // none, requested, refunded, denied
	RefundAmount      float64    `bson:"refund_amount,omitempty" json:"refund_amount,omitempty"`
	RefundReason      string     `bson:"refund_reason,omitempty" json:"refund_reason,omitempty"`
	RefundRequestedAt *time.Time `bson:"refund_requested_at,omitempty" json:"refund_requested_at,omitempty"`
	RefundProcessedAt *time.Time `bson:"refund_processed_at,omitempty" json:"refund_processed_at,omitempty"`

	ItemTitle string    `bson:"item_title,omitempty" json:"item_title,omitempty"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
