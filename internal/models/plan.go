package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PlanPurchase : souscription à une formule d'abonnement (Basic, Premium, Elite...)
type PlanPurchase struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID        string             `bson:"user_id" json:"user_id"`
	PlanName      string             `bson:"plan_name" json:"plan_name"`
	BillingPeriod string             `bson:"billing_period,omitempty" json:"billing_period,omitempty"` // monthly, yearly
	Amount        float64            `bson:"amount" json:"amount"`
	Status        string             `bson:"status" json:"status"` // pending, active, cancelled, refunded
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
}
