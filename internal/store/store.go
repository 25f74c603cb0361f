package store

import (
	"context"
	"log"

	"flexgym_back_end/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Stores regroupe les cinq collections logiques du moteur de paiement.
// Construit avec une base injectée : le cycle de vie du client appartient
// au point d'entrée, pas au cœur.
type Stores struct {
	Orders      *Orders
	Enrollments *Enrollments
	Plans       *PlanPurchases
	Payments    *Payments
	Wallets     *Wallets
}

func New(db *mongo.Database) *Stores {
	return &Stores{
		Orders:      NewOrders(db),
		Enrollments: NewEnrollments(db),
		Plans:       NewPlanPurchases(db),
		Payments:    NewPayments(db),
		Wallets:     NewWallets(db),
	}
}

// EnsureIndexes crée les index qui portent les invariants du grand livre :
// unicité de la transaction passerelle et au plus une ligne succeeded par
// (user, purpose, amount, références typées).
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("payments").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "gateway_txn_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{
				{Key: "user_id", Value: 1},
				{Key: "purpose", Value: 1},
				{Key: "amount", Value: 1},
				{Key: "related_order_id", Value: 1},
				{Key: "related_enrollment_id", Value: 1},
				{Key: "related_plan_id", Value: 1},
			},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"payment_status": models.PaymentSucceeded}),
		},
	})
	if err != nil {
		return err
	}

	_, err = db.Collection("wallets").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}

	log.Println("✅ Index MongoDB vérifiés (payments, wallets)")
	return nil
}
