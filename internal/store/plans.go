package store

import (
	"context"
	"errors"

	"flexgym_back_end/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PlanPurchases : collection des souscriptions aux formules d'abonnement.
type PlanPurchases struct {
	col *mongo.Collection
}

func NewPlanPurchases(db *mongo.Database) *PlanPurchases {
	return &PlanPurchases{col: db.Collection("plan_purchases")}
}

func (s *PlanPurchases) FindByID(ctx context.Context, id string) (*models.PlanPurchase, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	var p models.PlanPurchase
	err = s.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *PlanPurchases) FindActiveByName(ctx context.Context, userID, planName string) (*models.PlanPurchase, error) {
	filter := bson.M{
		"user_id":   userID,
		"plan_name": planName,
		"status":    bson.M{"$in": []string{models.StatusPaid, models.StatusActive}},
	}
	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})

	var p models.PlanPurchase
	err := s.col.FindOne(ctx, filter, opts).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *PlanPurchases) SetStatus(ctx context.Context, id, status string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	_, err = s.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"status": status}})
	return err
}

// MarkRefundedByAmount passe en refunded toutes les souscriptions paid/active
// de l'utilisateur portant ce montant.
func (s *PlanPurchases) MarkRefundedByAmount(ctx context.Context, userID string, amount float64) (int64, error) {
	filter := bson.M{
		"user_id": userID,
		"amount":  amount,
		"status":  bson.M{"$in": []string{models.StatusPaid, models.StatusActive}},
	}
	res, err := s.col.UpdateMany(ctx, filter, bson.M{"$set": bson.M{"status": models.StatusRefunded}})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

func (s *PlanPurchases) ListByUser(ctx context.Context, userID string) ([]models.PlanPurchase, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := s.col.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var plans []models.PlanPurchase
	if err := cursor.All(ctx, &plans); err != nil {
		return nil, err
	}
	return plans, nil
}
