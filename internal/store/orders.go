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

// Orders : collection des commandes boutique.
type Orders struct {
	col *mongo.Collection
}

func NewOrders(db *mongo.Database) *Orders {
	return &Orders{col: db.Collection("orders")}
}

func (s *Orders) FindByID(ctx context.Context, id string) (*models.Order, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil // id mal formé = introuvable, pas une erreur de base
	}
	var o models.Order
	err = s.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&o)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (s *Orders) SetStatus(ctx context.Context, id, status string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	_, err = s.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"status": status}})
	return err
}

// CancelPendingExcept annule toutes les commandes pending de l'utilisateur
// sauf celle qui vient d'être payée. Les commandes supplantées sont marquées
// cancelled, jamais supprimées.
func (s *Orders) CancelPendingExcept(ctx context.Context, userID, exceptID string) (int64, error) {
	filter := bson.M{"user_id": userID, "status": models.StatusPending}
	if oid, err := primitive.ObjectIDFromHex(exceptID); err == nil {
		filter["_id"] = bson.M{"$ne": oid}
	}
	res, err := s.col.UpdateMany(ctx, filter, bson.M{"$set": bson.M{"status": models.StatusCancelled}})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

func (s *Orders) ListByUser(ctx context.Context, userID string) ([]models.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := s.col.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}
