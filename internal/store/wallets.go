package store

import (
	"context"
	"errors"
	"time"

	"flexgym_back_end/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Wallets : portefeuilles utilisateur, créés paresseusement au premier crédit.
type Wallets struct {
	col *mongo.Collection
}

func NewWallets(db *mongo.Database) *Wallets {
	return &Wallets{col: db.Collection("wallets")}
}

// Credit incrémente le solde et ajoute la transaction dans la même opération
// atomique ($inc + $push), avec upsert au premier usage. L'invariant
// solde == somme des transactions tient donc après chaque mutation.
func (s *Wallets) Credit(ctx context.Context, userID string, tx models.WalletTransaction) (*models.Wallet, error) {
	now := time.Now()
	update := bson.M{
		"$inc":         bson.M{"balance": tx.Amount},
		"$push":        bson.M{"transactions": tx},
		"$set":         bson.M{"updated_at": now},
		"$setOnInsert": bson.M{"created_at": now}, // user_id vient du filtre à l'upsert
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var w models.Wallet
	if err := s.col.FindOneAndUpdate(ctx, bson.M{"user_id": userID}, update, opts).Decode(&w); err != nil {
		return nil, err
	}
	return &w, nil
}

func (s *Wallets) FindByUser(ctx context.Context, userID string) (*models.Wallet, error) {
	var w models.Wallet
	err := s.col.FindOne(ctx, bson.M{"user_id": userID}).Decode(&w)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}
