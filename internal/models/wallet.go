package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Types de transaction portefeuille
const (
	WalletCredit = "credit"
	WalletDebit  = "debit"
)

type WalletTransaction struct {
	ID          string    `bson:"id" json:"id"`
	Type        string    `bson:"type" json:"type"` // credit, debit
	Amount      float64   `bson:"amount" json:"amount"`
	Description string    `bson:"description" json:"description"`
	PurchaseID  string    `bson:"purchase_id,omitempty" json:"purchase_id,omitempty"`
	Status      string    `bson:"status" json:"status"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
}

// Wallet : portefeuille utilisateur, crédité uniquement par le moteur de
// remboursement. Invariant : Balance == somme des montants des transactions.
type Wallet struct {
	ID           primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	UserID       string              `bson:"user_id" json:"user_id"`
	Balance      float64             `bson:"balance" json:"balance"`
	Transactions []WalletTransaction `bson:"transactions" json:"transactions"`
	CreatedAt    time.Time           `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time           `bson:"updated_at" json:"updated_at"`
}
