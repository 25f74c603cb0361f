package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Enrollment : inscription à un cours collectif (yoga, crossfit, spinning...)
type Enrollment struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      string             `bson:"user_id" json:"user_id"`
	ClassName   string             `bson:"class_name" json:"class_name"`
	CoachName   string             `bson:"coach_name,omitempty" json:"coach_name,omitempty"`
	StartDate   time.Time          `bson:"start_date,omitempty" json:"start_date,omitempty"`
	TotalAmount float64            `bson:"total_amount" json:"total_amount"`
	Status      string             `bson:"status" json:"status"` // pending, paid, cancelled, refunded, completed
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
}
