package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"flexgym_back_end/internal/models"
	"flexgym_back_end/internal/payments"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Payments : grand livre des paiements. Les lignes ne sont jamais supprimées ;
// seuls les champs refund_* et payment_status évoluent après création.
type Payments struct {
	col *mongo.Collection
}

func NewPayments(db *mongo.Database) *Payments {
	return &Payments{col: db.Collection("payments")}
}

func (s *Payments) FindSucceededByRef(ctx context.Context, userID string, purpose payments.Purpose, amount float64, relatedID string) (*models.Payment, error) {
	filter := bson.M{
		"user_id":              userID,
		"purpose":              string(purpose),
		"amount":               amount,
		"payment_status":       models.PaymentSucceeded,
		purpose.RelatedField(): relatedID,
	}
	var p models.Payment
	err := s.col.FindOne(ctx, filter).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Payments) Insert(ctx context.Context, p *models.Payment) error {
	_, err := s.col.InsertOne(ctx, p)
	return err
}

func (s *Payments) CancelPending(ctx context.Context, userID string, purpose payments.Purpose, except primitive.ObjectID) (int64, error) {
	filter := bson.M{
		"user_id":        userID,
		"purpose":        string(purpose),
		"payment_status": models.PaymentPending,
		"_id":            bson.M{"$ne": except},
	}
	res, err := s.col.UpdateMany(ctx, filter, bson.M{"$set": bson.M{"payment_status": models.PaymentCancelled}})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// FindByRelated retrouve la ligne la plus récente succeeded ou refunded
// portant cette référence typée : une ligne déjà remboursée doit rester
// localisable pour répondre AlreadyProcessed plutôt que NotFound.
func (s *Payments) FindByRelated(ctx context.Context, userID, relatedField, relatedID string) (*models.Payment, error) {
	filter := bson.M{
		"user_id":        userID,
		relatedField:     relatedID,
		"payment_status": bson.M{"$in": []string{models.PaymentSucceeded, models.PaymentRefunded}},
	}
	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})

	var p models.Payment
	err := s.col.FindOne(ctx, filter, opts).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// FindByID applique le même filtre de statut que FindByRelated : une ligne
// pending ou cancelled (tentative de paiement supplantée) n'a jamais fait
// bouger d'argent et ne doit pas être remboursable, même ciblée par son id.
func (s *Payments) FindByID(ctx context.Context, userID string, id primitive.ObjectID) (*models.Payment, error) {
	var p models.Payment
	err := s.col.FindOne(ctx, bson.M{
		"_id":            id,
		"user_id":        userID,
		"payment_status": bson.M{"$in": []string{models.PaymentSucceeded, models.PaymentRefunded}},
	}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ClaimRefund est le verrou de concurrence du moteur de remboursement : seule la
// demande qui matche encore refund_status == none gagne le passage.
func (s *Payments) ClaimRefund(ctx context.Context, id primitive.ObjectID, reason string, at time.Time) (bool, error) {
	res, err := s.col.UpdateOne(ctx,
		bson.M{"_id": id, "refund_status": models.RefundNone},
		bson.M{"$set": bson.M{
			"refund_status":       models.RefundRequested,
			"refund_reason":       reason,
			"refund_requested_at": at,
		}},
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount == 1, nil
}

func (s *Payments) DenyRefund(ctx context.Context, id primitive.ObjectID, reason string, at time.Time) (bool, error) {
	res, err := s.col.UpdateOne(ctx,
		bson.M{"_id": id, "refund_status": models.RefundNone},
		bson.M{"$set": bson.M{
			"refund_status":       models.RefundDenied,
			"refund_reason":       reason,
			"refund_amount":       0.0,
			"refund_requested_at": at,
			"refund_processed_at": at,
		}},
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount == 1, nil
}

func (s *Payments) ApplyRefund(ctx context.Context, id primitive.ObjectID, amount float64, at time.Time) error {
	res, err := s.col.UpdateOne(ctx,
		bson.M{"_id": id, "refund_status": models.RefundRequested},
		bson.M{"$set": bson.M{
			"refund_status":       models.RefundRefunded,
			"refund_amount":       amount,
			"refund_processed_at": at,
			"payment_status":      models.PaymentRefunded,
		}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("ligne %s non réservée (refund_status != requested)", id.Hex())
	}
	return nil
}

func (s *Payments) ListByUser(ctx context.Context, userID string) ([]models.Payment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := s.col.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []models.Payment
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// ListRefunds retourne toutes les lignes dont le remboursement a été demandé,
// pour le tableau de bord admin.
func (s *Payments) ListRefunds(ctx context.Context) ([]models.Payment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "refund_requested_at", Value: -1}})
	cursor, err := s.col.Find(ctx, bson.M{"refund_status": bson.M{"$ne": models.RefundNone}}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []models.Payment
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
