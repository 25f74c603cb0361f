package payments

import (
	"context"
	"fmt"
	"log"
	"time"

	"flexgym_back_end/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Authorization : résultat d'une autorisation passerelle réussie, tel que
// transmis par le handler de confirmation.
type Authorization struct {
	UserID        string
	UserEmail     string
	Purpose       Purpose
	TargetID      string  // id de l'achat visé (commande, inscription ou souscription)
	Amount        float64 // montant annoncé par la passerelle, jamais utilisé comme montant facturé
	Currency      string
	TransactionID string // id de transaction passerelle, unique par autorisation
}

// Recorder : enregistreur idempotent de paiements. Rejouer la même
// autorisation ne crée ni doublon au grand livre ni double effet de bord.
type Recorder struct {
	orders      OrderStore
	enrollments EnrollmentStore
	plans       PlanPurchaseStore
	payments    PaymentStore
	index       Indexer
	now         func() time.Time
}

func NewRecorder(orders OrderStore, enrollments EnrollmentStore, plans PlanPurchaseStore, ledger PaymentStore, index Indexer) *Recorder {
	return &Recorder{
		orders:      orders,
		enrollments: enrollments,
		plans:       plans,
		payments:    ledger,
		index:       index,
		now:         time.Now,
	}
}

type sourceRecord struct {
	amount float64
	title  string
}

// Quote retourne le montant autoritaire et le libellé de l'achat source.
// C'est ce montant qui part à la passerelle, jamais celui du client.
func (r *Recorder) Quote(ctx context.Context, purpose Purpose, targetID string) (float64, string, error) {
	src, err := r.resolveSource(ctx, purpose, targetID)
	if err != nil {
		return 0, "", err
	}
	return src.amount, src.title, nil
}

func (r *Recorder) resolveSource(ctx context.Context, purpose Purpose, targetID string) (*sourceRecord, error) {
	switch purpose {
	case PurposeOrder:
		o, err := r.orders.FindByID(ctx, targetID)
		if err != nil {
			return nil, fmt.Errorf("%w: lecture commande: %v", ErrPersistence, err)
		}
		if o == nil {
			return nil, fmt.Errorf("%w: commande %s", ErrNotFound, targetID)
		}
		title := "Commande boutique"
		if len(o.Items) > 0 {
			title = o.Items[0].Name
		}
		return &sourceRecord{amount: o.TotalAmount, title: title}, nil

	case PurposeEnrollment:
		e, err := r.enrollments.FindByID(ctx, targetID)
		if err != nil {
			return nil, fmt.Errorf("%w: lecture inscription: %v", ErrPersistence, err)
		}
		if e == nil {
			return nil, fmt.Errorf("%w: inscription %s", ErrNotFound, targetID)
		}
		return &sourceRecord{amount: e.TotalAmount, title: e.ClassName}, nil

	case PurposePlan:
		p, err := r.plans.FindByID(ctx, targetID)
		if err != nil {
			return nil, fmt.Errorf("%w: lecture souscription: %v", ErrPersistence, err)
		}
		if p == nil {
			return nil, fmt.Errorf("%w: souscription %s", ErrNotFound, targetID)
		}
		return &sourceRecord{amount: p.Amount, title: p.PlanName}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrInvalidType, purpose)
}

// RecordSuccessfulPayment transforme une autorisation réussie en état durable :
// ligne du grand livre, annulation des doublons pending et synchronisation du
// statut de l'achat source. Toute la séquence est rejouable à l'identique.
func (r *Recorder) RecordSuccessfulPayment(ctx context.Context, auth Authorization) (*models.Payment, error) {
	// 1. Résoudre l'achat source : échec avant toute mutation si absent.
	src, err := r.resolveSource(ctx, auth.Purpose, auth.TargetID)
	if err != nil {
		return nil, err
	}

	// 2. Sonde d'idempotence : une confirmation rejouée retrouve sa ligne.
	entry, err := r.payments.FindSucceededByRef(ctx, auth.UserID, auth.Purpose, src.amount, auth.TargetID)
	if err != nil {
		return nil, fmt.Errorf("%w: sonde d'idempotence: %v", ErrPersistence, err)
	}

	if entry == nil {
		// 3. Créer la ligne, une seule référence typée renseignée.
		entry = &models.Payment{
			ID:            primitive.NewObjectID(),
			UserID:        auth.UserID,
			GatewayTxnID:  auth.TransactionID,
			Amount:        src.amount,
			Currency:      auth.Currency,
			Purpose:       string(auth.Purpose),
			PaymentStatus: models.PaymentSucceeded,
			RefundStatus:  models.RefundNone,
			ItemTitle:     src.title,
			CreatedAt:     r.now(),
		}
		switch auth.Purpose {
		case PurposeOrder:
			entry.RelatedOrderID = auth.TargetID
		case PurposeEnrollment:
			entry.RelatedEnrollmentID = auth.TargetID
		case PurposePlan:
			entry.RelatedPlanID = auth.TargetID
		}
		if err := r.payments.Insert(ctx, entry); err != nil {
			return nil, fmt.Errorf("%w: insertion grand livre: %v", ErrPersistence, err)
		}
		log.Printf("💳 Paiement enregistré %s (%s, %.2f€) pour user %s", entry.ID.Hex(), auth.Purpose, src.amount, auth.UserID)
	} else {
		log.Printf("🔁 Paiement %s déjà enregistré pour user %s, on ne recrée pas", entry.ID.Hex(), auth.UserID)
	}

	// 4. Supplanter les doublons pending (tentatives de paiement abandonnées).
	n, err := r.payments.CancelPending(ctx, auth.UserID, auth.Purpose, entry.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: annulation doublons pending: %v", ErrPersistence, err)
	}
	if n > 0 {
		log.Printf("🧹 %d paiement(s) pending annulé(s) pour user %s (%s)", n, auth.UserID, auth.Purpose)
	}

	// 5. Synchroniser le statut de l'achat source.
	if err := r.syncSourceStatus(ctx, auth); err != nil {
		return nil, err
	}

	if r.index != nil {
		r.index.IndexPayment(*entry)
	}
	return entry, nil
}

func (r *Recorder) syncSourceStatus(ctx context.Context, auth Authorization) error {
	switch auth.Purpose {
	case PurposeOrder:
		if err := r.orders.SetStatus(ctx, auth.TargetID, models.StatusPaid); err != nil {
			return fmt.Errorf("%w: statut commande: %v", ErrPersistence, err)
		}
		// Règle métier : plus aucune commande pending une fois l'une d'elles payée.
		n, err := r.orders.CancelPendingExcept(ctx, auth.UserID, auth.TargetID)
		if err != nil {
			return fmt.Errorf("%w: annulation commandes pending: %v", ErrPersistence, err)
		}
		if n > 0 {
			log.Printf("🧹 %d commande(s) pending annulée(s) pour user %s", n, auth.UserID)
		}
	case PurposeEnrollment:
		if err := r.enrollments.SetStatus(ctx, auth.TargetID, models.StatusPaid); err != nil {
			return fmt.Errorf("%w: statut inscription: %v", ErrPersistence, err)
		}
	case PurposePlan:
		if err := r.plans.SetStatus(ctx, auth.TargetID, models.StatusActive); err != nil {
			return fmt.Errorf("%w: statut souscription: %v", ErrPersistence, err)
		}
	}
	return nil
}
