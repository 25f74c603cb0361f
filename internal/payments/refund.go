package payments

import (
	"context"
	"fmt"
	"log"
	"math"
	"time"

	"flexgym_back_end/internal/models"
	"flexgym_back_end/internal/utils"

	"github.com/google/uuid"
)

// RefundWindow : durée pendant laquelle un remboursement peut être demandé.
const RefundWindow = 7 * 24 * time.Hour

// refundRate : part remboursée pour les inscriptions et abonnements.
const refundRate = 0.25

type RefundRequest struct {
	UserID       string
	PurchaseID   string // id d'achat source, nom de formule ou id de ligne selon l'écran
	PurchaseType string // libellé côté client, voir ParsePurchaseType
	Reason       string
	UserEmail    string
	UserName     string
	ItemTitle    string
}

type RefundOutcome struct {
	Payment      *models.Payment
	RefundAmount float64
	Wallet       *models.Wallet
}

// Engine : moteur de politique de remboursement. Seul mutateur du
// portefeuille et des champs refund_* du grand livre.
type Engine struct {
	payments    PaymentStore
	orders      OrderStore
	enrollments EnrollmentStore
	plans       PlanPurchaseStore
	wallets     WalletStore
	mailer      Mailer
	index       Indexer
	now         func() time.Time
}

func NewEngine(ledger PaymentStore, orders OrderStore, enrollments EnrollmentStore, plans PlanPurchaseStore, wallets WalletStore, mailer Mailer, index Indexer) *Engine {
	return &Engine{
		payments:    ledger,
		orders:      orders,
		enrollments: enrollments,
		plans:       plans,
		wallets:     wallets,
		mailer:      mailer,
		index:       index,
		now:         time.Now,
	}
}

// RequestRefund applique la politique de remboursement : fenêtre de 7 jours,
// refus catégorique pour la boutique, 25 % pour cours et abonnements, crédit
// du portefeuille exactement une fois. L'écriture terminale du grand livre
// arrive en dernier ; entre le crédit et elle, la ligne reste en `requested`,
// jamais en `none`, donc aucune relance ne peut créditer deux fois.
func (e *Engine) RequestRefund(ctx context.Context, req RefundRequest) (*RefundOutcome, error) {
	// 1. Libellé client → catégorie canonique.
	purpose, err := ParsePurchaseType(req.PurchaseType)
	if err != nil {
		return nil, err
	}

	// 2. Localiser la ligne du grand livre (stratégies ordonnées).
	payment, err := e.locatePayment(ctx, req.UserID, req.PurchaseID)
	if err != nil {
		return nil, err
	}

	// 3. État de remboursement.
	if payment.RefundStatus != models.RefundNone {
		return nil, fmt.Errorf("%w (statut actuel : %s)", ErrAlreadyProcessed, payment.RefundStatus)
	}

	// 4. Fenêtre de 7 jours depuis la création de l'achat, quel que soit le motif.
	now := e.now()
	anchor, err := e.purchaseCreatedAt(ctx, purpose, payment)
	if err != nil {
		return nil, err
	}
	if now.Sub(anchor) > RefundWindow {
		return nil, ErrWindowExpired
	}

	// 5. Éligibilité et montant par catégorie.
	if purpose == PurposeOrder {
		return nil, e.denyOrderRefund(ctx, payment, req.Reason, now)
	}

	amount, err := e.refundAmount(ctx, purpose, payment)
	if err != nil {
		return nil, err
	}

	// Verrou de concurrence : une seule demande gagne le passage none → requested.
	claimed, err := e.payments.ClaimRefund(ctx, payment.ID, req.Reason, now)
	if err != nil {
		return nil, fmt.Errorf("%w: réservation remboursement: %v", ErrPersistence, err)
	}
	if !claimed {
		return nil, ErrAlreadyProcessed
	}

	// 6. Crédit du portefeuille avant toute écriture terminale.
	title := req.ItemTitle
	if title == "" {
		title = payment.ItemTitle
	}
	tx := models.WalletTransaction{
		ID:          uuid.NewString(),
		Type:        models.WalletCredit,
		Amount:      amount,
		Description: fmt.Sprintf("Remboursement %s - %s", purpose.Label(), title),
		PurchaseID:  req.PurchaseID,
		Status:      models.StatusCompleted,
		CreatedAt:   now,
	}
	wallet, err := e.wallets.Credit(ctx, req.UserID, tx)
	if err != nil {
		return nil, fmt.Errorf("%w: crédit portefeuille: %v", ErrPersistence, err)
	}
	log.Printf("💰 Portefeuille de %s crédité de %.2f€ (solde : %.2f€)", req.UserID, amount, wallet.Balance)

	// 8. Achat source → refunded.
	if err := e.markSourceRefunded(ctx, purpose, payment); err != nil {
		return nil, err
	}

	// 7/9. Écriture terminale du grand livre, en dernier : un lecteur
	// concurrent ne doit jamais voir `refunded` sans que l'argent ait bougé.
	if err := e.payments.ApplyRefund(ctx, payment.ID, amount, now); err != nil {
		return nil, fmt.Errorf("%w: écriture terminale grand livre: %v", ErrPersistence, err)
	}

	payment.RefundStatus = models.RefundRefunded
	payment.RefundAmount = amount
	payment.RefundReason = req.Reason
	payment.RefundRequestedAt = &now
	payment.RefundProcessedAt = &now
	payment.PaymentStatus = models.PaymentRefunded

	e.notifyRefund(req, title, amount)

	if e.index != nil {
		e.index.IndexPayment(*payment)
	}

	log.Printf("✅ Remboursement traité : %.2f€ sur %s (%s) pour user %s", amount, payment.ID.Hex(), purpose, req.UserID)
	return &RefundOutcome{Payment: payment, RefundAmount: amount, Wallet: wallet}, nil
}

// denyOrderRefund marque la ligne denied. Les achats boutique ne sont jamais
// remboursés : ni crédit portefeuille, ni changement de statut de la commande.
func (e *Engine) denyOrderRefund(ctx context.Context, payment *models.Payment, reason string, now time.Time) error {
	claimed, err := e.payments.DenyRefund(ctx, payment.ID, reason, now)
	if err != nil {
		return fmt.Errorf("%w: refus remboursement: %v", ErrPersistence, err)
	}
	if !claimed {
		return ErrAlreadyProcessed
	}
	if e.index != nil {
		payment.RefundStatus = models.RefundDenied
		payment.RefundReason = reason
		payment.RefundProcessedAt = &now
		e.index.IndexPayment(*payment)
	}
	log.Printf("🚫 Remboursement refusé (commande boutique) : %s pour user %s", payment.ID.Hex(), payment.UserID)
	return ErrNotRefundable
}

// purchaseCreatedAt retourne la date de création de l'achat source : un achat
// resté pending plusieurs jours avant paiement n'allonge pas la fenêtre.
// Repli sur la date de la ligne du grand livre si la référence manque.
func (e *Engine) purchaseCreatedAt(ctx context.Context, purpose Purpose, payment *models.Payment) (time.Time, error) {
	switch purpose {
	case PurposeOrder:
		if payment.RelatedOrderID != "" {
			o, err := e.orders.FindByID(ctx, payment.RelatedOrderID)
			if err != nil {
				return time.Time{}, fmt.Errorf("%w: lecture commande: %v", ErrPersistence, err)
			}
			if o != nil {
				return o.CreatedAt, nil
			}
		}
	case PurposeEnrollment:
		if payment.RelatedEnrollmentID != "" {
			enr, err := e.enrollments.FindByID(ctx, payment.RelatedEnrollmentID)
			if err != nil {
				return time.Time{}, fmt.Errorf("%w: lecture inscription: %v", ErrPersistence, err)
			}
			if enr != nil {
				return enr.CreatedAt, nil
			}
		}
	case PurposePlan:
		if payment.RelatedPlanID != "" {
			plan, err := e.plans.FindByID(ctx, payment.RelatedPlanID)
			if err != nil {
				return time.Time{}, fmt.Errorf("%w: lecture souscription: %v", ErrPersistence, err)
			}
			if plan != nil {
				return plan.CreatedAt, nil
			}
		}
	}
	return payment.CreatedAt, nil
}

func (e *Engine) refundAmount(ctx context.Context, purpose Purpose, payment *models.Payment) (float64, error) {
	switch purpose {
	case PurposeEnrollment:
		// 25 % du montant autoritaire de l'inscription, pas de la ligne
		// du grand livre qui peut avoir dérivé.
		enr, err := e.enrollments.FindByID(ctx, payment.RelatedEnrollmentID)
		if err != nil {
			return 0, fmt.Errorf("%w: lecture inscription: %v", ErrPersistence, err)
		}
		if enr == nil {
			return 0, fmt.Errorf("%w: inscription %s", ErrNotFound, payment.RelatedEnrollmentID)
		}
		return round2(enr.TotalAmount * refundRate), nil
	case PurposePlan:
		return round2(payment.Amount * refundRate), nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidType, purpose)
}

func (e *Engine) markSourceRefunded(ctx context.Context, purpose Purpose, payment *models.Payment) error {
	switch purpose {
	case PurposeEnrollment:
		if payment.RelatedEnrollmentID == "" {
			log.Printf("⚠️ Ligne %s sans référence inscription, statut source non modifié", payment.ID.Hex())
			return nil
		}
		if err := e.enrollments.SetStatus(ctx, payment.RelatedEnrollmentID, models.StatusRefunded); err != nil {
			return fmt.Errorf("%w: statut inscription: %v", ErrPersistence, err)
		}
	case PurposePlan:
		n, err := e.plans.MarkRefundedByAmount(ctx, payment.UserID, payment.Amount)
		if err != nil {
			return fmt.Errorf("%w: statut souscription: %v", ErrPersistence, err)
		}
		if n == 0 {
			log.Printf("⚠️ Aucune souscription paid/active à %.2f€ pour user %s", payment.Amount, payment.UserID)
		}
	}
	return nil
}

// notifyRefund envoie la confirmation par e-mail. Best-effort : un échec est
// logué et n'affecte jamais le remboursement.
func (e *Engine) notifyRefund(req RefundRequest, title string, amount float64) {
	if e.mailer == nil || req.UserEmail == "" {
		return
	}
	html := utils.GenerateRefundConfirmationHTML(req.UserName, title, amount)
	go func() {
		if err := e.mailer.Send(req.UserEmail, "💰 Remboursement confirmé - FlexGym", html); err != nil {
			log.Printf("❌ Erreur envoi e-mail remboursement à %s: %v", req.UserEmail, err)
		} else {
			log.Printf("📧 E-mail de remboursement envoyé à %s", req.UserEmail)
		}
	}()
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
