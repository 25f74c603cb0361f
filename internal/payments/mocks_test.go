package payments

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"flexgym_back_end/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	errNotClaimed = errors.New("ligne non réservée (requested attendu)")
	errSMTPDown   = errors.New("smtp injoignable")
)

// Fakes en mémoire des cinq collections, protégés par mutex pour les tests
// de concurrence. Même convention que les stores Mongo : (nil, nil) quand le
// document n'existe pas.

type memOrders struct {
	mu    sync.Mutex
	items map[string]*models.Order
}

var _ OrderStore = (*memOrders)(nil)

func newMemOrders(orders ...*models.Order) *memOrders {
	m := &memOrders{items: make(map[string]*models.Order)}
	for _, o := range orders {
		m.items[o.ID.Hex()] = o
	}
	return m
}

func (m *memOrders) FindByID(_ context.Context, id string) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.items[id]
	if !ok {
		return nil, nil
	}
	cp := *o
	return &cp, nil
}

func (m *memOrders) SetStatus(_ context.Context, id, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if o, ok := m.items[id]; ok {
		o.Status = status
	}
	return nil
}

func (m *memOrders) CancelPendingExcept(_ context.Context, userID, exceptID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, o := range m.items {
		if o.UserID == userID && o.Status == models.StatusPending && id != exceptID {
			o.Status = models.StatusCancelled
			n++
		}
	}
	return n, nil
}

func (m *memOrders) ListByUser(_ context.Context, userID string) ([]models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Order
	for _, o := range m.items {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

type memEnrollments struct {
	mu    sync.Mutex
	items map[string]*models.Enrollment
}

var _ EnrollmentStore = (*memEnrollments)(nil)

func newMemEnrollments(enrollments ...*models.Enrollment) *memEnrollments {
	m := &memEnrollments{items: make(map[string]*models.Enrollment)}
	for _, e := range enrollments {
		m.items[e.ID.Hex()] = e
	}
	return m
}

func (m *memEnrollments) FindByID(_ context.Context, id string) (*models.Enrollment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.items[id]
	if !ok {
		return nil, nil
	}
	cp := *e
	return &cp, nil
}

func (m *memEnrollments) SetStatus(_ context.Context, id, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.items[id]; ok {
		e.Status = status
	}
	return nil
}

func (m *memEnrollments) ListByUser(_ context.Context, userID string) ([]models.Enrollment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Enrollment
	for _, e := range m.items {
		if e.UserID == userID {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

type memPlans struct {
	mu    sync.Mutex
	items map[string]*models.PlanPurchase
}

var _ PlanPurchaseStore = (*memPlans)(nil)

func newMemPlans(plans ...*models.PlanPurchase) *memPlans {
	m := &memPlans{items: make(map[string]*models.PlanPurchase)}
	for _, p := range plans {
		m.items[p.ID.Hex()] = p
	}
	return m
}

func (m *memPlans) FindByID(_ context.Context, id string) (*models.PlanPurchase, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.items[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (m *memPlans) FindActiveByName(_ context.Context, userID, planName string) (*models.PlanPurchase, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var best *models.PlanPurchase
	for _, p := range m.items {
		if p.UserID != userID || p.PlanName != planName {
			continue
		}
		if p.Status != models.StatusPaid && p.Status != models.StatusActive {
			continue
		}
		if best == nil || p.CreatedAt.After(best.CreatedAt) {
			best = p
		}
	}
	if best == nil {
		return nil, nil
	}
	cp := *best
	return &cp, nil
}

func (m *memPlans) SetStatus(_ context.Context, id, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.items[id]; ok {
		p.Status = status
	}
	return nil
}

func (m *memPlans) MarkRefundedByAmount(_ context.Context, userID string, amount float64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, p := range m.items {
		if p.UserID == userID && p.Amount == amount &&
			(p.Status == models.StatusPaid || p.Status == models.StatusActive) {
			p.Status = models.StatusRefunded
			n++
		}
	}
	return n, nil
}

func (m *memPlans) ListByUser(_ context.Context, userID string) ([]models.PlanPurchase, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.PlanPurchase
	for _, p := range m.items {
		if p.UserID == userID {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

type memPayments struct {
	mu    sync.Mutex
	items map[primitive.ObjectID]*models.Payment
}

var _ PaymentStore = (*memPayments)(nil)

func newMemPayments(entries ...*models.Payment) *memPayments {
	m := &memPayments{items: make(map[primitive.ObjectID]*models.Payment)}
	for _, p := range entries {
		m.items[p.ID] = p
	}
	return m
}

func relatedValue(p *models.Payment, field string) string {
	switch field {
	case "related_order_id":
		return p.RelatedOrderID
	case "related_enrollment_id":
		return p.RelatedEnrollmentID
	case "related_plan_id":
		return p.RelatedPlanID
	}
	return ""
}

func (m *memPayments) FindSucceededByRef(_ context.Context, userID string, purpose Purpose, amount float64, relatedID string) (*models.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.items {
		if p.UserID == userID && p.Purpose == string(purpose) && p.Amount == amount &&
			p.PaymentStatus == models.PaymentSucceeded &&
			relatedValue(p, purpose.RelatedField()) == relatedID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memPayments) Insert(_ context.Context, p *models.Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.items[p.ID] = &cp
	return nil
}

func (m *memPayments) CancelPending(_ context.Context, userID string, purpose Purpose, except primitive.ObjectID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, p := range m.items {
		if p.UserID == userID && p.Purpose == string(purpose) &&
			p.PaymentStatus == models.PaymentPending && id != except {
			p.PaymentStatus = models.PaymentCancelled
			n++
		}
	}
	return n, nil
}

func (m *memPayments) FindByRelated(_ context.Context, userID, relatedField, relatedID string) (*models.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var best *models.Payment
	for _, p := range m.items {
		if p.UserID != userID || relatedValue(p, relatedField) != relatedID {
			continue
		}
		if p.PaymentStatus != models.PaymentSucceeded && p.PaymentStatus != models.PaymentRefunded {
			continue
		}
		if best == nil || p.CreatedAt.After(best.CreatedAt) {
			best = p
		}
	}
	if best == nil {
		return nil, nil
	}
	cp := *best
	return &cp, nil
}

func (m *memPayments) FindByID(_ context.Context, userID string, id primitive.ObjectID) (*models.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.items[id]
	if !ok || p.UserID != userID {
		return nil, nil
	}
	if p.PaymentStatus != models.PaymentSucceeded && p.PaymentStatus != models.PaymentRefunded {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (m *memPayments) ClaimRefund(_ context.Context, id primitive.ObjectID, reason string, at time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.items[id]
	if !ok || p.RefundStatus != models.RefundNone {
		return false, nil
	}
	p.RefundStatus = models.RefundRequested
	p.RefundReason = reason
	p.RefundRequestedAt = &at
	return true, nil
}

func (m *memPayments) DenyRefund(_ context.Context, id primitive.ObjectID, reason string, at time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.items[id]
	if !ok || p.RefundStatus != models.RefundNone {
		return false, nil
	}
	p.RefundStatus = models.RefundDenied
	p.RefundReason = reason
	p.RefundRequestedAt = &at
	p.RefundProcessedAt = &at
	return true, nil
}

func (m *memPayments) ApplyRefund(_ context.Context, id primitive.ObjectID, amount float64, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.items[id]
	if !ok || p.RefundStatus != models.RefundRequested {
		return errNotClaimed
	}
	p.RefundStatus = models.RefundRefunded
	p.RefundAmount = amount
	p.RefundProcessedAt = &at
	p.PaymentStatus = models.PaymentRefunded
	return nil
}

func (m *memPayments) ListByUser(_ context.Context, userID string) ([]models.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Payment
	for _, p := range m.items {
		if p.UserID == userID {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memPayments) ListRefunds(_ context.Context) ([]models.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Payment
	for _, p := range m.items {
		if p.RefundStatus != models.RefundNone {
			out = append(out, *p)
		}
	}
	return out, nil
}

// get retourne l'état interne d'une ligne (assertions de test).
func (m *memPayments) get(id primitive.ObjectID) models.Payment {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *m.items[id]
}

func (m *memPayments) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

type memWallets struct {
	mu    sync.Mutex
	items map[string]*models.Wallet
}

var _ WalletStore = (*memWallets)(nil)

func newMemWallets() *memWallets {
	return &memWallets{items: make(map[string]*models.Wallet)}
}

func (m *memWallets) Credit(_ context.Context, userID string, tx models.WalletTransaction) (*models.Wallet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.items[userID]
	if !ok {
		w = &models.Wallet{ID: primitive.NewObjectID(), UserID: userID, CreatedAt: time.Now()}
		m.items[userID] = w
	}
	w.Balance += tx.Amount
	w.Transactions = append(w.Transactions, tx)
	w.UpdatedAt = time.Now()
	cp := *w
	return &cp, nil
}

func (m *memWallets) FindByUser(_ context.Context, userID string) (*models.Wallet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.items[userID]
	if !ok {
		return nil, nil
	}
	cp := *w
	return &cp, nil
}

// mockMailer enregistre les envois sur un channel bufferisé.
type mockMailer struct {
	sent chan string
	fail bool
}

func newMockMailer(fail bool) *mockMailer {
	return &mockMailer{sent: make(chan string, 16), fail: fail}
}

func (m *mockMailer) Send(to, subject, htmlBody string) error {
	m.sent <- to
	if m.fail {
		return errSMTPDown
	}
	return nil
}

type mockIndexer struct {
	mu      sync.Mutex
	indexed []models.Payment
}

func (m *mockIndexer) IndexPayment(p models.Payment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.indexed = append(m.indexed, p)
}
