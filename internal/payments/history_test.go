package payments

import (
	"context"
	"testing"
	"time"

	"flexgym_back_end/internal/models"

	"github.com/stretchr/testify/require"
)

func newTestHistory(f *refundFixture, now time.Time) *History {
	h := NewHistory(f.ledger, f.orders, f.enrollments, f.plans, nil)
	h.now = fixedNow(now)
	return h
}

func TestGetPurchaseHistory_MergesAndSortsDescending(t *testing.T) {
	f := newRefundFixture(t, testBase)
	f.paidOrder("user-1", 59.90, testBase.Add(-72*time.Hour))
	f.paidEnrollment("user-1", "Yoga", 40.00, testBase.Add(-24*time.Hour))
	f.activePlan("user-1", "Premium", 49.99, testBase.Add(-time.Hour))

	h := newTestHistory(f, testBase)
	items, err := h.GetPurchaseHistory(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, items, 3)

	// Plus récent en premier.
	require.Equal(t, string(PurposePlan), items[0].Purpose)
	require.Equal(t, string(PurposeEnrollment), items[1].Purpose)
	require.Equal(t, string(PurposeOrder), items[2].Purpose)
	require.Equal(t, "Premium", items[0].ItemTitle)
	require.Equal(t, 49.99, items[0].Amount)
}

func TestGetPurchaseHistory_CanRefundFlags(t *testing.T) {
	f := newRefundFixture(t, testBase)
	f.paidOrder("user-1", 59.90, testBase.Add(-time.Hour))
	freshEnr, _ := f.paidEnrollment("user-1", "Yoga", 40.00, testBase.Add(-time.Hour))
	staleEnr, _ := f.paidEnrollment("user-1", "Boxe", 30.00, testBase.Add(-10*24*time.Hour))

	h := newTestHistory(f, testBase)
	items, err := h.GetPurchaseHistory(context.Background(), "user-1")
	require.NoError(t, err)

	byID := make(map[string]HistoryItem, len(items))
	for _, it := range items {
		byID[it.ID] = it
	}

	// Boutique : jamais remboursable, même dans la fenêtre.
	for _, it := range items {
		if it.Purpose == string(PurposeOrder) {
			require.False(t, it.CanRefund)
		}
	}

	// Inscription récente : remboursable, fenêtre restante positive.
	fresh := byID[freshEnr.ID.Hex()]
	require.True(t, fresh.CanRefund)
	require.Greater(t, fresh.RefundWindowS, int64(0))

	// Inscription hors fenêtre : non remboursable, fenêtre à zéro.
	stale := byID[staleEnr.ID.Hex()]
	require.False(t, stale.CanRefund)
	require.Equal(t, int64(0), stale.RefundWindowS)
}

func TestGetPurchaseHistory_RefundedEntryNotRefundableAgain(t *testing.T) {
	f := newRefundFixture(t, testBase)
	enr, _ := f.paidEnrollment("user-1", "Yoga", 40.00, testBase.Add(-time.Hour))

	_, err := f.engine.RequestRefund(context.Background(), RefundRequest{
		UserID:       "user-1",
		PurchaseID:   enr.ID.Hex(),
		PurchaseType: "enrollment",
		Reason:       "Blessure à l'épaule pendant l'échauffement",
	})
	require.NoError(t, err)

	h := newTestHistory(f, testBase)
	items, err := h.GetPurchaseHistory(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, items, 1)

	require.Equal(t, models.RefundRefunded, items[0].RefundStatus)
	require.Equal(t, 10.00, items[0].RefundAmount)
	require.False(t, items[0].CanRefund)
	require.Equal(t, models.StatusRefunded, items[0].Status)
}

func TestGetPurchaseHistory_EmptyUser(t *testing.T) {
	f := newRefundFixture(t, testBase)
	h := newTestHistory(f, testBase)

	items, err := h.GetPurchaseHistory(context.Background(), "user-sans-achat")
	require.NoError(t, err)
	require.Empty(t, items)
}
