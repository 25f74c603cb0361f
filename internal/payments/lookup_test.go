package payments

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestLocatePayment_ByEnrollmentReference(t *testing.T) {
	f := newRefundFixture(t, testBase)
	enr, entry := f.paidEnrollment("user-1", "Yoga", 40.00, testBase.Add(-time.Hour))

	p, err := f.engine.locatePayment(context.Background(), "user-1", enr.ID.Hex())
	require.NoError(t, err)
	require.Equal(t, entry.ID, p.ID)
}

func TestLocatePayment_ByLedgerID(t *testing.T) {
	f := newRefundFixture(t, testBase)
	_, entry := f.paidEnrollment("user-1", "Yoga", 40.00, testBase.Add(-time.Hour))

	// L'écran d'historique envoie parfois l'id de la ligne elle-même.
	p, err := f.engine.locatePayment(context.Background(), "user-1", entry.ID.Hex())
	require.NoError(t, err)
	require.Equal(t, entry.ID, p.ID)
}

func TestLocatePayment_ByPlanName(t *testing.T) {
	f := newRefundFixture(t, testBase)
	_, entry := f.activePlan("user-1", "Elite", 89.00, testBase.Add(-time.Hour))

	p, err := f.engine.locatePayment(context.Background(), "user-1", "Elite")
	require.NoError(t, err)
	require.Equal(t, entry.ID, p.ID)
}

func TestLocatePayment_RefundedEntryStillFound(t *testing.T) {
	// Une ligne déjà remboursée doit rester localisable : la demande suivante
	// doit répondre "déjà traitée", pas "introuvable".
	f := newRefundFixture(t, testBase)
	enr, entry := f.paidEnrollment("user-1", "Yoga", 40.00, testBase.Add(-time.Hour))

	_, err := f.engine.RequestRefund(context.Background(), RefundRequest{
		UserID:       "user-1",
		PurchaseID:   enr.ID.Hex(),
		PurchaseType: "enrollment",
		Reason:       "Cours déplacé à un horaire impossible",
	})
	require.NoError(t, err)

	p, err := f.engine.locatePayment(context.Background(), "user-1", enr.ID.Hex())
	require.NoError(t, err)
	require.Equal(t, entry.ID, p.ID)
}

func TestLocatePayment_NotFoundListsStrategies(t *testing.T) {
	f := newRefundFixture(t, testBase)

	_, err := f.engine.locatePayment(context.Background(), "user-1", primitive.NewObjectID().Hex())
	require.Error(t, err)
	require.ErrorIs(t, err, ErrNotFound)

	var le *LookupError
	require.ErrorAs(t, err, &le)
	require.Equal(t, []string{
		"référence inscription",
		"référence commande",
		"référence souscription",
		"nom de formule",
		"id de ligne",
	}, le.Tried)
}

func TestLocatePayment_ScopedToUser(t *testing.T) {
	f := newRefundFixture(t, testBase)
	enr, _ := f.paidEnrollment("user-1", "Yoga", 40.00, testBase.Add(-time.Hour))

	// Un autre utilisateur ne voit pas la ligne.
	_, err := f.engine.locatePayment(context.Background(), "user-2", enr.ID.Hex())
	require.ErrorIs(t, err, ErrNotFound)
}
