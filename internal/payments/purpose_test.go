package payments

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParsePurchaseType(t *testing.T) {
	cases := []struct {
		label string
		want  Purpose
	}{
		{"order", PurposeOrder},
		{"store", PurposeOrder},
		{"store-order", PurposeOrder},
		{"boutique", PurposeOrder},
		{"enrollment", PurposeEnrollment},
		{"class", PurposeEnrollment},
		{"class-enrollment", PurposeEnrollment},
		{"cours", PurposeEnrollment},
		{"pricing-plan", PurposePlan},
		{"plan", PurposePlan},
		{"subscription", PurposePlan},
		{"abonnement", PurposePlan},
		{"  Enrollment  ", PurposeEnrollment}, // espaces et casse tolérés
	}
	for _, c := range cases {
		got, err := ParsePurchaseType(c.label)
		require.NoError(t, err, c.label)
		require.Equal(t, c.want, got, c.label)
	}
}

func TestParsePurchaseType_Unknown(t *testing.T) {
	for _, label := range []string{"", "giftcard", "ordervoucher"} {
		_, err := ParsePurchaseType(label)
		require.ErrorIs(t, err, ErrInvalidType, label)
	}
}

func TestPurposeRelatedField(t *testing.T) {
	require.Equal(t, "related_order_id", PurposeOrder.RelatedField())
	require.Equal(t, "related_enrollment_id", PurposeEnrollment.RelatedField())
	require.Equal(t, "related_plan_id", PurposePlan.RelatedField())
	require.Equal(t, "", Purpose("giftcard").RelatedField())
}
