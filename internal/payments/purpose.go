package payments

import (
	"fmt"
	"strings"
)

// Purpose : catégorie fermée d'un paiement. Toute nouvelle catégorie doit
// passer par ParsePurchaseType et par les switch exhaustifs du moteur.
type Purpose string

const (
	PurposeOrder      Purpose = "order"        // commande boutique
	PurposeEnrollment Purpose = "enrollment"   // inscription à un cours
	PurposePlan       Purpose = "pricing-plan" // formule d'abonnement
)

// ParsePurchaseType mappe le libellé affiché côté client vers la catégorie canonique.
func ParsePurchaseType(label string) (Purpose, error) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "order", "store", "store-order", "boutique":
		return PurposeOrder, nil
	case "enrollment", "class", "class-enrollment", "cours":
		return PurposeEnrollment, nil
	case "pricing-plan", "plan", "subscription", "abonnement":
		return PurposePlan, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidType, label)
	}
}

// RelatedField retourne le champ de référence typée du grand livre pour cette catégorie.
func (p Purpose) RelatedField() string {
	switch p {
	case PurposeOrder:
		return "related_order_id"
	case PurposeEnrollment:
		return "related_enrollment_id"
	case PurposePlan:
		return "related_plan_id"
	}
	return ""
}

// Label retourne le libellé français utilisé dans les e-mails et descriptions.
func (p Purpose) Label() string {
	switch p {
	case PurposeOrder:
		return "commande boutique"
	case PurposeEnrollment:
		return "inscription cours"
	case PurposePlan:
		return "abonnement"
	}
	return string(p)
}
