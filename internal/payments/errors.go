package payments

import (
	"errors"
	"fmt"
	"strings"
)

// Taxonomie d'erreurs du cœur paiement/remboursement. Les handlers les
// traduisent en codes HTTP via errors.Is.
var (
	ErrNotFound         = errors.New("achat ou paiement introuvable")
	ErrInvalidType      = errors.New("type d'achat inconnu")
	ErrAlreadyProcessed = errors.New("demande de remboursement déjà traitée")
	ErrWindowExpired    = errors.New("fenêtre de remboursement expirée")
	ErrNotRefundable    = errors.New("achat non remboursable")
	ErrGateway          = errors.New("erreur passerelle de paiement")
	ErrPersistence      = errors.New("erreur d'écriture en base")
)

// LookupError : échec de localisation d'une ligne du grand livre, avec la
// liste des stratégies essayées pour le support.
type LookupError struct {
	Tried []string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("paiement introuvable (stratégies essayées : %s)", strings.Join(e.Tried, ", "))
}

func (e *LookupError) Unwrap() error { return ErrNotFound }
