package models

// Statuts partagés par les trois types d'achat
const (
	StatusPending   = "pending"
	StatusPaid      = "paid"
	StatusActive    = "active" // abonnements (pricing-plan)
	StatusCancelled = "cancelled"
	StatusRefunded  = "refunded"
	StatusCompleted = "completed"
)
