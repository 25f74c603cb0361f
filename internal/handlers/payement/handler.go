package payement

import (
	"flexgym_back_end/internal/gateway"
	"flexgym_back_end/internal/payments"
	"flexgym_back_end/internal/services"
)

// Handler regroupe les dépendances injectées de la surface paiement.
type Handler struct {
	Recorder *payments.Recorder
	Refunds  *payments.Engine
	History  *payments.History
	Wallets  payments.WalletStore
	Ledger   payments.PaymentStore
	Gateway  gateway.Client
	Indexer  *services.PaymentIndexer
}

func NewHandler(recorder *payments.Recorder, refunds *payments.Engine, history *payments.History, wallets payments.WalletStore, ledger payments.PaymentStore, indexer *services.PaymentIndexer) *Handler {
	return &Handler{
		Recorder: recorder,
		Refunds:  refunds,
		History:  history,
		Wallets:  wallets,
		Ledger:   ledger,
		Indexer:  indexer,
	}
}
