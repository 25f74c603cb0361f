package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"flexgym_back_end/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

// PaymentIndexer : miroir du grand livre dans Elasticsearch pour la recherche
// support-desk. Strictement best-effort : aucune écriture métier n'en dépend.
type PaymentIndexer struct {
	es *elasticsearch.Client
}

func NewPaymentIndexer(es *elasticsearch.Client) *PaymentIndexer {
	return &PaymentIndexer{es: es}
}

// IndexPayment indexe (ou réindexe) une ligne du grand livre. Les erreurs
// sont loguées et avalées.
func (s *PaymentIndexer) IndexPayment(p models.Payment) {
	if s == nil || s.es == nil {
		return
	}

	data, _ := json.Marshal(p)
	req := esapi.IndexRequest{
		Index:      "payments",
		DocumentID: p.ID.Hex(),
		Body:       bytes.NewReader(data),
		Refresh:    "true",
	}

	res, err := req.Do(context.Background(), s.es)
	if err != nil {
		log.Println("❌ Erreur envoi Elastic:", err)
		return
	}
	defer res.Body.Close()

	if res.IsError() {
		log.Printf("⚠️ Elastic a renvoyé une erreur pour %s: %s", p.ID.Hex(), res.String())
	} else {
		log.Printf("✅ Paiement indexé dans Elasticsearch: %s", p.ID.Hex())
	}
}

// SearchPayments recherche des paiements par utilisateur, libellé d'achat,
// catégorie ou motif de remboursement (outil support-desk).
func (s *PaymentIndexer) SearchPayments(query string) ([]map[string]interface{}, error) {
	if s == nil || s.es == nil {
		return nil, errors.New("client Elasticsearch non initialisé")
	}

	var buf bytes.Buffer
	q := map[string]interface{}{
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  query,
				"fields": []string{"user_id", "item_title", "purpose", "refund_reason", "gateway_txn_id"},
			},
		},
	}

	if err := json.NewEncoder(&buf).Encode(q); err != nil {
		return nil, fmt.Errorf("erreur encodage requête: %v", err)
	}

	res, err := s.es.Search(
		s.es.Search.WithContext(context.Background()),
		s.es.Search.WithIndex("payments"),
		s.es.Search.WithBody(&buf),
	)
	if err != nil {
		return nil, fmt.Errorf("erreur recherche Elastic: %v", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("Elastic a renvoyé une erreur: %s", res.String())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source map[string]interface{} `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("erreur décodage réponse: %v", err)
	}

	results := make([]map[string]interface{}, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		results = append(results, hit.Source)
	}
	return results, nil
}
