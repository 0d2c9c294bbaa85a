package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"

	"storefront_back_end/internal/models"
)

var ErrSearchUnavailable = errors.New("recherche non configurée")

// ProductIndex indexe le catalogue dans Elasticsearch pour la recherche.
type ProductIndex struct {
	es    *elasticsearch.Client
	index string
}

func NewProductIndex(es *elasticsearch.Client, index string) *ProductIndex {
	if index == "" {
		index = "products"
	}
	return &ProductIndex{es: es, index: index}
}

type productDocument struct {
	models.Product
	Colors []string `json:"colors"`
}

// DocumentID est stable pour une image principale donnée.
func DocumentID(p models.Product) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(p.Image)).String()
}

func toDocument(p models.Product) productDocument {
	doc := productDocument{Product: p, Colors: []string{}}
	for _, v := range p.Variants {
		if v.Color != nil {
			doc.Colors = append(doc.Colors, *v.Color)
		}
	}
	return doc
}

//
// --- INDEXATION ---
//

// IndexCatalog reconstruit l'index à partir du catalogue : l'ancien index est
// supprimé pour que les produits retirés disparaissent aussi de la recherche.
func (x *ProductIndex) IndexCatalog(ctx context.Context, c models.Catalog) (int, error) {
	if x == nil || x.es == nil {
		return 0, ErrSearchUnavailable
	}

	res, err := x.es.Indices.Delete([]string{x.index},
		x.es.Indices.Delete.WithContext(ctx),
		x.es.Indices.Delete.WithIgnoreUnavailable(true),
	)
	if err != nil {
		return 0, fmt.Errorf("suppression index %s: %w", x.index, err)
	}
	res.Body.Close()

	indexed := 0
	for _, p := range c.Items {
		data, err := json.Marshal(toDocument(p))
		if err != nil {
			return indexed, err
		}

		req := esapi.IndexRequest{
			Index:      x.index,
			DocumentID: DocumentID(p),
			Body:       bytes.NewReader(data),
		}
		res, err := req.Do(ctx, x.es)
		if err != nil {
			return indexed, fmt.Errorf("indexation %s: %w", p.Title, err)
		}
		if res.IsError() {
			log.Printf("⚠️ Elastic a renvoyé une erreur pour %s: %s", p.Title, res.String())
			res.Body.Close()
			continue
		}
		res.Body.Close()
		indexed++
	}

	refresh := esapi.IndicesRefreshRequest{Index: []string{x.index}}
	if res, err := refresh.Do(ctx, x.es); err == nil {
		res.Body.Close()
	}

	log.Printf("✅ %d produits indexés dans Elasticsearch (%s)", indexed, x.index)
	return indexed, nil
}

//
// --- RECHERCHE ---
//

// Search cherche dans le titre, la catégorie et les couleurs des variantes.
func (x *ProductIndex) Search(ctx context.Context, query string, limit int) ([]models.Product, error) {
	if x == nil || x.es == nil {
		return nil, ErrSearchUnavailable
	}
	if limit <= 0 {
		limit = 20
	}

	var buf bytes.Buffer
	q := map[string]any{
		"size": limit,
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     strings.TrimSpace(query),
				"fields":    []string{"title^3", "category", "colors"},
				"fuzziness": "AUTO",
			},
		},
	}
	if err := json.NewEncoder(&buf).Encode(q); err != nil {
		return nil, fmt.Errorf("erreur encodage requête: %w", err)
	}

	req := esapi.SearchRequest{
		Index: []string{x.index},
		Body:  &buf,
	}
	res, err := req.Do(ctx, x.es)
	if err != nil {
		return nil, fmt.Errorf("erreur requête Elastic: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == 404 {
		return []models.Product{}, nil
	}
	if res.IsError() {
		return nil, fmt.Errorf("erreur Elastic: %s", res.Status())
	}

	var r struct {
		Hits struct {
			Hits []struct {
				Source models.Product `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("erreur décodage JSON: %w", err)
	}

	results := make([]models.Product, 0, len(r.Hits.Hits))
	for _, hit := range r.Hits.Hits {
		results = append(results, hit.Source)
	}
	return results, nil
}
