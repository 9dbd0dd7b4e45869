package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/lacteosdev/catalogo-web/internal/models"
)

const Index = "product"

// Search runs a fuzzy multi-match over name and description on the
// product index.
func Search(ctx context.Context, es *elasticsearch.Client, index, query string, from, size int) (int64, []models.Product, error) {
	body := map[string]interface{}{
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":     query,
				"fields":    []string{"name^2", "description"},
				"fuzziness": "AUTO",
			},
		},
		"from": from,
		"size": size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, fmt.Errorf("search: encode query: %w", err)
	}

	res, err := es.Search(
		es.Search.WithContext(ctx),
		es.Search.WithIndex(index),
		es.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("search: %w", err)
	}

	defer res.Body.Close()
	if res.IsError() {
		return 0, nil, fmt.Errorf("search: %s", res.Status())
	}

	var r struct {
		Hits struct {
			Total struct{ Value int64 }             `json:"total"`
			Hits  []struct{ Source models.Product } `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, err
	}

	prods := make([]models.Product, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		prods[i] = hit.Source
	}
	return r.Hits.Total.Value, prods, nil
}

// IndexProduct writes or overwrites the product document.
func IndexProduct(ctx context.Context, es *elasticsearch.Client, index string, prod *models.Product) error {
	data, err := json.Marshal(prod)
	if err != nil {
		return fmt.Errorf("search: encode product: %w", err)
	}

	res, err := es.Index(
		index,
		bytes.NewReader(data),
		es.Index.WithDocumentID(strconv.FormatUint(uint64(prod.ID), 10)),
		es.Index.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("search: index product: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("search: index product: %s", res.Status())
	}
	return nil
}

// RemoveProduct drops the product document; a missing document is fine.
func RemoveProduct(ctx context.Context, es *elasticsearch.Client, index string, id uint) error {
	res, err := es.Delete(
		index,
		strconv.FormatUint(uint64(id), 10),
		es.Delete.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("search: remove product: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("search: remove product: %s", res.Status())
	}
	return nil
}
