package es

import (
	"fmt"
	"io"
	"log"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/lacteosdev/catalogo-web/internal/config"
)

func NewClient(cfg *config.Config) (*elasticsearch.Client, error) {
	esCfg := elasticsearch.Config{
		Addresses: []string{cfg.ES_URL},
		Username:  cfg.ES_USER,
		Password:  cfg.ES_PASSWORD,
	}

	client, err := elasticsearch.NewClient(esCfg)
	if err != nil {
		return nil, err
	}

	res, err := client.Info()
	if err != nil {
		return nil, err
	}

	defer res.Body.Close()
	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		log.Printf("Elasticsearch error response: %s", body)
		return nil, fmt.Errorf("elasticsearch: %s", res.Status())
	}

	return client, nil
}
