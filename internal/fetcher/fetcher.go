// Package fetcher загружает RSS-ленты и периодически запускает их импорт.
package fetcher

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"time"

	"news_notes/internal/models"
)

// DefaultClient — HTTP-клиент с таймаутом для загрузки лент.
var DefaultClient = &http.Client{Timeout: 10 * time.Second}

// FetchRSS загружает XML-ленту по url, декодирует и возвращает структуру models.RSS.
func FetchRSS(ctx context.Context, client *http.Client, url string) (*models.RSS, error) {
	const op = "fetcher.FetchRSS"

	if client == nil {
		client = DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: unexpected status %d", op, resp.StatusCode)
	}

	var rss models.RSS
	if err := xml.NewDecoder(resp.Body).Decode(&rss); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &rss, nil
}
