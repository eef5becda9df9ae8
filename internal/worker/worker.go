// Package worker импортирует элементы RSS-лент как новости.
package worker

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"news_notes/internal/fetcher"
	"news_notes/internal/logger"
	"news_notes/internal/models"

	"github.com/prometheus/client_golang/prometheus"
)

// NewsSaver — часть хранилища, нужная импорту.
type NewsSaver interface {
	SaveNews(ctx context.Context, n *models.News) (bool, error)
}

type Worker struct {
	store    NewsSaver
	client   *http.Client
	imported prometheus.Counter
}

// NewWorker создаёт импортёр. client и imported могут быть nil.
func NewWorker(store NewsSaver, client *http.Client, imported prometheus.Counter) *Worker {
	return &Worker{store: store, client: client, imported: imported}
}

var dateLayouts = []string{time.RFC1123Z, time.RFC1123, time.RFC3339}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unknown date format %q", s)
}

// HandleFeed загружает ленту и сохраняет новые элементы.
// Уже импортированные ссылки пропускаются хранилищем. Возвращает число новых новостей.
func (w *Worker) HandleFeed(ctx context.Context, url string) (int, error) {
	log := logger.Log.WithField("url", url)
	log.Debug("Processing RSS feed")

	rss, err := fetcher.FetchRSS(ctx, w.client, url)
	if err != nil {
		return 0, err
	}

	inserted := 0
	for _, item := range rss.Channel.Items {
		n, err := toNews(item)
		if err != nil {
			log.Warnf("Skip item: %v", err)
			continue
		}
		ok, err := w.store.SaveNews(ctx, n)
		if err != nil {
			log.Warnf("Save item failed: %v", err)
			continue
		}
		if ok {
			inserted++
			if w.imported != nil {
				w.imported.Inc()
			}
		}
	}

	log.Infof("Processed %d items, %d new", len(rss.Channel.Items), inserted)
	return inserted, nil
}

func toNews(item models.Item) (*models.News, error) {
	title := strings.TrimSpace(item.Title)
	if title == "" {
		return nil, fmt.Errorf("item %q has no title", item.Link)
	}
	date, err := parseDate(item.PubDate)
	if err != nil {
		return nil, err
	}
	text := strings.TrimSpace(item.Description)
	if text == "" {
		text = title
	}
	return &models.News{
		Title:      title,
		Text:       text,
		Date:       date,
		SourceLink: strings.TrimSpace(item.Link),
	}, nil
}
