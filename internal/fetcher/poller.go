package fetcher

import (
	"context"
	"sync"
	"time"

	"news_notes/internal/logger"

	"github.com/sirupsen/logrus"
)

// FeedHandler импортирует одну ленту.
type FeedHandler interface {
	HandleFeed(ctx context.Context, url string) (int, error)
}

// StartPolling обрабатывает ленты сразу и затем каждые interval, пока ctx не отменён.
// Ленты одного цикла обрабатываются параллельно; следующий цикл ждёт предыдущий.
func StartPolling(ctx context.Context, h FeedHandler, urls []string, interval time.Duration) {
	log := logger.Log.WithFields(logrus.Fields{
		"service":  "poller",
		"interval": interval.String(),
	})
	if len(urls) == 0 {
		log.Info("No RSS feeds configured, poller disabled")
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		log.Info("Starting new polling cycle")
		pollOnce(ctx, h, urls, log)

		select {
		case <-ticker.C:
		case <-ctx.Done():
			log.Info("Stopping poller by context")
			return
		}
	}
}

func pollOnce(ctx context.Context, h FeedHandler, urls []string, log *logger.Entry) {
	var wg sync.WaitGroup
	for _, url := range urls {
		wg.Add(1)
		go func(url string) {
			defer wg.Done()
			n, err := h.HandleFeed(ctx, url)
			if err != nil {
				log.WithField("url", url).WithError(err).Error("Failed to process RSS feed")
				return
			}
			log.WithFields(logrus.Fields{"url": url, "imported": n}).Info("RSS feed processed")
		}(url)
	}
	wg.Wait()
}
