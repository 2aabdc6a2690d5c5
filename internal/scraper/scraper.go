package scraper

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/cenkalti/backoff/v4"
	"github.com/mofutimer/autorace-schedule/internal/config"
	"github.com/mofutimer/autorace-schedule/internal/logger"
	"github.com/mofutimer/autorace-schedule/internal/race"
)

const listingPath = "/autorace/KaisaiRaceList.do"

// Scraper crawls the meet listing and its per-venue day cards for one
// programme day. Pages are fetched sequentially in discovery order; a page
// whose retry budget runs out is skipped, never fatal for the run.
type Scraper struct {
	client     *http.Client
	base       *url.URL
	userAgent  string
	maxRetries uint64
	extractor  *Extractor
}

// New creates a Scraper from runtime configuration.
func New(cfg *config.Config) (*Scraper, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	return &Scraper{
		client:     &http.Client{Timeout: cfg.Timeout()},
		base:       base,
		userAgent:  cfg.UserAgent,
		maxRetries: cfg.MaxRetries,
		extractor:  NewExtractor(cfg.Venues, cfg.Categories),
	}, nil
}

// ScrapeDay runs the full pipeline for one programme day: discover day-card
// links on the meet listing, retry discovery with an explicit day parameter
// when the default listing comes back empty, then crawl each surviving page
// and accumulate its race records. An empty result is a valid outcome.
func (s *Scraper) ScrapeDay(day string) ([]race.Record, error) {
	listingURL := s.base.String() + listingPath

	refs, err := s.discover(listingURL, day)
	if err != nil {
		return nil, err
	}
	if len(refs) == 0 {
		// Some listings only show the target day when asked for it.
		withDay := listingURL + "?raceDy=" + day
		logger.Info("no links on default listing, retrying with explicit day", logger.Fields{
			"url": withDay,
		})
		refs, err = s.discover(withDay, day)
		if err != nil {
			return nil, err
		}
	}
	if len(refs) == 0 {
		logger.Warn("no day-card links found for target day", logger.Fields{"day": day})
		return nil, nil
	}

	records := make([]race.Record, 0)
	for _, ref := range refs {
		// Guard against discovery drift between filtering and crawling.
		if ref.Day != day {
			logger.Info("skipping link for another day", logger.Fields{
				"link_day": ref.Day,
				"target":   day,
			})
			continue
		}

		started := time.Now()
		body, err := s.fetch(ref.URL)
		if err != nil {
			logger.Error("day card fetch failed, skipping venue", logger.Fields{
				"url":   ref.URL,
				"place": ref.PlaceCode,
			}, err)
			logger.IncrCounter("scrape.pages_failed")
			continue
		}
		logger.RecordTiming("scrape.fetch", time.Since(started))

		rows, err := s.extractor.Extract(strings.NewReader(body), ref.Day, ref.PlaceCode)
		if err != nil {
			logger.Error("day card parse failed, skipping venue", logger.Fields{
				"url":   ref.URL,
				"place": ref.PlaceCode,
			}, err)
			continue
		}

		logger.IncrCounter("scrape.pages")
		logger.Info("day card extracted", logger.Fields{
			"place": ref.PlaceCode,
			"venue": s.extractor.VenueName(ref.PlaceCode),
			"rows":  len(rows),
		})
		records = append(records, rows...)
	}

	return records, nil
}

// discover fetches a meet listing and returns its day-card links for the
// target day. Listing failures are fatal for the run, unlike per-page ones.
func (s *Scraper) discover(listingURL, day string) ([]PageRef, error) {
	body, err := s.fetch(listingURL)
	if err != nil {
		return nil, fmt.Errorf("fetching meet listing: %w", err)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parsing meet listing: %w", err)
	}

	refs := CollectDayLinks(doc, s.base)
	logger.Info("collected day-card links", logger.Fields{
		"url":   listingURL,
		"found": len(refs),
	})

	refs = FilterByDay(refs, day)
	logger.Info("filtered day-card links", logger.Fields{
		"day":  day,
		"kept": len(refs),
	})
	return refs, nil
}

// fetch retrieves one page with bounded exponential-backoff retries. A non-OK
// status counts as a retryable failure like a transport error.
func (s *Scraper) fetch(pageURL string) (string, error) {
	var body string

	attempt := func() error {
		req, err := http.NewRequest(http.MethodGet, pageURL, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("creating request: %w", err))
		}
		req.Header.Set("User-Agent", s.userAgent)
		req.Header.Set("Accept-Language", "ja,en;q=0.8")
		req.Header.Set("Referer", s.base.String()+"/autorace/")
		req.Header.Set("Cache-Control", "no-cache")

		resp, err := s.client.Do(req)
		if err != nil {
			return fmt.Errorf("fetching page: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		}

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("reading body: %w", err)
		}
		body = string(data)
		return nil
	}

	policy := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), s.maxRetries)
	if err := backoff.Retry(attempt, policy); err != nil {
		return "", err
	}
	return body, nil
}
