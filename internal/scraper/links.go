package scraper

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const oneDayPath = "/autorace/OneDayRaceList.do"

// PageRef identifies one venue's day-card page on the results site.
type PageRef struct {
	URL       string // absolute page URL
	Day       string // raceDy query value, YYYYMMDD
	PlaceCode string // placeCd query value
}

// CollectDayLinks extracts every day-card link from a meet listing document.
// Links are resolved against base, parsed for their day and place code, and
// deduplicated by (day, place code) in first-seen order. Anchors missing
// either query parameter are dropped. When the document root carries no
// matching anchors at all, the "today" section is scanned as a fallback.
func CollectDayLinks(doc *goquery.Document, base *url.URL) []PageRef {
	selector := `a[href*="` + oneDayPath + `"]`

	anchors := doc.Find(selector)
	if anchors.Length() == 0 {
		anchors = doc.Find("#raceToday").Find(selector)
	}

	type linkKey struct {
		day, place string
	}
	seen := make(map[linkKey]bool)
	refs := make([]PageRef, 0, anchors.Length())

	anchors.Each(func(_ int, a *goquery.Selection) {
		href, ok := a.Attr("href")
		if !ok || !strings.Contains(href, oneDayPath) {
			return
		}
		rel, err := url.Parse(href)
		if err != nil {
			return
		}
		abs := base.ResolveReference(rel)

		query := abs.Query()
		day := query.Get("raceDy")
		place := query.Get("placeCd")
		if day == "" || place == "" {
			return
		}

		key := linkKey{day, place}
		if seen[key] {
			return
		}
		seen[key] = true
		refs = append(refs, PageRef{URL: abs.String(), Day: day, PlaceCode: place})
	})

	return refs
}

// FilterByDay keeps only references for the target day. The filter re-dedupes
// by (day, place code) so it is safe to apply after a refetch that may have
// returned a stale or mixed-day listing.
func FilterByDay(refs []PageRef, day string) []PageRef {
	seen := make(map[string]bool)
	kept := make([]PageRef, 0, len(refs))
	for _, ref := range refs {
		if ref.Day != day || ref.PlaceCode == "" {
			continue
		}
		if seen[ref.PlaceCode] {
			continue
		}
		seen[ref.PlaceCode] = true
		kept = append(kept, ref)
	}
	return kept
}
