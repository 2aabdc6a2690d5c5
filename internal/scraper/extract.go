package scraper

import (
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"github.com/mofutimer/autorace-schedule/internal/race"
)

const headingAnchorSelector = `strong > a[href*="/autorace/RaceList.do"]`

var (
	// Race blocks are headed by text like "9R 予選 3100m(6周)".
	ordinalPattern = regexp.MustCompile(`(\d+)\s*R\b`)

	// Column keywords that distinguish a roster table from the other tables
	// (odds, results) that can sit between a heading and its roster.
	rosterPattern = regexp.MustCompile(`車\s*番|選手名|LG|ハンデ|現ランク|審査|試走`)

	// "departure time" label followed by a clock, for pages whose dedicated
	// time element is missing.
	departurePattern = regexp.MustCompile(`発走(?:時間|予定)?[^\d]*(\d{1,2}:\d{2})`)

	laneClassPattern = regexp.MustCompile(`\bbg-[1-8]\b`)
)

// Extractor parses venue day-card pages into race records. The venue table
// and category vocabulary are fixed at construction; the extractor itself
// performs no network or file I/O.
type Extractor struct {
	venues          map[string]string
	categoryPattern *regexp.Regexp
}

// NewExtractor builds an Extractor from a place-code-to-venue table and an
// ordered race-tier vocabulary. Vocabulary entries are regular-expression
// alternatives; the leftmost match in a heading wins.
func NewExtractor(venues map[string]string, categories []string) *Extractor {
	copied := make(map[string]string, len(venues))
	for code, name := range venues {
		copied[code] = name
	}

	var pattern *regexp.Regexp
	if len(categories) > 0 {
		pattern = regexp.MustCompile("(" + strings.Join(categories, "|") + ")")
	}

	return &Extractor{venues: copied, categoryPattern: pattern}
}

// VenueName resolves a place code to its venue name. Unknown codes resolve to
// an empty string, never an error.
func (e *Extractor) VenueName(placeCode string) string {
	return e.venues[placeCode]
}

// Extract parses one day-card page into race records for the given programme
// day and place code. Blocks missing an ordinal, a start time, or a plausible
// roster table are skipped silently; a block whose roster falls outside 6 to 8
// players is discarded whole. Returned records are sorted by race number.
func (e *Extractor) Extract(r io.Reader, day, placeCode string) ([]race.Record, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing day card: %w", err)
	}

	venue := e.VenueName(placeCode)
	records := make([]race.Record, 0)

	doc.Find("div.h30").Each(func(_ int, box *goquery.Selection) {
		heading := box.Find(headingAnchorSelector).First()
		if heading.Length() == 0 {
			return
		}

		title := squashSpace(heading.Text())
		ordinal := ordinalPattern.FindStringSubmatch(title)
		if ordinal == nil {
			return
		}
		raceNumber, _ := strconv.Atoi(ordinal[1])

		startTime, ok := resolveStartTime(box)

		table := nextTable(box)
		if table == nil {
			return
		}
		if !rosterPattern.MatchString(table.Text()) {
			return
		}

		category := ""
		if e.categoryPattern != nil {
			category = e.categoryPattern.FindString(title)
		}

		players := rosterPlayers(table)
		if !ok || len(players) < race.MinPlayers || len(players) > race.MaxPlayers {
			return
		}

		records = append(records, race.Record{
			Date:          day,
			Venue:         venue,
			Grade:         "",
			RaceNumber:    raceNumber,
			StartTime:     startTime,
			ClosedAt:      race.ClosingTime(startTime, day),
			Players:       players,
			ClassCategory: category,
		})
	})

	sort.Slice(records, func(i, j int) bool {
		return records[i].RaceNumber < records[j].RaceNumber
	})
	return records, nil
}

// startTimeStrategies are tried in order until one yields a time. Each is a
// pure function over the race block.
var startTimeStrategies = []func(*goquery.Selection) (string, bool){
	startTimeFromElement,
	startTimeFromLabel,
	startTimeFromWidenedLabel,
}

func resolveStartTime(box *goquery.Selection) (string, bool) {
	for _, strategy := range startTimeStrategies {
		if clock, ok := strategy(box); ok {
			return clock, true
		}
	}
	return "", false
}

// startTimeFromElement reads the dedicated time element:
// <span class="start-time">発走時間 <strong>18:48</strong></span>.
func startTimeFromElement(box *goquery.Selection) (string, bool) {
	el := box.Find("span.start-time strong").First()
	if el.Length() == 0 {
		return "", false
	}
	return normalizeClock(strings.TrimSpace(el.Text()))
}

// startTimeFromLabel scans the block's own text for a labelled clock.
func startTimeFromLabel(box *goquery.Selection) (string, bool) {
	m := departurePattern.FindStringSubmatch(squashSpace(box.Text()))
	if m == nil {
		return "", false
	}
	return normalizeClock(m[1])
}

// startTimeFromWidenedLabel repeats the labelled-clock scan over a widened
// window: the text of the block's first few descendant elements joined
// together, which catches markup where the label and the clock sit in
// separate elements.
func startTimeFromWidenedLabel(box *goquery.Selection) (string, bool) {
	var parts []string
	box.Find("*").EachWithBreak(func(i int, el *goquery.Selection) bool {
		parts = append(parts, squashSpace(el.Text()))
		return i < 4
	})
	m := departurePattern.FindStringSubmatch(strings.Join(parts, " "))
	if m == nil {
		return "", false
	}
	return normalizeClock(m[1])
}

// rosterPlayers reads "<lane><name>" entries from a roster table. A row
// counts only when it has a cell styled with the lane class bg-1..bg-8 whose
// text is exactly that digit. The name comes from the dedicated racer cell,
// falling back to the first non-empty cell after the lane cell.
func rosterPlayers(table *goquery.Selection) []string {
	players := make([]string, 0, race.MaxPlayers)

	table.Find("tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() == 0 {
			return
		}

		var laneCell *goquery.Selection
		cells.EachWithBreak(func(_ int, cell *goquery.Selection) bool {
			class, _ := cell.Attr("class")
			if laneClassPattern.MatchString(class) {
				laneCell = cell
				return false
			}
			return true
		})
		if laneCell == nil {
			return
		}
		lane := strings.TrimSpace(laneCell.Text())
		if len(lane) != 1 || lane[0] < '1' || lane[0] > '8' {
			return
		}

		nameCell := row.Find("td.racer1").First()
		if nameCell.Length() == 0 {
			// Fallback for DOM variants without the tagged cell.
			cells.Slice(1, cells.Length()).EachWithBreak(func(_ int, cell *goquery.Selection) bool {
				if strings.TrimSpace(cell.Text()) != "" {
					nameCell = cell
					return false
				}
				return true
			})
		}
		if nameCell.Length() == 0 {
			return
		}

		players = append(players, lane+stripSpace(nameCell.Text()))
	})

	return players
}

// nextTable finds the first table following sel in document order, climbing
// through ancestors when the current level has none after it.
func nextTable(sel *goquery.Selection) *goquery.Selection {
	for cur := sel; cur.Length() > 0; cur = cur.Parent() {
		var found *goquery.Selection
		cur.NextAll().EachWithBreak(func(_ int, sibling *goquery.Selection) bool {
			if goquery.NodeName(sibling) == "table" {
				found = sibling
				return false
			}
			if nested := sibling.Find("table").First(); nested.Length() > 0 {
				found = nested
				return false
			}
			return true
		})
		if found != nil {
			return found
		}
	}
	return nil
}

// normalizeClock re-renders a loosely formatted clock as zero-padded "HH:MM".
func normalizeClock(clock string) (string, bool) {
	hh, mm, ok := strings.Cut(clock, ":")
	if !ok {
		return "", false
	}
	hour, err := strconv.Atoi(strings.TrimSpace(hh))
	if err != nil {
		return "", false
	}
	minute, err := strconv.Atoi(strings.TrimSpace(mm))
	if err != nil {
		return "", false
	}
	return fmt.Sprintf("%02d:%02d", hour, minute), true
}

// squashSpace collapses runs of whitespace, including full-width spaces, to
// single spaces.
func squashSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// stripSpace removes all whitespace, including full-width spaces, so names
// compare and join cleanly.
func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
