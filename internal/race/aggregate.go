package race

import "sort"

// Entry is one race inside a grouped day document. Field order matches the
// serialized shape consumed downstream.
type Entry struct {
	RaceNumber    int      `json:"race_number"`
	StartTime     string   `json:"start_time"`
	ClosedAt      string   `json:"closed_at"`
	Players       []string `json:"players"`
	ClassCategory string   `json:"class_category"`
}

// Group collects one venue's races of a single grade.
type Group struct {
	Venue string  `json:"venue"`
	Grade string  `json:"grade"`
	Races []Entry `json:"races"`
}

// Aggregate folds flat records into venue/grade groups. Groups appear in
// first-occurrence order of each (venue, grade) pair; races within a group
// are sorted by race number. Records with an invalid roster are dropped at
// ingestion, mirroring the extractor's validation.
func Aggregate(records []Record) []Group {
	type groupKey struct {
		venue, grade string
	}

	index := make(map[groupKey]int)
	groups := make([]Group, 0)

	for _, rec := range records {
		if !rec.HasValidRoster() {
			continue
		}
		key := groupKey{rec.Venue, rec.Grade}
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, Group{Venue: rec.Venue, Grade: rec.Grade})
		}
		groups[i].Races = append(groups[i].Races, Entry{
			RaceNumber:    rec.RaceNumber,
			StartTime:     rec.StartTime,
			ClosedAt:      rec.ClosedAt,
			Players:       rec.Players,
			ClassCategory: rec.ClassCategory,
		})
	}

	for i := range groups {
		races := groups[i].Races
		sort.Slice(races, func(a, b int) bool {
			return races[a].RaceNumber < races[b].RaceNumber
		})
	}
	return groups
}
