package race

import (
	"fmt"
	"reflect"
	"sort"
	"testing"
)

func makePlayers(n int) []string {
	players := make([]string, n)
	for i := range players {
		players[i] = fmt.Sprintf("%d選手%d", i+1, i+1)
	}
	return players
}

func makeRecord(venue string, raceNumber int, start string) Record {
	return Record{
		Date:          "20250831",
		Venue:         venue,
		Grade:         "",
		RaceNumber:    raceNumber,
		StartTime:     start,
		ClosedAt:      ClosingTime(start, "20250831"),
		Players:       makePlayers(6),
		ClassCategory: "予選",
	}
}

func TestAggregateGroupsAndSorts(t *testing.T) {
	// Two venues with 3 and 2 races, race numbers deliberately unsorted.
	records := []Record{
		makeRecord("川口", 3, "17:00"),
		makeRecord("伊勢崎", 2, "16:30"),
		makeRecord("川口", 1, "15:00"),
		makeRecord("伊勢崎", 1, "15:30"),
		makeRecord("川口", 2, "16:00"),
	}

	groups := Aggregate(records)
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}

	// Group order follows first occurrence in the input.
	if groups[0].Venue != "川口" || groups[1].Venue != "伊勢崎" {
		t.Errorf("unexpected group order: %s, %s", groups[0].Venue, groups[1].Venue)
	}
	if len(groups[0].Races) != 3 || len(groups[1].Races) != 2 {
		t.Fatalf("expected 3 and 2 races, got %d and %d", len(groups[0].Races), len(groups[1].Races))
	}

	for _, group := range groups {
		for i := 1; i < len(group.Races); i++ {
			if group.Races[i-1].RaceNumber >= group.Races[i].RaceNumber {
				t.Errorf("races of %s not ascending: %d before %d",
					group.Venue, group.Races[i-1].RaceNumber, group.Races[i].RaceNumber)
			}
		}
	}
}

func TestAggregateDropsInvalidRosters(t *testing.T) {
	short := makeRecord("川口", 1, "15:00")
	short.Players = makePlayers(5)
	long := makeRecord("川口", 2, "16:00")
	long.Players = makePlayers(9)
	valid := makeRecord("川口", 3, "17:00")

	groups := Aggregate([]Record{short, long, valid})
	if len(groups) != 1 {
		t.Fatalf("expected 1 group, got %d", len(groups))
	}
	if len(groups[0].Races) != 1 {
		t.Fatalf("expected 1 race after dropping invalid rosters, got %d", len(groups[0].Races))
	}
	if groups[0].Races[0].RaceNumber != 3 {
		t.Errorf("wrong surviving race: %d", groups[0].Races[0].RaceNumber)
	}
}

func TestAggregateKeepsGradeInGroupKey(t *testing.T) {
	a := makeRecord("川口", 1, "15:00")
	a.Grade = "SG"
	b := makeRecord("川口", 1, "15:00")
	b.Grade = ""

	groups := Aggregate([]Record{a, b})
	if len(groups) != 2 {
		t.Fatalf("expected distinct groups per grade, got %d", len(groups))
	}
}

// flatten is the inverse of Aggregate for the fields the grouped document
// retains.
func flatten(groups []Group) []Record {
	records := make([]Record, 0)
	for _, group := range groups {
		for _, entry := range group.Races {
			records = append(records, Record{
				Venue:         group.Venue,
				Grade:         group.Grade,
				RaceNumber:    entry.RaceNumber,
				StartTime:     entry.StartTime,
				ClosedAt:      entry.ClosedAt,
				Players:       entry.Players,
				ClassCategory: entry.ClassCategory,
			})
		}
	}
	return records
}

func TestAggregateRoundTrip(t *testing.T) {
	records := []Record{
		makeRecord("川口", 2, "16:00"),
		makeRecord("伊勢崎", 1, "15:30"),
		makeRecord("川口", 1, "15:00"),
	}

	got := flatten(Aggregate(records))

	// The grouped document does not carry the date; compare the rest, up to
	// ordering.
	want := make([]Record, len(records))
	copy(want, records)
	for i := range want {
		want[i].Date = ""
	}

	sortRecords := func(recs []Record) {
		sort.Slice(recs, func(i, j int) bool {
			if recs[i].Venue != recs[j].Venue {
				return recs[i].Venue < recs[j].Venue
			}
			return recs[i].RaceNumber < recs[j].RaceNumber
		})
	}
	sortRecords(got)
	sortRecords(want)

	if !reflect.DeepEqual(got, want) {
		t.Errorf("round trip mismatch:\ngot  %+v\nwant %+v", got, want)
	}
}
