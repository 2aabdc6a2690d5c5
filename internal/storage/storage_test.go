package storage

import (
	"encoding/json"
	"errors"
	"os"
	"reflect"
	"strings"
	"testing"

	"github.com/mofutimer/autorace-schedule/internal/race"
)

func testRecords() []race.Record {
	return []race.Record{
		{
			Date:       "20250831",
			Venue:      "川口",
			Grade:      "",
			RaceNumber: 1,
			StartTime:  "15:00",
			ClosedAt:   "14:58",
			Players: []string{
				"1青山周平", "2鈴木圭一郎", "3中村雅人",
				"4佐藤摩弥", "5荒尾聡", "6松尾啓史",
			},
			ClassCategory: "予選",
		},
		{
			Date:       "20250831",
			Venue:      "川口",
			Grade:      "",
			RaceNumber: 12,
			StartTime:  "24:05",
			ClosedAt:   "24:03",
			Players: []string{
				"1高橋貢", "2永井大介", "3中野憲人",
				"4若井友和", "5黒川京介", "6篠原睦",
			},
			ClassCategory: "優勝戦",
		},
	}
}

func TestTableRoundTrip(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	want := testRecords()
	if err := store.WriteTable("20250831", want); err != nil {
		t.Fatalf("WriteTable failed: %v", err)
	}

	got, err := store.ReadTable("20250831")
	if err != nil {
		t.Fatalf("ReadTable failed: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("round trip mismatch:\ngot  %+v\nwant %+v", got, want)
	}
}

func TestTableHeaderAndColumnOrder(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := store.WriteTable("20250831", testRecords()); err != nil {
		t.Fatalf("WriteTable failed: %v", err)
	}

	data, err := os.ReadFile(store.TablePath("20250831"))
	if err != nil {
		t.Fatalf("reading table: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if lines[0] != "date,venue,grade,race_number,start_time,closed_at,players,class_category" {
		t.Errorf("unexpected header: %q", lines[0])
	}
	if len(lines) != 3 {
		t.Errorf("expected header plus 2 rows, got %d lines", len(lines))
	}
}

func TestReadTableMissingFile(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	_, err = store.ReadTable("19990101")
	if !errors.Is(err, ErrTableNotFound) {
		t.Errorf("expected ErrTableNotFound, got %v", err)
	}
}

func TestWriteRaceList(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	groups := race.Aggregate(testRecords())
	if err := store.WriteRaceList("20250831", groups); err != nil {
		t.Fatalf("WriteRaceList failed: %v", err)
	}

	data, err := os.ReadFile(store.RaceListPath("20250831"))
	if err != nil {
		t.Fatalf("reading race list: %v", err)
	}

	// Multibyte text must be written verbatim, not escaped.
	if !strings.Contains(string(data), `"venue": "川口"`) {
		t.Errorf("venue name not written verbatim:\n%s", data)
	}

	// Field order of the race objects is part of the contract.
	raw := string(data)
	order := []string{`"race_number"`, `"start_time"`, `"closed_at"`, `"players"`, `"class_category"`}
	last := -1
	for _, key := range order {
		i := strings.Index(raw, key)
		if i < 0 {
			t.Fatalf("key %s missing from output", key)
		}
		if i < last {
			t.Errorf("key %s out of order", key)
		}
		last = i
	}

	var got []race.Group
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if !reflect.DeepEqual(got, groups) {
		t.Errorf("decoded race list mismatch:\ngot  %+v\nwant %+v", got, groups)
	}
}
