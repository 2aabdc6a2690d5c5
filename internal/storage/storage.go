package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mofutimer/autorace-schedule/internal/race"
)

// ErrTableNotFound reports a converter run whose intermediate table was never
// written. Callers distinguish it from other failures for exit-status
// purposes.
var ErrTableNotFound = errors.New("race table not found")

// tableHeader is the fixed column order of the intermediate table.
var tableHeader = []string{
	"date", "venue", "grade", "race_number",
	"start_time", "closed_at", "players", "class_category",
}

// Storage handles artifact persistence under a single data directory.
type Storage struct {
	dataDir string
}

// New creates a Storage rooted at dataDir, creating the csv/ and date/
// subdirectories as needed. A ~/ prefix is expanded to the home directory.
func New(dataDir string) (*Storage, error) {
	if strings.HasPrefix(dataDir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, dataDir[2:])
	}

	for _, sub := range []string{"csv", "date"} {
		if err := os.MkdirAll(filepath.Join(dataDir, sub), 0755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
	}

	return &Storage{dataDir: dataDir}, nil
}

// TablePath returns the intermediate table location for a programme day.
func (s *Storage) TablePath(day string) string {
	return filepath.Join(s.dataDir, "csv", fmt.Sprintf("autorace_%s.csv", day))
}

// RaceListPath returns the grouped document location for a programme day.
func (s *Storage) RaceListPath(day string) string {
	return filepath.Join(s.dataDir, "date", fmt.Sprintf("autorace_race_list_%s.json", day))
}

// WriteTable writes the intermediate table for a day. Player entries are
// comma-joined into a single column; names containing commas would corrupt
// the field on the way back out, a known constraint of the table format.
func (s *Storage) WriteTable(day string, records []race.Record) error {
	path := s.TablePath(day)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating table: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(tableHeader); err != nil {
		return fmt.Errorf("writing table header: %w", err)
	}
	for _, rec := range records {
		row := []string{
			rec.Date,
			rec.Venue,
			rec.Grade,
			strconv.Itoa(rec.RaceNumber),
			rec.StartTime,
			rec.ClosedAt,
			strings.Join(rec.Players, ","),
			rec.ClassCategory,
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("writing table row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing table: %w", err)
	}
	return nil
}

// ReadTable loads the intermediate table for a day. A missing file returns
// ErrTableNotFound; empty player entries from the comma-joined column are
// dropped.
func (s *Storage) ReadTable(day string) ([]race.Record, error) {
	path := s.TablePath(day)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrTableNotFound, path)
		}
		return nil, fmt.Errorf("opening table: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("reading table header: %w", err)
	}
	column := make(map[string]int, len(header))
	for i, name := range header {
		column[name] = i
	}
	field := func(row []string, name string) string {
		i, ok := column[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	records := make([]race.Record, 0)
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading table row: %w", err)
		}

		raceNumber, err := strconv.Atoi(field(row, "race_number"))
		if err != nil {
			return nil, fmt.Errorf("parsing race_number: %w", err)
		}

		players := make([]string, 0, race.MaxPlayers)
		for _, p := range strings.Split(field(row, "players"), ",") {
			if p != "" {
				players = append(players, p)
			}
		}

		records = append(records, race.Record{
			Date:          field(row, "date"),
			Venue:         field(row, "venue"),
			Grade:         field(row, "grade"),
			RaceNumber:    raceNumber,
			StartTime:     field(row, "start_time"),
			ClosedAt:      field(row, "closed_at"),
			Players:       players,
			ClassCategory: field(row, "class_category"),
		})
	}
	return records, nil
}

// WriteRaceList writes the grouped document for a day. Multibyte text is
// written verbatim, matching what downstream consumers expect.
func (s *Storage) WriteRaceList(day string, groups []race.Group) error {
	path := s.RaceListPath(day)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating race list: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(groups); err != nil {
		return fmt.Errorf("encoding race list: %w", err)
	}
	return nil
}
