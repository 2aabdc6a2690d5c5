package race

// Roster size bounds. A race card outside these bounds is not a valid race
// and is discarded whole, never truncated or padded.
const (
	MinPlayers = 6
	MaxPlayers = 8
)

// Record is one race at one venue on one programme day, as written to the
// intermediate table. Records are built once during extraction and never
// mutated afterwards.
type Record struct {
	Date          string   `json:"date"`           // programme day, YYYYMMDD
	Venue         string   `json:"venue"`          // resolved venue name, "" for unknown codes
	Grade         string   `json:"grade"`          // meet grade, "" when the page carries none
	RaceNumber    int      `json:"race_number"`    // ordinal within the day at this venue
	StartTime     string   `json:"start_time"`     // "HH:MM", hour may be >= 24
	ClosedAt      string   `json:"closed_at"`      // betting close, two minutes before start
	Players       []string `json:"players"`        // "<lane><name>" entries, 6 to 8 of them
	ClassCategory string   `json:"class_category"` // race tier within the meet, "" when unknown
}

// HasValidRoster reports whether the record carries an acceptable number of
// players.
func (r *Record) HasValidRoster() bool {
	n := len(r.Players)
	return n >= MinPlayers && n <= MaxPlayers
}
