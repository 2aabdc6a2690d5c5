// Package cli implements the command-line interface for autorace-schedule.
//
// Two Cobra commands cover the two pipeline stages: autorace-scrape crawls
// one day's meet listing into the intermediate CSV table, and
// autorace-convert folds that table into the grouped JSON race list. The
// crawler defaults to today's programme day in JST when no day is given;
// the converter requires an explicit day.
package cli
