// Package storage persists the two flat artifacts of a programme day.
//
// The intermediate table is a CSV file (csv/autorace_YYYYMMDD.csv) with one
// row per race and a fixed column order; the players column joins entries
// with commas, which downstream consumers rely on. The grouped race list is
// an indented JSON document (date/autorace_race_list_YYYYMMDD.json) nested
// by venue and grade. Both live under a single data directory.
package storage
