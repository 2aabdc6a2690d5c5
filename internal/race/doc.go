// Package race provides the domain model for one day of autorace schedules.
//
// The race package defines the flat Record written to the intermediate table,
// the grouped Venue/grade document produced by the converter, and the pure
// calendar helpers shared by both stages. The racing calendar follows the
// programme-day convention: a race run shortly after midnight still belongs to
// the previous day's programme and is written with an hour of 24 or more
// ("24:05" is five past midnight on the following calendar day).
package race
