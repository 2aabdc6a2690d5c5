// Package scraper harvests one day of autorace schedules from the public
// Oddspark results site.
//
// The package splits the work into three pieces: link discovery over the meet
// listing page (which venues run on the target day), race extraction over
// each venue's day-card page (one record per race, with roster and time
// validation), and the Scraper orchestrator that drives fetching across them.
// Discovery and extraction are pure parsing over already-fetched markup;
// only the Scraper touches the network.
package scraper
