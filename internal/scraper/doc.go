// Package scraper extracts raid participation records from saved swgoh.gg raid pages.
//
// The raid history page is saved from the browser and parsed offline. Every table
// body row with at least three cells yields one record: the second cell holds the
// displayed score and the third the member name. Rows that don't fit are skipped,
// and a page without any results table yields no records rather than an error.
package scraper
