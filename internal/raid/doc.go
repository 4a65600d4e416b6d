// Package raid provides the raid participation model and contribution filtering.
//
// A Record is one row of a raid results table: the member name and the raw score
// text exactly as displayed. Scores are never converted to numbers for filtering;
// a member whose score is the Sentinel ("--") registered no contribution.
// Summarize computes console statistics from the same records.
package raid
