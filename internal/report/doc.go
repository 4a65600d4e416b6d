// Package report formats raid contribution reports for posting to chat.
//
// Reports use Discord markdown: a bold title line followed either by an
// "all members contributed" line or by one "- name" bullet per member with no
// raid score.
package report
