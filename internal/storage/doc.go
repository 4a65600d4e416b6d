// Package storage manages the folder of saved raid pages.
//
// Raid pages are saved from the browser as <raid-id>.html into a single folder
// (html_files under the project root by default). The package resolves page
// paths, loads saved pages, and can wait for a page to appear while the operator
// saves it.
package storage
