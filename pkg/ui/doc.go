// Package ui renders the command line output of igfollowers: the startup
// banner and status lines. Styling is applied only when writing to a terminal.
package ui
