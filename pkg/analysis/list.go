package analysis

import (
	"sort"
	"strings"
	"time"

	"igfollowers/pkg/models"
)

// DefaultPageSize is how many entries one "load more" step shows
const DefaultPageSize = 50

// SortOrder selects how category lists are ordered
type SortOrder string

const (
	// SortRecent orders by Since, newest first
	SortRecent SortOrder = "recent"
	// SortName orders by username, case-insensitive
	SortName SortOrder = "name"
)

// ListOptions controls filtering and paging of a category list
type ListOptions struct {
	Sort   SortOrder
	Query  string
	Offset int
	// Limit is the page size; 0 or less returns every remaining entry
	Limit int
}

// Entry is one row of a category list
type Entry struct {
	models.InstagramUser
	Since time.Time `json:"since,omitempty"`
}

// Page is a window over a sorted, filtered category list
type Page struct {
	Category   Category `json:"category"`
	Entries    []Entry  `json:"entries"`
	Total      int      `json:"total"`
	Offset     int      `json:"offset"`
	NextOffset int      `json:"next_offset"`
	HasMore    bool     `json:"has_more"`
}

// Entries returns every user of a category with its Since date, sorted
func (r *Result) Entries(c Category, order SortOrder) []Entry {
	users := r.Set(c).Users()
	entries := make([]Entry, len(users))
	for i, u := range users {
		entries[i] = Entry{InstagramUser: u, Since: r.Since(c, u.Username)}
	}
	sortEntries(entries, order)
	return entries
}

// List returns one page of a category
func (r *Result) List(c Category, opts ListOptions) Page {
	entries := r.Entries(c, opts.Sort)

	if q := strings.ToLower(strings.TrimSpace(opts.Query)); q != "" {
		filtered := entries[:0]
		for _, e := range entries {
			if strings.Contains(e.Key(), q) {
				filtered = append(filtered, e)
			}
		}
		entries = filtered
	}

	total := len(entries)
	start := min(max(opts.Offset, 0), total)
	end := total
	if opts.Limit > 0 {
		end = min(start+opts.Limit, total)
	}

	return Page{
		Category:   c,
		Entries:    entries[start:end],
		Total:      total,
		Offset:     start,
		NextOffset: end,
		HasMore:    end < total,
	}
}

func sortEntries(entries []Entry, order SortOrder) {
	if order == SortName {
		sort.SliceStable(entries, func(i, j int) bool { return entries[i].Key() < entries[j].Key() })
		return
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].Since.Equal(entries[j].Since) {
			return entries[i].Since.After(entries[j].Since)
		}
		return entries[i].Key() < entries[j].Key()
	})
}
