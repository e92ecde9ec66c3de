package analysis

import (
	"time"
)

// Category names one of the derived relations
type Category string

const (
	// CategoryNotFollowingBack holds accounts you follow that do not follow you
	CategoryNotFollowingBack Category = "not-following-back"
	// CategoryNotFollowedBack holds followers you do not follow
	CategoryNotFollowedBack Category = "not-followed-back"
	// CategoryMutual holds accounts present on both lists
	CategoryMutual Category = "mutual"
)

// Categories lists the derived relations in display order
var Categories = []Category{CategoryNotFollowingBack, CategoryNotFollowedBack, CategoryMutual}

// ParseCategory converts a URL segment to a Category
func ParseCategory(s string) (Category, bool) {
	for _, c := range Categories {
		if string(c) == s {
			return c, true
		}
	}
	return "", false
}

// Title returns the human label of the category
func (c Category) Title() string {
	switch c {
	case CategoryNotFollowingBack:
		return "Not following back"
	case CategoryNotFollowedBack:
		return "Not followed back"
	case CategoryMutual:
		return "Mutual"
	default:
		return string(c)
	}
}

// SinceLabel describes what the Since date of an entry means
func (c Category) SinceLabel() string {
	switch c {
	case CategoryNotFollowingBack:
		return "Followed on"
	case CategoryNotFollowedBack:
		return "Follows you since"
	default:
		return "Since"
	}
}

// Result holds the derived relations of one analysis run
type Result struct {
	Mutual           *UserSet
	NotFollowingBack *UserSet
	NotFollowedBack  *UserSet
	TotalFollowers   int
	TotalFollowing   int
	AnalyzedAt       time.Time

	followers *UserSet
	following *UserSet
}

// Analyze compares a follower set with a following set. Nil or empty inputs
// yield empty relations. The inputs are not modified.
func Analyze(followers, following *UserSet) *Result {
	f := followers.Clone()
	g := following.Clone()

	return &Result{
		Mutual:           f.Intersect(g),
		NotFollowingBack: g.Difference(f),
		NotFollowedBack:  f.Difference(g),
		TotalFollowers:   f.Len(),
		TotalFollowing:   g.Len(),
		AnalyzedAt:       time.Now().UTC(),
		followers:        f,
		following:        g,
	}
}

// Set returns the users of a category
func (r *Result) Set(c Category) *UserSet {
	switch c {
	case CategoryNotFollowingBack:
		return r.NotFollowingBack
	case CategoryNotFollowedBack:
		return r.NotFollowedBack
	case CategoryMutual:
		return r.Mutual
	default:
		return NewUserSet()
	}
}

// Since returns the date shown next to username in a category: when you
// followed them, when they followed you, or the newer of both for mutuals.
func (r *Result) Since(c Category, username string) time.Time {
	var followerTS, followingTS time.Time
	if u, ok := r.followers.Get(username); ok {
		followerTS = u.FollowedAt
	}
	if u, ok := r.following.Get(username); ok {
		followingTS = u.FollowedAt
	}

	switch c {
	case CategoryNotFollowingBack:
		return followingTS
	case CategoryNotFollowedBack:
		return followerTS
	default:
		if followerTS.After(followingTS) {
			return followerTS
		}
		return followingTS
	}
}

// Followers returns the follower set the result was computed from
func (r *Result) Followers() *UserSet {
	return r.followers
}

// Following returns the following set the result was computed from
func (r *Result) Following() *UserSet {
	return r.following
}
