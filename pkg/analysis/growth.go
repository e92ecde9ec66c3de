package analysis

import (
	"sort"
	"time"
)

// GrowthPoint counts relationships that started in one calendar month
type GrowthPoint struct {
	Month               time.Time `json:"month"`
	NewFollowers        int       `json:"new_followers"`
	NewFollowing        int       `json:"new_following"`
	CumulativeFollowers int       `json:"cumulative_followers"`
	CumulativeFollowing int       `json:"cumulative_following"`
}

// Label formats the month for display
func (p GrowthPoint) Label() string {
	return p.Month.Format("Jan 2006")
}

// Growth buckets follower and following timestamps by month in chronological
// order. Users without a timestamp are not counted.
func (r *Result) Growth() []GrowthPoint {
	buckets := make(map[time.Time]*GrowthPoint)
	bucket := func(ts time.Time) *GrowthPoint {
		t := ts.UTC()
		month := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
		p, ok := buckets[month]
		if !ok {
			p = &GrowthPoint{Month: month}
			buckets[month] = p
		}
		return p
	}

	for _, u := range r.followers.Users() {
		if u.HasTimestamp() {
			bucket(u.FollowedAt).NewFollowers++
		}
	}
	for _, u := range r.following.Users() {
		if u.HasTimestamp() {
			bucket(u.FollowedAt).NewFollowing++
		}
	}

	points := make([]GrowthPoint, 0, len(buckets))
	for _, p := range buckets {
		points = append(points, *p)
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Month.Before(points[j].Month) })

	var followers, following int
	for i := range points {
		followers += points[i].NewFollowers
		following += points[i].NewFollowing
		points[i].CumulativeFollowers = followers
		points[i].CumulativeFollowing = following
	}
	return points
}
