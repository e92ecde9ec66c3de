package analysis

import "math"

// Summary holds the counts and ratios shown on the dashboard
type Summary struct {
	Followers        int     `json:"followers"`
	Following        int     `json:"following"`
	Mutual           int     `json:"mutual"`
	NotFollowingBack int     `json:"not_following_back"`
	NotFollowedBack  int     `json:"not_followed_back"`
	FollowRatio      float64 `json:"follow_ratio"`
	MutualRate       float64 `json:"mutual_rate"`
	GhostRate        float64 `json:"ghost_rate"`
	HealthScore      int     `json:"health_score"`
}

// Summary computes the dashboard metrics. Ratios with a zero denominator are 0.
func (r *Result) Summary() Summary {
	s := Summary{
		Followers:        r.TotalFollowers,
		Following:        r.TotalFollowing,
		Mutual:           r.Mutual.Len(),
		NotFollowingBack: r.NotFollowingBack.Len(),
		NotFollowedBack:  r.NotFollowedBack.Len(),
	}

	if s.Following > 0 {
		s.FollowRatio = float64(s.Followers) / float64(s.Following)
		s.GhostRate = float64(s.NotFollowingBack) / float64(s.Following) * 100
	}
	if s.Followers > 0 {
		s.MutualRate = float64(s.Mutual) / float64(s.Followers) * 100
	}
	s.HealthScore = healthScore(s.FollowRatio, s.MutualRate, s.GhostRate)

	return s
}

// Healthy reports whether you have at least as many followers as followings
func (s Summary) Healthy() bool {
	return s.FollowRatio >= 1
}

// HealthBand buckets the health score into low, medium or high
func (s Summary) HealthBand() string {
	switch {
	case s.HealthScore >= 70:
		return "high"
	case s.HealthScore >= 40:
		return "medium"
	default:
		return "low"
	}
}

// healthScore weights ratio (capped at 2), mutual rate and the share of
// followings that follow back into a 0-100 score
func healthScore(ratio, mutualRate, ghostRate float64) int {
	score := math.Min(ratio, 2)*20 + mutualRate*0.4 + math.Max(0, 100-ghostRate)*0.2
	return int(math.Min(100, score))
}
