package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"igfollowers/pkg/models"
)

func TestSummary(t *testing.T) {
	// 4 followers, 5 following, 2 mutual
	r := Analyze(
		FromUsernames("a", "b", "c", "d"),
		FromUsernames("c", "d", "e", "f", "g"),
	)
	s := r.Summary()

	assert.Equal(t, 4, s.Followers)
	assert.Equal(t, 5, s.Following)
	assert.Equal(t, 2, s.Mutual)
	assert.Equal(t, 3, s.NotFollowingBack)
	assert.Equal(t, 2, s.NotFollowedBack)
	assert.InDelta(t, 0.8, s.FollowRatio, 1e-9)
	assert.InDelta(t, 50.0, s.MutualRate, 1e-9)
	assert.InDelta(t, 60.0, s.GhostRate, 1e-9)
	// 0.8*20 + 50*0.4 + 40*0.2 = 16 + 20 + 8
	assert.Equal(t, 44, s.HealthScore)
	assert.False(t, s.Healthy())
	assert.Equal(t, "medium", s.HealthBand())
}

func TestSummaryZeroFollowing(t *testing.T) {
	s := Analyze(FromUsernames("a", "b"), nil).Summary()

	assert.Equal(t, 0.0, s.FollowRatio)
	assert.Equal(t, 0.0, s.GhostRate)
	assert.Equal(t, 0.0, s.MutualRate)
	assert.Equal(t, 2, s.NotFollowedBack)
}

func TestHealthScoreIsCapped(t *testing.T) {
	r := Analyze(FromUsernames("a", "b", "c", "d"), FromUsernames("a", "b"))
	s := r.Summary()

	// ratio 2 → 40, mutual 50% → 20, ghost 0% → 20
	assert.Equal(t, 80, s.HealthScore)
	assert.True(t, s.Healthy())
	assert.Equal(t, "high", s.HealthBand())

	assert.Equal(t, 100, healthScore(10, 100, 0))
	assert.Equal(t, "low", Summary{HealthScore: 10}.HealthBand())
}

func TestGrowth(t *testing.T) {
	jan := time.Date(2024, time.January, 10, 12, 0, 0, 0, time.UTC)
	janLate := time.Date(2024, time.January, 31, 23, 0, 0, 0, time.UTC)
	mar := time.Date(2024, time.March, 2, 0, 0, 0, 0, time.UTC)

	r := Analyze(
		NewUserSet(
			models.NewUser("a", jan),
			models.NewUser("b", janLate),
			models.NewUser("c", time.Time{}),
		),
		NewUserSet(models.NewUser("d", mar)),
	)
	points := r.Growth()

	require.Len(t, points, 2)
	assert.Equal(t, "Jan 2024", points[0].Label())
	assert.Equal(t, 2, points[0].NewFollowers)
	assert.Equal(t, 0, points[0].NewFollowing)
	assert.Equal(t, "Mar 2024", points[1].Label())
	assert.Equal(t, 1, points[1].NewFollowing)
	assert.Equal(t, 2, points[1].CumulativeFollowers)
	assert.Equal(t, 1, points[1].CumulativeFollowing)
}

func TestGrowthWithoutTimestamps(t *testing.T) {
	assert.Empty(t, Analyze(FromUsernames("a"), FromUsernames("b")).Growth())
}
