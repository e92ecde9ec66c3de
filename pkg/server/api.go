package server

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"igfollowers/pkg/analysis"
	igerrors "igfollowers/pkg/errors"
	"igfollowers/pkg/loader"
	"igfollowers/pkg/logger"
	"igfollowers/pkg/monitoring"
)

// APIHandler serves the stateless JSON API
type APIHandler struct {
	s *Server
}

// NewAPIHandler creates a new APIHandler
func NewAPIHandler(s *Server) *APIHandler {
	return &APIHandler{s: s}
}

// RegisterAPIRoutes registers JSON API routes
func (h *APIHandler) RegisterAPIRoutes(g *echo.Group) {
	g.POST("/analyze", h.Analyze)
}

type analyzeResponse struct {
	Summary    analysis.Summary               `json:"summary"`
	Lists      map[analysis.Category][]string `json:"lists"`
	Growth     []growthPoint                  `json:"growth,omitempty"`
	Warnings   []string                       `json:"warnings,omitempty"`
	AnalyzedAt time.Time                      `json:"analyzed_at"`
}

type growthPoint struct {
	Month        string `json:"month"`
	NewFollowers int    `json:"new_followers"`
	NewFollowing int    `json:"new_following"`
}

// Analyze takes followers (one or more files) and following (one file) as
// multipart fields and returns the comparison without touching any session
func (h *APIHandler) Analyze(c echo.Context) error {
	if !h.s.uploads.Allow(apiLimitKey(c)) {
		monitoring.UploadsTotal.WithLabelValues("api", "rate_limited").Inc()
		return igerrors.New(igerrors.ErrorTypeRateLimit, "too many requests")
	}

	followerSources, err := h.s.readSources(c, kindFollowers, 0)
	if err != nil {
		return h.reject(err)
	}
	followingSources, err := h.s.readSources(c, kindFollowing, 1)
	if err != nil {
		return h.reject(err)
	}

	followers, err := loader.ParseFollowers(followerSources...)
	if err != nil {
		monitoring.ParseFailuresTotal.WithLabelValues(kindFollowers).Inc()
		return h.reject(err)
	}
	following, err := loader.ParseFollowing(followingSources[0])
	if err != nil {
		monitoring.ParseFailuresTotal.WithLabelValues(kindFollowing).Inc()
		return h.reject(err)
	}
	monitoring.UploadsTotal.WithLabelValues("api", "accepted").Inc()

	result := runAnalysis(c.Response().Header().Get(echo.HeaderXRequestID), followers, following)

	resp := analyzeResponse{
		Summary:    result.Summary(),
		Lists:      make(map[analysis.Category][]string, len(analysis.Categories)),
		AnalyzedAt: result.AnalyzedAt,
	}
	for _, cat := range analysis.Categories {
		resp.Lists[cat] = result.Set(cat).Usernames()
	}
	for _, p := range result.Growth() {
		resp.Growth = append(resp.Growth, growthPoint{
			Month:        p.Month.Format("2006-01"),
			NewFollowers: p.NewFollowers,
			NewFollowing: p.NewFollowing,
		})
	}
	if followers.IsEmpty() {
		resp.Warnings = append(resp.Warnings, userMessage(igerrors.NewEmptyInputError(kindFollowers)))
	}
	if following.IsEmpty() {
		resp.Warnings = append(resp.Warnings, userMessage(igerrors.NewEmptyInputError(kindFollowing)))
	}

	return c.JSON(http.StatusOK, resp)
}

func apiLimitKey(c echo.Context) string {
	return "api:" + c.RealIP()
}

func (h *APIHandler) reject(err error) error {
	monitoring.UploadsTotal.WithLabelValues("api", "rejected").Inc()
	logger.GetLogger().WithError(err).Debug("API analysis rejected")
	return err
}

type healthResponse struct {
	Status   string `json:"status"`
	Sessions int    `json:"sessions"`
	Uptime   string `json:"uptime"`
}

// health reports liveness and the number of live sessions
func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, healthResponse{
		Status:   "ok",
		Sessions: s.sessions.Len(),
		Uptime:   time.Since(s.started).Round(time.Second).String(),
	})
}
