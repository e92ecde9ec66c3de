package server

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"igfollowers/pkg/analysis"
	igerrors "igfollowers/pkg/errors"
	"igfollowers/pkg/loader"
	"igfollowers/pkg/logger"
	"igfollowers/pkg/monitoring"
	"igfollowers/pkg/session"
)

const (
	kindFollowers = "followers"
	kindFollowing = "following"
)

// DashboardHandler serves the upload, analyze and results pages
type DashboardHandler struct {
	s *Server
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(s *Server) *DashboardHandler {
	return &DashboardHandler{s: s}
}

// RegisterDashboardRoutes registers dashboard routes
func (h *DashboardHandler) RegisterDashboardRoutes(g *echo.Group) {
	g.GET("/", h.Index)
	g.POST("/upload/followers", h.UploadFollowers)
	g.POST("/upload/following", h.UploadFollowing)
	g.POST("/analyze", h.Analyze)
	g.GET("/results/:category", h.Results)
	g.POST("/reset", h.Reset)
}

// Index renders the dashboard for the current step
func (h *DashboardHandler) Index(c echo.Context) error {
	q, err := h.bindQuery(c)
	if err != nil {
		return err
	}

	st := currentSession(c)
	page := h.s.newDashboardPage(st, h.s.sessions.TakeFlashes(st.ID), q)
	return c.Render(http.StatusOK, "index", page)
}

// Results renders one category list on its own
func (h *DashboardHandler) Results(c echo.Context) error {
	q, err := h.bindQuery(c)
	if err != nil {
		return err
	}
	q.Tab = c.Param("category")
	if err := c.Validate(&q); err != nil {
		return err
	}

	st := currentSession(c)
	if st.Result == nil {
		return echo.NewHTTPError(http.StatusNotFound, "no analysis yet")
	}
	return c.Render(http.StatusOK, "results_list", h.s.newResultsView(st.Result, q))
}

// UploadFollowers accepts one or more followers_N.json files
func (h *DashboardHandler) UploadFollowers(c echo.Context) error {
	return h.upload(c, kindFollowers, 0, func(sources []loader.Source) (*analysis.UserSet, error) {
		return loader.ParseFollowers(sources...)
	})
}

// UploadFollowing accepts a single following.json file
func (h *DashboardHandler) UploadFollowing(c echo.Context) error {
	return h.upload(c, kindFollowing, 1, func(sources []loader.Source) (*analysis.UserSet, error) {
		return loader.ParseFollowing(sources[0])
	})
}

func (h *DashboardHandler) upload(c echo.Context, kind string, maxFiles int, parse func([]loader.Source) (*analysis.UserSet, error)) error {
	st := currentSession(c)
	field := "files"
	if maxFiles == 1 {
		field = "file"
	}

	// keyed by client, a fresh cookie must not buy a fresh quota
	limiter := h.s.uploads.Get(uploadLimitKey(c))
	if !limiter.Allow() {
		monitoring.UploadsTotal.WithLabelValues(kind, "rate_limited").Inc()
		h.flash(st.ID, session.FlashError, fmt.Sprintf("Too many uploads, try again in %s.", limiter.RetryAfter().Round(time.Second)))
		return redirectHome(c)
	}

	sources, err := h.s.readSources(c, field, maxFiles)
	var users *analysis.UserSet
	if err == nil {
		users, err = parse(sources)
	}
	if err != nil {
		outcome := "rejected"
		if igerrors.IsType(err, igerrors.ErrorTypeParsing) {
			outcome = "parse_error"
			monitoring.ParseFailuresTotal.WithLabelValues(kind).Inc()
		}
		monitoring.UploadsTotal.WithLabelValues(kind, outcome).Inc()
		logger.LogUpload(st.ID, kind, len(sources), 0, err)
		h.flash(st.ID, session.FlashError, "Could not load "+kind+": "+userMessage(err))
		return redirectHome(c)
	}

	monitoring.UploadsTotal.WithLabelValues(kind, "accepted").Inc()
	logger.LogUpload(st.ID, kind, len(sources), users.Len(), nil)

	names := sourceNames(sources)
	h.s.sessions.Update(st.ID, func(state *session.State) {
		if kind == kindFollowers {
			state.Followers = users
			state.FollowerFiles = names
		} else {
			state.Following = users
			state.FollowingFile = names[0]
		}
		// a new upload invalidates the previous comparison
		state.Result = nil

		if users.IsEmpty() {
			state.AddFlash(session.FlashWarning, userMessage(igerrors.NewEmptyInputError(strings.Join(names, ", "))))
			return
		}
		state.AddFlash(session.FlashSuccess, fmt.Sprintf("Loaded %d %s.", users.Len(), accountsLabel(kind)))
	})
	return redirectHome(c)
}

// Analyze compares the uploaded lists of the session
func (h *DashboardHandler) Analyze(c echo.Context) error {
	st := currentSession(c)
	if st.Followers == nil || st.Following == nil {
		h.flash(st.ID, session.FlashError, "Upload both your followers and following files first.")
		return redirectHome(c)
	}

	result := runAnalysis(st.ID, st.Followers, st.Following)

	h.s.sessions.Update(st.ID, func(state *session.State) {
		state.Result = result
		if result.TotalFollowers == 0 && result.TotalFollowing == 0 {
			state.AddFlash(session.FlashWarning, "Both lists are empty, there is nothing to compare.")
		}
	})
	return c.Redirect(http.StatusSeeOther, "/#results")
}

// Reset discards everything the session uploaded
func (h *DashboardHandler) Reset(c echo.Context) error {
	st := currentSession(c)
	h.s.sessions.Reset(st.ID)
	h.flash(st.ID, session.FlashInfo, "Started a new analysis.")
	return redirectHome(c)
}

func (h *DashboardHandler) bindQuery(c echo.Context) (resultsQuery, error) {
	var q resultsQuery
	if err := c.Bind(&q); err != nil {
		return q, err
	}
	if err := c.Validate(&q); err != nil {
		return q, err
	}
	q.applyDefaults(h.s.cfg.Analysis)
	return q, nil
}

func (h *DashboardHandler) flash(id, level, message string) {
	h.s.sessions.Update(id, func(state *session.State) {
		state.AddFlash(level, message)
	})
}

// runAnalysis computes and records one comparison
func runAnalysis(sessionID string, followers, following *analysis.UserSet) *analysis.Result {
	start := time.Now()
	result := analysis.Analyze(followers, following)
	elapsed := time.Since(start)

	monitoring.AnalysesTotal.Inc()
	monitoring.AnalysisDuration.Observe(elapsed.Seconds())
	monitoring.AccountsAnalyzed.WithLabelValues(kindFollowers).Observe(float64(result.TotalFollowers))
	monitoring.AccountsAnalyzed.WithLabelValues(kindFollowing).Observe(float64(result.TotalFollowing))
	logger.LogAnalysis(sessionID, result.TotalFollowers, result.TotalFollowing, result.Mutual.Len(), elapsed)

	return result
}

func uploadLimitKey(c echo.Context) string {
	return "upload:" + c.RealIP()
}

func accountsLabel(kind string) string {
	if kind == kindFollowers {
		return "followers"
	}
	return "followed accounts"
}

func redirectHome(c echo.Context) error {
	return c.Redirect(http.StatusSeeOther, "/")
}
