package server

import (
	"embed"
	"fmt"
	"html"
	"html/template"
	"io"
	"net/url"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/microcosm-cc/bluemonday"

	"igfollowers/pkg/analysis"
	"igfollowers/pkg/config"
	"igfollowers/pkg/session"
)

//go:embed templates/*.html static/*
var assets embed.FS

type templateRenderer struct {
	templates *template.Template
}

func newRenderer(sanitizer *bluemonday.Policy) (*templateRenderer, error) {
	funcs := template.FuncMap{
		"clean":  func(s string) string { return plainText(sanitizer, s) },
		"date":   formatDate,
		"pct":    func(v float64) string { return fmt.Sprintf("%.1f%%", v) },
		"fixed2": func(v float64) string { return fmt.Sprintf("%.2f", v) },
	}

	tmpl, err := template.New("").Funcs(funcs).ParseFS(assets, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &templateRenderer{templates: tmpl}, nil
}

func (r *templateRenderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	return r.templates.ExecuteTemplate(w, name, data)
}

// plainText strips markup from user supplied text. Entities are decoded
// again since html/template escapes the result itself.
func plainText(p *bluemonday.Policy, s string) string {
	return html.UnescapeString(p.Sanitize(s))
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("Jan 2, 2006")
}

// resultsQuery is the list state carried in the dashboard URL
type resultsQuery struct {
	Tab    string `query:"tab" validate:"omitempty,oneof=not-following-back not-followed-back mutual"`
	View   string `query:"view" validate:"omitempty,oneof=cards table"`
	Sort   string `query:"sort" validate:"omitempty,oneof=recent name"`
	Q      string `query:"q" validate:"max=100"`
	Offset int    `query:"offset" validate:"gte=0"`
	Limit  int    `query:"limit" validate:"gte=0,lte=100000"`
}

func (q *resultsQuery) applyDefaults(cfg config.AnalysisConfig) {
	if q.Tab == "" {
		q.Tab = string(analysis.CategoryNotFollowingBack)
	}
	if q.View == "" {
		q.View = cfg.DefaultView
	}
	if q.Sort == "" {
		q.Sort = cfg.DefaultSort
	}
	if q.Limit == 0 {
		q.Limit = cfg.PageSize
	}
}

// url renders q as a dashboard link, anchored at the results section
func (q resultsQuery) url() string {
	v := url.Values{}
	v.Set("tab", q.Tab)
	v.Set("view", q.View)
	v.Set("sort", q.Sort)
	if q.Q != "" {
		v.Set("q", q.Q)
	}
	v.Set("limit", strconv.Itoa(q.Limit))
	return "/?" + v.Encode() + "#results"
}

type dashboardPage struct {
	Step           session.Step
	Flashes        []session.Flash
	FollowerFiles  []string
	FollowerCount  int
	FollowingFile  string
	FollowingCount int
	CanAnalyze     bool
	MaxUploadMB    int64
	Results        *resultsView
}

type tabView struct {
	Title  string
	Count  int
	URL    string
	Active bool
}

type linkView struct {
	Label  string
	URL    string
	Active bool
}

type chartView struct {
	MutualDeg  int
	GhostDeg   int
	Total      int
	Bars       []barView
	Growth     []growthBar
	HasGrowth  bool
	HealthBand string
}

type barView struct {
	Label string
	Value int
	Pct   int
	Class string
}

type growthBar struct {
	Label        string
	Followers    int
	Following    int
	FollowersPct int
	FollowingPct int
}

type resultsView struct {
	Summary     analysis.Summary
	Chart       chartView
	Tabs        []tabView
	Views       []linkView
	Sorts       []linkView
	Category    analysis.Category
	Blurb       string
	SinceLabel  string
	Page        analysis.Page
	Query       resultsQuery
	LoadMoreURL string
	CSVURL      string
}

func (s *Server) newDashboardPage(st *session.State, flashes []session.Flash, q resultsQuery) dashboardPage {
	page := dashboardPage{
		Step:           st.Step(),
		Flashes:        flashes,
		FollowerFiles:  st.FollowerFiles,
		FollowerCount:  st.Followers.Len(),
		FollowingFile:  st.FollowingFile,
		FollowingCount: st.Following.Len(),
		CanAnalyze:     st.Followers != nil && st.Following != nil,
		MaxUploadMB:    s.cfg.Server.MaxUploadBytes >> 20,
	}
	if st.Result != nil {
		rv := s.newResultsView(st.Result, q)
		page.Results = &rv
	}
	return page
}

func (s *Server) newResultsView(r *analysis.Result, q resultsQuery) resultsView {
	category, ok := analysis.ParseCategory(q.Tab)
	if !ok {
		category = analysis.CategoryNotFollowingBack
	}

	rv := resultsView{
		Summary:    r.Summary(),
		Category:   category,
		Blurb:      categoryBlurb(category),
		SinceLabel: category.SinceLabel(),
		Query:      q,
		CSVURL:     "/export/" + string(category) + ".csv",
		Page: r.List(category, analysis.ListOptions{
			Sort:   analysis.SortOrder(q.Sort),
			Query:  q.Q,
			Offset: q.Offset,
			Limit:  q.Limit,
		}),
	}
	rv.Chart = newChartView(rv.Summary, r.Growth())

	for _, c := range analysis.Categories {
		link := q
		link.Tab = string(c)
		link.Limit = s.cfg.Analysis.PageSize
		rv.Tabs = append(rv.Tabs, tabView{
			Title:  c.Title(),
			Count:  r.Set(c).Len(),
			URL:    link.url(),
			Active: c == category,
		})
	}

	for _, v := range []struct{ value, label string }{{"cards", "Cards"}, {"table", "Table"}} {
		link := q
		link.View = v.value
		rv.Views = append(rv.Views, linkView{Label: v.label, URL: link.url(), Active: q.View == v.value})
	}
	for _, o := range []struct{ value, label string }{{"recent", "Most recent"}, {"name", "Name A-Z"}} {
		link := q
		link.Sort = o.value
		rv.Sorts = append(rv.Sorts, linkView{Label: o.label, URL: link.url(), Active: q.Sort == o.value})
	}

	if rv.Page.HasMore {
		more := q
		more.Limit = rv.Page.NextOffset + s.cfg.Analysis.PageSize
		more.Offset = 0
		rv.LoadMoreURL = more.url()
	}
	return rv
}

func newChartView(sum analysis.Summary, growth []analysis.GrowthPoint) chartView {
	cv := chartView{HealthBand: sum.HealthBand()}

	cv.Total = sum.Mutual + sum.NotFollowingBack + sum.NotFollowedBack
	if cv.Total > 0 {
		cv.MutualDeg = sum.Mutual * 360 / cv.Total
		cv.GhostDeg = cv.MutualDeg + sum.NotFollowingBack*360/cv.Total
	}

	bars := []barView{
		{Label: "Followers", Value: sum.Followers, Class: "followers"},
		{Label: "Following", Value: sum.Following, Class: "following"},
		{Label: "Mutual", Value: sum.Mutual, Class: "mutual"},
		{Label: "Not following back", Value: sum.NotFollowingBack, Class: "ghost"},
		{Label: "Not followed back", Value: sum.NotFollowedBack, Class: "fan"},
	}
	peak := 0
	for _, b := range bars {
		peak = max(peak, b.Value)
	}
	for i := range bars {
		if peak > 0 {
			bars[i].Pct = bars[i].Value * 100 / peak
		}
	}
	cv.Bars = bars

	peak = 0
	for _, p := range growth {
		peak = max(peak, p.NewFollowers, p.NewFollowing)
	}
	for _, p := range growth {
		g := growthBar{Label: p.Label(), Followers: p.NewFollowers, Following: p.NewFollowing}
		if peak > 0 {
			g.FollowersPct = p.NewFollowers * 100 / peak
			g.FollowingPct = p.NewFollowing * 100 / peak
		}
		cv.Growth = append(cv.Growth, g)
	}
	cv.HasGrowth = len(cv.Growth) > 0
	return cv
}

func categoryBlurb(c analysis.Category) string {
	switch c {
	case analysis.CategoryNotFollowingBack:
		return "People you follow who don't follow you back. Consider unfollowing them."
	case analysis.CategoryNotFollowedBack:
		return "People who follow you that you don't follow. Consider following them back."
	default:
		return "Mutual followers: the relationship goes both ways."
	}
}
