package main

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strconv"

	"github.com/himanishpuri/SongScope/pkg/songscope"
)

//go:embed templates/dashboard.html
var templateFS embed.FS

var dashboardTmpl = template.Must(template.New("dashboard.html").Funcs(template.FuncMap{
	"length":  formatLength,
	"average": formatAverage,
}).ParseFS(templateFS, "templates/dashboard.html"))

type dashboardPage struct {
	Users         []string
	SelectedIndex int
	SelectedSong  string
	View          songscope.View
	Stats         songscope.Stats
}

// handleIndex handles GET /. The widget state travels in the query string:
// user (dashboard index), song (song id) and generate.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	in := songscope.Interaction{
		SongID:   q.Get("song"),
		Generate: q.Get("generate") != "",
	}
	page := dashboardPage{SelectedIndex: -1, SelectedSong: in.SongID}
	if raw := q.Get("user"); raw != "" {
		idx, err := strconv.Atoi(raw)
		if err != nil {
			http.Error(w, "user must be an integer index", http.StatusBadRequest)
			return
		}
		in.UserIndex = &idx
		page.SelectedIndex = idx
	}

	view, err := s.runDashboard(r, in)
	if err != nil {
		status := http.StatusBadGateway
		if view.Stage == songscope.StageNoUserSelected {
			status = http.StatusNotFound
		}
		s.log.Warnf("Dashboard render failed: %v", err)
		http.Error(w, err.Error(), status)
		return
	}

	page.Users = s.service.Users()
	page.View = view
	page.Stats = s.service.Stats()

	var buf bytes.Buffer
	if err := dashboardTmpl.Execute(&buf, page); err != nil {
		s.log.Errorf("Failed to render dashboard: %v", err)
		http.Error(w, "failed to render dashboard", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}

// formatLength renders milliseconds as m:ss.
func formatLength(ms float64) string {
	total := int(ms / 1000)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

func formatAverage(avg *float64) string {
	if avg == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.0f ms (%s)", *avg, formatLength(*avg))
}
