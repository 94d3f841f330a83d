package server

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
)

// dashboardPages maps the role dashboards to their pages in the static directory.
var dashboardPages = map[string]string{
	"/":         "login.html",
	"/employee": "employee-dashboard.html",
	"/hr":       "hr-dashboard.html",
	"/admin":    "admin-dashboard.html",
}

type dashboardHandler struct {
	staticPath string
}

func (h dashboardHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.NotFound(w, r)
		return
	}

	clean := path.Clean("/" + r.URL.Path)
	if page, ok := dashboardPages[clean]; ok {
		file := filepath.Join(h.staticPath, page)
		if _, err := os.Stat(file); err == nil {
			http.ServeFile(w, r, file)
			return
		}
		http.NotFound(w, r)
		return
	}

	info, err := os.Stat(filepath.Join(h.staticPath, filepath.FromSlash(clean)))
	if err != nil || info.IsDir() {
		http.NotFound(w, r)
		return
	}
	http.FileServer(http.Dir(h.staticPath)).ServeHTTP(w, r)
}
