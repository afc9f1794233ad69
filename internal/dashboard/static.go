package dashboard

import (
	_ "embed"
	"net/http"
)

//go:embed static/app.js
var appJS []byte

// ServeScript serves the embedded page script.
func (d *Dashboard) ServeScript(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=300")
	w.Write(appJS)
}
