package server

import "net/http"

// Handler returns the routed and logged HTTP handler.
func (s *ServerContext) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/formats", s.HandleFormats)
	mux.HandleFunc("/api/export/", s.HandleExport)

	return RequestLogger(mux)
}
