package handlers

import "net/http"

// Welcome - GET /.
func (h *Handlers) Welcome(w http.ResponseWriter, _ *http.Request) {
	writeText(w, http.StatusOK, "Welcome to my myflix!")
}
