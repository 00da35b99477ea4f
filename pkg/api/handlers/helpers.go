package handlers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"huddle/pkg/errs"
	"huddle/pkg/utils"
)

// writeErr maps engine errors onto HTTP statuses: InputError is a 400,
// AccessError a 403, anything else a 500.
func writeErr(w http.ResponseWriter, err error) {
	switch {
	case errs.IsInput(err):
		utils.JSONError(w, http.StatusBadRequest, err.Error())
	case errs.IsAccess(err):
		utils.JSONError(w, http.StatusForbidden, err.Error())
	default:
		utils.JSONError(w, http.StatusInternalServerError, err.Error())
	}
}

// pathID parses the named mux path variable as an integer id. A
// non-numeric segment reads as id 0, which no entity ever holds, so
// the engines report it as an input failure.
func pathID(r *http.Request, name string) int64 {
	id, _ := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	return id
}

// queryInt parses an integer query parameter, defaulting to 0.
func queryInt(r *http.Request, name string) int {
	n, _ := strconv.Atoi(r.URL.Query().Get(name))
	return n
}
