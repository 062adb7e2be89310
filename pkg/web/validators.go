package web

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
)

// ParamValidator is a function type that validates a parameter.
type ParamValidator func(valueToTest int64) bool

// between returns a ParamValidator that checks if the argument falls in
// the inclusive range captured in the closure.
func between(low, high int64) ParamValidator {
	return func(argValue int64) bool {
		return argValue >= low && argValue <= high
	}
}

// ParseValidateRange parses the named query parameter as an integer in
// the inclusive [low, high] range, responding with 400 on any failure.
func ParseValidateRange(r *http.Request, w http.ResponseWriter, logger *slog.Logger, key string, low, high int64) (int, bool) {
	return parseValidate(r, w, logger, key, between(low, high))
}

func parseValidate(r *http.Request, w http.ResponseWriter, logger *slog.Logger, key string, pValidator ParamValidator) (int, bool) {
	value := r.URL.Query().Get(key)
	if value == "" {
		RespondError(w, logger, http.StatusBadRequest, fmt.Sprintf("%s url parameter is required", key))
		return 0, false // Return false if the parameter is not present
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		RespondError(w, logger, http.StatusBadRequest, fmt.Sprintf("%s url parameter must be an integer", key))
		return 0, false
	}
	if !pValidator(parsed) {
		RespondError(w, logger, http.StatusBadRequest, fmt.Sprintf("%s url parameter is out of range", key))
		return 0, false
	}
	return int(parsed), true
}
