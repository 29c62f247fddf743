package handler

import (
	"net/http"

	"offline-payment-sync/internal/errs"
)

// errorStatus maps a classified failure onto the HTTP status reported to
// callers of the API.
func errorStatus(err error) int {
	kind, ok := errs.KindOf(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch kind {
	case errs.KindConfig, errs.KindParse:
		return http.StatusBadRequest
	case errs.KindAuth, errs.KindFetch, errs.KindSubmission:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
