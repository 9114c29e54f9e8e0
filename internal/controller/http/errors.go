package http

import (
	"errors"
	"net/http"

	"github.com/athena-eo/observatory/internal/httpx/response"
	"github.com/athena-eo/observatory/internal/httpx/upstream/backend"
)

// handleBackendError reports a failure that is not a domain error.
// Errors from the hosted backend carry its message back to the admin.
func handleBackendError(w http.ResponseWriter, err error) {
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) {
		response.BadGateway(w, "backend: "+apiErr.Message)
		return
	}
	response.InternalError(w, "internal server error")
}
