package http

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	mint_errors "github.com/flow-hydraulics/flow-mint/service/errors"
	gorilla "github.com/gorilla/handlers"
	log "github.com/sirupsen/logrus"
)

func UseCors(h http.Handler) http.Handler {
	return gorilla.CORS(
		gorilla.AllowedOrigins([]string{"*"}),
		gorilla.AllowedHeaders([]string{"Authorization", "Content-Type"}),
		gorilla.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut}),
	)(h)
}

func UseLogging(out io.Writer, h http.Handler) http.Handler {
	return gorilla.CombinedLoggingHandler(out, h)
}

func UseCompress(h http.Handler) http.Handler {
	return gorilla.CompressHandler(h)
}

func UseJson(h http.Handler) http.Handler {
	// Only PUT, POST, and PATCH requests are considered.
	return gorilla.ContentTypeHandler(h, "application/json")
}

// handleError is a helper function for unified HTTP error handling.
func handleError(rw http.ResponseWriter, logger *log.Logger, err error) {
	if logger != nil {
		logger.WithError(err).Warn("Request failed")
	}

	// Rejections of the minting controller carry their kind
	if kind, ok := mint_errors.KindOf(err); ok {
		status := http.StatusConflict
		switch kind {
		case mint_errors.KindNotAuthorized:
			status = http.StatusForbidden
		case mint_errors.KindTransferFailed:
			status = http.StatusBadGateway
		}
		handleJsonResponse(rw, status, ResError{Error: string(kind), Reason: err.Error()})
		return
	}

	// Check for "record not found" database error
	if strings.Contains(err.Error(), "record not found") {
		http.Error(rw, "record not found", http.StatusNotFound)
		return
	}

	http.Error(rw, err.Error(), http.StatusBadRequest)
}

// handleJsonResponse is a helper function for unified JSON response handling.
func handleJsonResponse(rw http.ResponseWriter, status int, res interface{}) {
	rw.Header().Set("Content-Type", "application/json")
	rw.WriteHeader(status)
	json.NewEncoder(rw).Encode(res)
}

func checkNonEmptyBody(r *http.Request) error {
	if r.Body == nil || r.Body == http.NoBody {
		return fmt.Errorf("empty body")
	}
	return nil
}

// decodeBody checks the body is not empty and decodes it into v.
func decodeBody(r *http.Request, v interface{}) error {
	if err := checkNonEmptyBody(r); err != nil {
		return err
	}
	return json.NewDecoder(r.Body).Decode(v)
}
