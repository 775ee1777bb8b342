package handlers

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"

	"github.com/secid/mentorship-api/api"
	"github.com/secid/mentorship-api/config"
	"github.com/secid/mentorship-api/mentorship"
)

// errorStatus maps the engine's error taxonomy onto http status codes
func errorStatus(err error) int {
	var (
		verr *mentorship.ValidationError
		serr *mentorship.InvalidStateError
		nerr *mentorship.NotFoundError
		derr *mentorship.DependencyError
	)
	switch {
	case errors.Is(err, mentorship.ErrForbidden):
		return http.StatusForbidden
	case errors.As(err, &verr):
		return http.StatusBadRequest
	case errors.As(err, &serr):
		return http.StatusConflict
	case errors.As(err, &nerr):
		return http.StatusNotFound
	case errors.As(err, &derr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// engineError writes err with the status its kind maps to
func engineError(message string, w http.ResponseWriter, err error) {
	config.ErrorStatus(message, errorStatus(err), w, err)
}

// writeJSON marshals v and writes it with status
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	b, err := json.Marshal(v)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(b)
}

// caller returns the authenticated user id, answering 401 when there is none
func caller(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, ok := api.IdentityFrom(r.Context())
	if !ok {
		config.ErrorStatus("missing user identity", http.StatusUnauthorized, w, errors.New("unauthorized"))
		return "", false
	}
	return id.UserID, true
}

// decodeBody decodes the json body of r into v, answering 400 on failure
func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		config.ErrorStatus("failed to decode request", http.StatusBadRequest, w, err)
		return false
	}
	return true
}

// decodeQuery weakly decodes query values into out. Comma separated values
// and repeated keys both become lists.
func decodeQuery(values url.Values, out interface{}) error {
	raw := make(map[string]interface{}, len(values))
	for key, vals := range values {
		var parts []string
		for _, v := range vals {
			for _, p := range strings.Split(v, ",") {
				if p = strings.TrimSpace(p); p != "" {
					parts = append(parts, p)
				}
			}
		}
		switch len(parts) {
		case 0:
		case 1:
			raw[key] = parts[0]
		default:
			raw[key] = parts
		}
	}
	return mapstructure.WeakDecode(raw, out)
}
