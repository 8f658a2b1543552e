package httpapi

import (
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/carpool/internal/common"
)

// caller returns the authenticated user acting on a mutating action, or ""
// for anonymous callers when authentication is not required. When the body
// names the acting party (host_id, passenger_id, userId) it must be the
// token's user.
func (s *Server) caller(r *http.Request, field, claimed string) (string, error) {
	uid := userIDFromContext(r.Context())
	if uid == "" {
		if s.opts.RequireAuth {
			return "", fmt.Errorf("%w: authentication required", common.ErrorUnauthorized)
		}
		return "", nil
	}
	if field != "" && claimed != "" && claimed != uid {
		return "", fmt.Errorf("%w: %s does not match the authenticated user", common.ErrorForbidden, field)
	}
	return uid, nil
}
