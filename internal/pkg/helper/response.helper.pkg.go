package helper

import (
	types "endurance-api/internal/common/type"
	"net/http"
)

// ParseResponse normalizes a service response before it reaches the response
// middleware: fills a default code and message so callers can set only what they
// care about.
func ParseResponse(r *types.Response) *types.Response {
	if r == nil {
		return &types.Response{
			Code:    http.StatusInternalServerError,
			Message: "Internal server error",
		}
	}

	if r.Code == 0 {
		r.Code = http.StatusOK
	}

	if r.Message == "" {
		r.Message = http.StatusText(r.Code)
	}

	return r
}
