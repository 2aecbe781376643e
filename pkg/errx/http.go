package errx

// Response is the body rendered to HTTP clients.
type Response struct {
	Code      string         `json:"code"`
	Message   string         `json:"message"`
	Type      string         `json:"type"`
	Status    int            `json:"status"`
	Details   map[string]any `json:"details,omitempty"`
	RequestID string         `json:"request_id,omitempty"`
}

// Public renders the client-facing view of e. The cause is never included and
// details are dropped for internal and external failures.
func (e *Error) Public(requestID string) Response {
	resp := Response{
		Code:      e.Code,
		Message:   e.Message,
		Type:      string(e.Type),
		Status:    e.HTTPStatus,
		RequestID: requestID,
	}
	if e.Type.Exposed() && len(e.Details) > 0 {
		resp.Details = e.Details
	}
	if e.HTTPStatus == 0 {
		resp.Status = e.Type.HTTPStatus()
	}
	return resp
}
