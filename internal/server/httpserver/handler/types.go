package handler

import "time"

// Response is the JSON envelope for admin and health endpoints.
type Response struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
	Timestamp string `json:"timestamp"`
	Data      any    `json:"data,omitempty"`
	Details   string `json:"details,omitempty"`
}

// newResponse creates an envelope with the current timestamp.
func newResponse(code, message, requestID string) Response {
	return Response{
		Code:      code,
		Message:   message,
		RequestID: requestID,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// updateResult is the payload returned by table update endpoints.
type updateResult struct {
	Entries int `json:"entries"`
}

// linksResult is the payload returned by the links endpoint.
type linksResult struct {
	Links map[string]string `json:"links"`
}

// codesResult is the payload returned by the codes endpoint.
type codesResult struct {
	Codes map[string]string `json:"codes"`
}
