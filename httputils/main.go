package httputils

// RequestError is the JSON error envelope returned by every failed request
type RequestError struct {
	Error string `json:"error"`
}
