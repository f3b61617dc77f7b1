package models

import "errors"

var ErrNotFound = errors.New("requested resource not found")
var ErrInvalidCredentials = errors.New("invalid credentials") // email or password does not match any known account
var ErrInvalidToken = errors.New("token not found or expired")
var ErrUpstreamUnavailable = errors.New("upstream fleet API unavailable")

// ErrorResponse is the JSON body returned for every failed request.
type ErrorResponse struct {
	Message string `json:"message"`
}
