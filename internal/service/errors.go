package service

import "errors"

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrUpstreamFailure = errors.New("llm upstream failure")
	ErrStorageFailure  = errors.New("storage failure")
)
