package models

import "fmt"

// ConfigError reports a required configuration value that is absent. It is
// returned before any upstream call is attempted.
type ConfigError struct {
	Key string
}

func (e *ConfigError) Error() string {
	return e.Key + " missing in .env"
}

// UpstreamError reports a provider call that failed in transport or returned
// a non-2xx status. Message carries the upstream detail for server-side logs;
// handlers must not forward it to clients.
type UpstreamError struct {
	Provider string
	Status   int
	Message  string
}

func (e *UpstreamError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s upstream returned status %d: %s", e.Provider, e.Status, e.Message)
	}
	return fmt.Sprintf("%s upstream request failed: %s", e.Provider, e.Message)
}
