package instance

import "os"

// GetID returns the process identifier used in startup logs. Heroku-style
// DYNO names win over the explicit override.
func GetID() string {
	if id := os.Getenv("DYNO"); id != "" {
		return id
	}
	if id := os.Getenv("GLASSWORKS_INSTANCE_ID"); id != "" {
		return id
	}
	return "local"
}
