package instance

import (
	"os"

	"github.com/angelmondragon/rentalfleet-backend/pkg/env"
)

// GetID returns the process instance identifier used to tag worker logs. It falls back
// to the hostname, then to a fixed default.
func GetID() string {
	if id := env.Get("RENTALFLEET_INSTANCE_ID", ""); id != "" {
		return id
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return "instance-0"
}
