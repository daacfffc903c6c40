package providers

import "time"

const (
	// shutdownTimeout is the maximum time to wait for graceful shutdown of services.
	shutdownTimeout = 30 * time.Second

	// probeTimeout bounds the startup audio probe.
	probeTimeout = 2 * time.Minute
)

// Args are the command-line arguments handed to the config loader.
type Args []string
