package server

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// SyncKey is the shared secret the sending instance must present on
	// every mutating sync call. When empty, all mutating calls are rejected.
	SyncKey string `mapstructure:"sync_key" default:""`
}

// HasSyncKey reports whether a shared secret has been configured.
func (c Config) HasSyncKey() bool {
	return c.SyncKey != ""
}
