package syncer

// Config holds configuration for the sync engine.
type Config struct {
	// ConnectionsEnabled toggles post-upsert relationship linking.
	// Mirrors whether the connection feature is installed on the target.
	ConnectionsEnabled bool `mapstructure:"connections_enabled" default:"true"`
	// MediaTimeoutSeconds bounds each remote media download.
	MediaTimeoutSeconds int `mapstructure:"media_timeout_seconds" default:"5"`
}
