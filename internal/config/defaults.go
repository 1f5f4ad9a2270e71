package config

const (
	DefaultRuntime  = "auto"
	DefaultBackend  = BackendCLI
	DefaultLogLevel = "info"
)

// DefaultConfig returns a Config with all default values applied.
func DefaultConfig() *Config {
	return &Config{
		Runtime:  DefaultRuntime,
		Backend:  DefaultBackend,
		LogLevel: DefaultLogLevel,
	}
}
