package config

const (
	EnvRuntime    = "MONDEPLOY_RUNTIME"
	EnvBackend    = "MONDEPLOY_BACKEND"
	EnvRegistry   = "MONDEPLOY_REGISTRY"
	EnvDockerHost = "MONDEPLOY_DOCKER_HOST"
	EnvLogLevel   = "MONDEPLOY_LOG_LEVEL"
)

// envOverrides maps environment variables to config field setters.
var envOverrides = []struct {
	envVar string
	field  string
	apply  func(*Config, string)
}{
	{
		envVar: EnvRuntime,
		field:  "runtime",
		apply: func(c *Config, v string) {
			c.Runtime = v
		},
	},
	{
		envVar: EnvBackend,
		field:  "backend",
		apply: func(c *Config, v string) {
			c.Backend = BackendType(v)
		},
	},
	{
		envVar: EnvRegistry,
		field:  "registry",
		apply: func(c *Config, v string) {
			c.Registry = v
		},
	},
	{
		envVar: EnvDockerHost,
		field:  "docker_host",
		apply: func(c *Config, v string) {
			c.DockerHost = v
		},
	},
	{
		envVar: EnvLogLevel,
		field:  "log_level",
		apply: func(c *Config, v string) {
			c.LogLevel = v
		},
	},
}

// applyEnvOverrides modifies config in place with values returned by lookup.
func applyEnvOverrides(cfg *Config, lookup func(string) string) {
	for _, override := range envOverrides {
		if val := lookup(override.envVar); val != "" {
			override.apply(cfg, val)
			cfg.setSource(override.field, "env:"+override.envVar)
		}
	}
}
