package registry

const (
	PrometheusName   = "prometheus"
	PrometheusImage  = "prom/prometheus"
	PrometheusPorts  = "9090:9090"
	PrometheusVolume = "/etc/mondeploy/prometheus.yml:/etc/prometheus/prometheus.yml"

	GrafanaName  = "grafana"
	GrafanaImage = "grafana/grafana:latest"

	HostNetwork = "--network host"
)

// DefaultSpecs returns the built-in monitoring stack: a Prometheus
// collector followed by a Grafana dashboard, both on the host network.
func DefaultSpecs() []ContainerSpec {
	return []ContainerSpec{
		{
			Name:       PrometheusName,
			Image:      PrometheusImage,
			Ports:      PrometheusPorts,
			Volume:     PrometheusVolume,
			ExtraFlags: HostNetwork,
		},
		{
			Name:       GrafanaName,
			Image:      GrafanaImage,
			ExtraFlags: HostNetwork,
		},
	}
}

// Default returns the built-in registry.
func Default() *Registry {
	r, err := New(DefaultSpecs()...)
	if err != nil {
		panic("registry: invalid built-in specs: " + err.Error())
	}
	return r
}
