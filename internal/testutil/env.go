package testutil

import "testing"

var deployEnvVars = []string{
	"MONDEPLOY_RUNTIME",
	"MONDEPLOY_BACKEND",
	"MONDEPLOY_REGISTRY",
	"MONDEPLOY_DOCKER_HOST",
	"MONDEPLOY_LOG_LEVEL",
}

// ClearDeployEnv blanks MONDEPLOY_* variables for the duration of the test so
// the developer's shell cannot leak into config loading.
func ClearDeployEnv(t *testing.T) {
	t.Helper()
	for _, key := range deployEnvVars {
		t.Setenv(key, "")
	}
}
