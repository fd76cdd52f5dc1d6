package file

import (
	"os"
	"strings"

	"github.com/custodia-labs/cvemirror/internal/logger"
)

// EnvBinding maps an environment variable onto a config key.
type EnvBinding struct {
	Env string
	Key string

	// Transform rewrites the raw value, e.g. a bare port into a listen address.
	Transform func(string) string
}

// DefaultEnvBindings are the environment variables the mirror honours.
var DefaultEnvBindings = []EnvBinding{
	{Env: "NVD_BASE_URL", Key: "feed.base_url"},
	{Env: "NVD_API_KEY", Key: "feed.api_key"},
	{Env: "NVD_PAGE_SIZE", Key: "feed.page_size"},
	{Env: "NVD_TIMEOUT", Key: "feed.timeout"},
	{Env: "CVEMIRROR_DATA_DIR", Key: "storage.data_dir"},
	{Env: "PORT", Key: "server.addr", Transform: portToAddr},
	{Env: "SYNC_INTERVAL", Key: "scheduler.sync_interval"},
}

// ApplyEnv overrides config keys from set, non-empty environment variables.
// It returns the names of the variables that were applied.
func (s *ConfigStore) ApplyEnv(bindings []EnvBinding) []string {
	return s.applyEnv(bindings, os.LookupEnv)
}

func (s *ConfigStore) applyEnv(bindings []EnvBinding, lookup func(string) (string, bool)) []string {
	var applied []string
	for _, b := range bindings {
		val, ok := lookup(b.Env)
		if !ok {
			continue
		}
		val = strings.TrimSpace(val)
		if val == "" {
			continue
		}
		if b.Transform != nil {
			val = b.Transform(val)
		}
		s.Override(b.Key, val)
		applied = append(applied, b.Env)
		logger.Debug("config: %s overrides %s", b.Env, b.Key)
	}
	return applied
}

// portToAddr turns "8080" into ":8080" and leaves full addresses alone.
func portToAddr(port string) string {
	if strings.Contains(port, ":") {
		return port
	}
	return ":" + port
}
