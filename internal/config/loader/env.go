package loader

import (
	"os"
	"strconv"
	"strings"
)

// EnvLoader loads configuration from environment variables.
//
// PIXELSTORM_CANVAS_WIDTH=32 becomes canvas.width = 32 and
// PIXELSTORM_HISTORY_SNAPSHOT_ORDER=chronological becomes
// history.snapshot_order = "chronological".
type EnvLoader struct {
	prefix  string
	environ func() []string
}

// NewEnvLoader creates a new environment variable loader.
// The prefix should include the trailing underscore (e.g., "PIXELSTORM_").
func NewEnvLoader(prefix string) *EnvLoader {
	return &EnvLoader{
		prefix:  prefix,
		environ: os.Environ,
	}
}

// Load reads environment variables and returns a configuration map.
// Variables without a section and a key are ignored.
func (l *EnvLoader) Load() (map[string]any, error) {
	config := make(map[string]any)
	if l.prefix == "" {
		return config, nil
	}

	for _, env := range l.environ() {
		name, value, ok := strings.Cut(env, "=")
		if !ok || !strings.HasPrefix(name, l.prefix) {
			continue
		}

		section, key, ok := l.envToPath(name)
		if !ok {
			continue
		}
		sub, isMap := config[section].(map[string]any)
		if !isMap {
			sub = make(map[string]any)
			config[section] = sub
		}
		sub[key] = parseValue(value)
	}

	return config, nil
}

// envToPath converts PIXELSTORM_HISTORY_SNAPSHOT_ORDER to
// ("history", "snapshot_order").
func (l *EnvLoader) envToPath(env string) (section, key string, ok bool) {
	name := strings.ToLower(strings.TrimPrefix(env, l.prefix))
	section, key, ok = strings.Cut(name, "_")
	if !ok || section == "" || key == "" {
		return "", "", false
	}
	return section, key, true
}

// parseValue attempts to parse the string value into an appropriate type.
func parseValue(s string) any {
	switch strings.ToLower(s) {
	case "true", "yes", "on":
		return true
	case "false", "no", "off":
		return false
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	return s
}
