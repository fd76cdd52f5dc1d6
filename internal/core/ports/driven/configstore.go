package driven

// ConfigStore is flat key/value configuration addressed by dotted keys
// such as "feed.api_key". Typed getters return the zero value when a key
// is missing or holds another type.
type ConfigStore interface {
	Get(key string) (any, bool)
	GetString(key string) string
	GetInt(key string) int
	GetBool(key string) bool
	GetStringSlice(key string) []string

	// Set stores a value and persists it.
	Set(key string, value any) error

	// Save writes the current values to the backing file.
	Save() error

	// Load re-reads the backing file.
	Load() error

	// Path returns the backing file path.
	Path() string
}
