package driven

// ConfigStore provides access to application configuration keyed by
// dotted paths ("indexing.chunk_size"). Implementations handle
// persistence and type conversion.
type ConfigStore interface {
	// Get retrieves a configuration value by key.
	// Returns the value and a boolean indicating if the key exists.
	Get(key string) (any, bool)

	// GetString retrieves a string value, or "" when the key is
	// missing or not a string.
	GetString(key string) string

	// GetInt retrieves an integer value, or 0 when the key is
	// missing or not an integer.
	GetInt(key string) int

	// GetBool retrieves a boolean value, or false when the key is
	// missing or not a boolean.
	GetBool(key string) bool

	// GetStringSlice retrieves a string slice value, or nil when the
	// key is missing or not a slice.
	GetStringSlice(key string) []string

	// Set stores a configuration value. Persistent implementations
	// write it through immediately.
	Set(key string, value any) error

	// Save persists the current configuration to storage.
	Save() error

	// Load reads configuration from storage.
	Load() error

	// Path returns the configuration file path.
	Path() string
}
