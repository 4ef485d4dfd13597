package file

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/lcod-team/lcod-registry/internal/core/domain"
	"github.com/lcod-team/lcod-registry/internal/core/ports/driven"
)

// ConfigFileName is the optional configuration file at the registry root.
const ConfigFileName = "lcod-registry.toml"

// Ensure ConfigStore implements the interface.
var _ driven.ConfigStore = (*ConfigStore)(nil)

// ConfigStore is a file-based implementation of driven.ConfigStore using TOML.
// The file is read-only from the tool's point of view.
type ConfigStore struct {
	mu       sync.RWMutex
	filePath string
	data     map[string]any
}

// NewConfigStore creates a TOML config store for the registry at root.
// A missing file yields an empty configuration.
func NewConfigStore(root string) (*ConfigStore, error) {
	s := &ConfigStore{
		filePath: filepath.Join(root, ConfigFileName),
		data:     make(map[string]any),
	}
	if err := s.Load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Get retrieves a configuration value by key.
func (s *ConfigStore) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	val, ok := s.data[key]
	return val, ok
}

// GetString retrieves a string configuration value.
func (s *ConfigStore) GetString(key string) string {
	val, ok := s.Get(key)
	if !ok {
		return ""
	}

	str, ok := val.(string)
	if !ok {
		return ""
	}
	return str
}

// GetInt retrieves an integer configuration value.
func (s *ConfigStore) GetInt(key string) int {
	val, ok := s.Get(key)
	if !ok {
		return 0
	}

	// TOML integers are parsed as int64
	switch v := val.(type) {
	case int64:
		return int(v)
	case int:
		return v
	default:
		return 0
	}
}

// Load reads configuration from the TOML file.
func (s *ConfigStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.data = make(map[string]any)
			return nil
		}
		return err
	}

	var loaded map[string]any
	if err := toml.Unmarshal(data, &loaded); err != nil {
		return err
	}
	if loaded == nil {
		loaded = make(map[string]any)
	}

	s.data = flattenMap(loaded, "")
	return nil
}

// flattenMap converts nested maps to dot-notation keys.
// E.g., {"a": {"b": 1}} becomes {"a.b": 1}.
func flattenMap(m map[string]any, prefix string) map[string]any {
	result := make(map[string]any)

	for key, value := range m {
		fullKey := key
		if prefix != "" {
			fullKey = prefix + "." + key
		}

		if nested, ok := value.(map[string]any); ok {
			for k, v := range flattenMap(nested, fullKey) {
				result[k] = v
			}
		} else {
			result[fullKey] = value
		}
	}

	return result
}

// Path returns the configuration file path.
func (s *ConfigStore) Path() string {
	return s.filePath
}

// SettingsFromConfig overlays configured values on the built-in defaults.
func SettingsFromConfig(cfg driven.ConfigStore) domain.Settings {
	settings := domain.DefaultSettings()
	if cfg == nil {
		return settings
	}

	overlay := func(dst *string, key string) {
		if v := cfg.GetString(key); v != "" {
			*dst = v
		}
	}
	overlay(&settings.RegistryID, "registry.id")
	overlay(&settings.Upstream.Repository, "upstream.repository")
	overlay(&settings.Upstream.RawBase, "upstream.raw_base")
	overlay(&settings.Upstream.Manifest, "upstream.manifest")
	overlay(&settings.Catalogue.ID, "catalogue.id")
	overlay(&settings.Catalogue.Description, "catalogue.description")
	if _, ok := cfg.Get("catalogue.priority"); ok {
		settings.Catalogue.Priority = cfg.GetInt("catalogue.priority")
	}
	return settings
}
