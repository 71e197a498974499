package logging

import (
	"fmt"
	"sync"

	"agenticv-server/internal/logging/adapters"
	"agenticv-server/internal/logging/types"
)

var (
	globalLogger types.Logger
	globalMu     sync.RWMutex
	defaultOnce  sync.Once
)

// Initialize builds the global logger from the configured adapters. Falls back
// to a JSON stdout adapter when no adapter is enabled.
func Initialize(level string, adapterConfigs []types.AdapterConfig) error {
	logger := NewMultiLogger()
	logger.SetLevel(types.ParseLevel(level))

	added := 0
	for _, ac := range adapterConfigs {
		if !ac.Enabled {
			continue
		}
		adapter, err := createAdapter(ac)
		if err != nil {
			return fmt.Errorf("failed to create %s adapter: %w", ac.Type, err)
		}
		logger.AddAdapter(adapter)
		added++
	}

	if added == 0 {
		logger.AddAdapter(adapters.NewStdoutAdapter("stdout", adapters.StdoutConfig{Format: "json"}))
	}

	globalMu.Lock()
	defer globalMu.Unlock()
	globalLogger = logger
	return nil
}

// GetGlobalLogger returns the process-wide logger, initializing a stdout
// default if Initialize was never called
func GetGlobalLogger() types.Logger {
	globalMu.RLock()
	if globalLogger != nil {
		defer globalMu.RUnlock()
		return globalLogger
	}
	globalMu.RUnlock()

	defaultOnce.Do(func() {
		logger := NewMultiLogger()
		logger.AddAdapter(adapters.NewStdoutAdapter("stdout", adapters.StdoutConfig{Format: "json"}))

		globalMu.Lock()
		defer globalMu.Unlock()
		if globalLogger == nil {
			globalLogger = logger
		}
	})

	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalLogger
}

func createAdapter(ac types.AdapterConfig) (types.LogAdapter, error) {
	switch ac.Type {
	case "stdout":
		return adapters.NewStdoutAdapter(ac.Name, adapters.StdoutConfig{
			Format: getStringOption(ac.Options, "format", "json"),
		}), nil
	case "file":
		return adapters.NewFileAdapter(ac.Name, adapters.FileConfig{
			FilePath:    getStringOption(ac.Options, "file_path", ""),
			CreateDirs:  getBoolOption(ac.Options, "create_dirs", true),
			SyncOnWrite: getBoolOption(ac.Options, "sync_on_write", false),
		})
	default:
		return nil, fmt.Errorf("unsupported adapter type: %s", ac.Type)
	}
}

func getStringOption(options map[string]interface{}, key string, defaultValue string) string {
	if value, exists := options[key]; exists {
		if str, ok := value.(string); ok {
			return str
		}
	}
	return defaultValue
}

func getBoolOption(options map[string]interface{}, key string, defaultValue bool) bool {
	if value, exists := options[key]; exists {
		if b, ok := value.(bool); ok {
			return b
		}
	}
	return defaultValue
}
