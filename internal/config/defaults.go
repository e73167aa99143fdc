package config

const (
	defaultBaseURL            = "http://localhost:5001"
	defaultRequestTimeout     = 30
	defaultCacheDir           = "~/.local/share/fridgectl"
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
	defaultNtfyRequestTimeout = 10
	defaultAutoDismissMS      = 3500
	defaultStoreNewImages     = true
)

var defaultAllowedExtensions = []string{".jpg", ".jpeg", ".png", ".gif"}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Server: Server{
			BaseURL:        defaultBaseURL,
			RequestTimeout: defaultRequestTimeout,
		},
		Cache: Cache{
			Dir: defaultCacheDir,
		},
		Upload: Upload{
			StoreNewImages:    defaultStoreNewImages,
			AllowedExtensions: append([]string(nil), defaultAllowedExtensions...),
		},
		Notifications: Notifications{
			RequestTimeout: defaultNtfyRequestTimeout,
			Reconciliation: true,
			Pending:        true,
			Expirations:    true,
			Errors:         true,
			AutoDismissMS:  defaultAutoDismissMS,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
