package config

import "time"

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.RateLimit.RPS > 0 && cfg.Server.RateLimit.Burst == 0 {
		cfg.Server.RateLimit.Burst = int(cfg.Server.RateLimit.RPS) + 1
	}
	if cfg.Search.ConcurrencyLimit == 0 {
		cfg.Search.ConcurrencyLimit = 6
	}
	if cfg.Search.PerSourceLimit == 0 {
		cfg.Search.PerSourceLimit = 4
	}
	if cfg.Search.TotalLimit == 0 {
		cfg.Search.TotalLimit = 60
	}
	if cfg.Search.SourceTimeout == 0 {
		cfg.Search.SourceTimeout = 20 * time.Second
	}
	if cfg.Search.DefaultBranches == nil {
		cfg.Search.DefaultBranches = []string{"superior", "federal"}
	}
	if cfg.HTTP.Timeout == 0 {
		cfg.HTTP.Timeout = 15 * time.Second
	}
	if cfg.HTTP.UserAgent == "" {
		cfg.HTTP.UserAgent = "Mozilla/5.0 (compatible; juris/1.0; +https://github.com/hyperjump/juris)"
	}
	if cfg.HTTP.HostRPS == 0 {
		cfg.HTTP.HostRPS = 2
	}
	if cfg.HTTP.HostBurst == 0 {
		cfg.HTTP.HostBurst = 4
	}
	if cfg.Log.File != "" {
		if cfg.Log.MaxSizeMB == 0 {
			cfg.Log.MaxSizeMB = 100
		}
		if cfg.Log.MaxBackups == 0 {
			cfg.Log.MaxBackups = 5
		}
		if cfg.Log.MaxAgeDays == 0 {
			cfg.Log.MaxAgeDays = 30
		}
	}
}
