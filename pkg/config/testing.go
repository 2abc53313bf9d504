package config

// NewForTest returns a config suitable for tests without consulting the
// environment.
func NewForTest() *Config {
	cfg := &Config{
		DatabaseConnectRetryCount: 1,
		DatabaseMaxRetries:        5,
		Environment:               "test",
		Hostname:                  "test",
	}
	loadTestConfig(cfg)
	return cfg
}
