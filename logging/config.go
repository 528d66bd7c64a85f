package logging

// Config defines logging configuration
type Config struct {
	Level            string `yaml:"level"`
	Format           string `yaml:"format"` // json or console
	EnableSampling   bool   `yaml:"enable_sampling"`
	SampleInitial    int    `yaml:"sample_initial"`
	SampleThereafter int    `yaml:"sample_thereafter"`
	Development      bool   `yaml:"development"`
}

// DefaultConfig returns the release configuration
func DefaultConfig() Config {
	return Config{
		Level:            "info",
		Format:           "json",
		EnableSampling:   true,
		SampleInitial:    100, // First 100 messages per level pass through
		SampleThereafter: 100, // Then 1 in 100; per-frame logs would flood otherwise
		Development:      false,
	}
}

// DevelopmentConfig returns development configuration
func DevelopmentConfig() Config {
	return Config{
		Level:       "debug",
		Format:      "console",
		Development: true,
	}
}
