package warpalign

type Config struct {
	DBPath     string
	SampleRate float64
	Seed       int64
	DTWWindow  int // Sakoe-Chiba band half-width; <= 0 means unconstrained
	Logger     Logger
	Storage    Storage
}

type Option func(*Config)

func WithDBPath(path string) Option {
	return func(c *Config) {
		c.DBPath = path
	}
}

func WithSampleRate(rate float64) Option {
	return func(c *Config) {
		c.SampleRate = rate
	}
}

func WithSeed(seed int64) Option {
	return func(c *Config) {
		c.Seed = seed
	}
}

func WithDTWWindow(window int) Option {
	return func(c *Config) {
		c.DTWWindow = window
	}
}

func WithLogger(log Logger) Option {
	return func(c *Config) {
		c.Logger = log
	}
}

func WithStorage(storage Storage) Option {
	return func(c *Config) {
		c.Storage = storage
	}
}

// WithoutPersistence disables run storage; analyses are still returned to
// the caller.
func WithoutPersistence() Option {
	return func(c *Config) {
		c.DBPath = ""
		c.Storage = nil
	}
}

func defaultConfig() *Config {
	return &Config{
		DBPath:     "warpalign.sqlite3",
		SampleRate: 1000,
		Seed:       42,
		DTWWindow:  0,
		Logger:     nil,
	}
}
