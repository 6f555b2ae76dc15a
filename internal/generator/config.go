package generator

// Config drives the synthetic registration dataset generator.
type Config struct {
	NumUsers             int
	DuplicateEmailChance float64
	Seed                 int64
}

// DefaultConfig returns baseline settings for a useful seed dataset.
func DefaultConfig() Config {
	return Config{
		NumUsers:             1000,
		DuplicateEmailChance: 0.05,
		Seed:                 42,
	}
}
