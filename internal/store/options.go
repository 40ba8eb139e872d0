package store

// DefaultKey is the storage key used when none is configured.
const DefaultKey = "sql_visualizer_tables"

// config holds settings shared by Store and Memory.
type config struct {
	key       string
	bootstrap bool
	gen       RevisionGenerator
}

func newConfig(opts []Option) config {
	cfg := config{
		key:       DefaultKey,
		bootstrap: true,
		gen:       UUIDv7Generator{},
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// Option configures a Store or Memory.
type Option func(*config)

// WithKey sets the storage key. Catalogs saved under different keys are
// independent.
func WithKey(key string) Option {
	return func(c *config) {
		if key != "" {
			c.key = key
		}
	}
}

// WithoutBootstrap makes Load return an empty catalog instead of the seed
// catalog when nothing has been saved.
func WithoutBootstrap() Option {
	return func(c *config) {
		c.bootstrap = false
	}
}

// WithGenerator sets the revision id generator. Default: UUIDv7Generator.
func WithGenerator(g RevisionGenerator) Option {
	return func(c *config) {
		if g != nil {
			c.gen = g
		}
	}
}
