package compare

// Config holds the comparison defaults applied when a request or the
// command line leaves an option unset.
type Config struct {
	// Delimiter is the field separator of file-backed sources.
	Delimiter string `mapstructure:"delimiter" default:","`
	// KeyOrder is the expected sort order of keyed sources (text, numeric).
	KeyOrder string `mapstructure:"key_order" default:"text"`
	// MaxFailures bounds the failing records kept in a report.
	MaxFailures int `mapstructure:"max_failures" default:"1000"`
	// Prefetch is the read-ahead buffer per source; 0 reads inline.
	Prefetch int `mapstructure:"prefetch" default:"0"`
	// Format is the report format of the CLI (text, json, yaml).
	Format string `mapstructure:"format" default:"text"`
}
