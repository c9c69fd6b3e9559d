package kivo

// Config holds configuration for the kivo.wiki data API client.
type Config struct {
	// StudentURL is the base URL of the student collection; the numeric id
	// is appended to it.
	StudentURL string `mapstructure:"student_url" default:"https://api.kivo.wiki/api/v1/data/students/"`
	// SpineURL is the base URL of the spine collection; the numeric id is
	// appended to it.
	SpineURL string `mapstructure:"spine_url" default:"https://api.kivo.wiki/api/v1/data/spines/"`
	// UserAgent is the identifying User-Agent header sent on every request.
	UserAgent string `mapstructure:"user_agent" default:"kivo-exporter/1.0"`
	// TimeoutSeconds is the per-request timeout in seconds.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"10"`
}
