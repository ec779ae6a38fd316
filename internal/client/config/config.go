package config

import (
	"os"
	"time"
)

const (
	ProbeHTTP = "http"
	ProbeGRPC = "grpc"
)

// Config holds runtime settings for the journal client.
type Config struct {
	DatabaseDSN string
	PhotosDir   string

	APIBaseURL string
	APISecret  string
	DeviceID   string

	InferenceURL   string
	InferenceToken string

	// ProbeKind is ProbeHTTP or ProbeGRPC. An empty ProbeTarget probes
	// APIBaseURL.
	ProbeKind           string
	ProbeTarget         string
	OnlineCheckInterval time.Duration

	PushTimeout     time.Duration
	ClassifyTimeout time.Duration

	SyncWorkers       int
	MaxImageDimension int

	LogLevel  string
	LogFormat string

	S3Region    string
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DatabaseDSN = "journal.db"
	c.PhotosDir = "."
	c.APIBaseURL = "http://127.0.0.1:8080"
	c.DeviceID, _ = os.Hostname()
	c.InferenceURL = "https://api-inference.huggingface.co/models/google/vit-base-patch16-224"
	c.ProbeKind = ProbeHTTP
	c.OnlineCheckInterval = 3 * time.Second
	c.PushTimeout = 10 * time.Second
	c.ClassifyTimeout = 30 * time.Second
	c.SyncWorkers = 4
	c.LogLevel = "info"
	c.LogFormat = "text"
	c.S3Region = "us-east-1"
}

// ProbeAddr is the address the connectivity probe checks.
func (c *Config) ProbeAddr() string {
	if c.ProbeTarget != "" {
		return c.ProbeTarget
	}
	return c.APIBaseURL
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
