package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/traveljournal/internal/flagx"
	"github.com/dmitrijs2005/traveljournal/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Durations use
// timex.Duration so they can be written as "3s" or as nanoseconds.
type JsonConfig struct {
	DatabaseDSN string `json:"database_dsn"`
	PhotosDir   string `json:"photos_dir"`

	APIBaseURL string `json:"api_base_url"`
	APISecret  string `json:"api_secret"`
	DeviceID   string `json:"device_id"`

	InferenceURL   string `json:"inference_url"`
	InferenceToken string `json:"inference_token"`

	ProbeKind           string         `json:"probe_kind"`
	ProbeTarget         string         `json:"probe_target"`
	OnlineCheckInterval timex.Duration `json:"online_check_interval"`

	PushTimeout     timex.Duration `json:"push_timeout"`
	ClassifyTimeout timex.Duration `json:"classify_timeout"`

	SyncWorkers       int `json:"sync_workers"`
	MaxImageDimension int `json:"max_image_dimension"`

	LogLevel  string `json:"log_level"`
	LogFormat string `json:"log_format"`

	S3Region    string `json:"s3_region"`
	S3Endpoint  string `json:"s3_endpoint"`
	S3AccessKey string `json:"s3_access_key"`
	S3SecretKey string `json:"s3_secret_key"`
}

// parseJson overlays cfg with the JSON file named by -c or -config. Keys
// missing from the file keep their current value. Read and unmarshal errors
// panic.
func parseJson(cfg *Config) {
	path := flagx.ConfigPath(os.Args[1:])
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	jc.apply(cfg)
}

func (jc *JsonConfig) apply(cfg *Config) {
	setString(&cfg.DatabaseDSN, jc.DatabaseDSN)
	setString(&cfg.PhotosDir, jc.PhotosDir)
	setString(&cfg.APIBaseURL, jc.APIBaseURL)
	setString(&cfg.APISecret, jc.APISecret)
	setString(&cfg.DeviceID, jc.DeviceID)
	setString(&cfg.InferenceURL, jc.InferenceURL)
	setString(&cfg.InferenceToken, jc.InferenceToken)
	setString(&cfg.ProbeKind, jc.ProbeKind)
	setString(&cfg.ProbeTarget, jc.ProbeTarget)
	setString(&cfg.LogLevel, jc.LogLevel)
	setString(&cfg.LogFormat, jc.LogFormat)
	setString(&cfg.S3Region, jc.S3Region)
	setString(&cfg.S3Endpoint, jc.S3Endpoint)
	setString(&cfg.S3AccessKey, jc.S3AccessKey)
	setString(&cfg.S3SecretKey, jc.S3SecretKey)

	if jc.OnlineCheckInterval.Duration > 0 {
		cfg.OnlineCheckInterval = jc.OnlineCheckInterval.Duration
	}
	if jc.PushTimeout.Duration > 0 {
		cfg.PushTimeout = jc.PushTimeout.Duration
	}
	if jc.ClassifyTimeout.Duration > 0 {
		cfg.ClassifyTimeout = jc.ClassifyTimeout.Duration
	}
	if jc.SyncWorkers > 0 {
		cfg.SyncWorkers = jc.SyncWorkers
	}
	if jc.MaxImageDimension > 0 {
		cfg.MaxImageDimension = jc.MaxImageDimension
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
