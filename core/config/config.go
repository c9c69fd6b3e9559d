package config

import (
	"reflect"
	"strconv"
	"strings"
	"time"

	"kivo-exporter/core/cache"
	"kivo-exporter/core/kivo"
	"kivo-exporter/core/logger"
	"kivo-exporter/core/storage"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// It is divided into partial configurations for better modularity.
type Config struct {
	// API holds configuration for the kivo data API client.
	API kivo.Config `mapstructure:"api"`
	// Cache holds configuration for the on-disk response cache.
	Cache cache.Config `mapstructure:"cache"`
	// Export holds configuration for the export pipeline.
	Export Export `mapstructure:"export"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Storage holds configuration for the object storage mirror (optional).
	Storage storage.Config `mapstructure:"storage"`
}

// Export holds configuration for the export pipeline and its outputs.
type Export struct {
	// StartID is the first student id to process (inclusive).
	StartID int `mapstructure:"start_id" default:"1"`
	// EndID is the last student id to process (inclusive).
	EndID int `mapstructure:"end_id" default:"566"`
	// Concurrency bounds how many student pipelines run at once.
	Concurrency int `mapstructure:"concurrency" default:"3"`
	// DelaySeconds is the pause after each student fetch that reached the
	// network. Cache hits are not paced.
	DelaySeconds float64 `mapstructure:"delay_seconds" default:"2"`
	// OutputFile is the canonical forms CSV path.
	OutputFile string `mapstructure:"output_file" default:"students_data.csv"`
	// SkippedFile is the audit CSV path.
	SkippedFile string `mapstructure:"skipped_file" default:"skipped_ids.csv"`
	// ExcludedIDs is a comma-separated list of student ids excluded as
	// special cases.
	ExcludedIDs string `mapstructure:"excluded_ids" default:""`
}

// IDs returns the inclusive id range to process.
func (e Export) IDs() []int {
	if e.EndID < e.StartID {
		return nil
	}
	ids := make([]int, 0, e.EndID-e.StartID+1)
	for id := e.StartID; id <= e.EndID; id++ {
		ids = append(ids, id)
	}
	return ids
}

// Delay returns the post-fetch pacing delay as a duration.
func (e Export) Delay() time.Duration {
	return time.Duration(e.DelaySeconds * float64(time.Second))
}

// ExcludedIDList parses the comma-separated excluded id list.
// Malformed entries are ignored.
func (e Export) ExcludedIDList() []int {
	if strings.TrimSpace(e.ExcludedIDs) == "" {
		return nil
	}
	var ids []int
	for _, part := range strings.Split(e.ExcludedIDs, ",") {
		id, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

// LoadConfig loads configuration from environment variables and .env file.
func LoadConfig(path string) (*Config, error) {
	// 1. Load .env file if it exists
	// We construct the path to .env
	envPath := path + "/.env"
	if path == "." {
		envPath = ".env"
	}

	// Ignore error if file doesn't exist (e.g. production)
	_ = godotenv.Overload(envPath)

	v := viper.New()

	// Recursively parse struct tags to set default values
	bindValues(v, Config{}, "")

	// Map environment variables to nested keys (e.g. EXPORT_CONCURRENCY -> export.concurrency)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// bindValues uses reflection to iterate over the struct and set default values in Viper
// based on the 'default' and 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	// If it's a pointer, get the element
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")

		// Skip if no tag
		if tag == "" {
			continue
		}

		// Build the key
		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		// If it's a nested struct, recurse
		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		defaultValue := field.Tag.Get("default")
		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, defaultValue)
	}
}
