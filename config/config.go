// Package config reads the meta-extract configuration file.
//
// The file is a JSON object:
//
//	{
//	  "headSize": 65536,
//	  "workers": 4,
//	  "skipUnknownTags": false,
//	  "catalog": "/var/lib/exif/catalog.db"
//	}
//
// Every key is optional. Unknown keys are an error.
package config

import (
	"fmt"

	"go.uber.org/zap"
	"go4.org/jsonconfig"

	"greg-hacke/jpeg-exif/formats"
	"greg-hacke/jpeg-exif/meta"
)

// Config is the tool configuration.
type Config struct {
	HeadSize        int64  // bytes read from the start of each file
	Workers         int    // files decoded at once
	SkipUnknownTags bool   // keep scanning past unknown IFD0 tags
	Catalog         string // SQLite catalog file; empty disables it
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		HeadSize: meta.HeadSize,
		Workers:  meta.DefaultWorkers,
	}
}

// Load reads the configuration file at path.
func Load(path string) (*Config, error) {
	obj, err := jsonconfig.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c, err := FromObj(obj)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return c, nil
}

// FromObj builds a Config from a parsed JSON object.
func FromObj(obj jsonconfig.Obj) (*Config, error) {
	c := &Config{
		HeadSize:        obj.OptionalInt64("headSize", meta.HeadSize),
		Workers:         obj.OptionalInt("workers", meta.DefaultWorkers),
		SkipUnknownTags: obj.OptionalBool("skipUnknownTags", false),
		Catalog:         obj.OptionalString("catalog", ""),
	}
	if err := obj.Validate(); err != nil {
		return nil, err
	}
	if err := c.check(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) check() error {
	if c.HeadSize < 4 {
		return fmt.Errorf("headSize %d is too small", c.HeadSize)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	return nil
}

// BatchOptions returns the meta.ReadAll options for c.
func (c *Config) BatchOptions(log *zap.Logger) *meta.BatchOptions {
	o := &meta.BatchOptions{
		Options: meta.Options{HeadSize: c.HeadSize},
		Workers: c.Workers,
		Logger:  log,
	}
	if c.SkipUnknownTags {
		o.Decode = append(o.Decode, formats.SkipUnknownTags())
	}
	return o
}
