package main

import (
	"fmt"

	"github.com/spf13/viper"
)

// loadConfigFile overlays an optional YAML configuration file onto cfg. A
// missing path is a no-op (the file layer is optional); a present-but-broken
// file is an error. Only keys actually present in the file are applied, so
// this can run before flag/env overrides without clobbering their defaults.
func loadConfigFile(cfg *Config, path string) error {
	if path == "" {
		return nil
	}
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("config file: %w", err)
	}

	if v.IsSet("serial") {
		cfg.SerialDev = v.GetString("serial")
	}
	if v.IsSet("baud_rate") {
		cfg.BaudRate = v.GetInt("baud_rate")
	}
	if v.IsSet("serial_read_timeout") {
		cfg.SerialReadTimeout = v.GetDuration("serial_read_timeout")
	}
	if v.IsSet("log_format") {
		cfg.LogFormat = v.GetString("log_format")
	}
	if v.IsSet("log_level") {
		cfg.LogLevel = v.GetString("log_level")
	}
	if v.IsSet("metrics_addr") {
		cfg.MetricsAddr = v.GetString("metrics_addr")
	}
	if v.IsSet("status_addr") {
		cfg.StatusAddr = v.GetString("status_addr")
	}
	if v.IsSet("hub_buffer") {
		cfg.HubBuffer = v.GetInt("hub_buffer")
	}
	if v.IsSet("hub_policy") {
		cfg.HubPolicy = v.GetString("hub_policy")
	}
	if v.IsSet("log_metrics_interval") {
		cfg.LogMetricsInterval = v.GetDuration("log_metrics_interval")
	}
	if v.IsSet("output_path") {
		cfg.OutputPath = v.GetString("output_path")
	}
	if v.IsSet("data_record_duration") {
		cfg.DataRecordDuration = v.GetFloat64("data_record_duration")
	}
	if v.IsSet("raw_rate") {
		cfg.RawRate = v.GetFloat64("raw_rate")
	}
	return nil
}
