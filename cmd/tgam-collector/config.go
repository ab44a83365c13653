package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds every option from both subcommands; each subcommand only
// reads the fields it cares about. Keeping one struct mirrors the single
// enumerated configuration table this collector is built against.
type Config struct {
	SerialDev          string
	BaudRate           int
	SerialReadTimeout  time.Duration
	LogFormat          string
	LogLevel           string
	MetricsAddr        string
	StatusAddr         string
	HubBuffer          int
	HubPolicy          string
	LogMetricsInterval time.Duration
	OutputPath         string
	InputPath          string
	DataRecordDuration float64
	RawRate            float64
	ConfigFile         string
}

func defaultConfig() *Config {
	return &Config{
		SerialDev:          "/dev/ttyUSB0",
		BaudRate:           57600,
		SerialReadTimeout:  200 * time.Millisecond,
		LogFormat:          "text",
		LogLevel:           "info",
		MetricsAddr:        "",
		StatusAddr:         "",
		HubBuffer:          64,
		HubPolicy:          "drop",
		LogMetricsInterval: 0,
		OutputPath:         defaultOutputPath(),
		DataRecordDuration: 1.0,
		RawRate:            512,
	}
}

func defaultOutputPath() string {
	return fmt.Sprintf("eeg_data_%s.csv", time.Now().UTC().Format("20060102150405"))
}

// parseRecordFlags parses the "record" subcommand's flags, then layers
// environment and config-file overrides beneath them: flags always win,
// then TGAM_* environment variables, then an optional YAML config file,
// then the built-in defaults above.
func parseRecordFlags(args []string) (*Config, bool, error) {
	fs := flag.NewFlagSet("record", flag.ContinueOnError)
	def := defaultConfig()

	serialDev := fs.String("serial", def.SerialDev, "Serial device path")
	baud := fs.Int("baud", def.BaudRate, "Serial baud rate")
	readTO := fs.Duration("serial-read-timeout", def.SerialReadTimeout, "Serial read timeout")
	logFormat := fs.String("log-format", def.LogFormat, "Log format: text|json")
	logLevel := fs.String("log-level", def.LogLevel, "Log level: debug|info|warn|error")
	metricsAddr := fs.String("metrics-addr", def.MetricsAddr, "Metrics HTTP listen address (e.g., :9100); empty disables")
	statusAddr := fs.String("status-addr", def.StatusAddr, "Status JSON HTTP listen address; empty disables")
	hubBuffer := fs.Int("hub-buffer", def.HubBuffer, "Live status hub per-subscriber buffer size")
	hubPolicy := fs.String("hub-policy", def.HubPolicy, "Hub backpressure policy: drop|kick")
	logMetricsEvery := fs.Duration("log-metrics-interval", def.LogMetricsInterval, "If >0, periodically log metrics counters")
	outputPath := fs.String("output", def.OutputPath, "Row file output path")
	configFile := fs.String("config", "", "Optional YAML configuration file")
	showVersion := fs.Bool("version", false, "Print version and exit")

	if err := fs.Parse(args); err != nil {
		return nil, false, err
	}

	setFlags := map[string]struct{}{}
	fs.Visit(func(f *flag.Flag) { setFlags[f.Name] = struct{}{} })

	cfg := defaultConfig()
	if err := loadConfigFile(cfg, *configFile); err != nil {
		return nil, *showVersion, err
	}
	if err := applyRecordEnvOverrides(cfg, setFlags); err != nil {
		return nil, *showVersion, err
	}

	applyRecordFlagOverrides(cfg, setFlags, *serialDev, *baud, *readTO, *logFormat, *logLevel,
		*metricsAddr, *statusAddr, *hubBuffer, *hubPolicy, *logMetricsEvery, *outputPath)
	cfg.ConfigFile = *configFile

	if *showVersion {
		return cfg, true, nil
	}
	if err := cfg.validateRecord(); err != nil {
		return nil, false, err
	}
	return cfg, false, nil
}

func applyRecordFlagOverrides(cfg *Config, set map[string]struct{}, serialDev string, baud int, readTO time.Duration,
	logFormat, logLevel, metricsAddr, statusAddr string, hubBuffer int, hubPolicy string, logMetricsEvery time.Duration, outputPath string) {
	if _, ok := set["serial"]; ok {
		cfg.SerialDev = serialDev
	}
	if _, ok := set["baud"]; ok {
		cfg.BaudRate = baud
	}
	if _, ok := set["serial-read-timeout"]; ok {
		cfg.SerialReadTimeout = readTO
	}
	if _, ok := set["log-format"]; ok {
		cfg.LogFormat = logFormat
	}
	if _, ok := set["log-level"]; ok {
		cfg.LogLevel = logLevel
	}
	if _, ok := set["metrics-addr"]; ok {
		cfg.MetricsAddr = metricsAddr
	}
	if _, ok := set["status-addr"]; ok {
		cfg.StatusAddr = statusAddr
	}
	if _, ok := set["hub-buffer"]; ok {
		cfg.HubBuffer = hubBuffer
	}
	if _, ok := set["hub-policy"]; ok {
		cfg.HubPolicy = hubPolicy
	}
	if _, ok := set["log-metrics-interval"]; ok {
		cfg.LogMetricsInterval = logMetricsEvery
	}
	if _, ok := set["output"]; ok {
		cfg.OutputPath = outputPath
	}
}

// applyRecordEnvOverrides maps TGAM_* environment variables onto cfg unless
// the corresponding flag was explicitly set (flags always win).
func applyRecordEnvOverrides(cfg *Config, set map[string]struct{}) error {
	var firstErr error
	get := func(k string) (string, bool) { v, ok := os.LookupEnv(k); return strings.TrimSpace(v), ok }

	if _, ok := set["serial"]; !ok {
		if v, ok := get("TGAM_SERIAL"); ok && v != "" {
			cfg.SerialDev = v
		}
	}
	if _, ok := set["baud"]; !ok {
		if v, ok := get("TGAM_BAUD"); ok && v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				cfg.BaudRate = n
			} else if err != nil && firstErr == nil {
				firstErr = fmt.Errorf("invalid TGAM_BAUD: %w", err)
			}
		}
	}
	if _, ok := set["serial-read-timeout"]; !ok {
		if v, ok := get("TGAM_SERIAL_READ_TIMEOUT"); ok && v != "" {
			if d, err := time.ParseDuration(v); err == nil && d > 0 {
				cfg.SerialReadTimeout = d
			} else if err != nil && firstErr == nil {
				firstErr = fmt.Errorf("invalid TGAM_SERIAL_READ_TIMEOUT: %w", err)
			}
		}
	}
	if _, ok := set["log-format"]; !ok {
		if v, ok := get("TGAM_LOG_FORMAT"); ok && v != "" {
			cfg.LogFormat = v
		}
	}
	if _, ok := set["log-level"]; !ok {
		if v, ok := get("TGAM_LOG_LEVEL"); ok && v != "" {
			cfg.LogLevel = v
		}
	}
	if _, ok := set["metrics-addr"]; !ok {
		if v, ok := get("TGAM_METRICS_ADDR"); ok {
			cfg.MetricsAddr = v
		}
	}
	if _, ok := set["status-addr"]; !ok {
		if v, ok := get("TGAM_STATUS_ADDR"); ok {
			cfg.StatusAddr = v
		}
	}
	if _, ok := set["hub-buffer"]; !ok {
		if v, ok := get("TGAM_HUB_BUFFER"); ok && v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				cfg.HubBuffer = n
			} else if err != nil && firstErr == nil {
				firstErr = fmt.Errorf("invalid TGAM_HUB_BUFFER: %w", err)
			}
		}
	}
	if _, ok := set["hub-policy"]; !ok {
		if v, ok := get("TGAM_HUB_POLICY"); ok && v != "" {
			cfg.HubPolicy = v
		}
	}
	if _, ok := set["log-metrics-interval"]; !ok {
		if v, ok := get("TGAM_LOG_METRICS_INTERVAL"); ok && v != "" {
			if d, err := time.ParseDuration(v); err == nil && d >= 0 {
				cfg.LogMetricsInterval = d
			} else if err != nil && firstErr == nil {
				firstErr = fmt.Errorf("invalid TGAM_LOG_METRICS_INTERVAL: %w", err)
			}
		}
	}
	if _, ok := set["output"]; !ok {
		if v, ok := get("TGAM_OUTPUT"); ok && v != "" {
			cfg.OutputPath = v
		}
	}
	return firstErr
}

func (c *Config) validateRecord() error {
	if c == nil {
		return errors.New("nil config")
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log-format: %s", c.LogFormat)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log-level: %s", c.LogLevel)
	}
	switch c.HubPolicy {
	case "drop", "kick":
	default:
		return fmt.Errorf("invalid hub-policy: %s", c.HubPolicy)
	}
	if c.HubBuffer <= 0 {
		return fmt.Errorf("hub-buffer must be > 0 (got %d)", c.HubBuffer)
	}
	if c.BaudRate <= 0 {
		return fmt.Errorf("baud must be > 0 (got %d)", c.BaudRate)
	}
	if c.SerialReadTimeout <= 0 {
		return fmt.Errorf("serial-read-timeout must be > 0")
	}
	if c.OutputPath == "" {
		return errors.New("output path must not be empty")
	}
	return nil
}

// parseConvertFlags parses the "convert" subcommand's flags. Flags win over
// the TGAM_DATA_RECORD_DURATION and TGAM_RAW_RATE environment variables,
// which win over the optional YAML config file and the built-in defaults.
// -log-format and -log-level have no environment override here, and
// -input/-output are taken from flags only.
func parseConvertFlags(args []string) (*Config, bool, error) {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	def := defaultConfig()

	inputPath := fs.String("input", "", "Row file to convert (required)")
	outputPath := fs.String("output", "", "EDF file to write (default: input path with .edf extension)")
	duration := fs.Float64("data-record-duration", def.DataRecordDuration, "EDF data record duration, seconds")
	rawRate := fs.Float64("raw-rate", def.RawRate, "Declared raw channel rate, Hz")
	logFormat := fs.String("log-format", def.LogFormat, "Log format: text|json")
	logLevel := fs.String("log-level", def.LogLevel, "Log level: debug|info|warn|error")
	configFile := fs.String("config", "", "Optional YAML configuration file")
	showVersion := fs.Bool("version", false, "Print version and exit")

	if err := fs.Parse(args); err != nil {
		return nil, false, err
	}
	setFlags := map[string]struct{}{}
	fs.Visit(func(f *flag.Flag) { setFlags[f.Name] = struct{}{} })

	cfg := defaultConfig()
	if err := loadConfigFile(cfg, *configFile); err != nil {
		return nil, *showVersion, err
	}

	if _, ok := setFlags["data-record-duration"]; !ok {
		if v, ok := os.LookupEnv("TGAM_DATA_RECORD_DURATION"); ok && v != "" {
			if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
				cfg.DataRecordDuration = f
			}
		}
	}
	if _, ok := setFlags["raw-rate"]; !ok {
		if v, ok := os.LookupEnv("TGAM_RAW_RATE"); ok && v != "" {
			if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
				cfg.RawRate = f
			}
		}
	}

	if _, ok := setFlags["data-record-duration"]; ok {
		cfg.DataRecordDuration = *duration
	}
	if _, ok := setFlags["raw-rate"]; ok {
		cfg.RawRate = *rawRate
	}
	if _, ok := setFlags["log-format"]; ok {
		cfg.LogFormat = *logFormat
	}
	if _, ok := setFlags["log-level"]; ok {
		cfg.LogLevel = *logLevel
	}
	cfg.InputPath = *inputPath
	cfg.OutputPath = *outputPath
	cfg.ConfigFile = *configFile

	if *showVersion {
		return cfg, true, nil
	}
	if cfg.InputPath == "" {
		return nil, false, errors.New("-input is required")
	}
	if cfg.OutputPath == "" {
		cfg.OutputPath = strings.TrimSuffix(cfg.InputPath, ".csv") + ".edf"
	}
	if cfg.DataRecordDuration <= 0 {
		return nil, false, errors.New("data-record-duration must be > 0")
	}
	if cfg.RawRate <= 0 {
		return nil, false, errors.New("raw-rate must be > 0")
	}
	return cfg, false, nil
}
