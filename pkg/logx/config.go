package logx

import (
	"io"
	"os"
	"strings"
	"time"
)

// Format represents the output format
type Format string

const (
	FormatConsole Format = "console"
	FormatJSON    Format = "json"
	// FormatCloudWatch emits the msg/time keys CloudWatch Insights expects.
	FormatCloudWatch Format = "cloudwatch"
)

// ParseFormat maps a config string to a Format, defaulting to console.
func ParseFormat(s string) Format {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatJSON:
		return FormatJSON
	case FormatCloudWatch:
		return FormatCloudWatch
	default:
		return FormatConsole
	}
}

// Config holds the logger configuration
type Config struct {
	Level           Level
	Format          Format
	EnableColors    bool
	EnableCaller    bool
	EnableTimestamp bool
	// TimeFormat is a layout, or "unix" / "unixmilli".
	TimeFormat string
	// Output defaults to os.Stdout.
	Output io.Writer
}

func DefaultConfig() *Config {
	return &Config{
		Level:           LevelInfo,
		Format:          FormatConsole,
		EnableColors:    true,
		EnableTimestamp: true,
		TimeFormat:      time.RFC3339,
		Output:          os.Stdout,
	}
}
