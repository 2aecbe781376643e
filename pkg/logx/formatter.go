package logx

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"time"
)

// Formatter renders one entry, including the trailing newline.
type Formatter interface {
	Format(entry *LogEntry) ([]byte, error)
}

type LogEntry struct {
	Level     Level
	Message   string
	Fields    Fields
	Data      any
	Error     error
	Timestamp time.Time
	Caller    string
}

// Fields is a map of structured data
type Fields map[string]any

func formatTimestamp(t time.Time, layout string) string {
	switch layout {
	case "unix":
		return strconv.FormatInt(t.Unix(), 10)
	case "unixmilli":
		return strconv.FormatInt(t.UnixMilli(), 10)
	default:
		return t.Format(layout)
	}
}

func sortedKeys(fields Fields) []string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func prettyJSON(data any) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%+v", data)
	}
	return string(bytes)
}
