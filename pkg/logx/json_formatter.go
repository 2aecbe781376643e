package logx

import (
	"encoding/json"
	"time"
)

// JSONFormatter writes one JSON object per line.
type JSONFormatter struct {
	config     *Config
	cloudWatch bool
}

func (f *JSONFormatter) Format(entry *LogEntry) ([]byte, error) {
	msgKey, timeKey := "message", "timestamp"
	if f.cloudWatch {
		msgKey, timeKey = "msg", "time"
	}

	data := make(map[string]any, len(entry.Fields)+5)
	for k, v := range entry.Fields {
		data[k] = v
	}
	data["level"] = entry.Level.String()
	data[msgKey] = entry.Message

	if f.config.EnableTimestamp || f.cloudWatch {
		switch f.config.TimeFormat {
		case "unix":
			data[timeKey] = entry.Timestamp.Unix()
		case "unixmilli":
			data[timeKey] = entry.Timestamp.UnixMilli()
		default:
			data[timeKey] = entry.Timestamp.Format(time.RFC3339Nano)
		}
	}
	if f.config.EnableCaller && entry.Caller != "" {
		data["caller"] = entry.Caller
	}
	if entry.Error != nil {
		data["error"] = entry.Error.Error()
	}
	if entry.Data != nil {
		data["data"] = entry.Data
	}

	bytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return append(bytes, '\n'), nil
}
