// Package log owns the process-wide structured logger.
package log

import (
	"encoding/json"
	"io"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Log is usable before InitLog runs; InitLog replaces its configuration.
var Log = New(os.Stdout, logrus.InfoLevel)

// JSONFormatter writes one JSON object per entry with the keys time, level,
// message and, when the entry carries any, fields.
type JSONFormatter struct {
	TimestampFormat string
}

// Format renders entry as a single JSON line.
func (f *JSONFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	data := map[string]interface{}{
		"time":    entry.Time.UTC().Format(f.TimestampFormat),
		"level":   entry.Level.String(),
		"message": entry.Message,
	}
	if len(entry.Data) > 0 {
		fields := make(map[string]interface{}, len(entry.Data))
		for k, v := range entry.Data {
			// errors marshal to {} otherwise
			if err, ok := v.(error); ok {
				v = err.Error()
			}
			fields[k] = v
		}
		data["fields"] = fields
	}
	serialized, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return append(serialized, '\n'), nil
}

// New builds a logger writing JSON lines to w at the given level.
func New(w io.Writer, level logrus.Level) *logrus.Logger {
	l := logrus.New()
	l.SetFormatter(&JSONFormatter{TimestampFormat: time.RFC3339Nano})
	l.SetOutput(w)
	l.SetLevel(level)
	return l
}

// InitLog configures Log from LOG_LEVEL.
func InitLog() {
	Log.SetLevel(ParseLevel(os.Getenv("LOG_LEVEL")))
}

// ParseLevel maps a level name to a logrus level, defaulting to info.
func ParseLevel(s string) logrus.Level {
	lvl, err := logrus.ParseLevel(strings.TrimSpace(s))
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}
