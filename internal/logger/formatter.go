package logger

import (
	"encoding/json"
	"log/slog"
	"strconv"
	"strings"
	"time"
)

// lokiPush is the body of a Loki /loki/api/v1/push request.
type lokiPush struct {
	Streams []lokiStream `json:"streams"`
}

type lokiStream struct {
	Stream map[string]string `json:"stream"`
	// each value is [unix-nano timestamp, line]
	Values [][2]string `json:"values"`
}

func buildLogEntry(job, level, message string, at time.Time, attrs []slog.Attr) lokiPush {
	return lokiPush{
		Streams: []lokiStream{{
			Stream: map[string]string{"job": job, "level": level},
			Values: [][2]string{{
				strconv.FormatInt(at.UnixNano(), 10),
				buildLogLine(level, message, at, attrs),
			}},
		}},
	}
}

// buildLogLine renders the record as one JSON object. Group attrs become dotted keys.
func buildLogLine(level, message string, at time.Time, attrs []slog.Attr) string {
	fields := make(map[string]any, len(attrs)+3)
	flattenAttrs(fields, "", attrs)
	fields["level"] = level
	fields["message"] = message
	fields["time"] = at.UTC().Format(time.RFC3339Nano)

	line, err := json.Marshal(fields)
	if err != nil {
		return `{"level":"` + level + `","message":` + strconv.Quote(message) + `}`
	}
	return string(line)
}

func flattenAttrs(dst map[string]any, prefix string, attrs []slog.Attr) {
	for _, attr := range attrs {
		v := attr.Value.Resolve()
		key := attr.Key
		if prefix != "" {
			key = prefix + "." + key
		}
		if v.Kind() == slog.KindGroup {
			flattenAttrs(dst, key, v.Group())
			continue
		}
		switch v.Kind() {
		case slog.KindDuration:
			dst[key] = v.Duration().String()
		case slog.KindTime:
			dst[key] = v.Time().UTC().Format(time.RFC3339Nano)
		default:
			dst[key] = v.Any()
		}
	}
}

func levelName(l slog.Level) string {
	return strings.ToLower(l.String())
}
