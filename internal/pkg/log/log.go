// Package log add logging utilities.
package log

import (
	"strings"
	"time"

	"ecocoleta/internal/pkg/point"
	"ecocoleta/internal/pkg/protocol"

	"github.com/sirupsen/logrus"
)

// redacted replaces credentials in log fields.
const redacted = "<redacted>"

// SetLogger sets the default logger's level.
func SetLogger(level string) {
	logrus.SetLevel(logrus.ErrorLevel)
	customFormatter := new(logrus.TextFormatter)
	customFormatter.TimestampFormat = time.RFC3339
	logrus.SetFormatter(customFormatter)
	customFormatter.FullTimestamp = true
	switch strings.ToLower(level) {
	case "trace":
		logrus.SetLevel(logrus.TraceLevel)
	case "debug":
		logrus.SetLevel(logrus.DebugLevel)
	case "info":
		logrus.SetLevel(logrus.InfoLevel)
	case "warn":
		logrus.SetLevel(logrus.WarnLevel)
	case "error":
		logrus.SetLevel(logrus.ErrorLevel)
	default:
		logrus.SetLevel(logrus.ErrorLevel)
	}
}

// CommandToFields describes a request. LOGIN arguments are never logged.
func CommandToFields(cmd protocol.Command) logrus.Fields {
	args := cmd.Args
	if cmd.Name == "LOGIN" {
		args = make([]string, len(cmd.Args))
		for i := range args {
			args[i] = redacted
		}
	}
	return logrus.Fields{
		"command": cmd.Name,
		"args":    strings.Join(args, protocol.Separator),
	}
}

func ResponseToFields(resp protocol.Response) logrus.Fields {
	return logrus.Fields{
		"status":  resp.Status,
		"message": resp.Message,
		"points":  len(resp.Points),
		"invalid": len(resp.Invalid),
	}
}

func PointToFields(p point.CollectionPoint) logrus.Fields {
	return logrus.Fields{
		"id":         p.ID,
		"name":       p.Name,
		"categories": p.Categories.String(),
	}
}
