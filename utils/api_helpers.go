package utils

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Log is the process-wide logger. main may reconfigure level and format.
var Log = logrus.New()

// RespondJSON sends a JSON response with the given status code and payload.
func RespondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		// Headers are already sent; nothing left to do but log.
		Log.Errorf("error encoding JSON response: %v", err)
	}
}

// RespondError sends a JSON {"error": message} body. The message is what
// the caller sees; anything sensitive belongs in the request log builder,
// not here.
func RespondError(w http.ResponseWriter, logBuilder *strings.Builder, message string, status int) {
	if logBuilder != nil {
		AddToLogMessage(logBuilder, message)
	} else {
		Log.Error(message)
	}
	RespondJSON(w, status, map[string]string{"error": message})
}

// AddToLogMessage appends one line to a per-request log builder. The
// builder is flushed once when the handler returns, so a request's log
// lines stay together under concurrent traffic.
func AddToLogMessage(logBuilder *strings.Builder, line string) {
	logBuilder.WriteString(line)
	logBuilder.WriteString(";\n")
}

// FlushLogMessage writes the accumulated request log in one entry.
func FlushLogMessage(logBuilder *strings.Builder) {
	if logBuilder.Len() > 0 {
		Log.Info(logBuilder.String())
	}
}

// LatencyMiddleware logs the duration of each request.
func LatencyMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		Log.Infof("[LATENCY] %s %s - %v", r.Method, r.URL.Path, time.Since(start))
	})
}
