// internal/middleware/logging.go

package middleware

import (
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// LogMiddleware is an HTTP middleware that logs incoming requests using Logrus.
// Logs the method, path, and duration of each request.
func LogMiddleware(logger *logrus.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			path := r.URL.Path
			method := r.Method

			next.ServeHTTP(w, r)

			duration := time.Since(start)
			logger.WithFields(logrus.Fields{
				"method":   method,
				"path":     path,
				"duration": duration,
				"remote":   r.RemoteAddr,
			}).Info("HTTP Request")
		})
	}
}

// LogWebSocketConnect logs a game WebSocket attach with the negotiated
// subprotocol.
func LogWebSocketConnect(logger *logrus.Logger, remoteAddr, gameID, subprotocol string) {
	logger.WithFields(logrus.Fields{
		"remote":      remoteAddr,
		"game_id":     gameID,
		"subprotocol": subprotocol,
	}).Info("WebSocket connected")
}

// LogWebSocketDisconnect logs a game WebSocket detach. A nil err is a clean
// client close.
func LogWebSocketDisconnect(logger *logrus.Logger, remoteAddr, gameID string, err error) {
	fields := logrus.Fields{
		"remote":  remoteAddr,
		"game_id": gameID,
	}
	if err != nil {
		fields["error"] = err
	}
	logger.WithFields(fields).Info("WebSocket disconnected")
}
