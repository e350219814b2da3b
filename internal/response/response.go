// Package response writes the JSON envelope every endpoint answers with:
//
//	{"error": bool, "code": int, "status": 1|0, "message": string, "payload": object|array}
package response

import (
	"encoding/json"
	"net/http"

	"github.com/fiftyhertz/agriapi/internal/apperr"
	"github.com/sirupsen/logrus"
)

type Envelope struct {
	Error   bool        `json:"error"`
	Code    int         `json:"code"`
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Payload interface{} `json:"payload"`
}

// empty serializes as {}.
type empty struct{}

func write(w http.ResponseWriter, env Envelope) {
	if env.Payload == nil {
		env.Payload = empty{}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(env.Code)
	json.NewEncoder(w).Encode(env)
}

// JSON writes a success envelope. A nil payload is sent as {}.
func JSON(w http.ResponseWriter, code int, message string, payload interface{}) {
	write(w, Envelope{
		Error:   false,
		Code:    code,
		Status:  1,
		Message: message,
		Payload: payload,
	})
}

// Fail writes an error envelope with an empty payload.
func Fail(w http.ResponseWriter, code int, message string) {
	write(w, Envelope{
		Error:   true,
		Code:    code,
		Status:  0,
		Message: message,
	})
}

// Error answers with the status and message of err. Internal errors are logged
// and answered with a generic message.
func Error(w http.ResponseWriter, r *http.Request, logger *logrus.Logger, err error) {
	ae := apperr.From(err)
	if ae.Kind == apperr.KindInternal {
		logger.WithError(err).WithFields(logrus.Fields{
			"method": r.Method,
			"path":   r.URL.Path,
		}).Error("Internal server error")
	}
	Fail(w, ae.Status(), ae.Message)
}
