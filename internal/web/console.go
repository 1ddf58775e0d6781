package web

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/sweeney/sound-and-vision/internal/thresholds"
)

// maxValueBody bounds a setter request body.
const maxValueBody = 1 << 10

// handleThresholds serves the configuration surface:
//
//	GET  /thresholds/color
//	GET  /thresholds/tone
//	POST /thresholds/default
//	POST /thresholds/{green,amber,red,short,medium,long}   body: JSON value
func (s *Server) handleThresholds(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(r.URL.Path, "/thresholds/")

	switch name {
	case "color":
		if !allow(w, r, http.MethodGet) {
			return
		}
		msg, err := s.console.ThresholdsColor()
		s.reply(w, msg, err)
	case "tone":
		if !allow(w, r, http.MethodGet) {
			return
		}
		msg, err := s.console.ThresholdsTone()
		s.reply(w, msg, err)
	case "default":
		if !allow(w, r, http.MethodPost) {
			return
		}
		msg, err := s.console.DefaultThresholds()
		s.reply(w, msg, err)
	default:
		key, ok := thresholds.ParseKey(name)
		if !ok {
			http.NotFound(w, r)
			return
		}
		if !allow(w, r, http.MethodPost) {
			return
		}
		msg, err := s.console.Set(key, decodeValue(r.Body))
		s.reply(w, msg, err)
	}
}

// decodeValue reads one JSON value. Numbers are kept as json.Number so that
// integers can be told apart from floats. Malformed bodies, and bodies with
// anything after the value, decode to nil, which the setters reject.
func decodeValue(body io.Reader) any {
	dec := json.NewDecoder(io.LimitReader(body, maxValueBody))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil
	}
	return v
}

func (s *Server) reply(w http.ResponseWriter, msg string, err error) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	switch {
	case err == nil:
		s.log.Info("console", zap.String("result", msg))
		w.WriteHeader(http.StatusOK)
	case errors.Is(err, thresholds.ErrInvalidValue):
		s.log.Warn("console", zap.String("result", msg))
		w.WriteHeader(http.StatusBadRequest)
	default:
		s.log.Error("console store failure", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		msg = err.Error()
	}
	io.WriteString(w, msg+"\n")
}

func allow(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method == method {
		return true
	}
	w.Header().Set("Allow", method)
	http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	return false
}
