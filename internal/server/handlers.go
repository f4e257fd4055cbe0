package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/agbru/deepzoom/internal/config"
	apperrors "github.com/agbru/deepzoom/internal/errors"
	"github.com/agbru/deepzoom/internal/logging"
	"github.com/agbru/deepzoom/internal/service"
	"github.com/agbru/deepzoom/pkg/models"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	s.writeJSONResponse(w, http.StatusOK, models.HealthResponse{
		Status:    "healthy",
		Version:   s.version,
		Timestamp: time.Now().Unix(),
	})
}

func (s *Server) handleIterate(w http.ResponseWriter, r *http.Request) {
	req := models.IterateRequest{MaxIter: config.DefaultMaxIter, Precision: config.DefaultPrecision}
	err := s.decodeRequest(r, &req, func(q url.Values) error {
		return queryParams(q,
			stringParam("cr", &req.Cr),
			stringParam("ci", &req.Ci),
			intParam("max_iter", &req.MaxIter),
			intParam("precision", &req.Precision),
		)
	})
	if err == nil {
		err = requireParams(map[string]string{"cr": req.Cr, "ci": req.Ci})
	}
	if err != nil {
		s.writeParseError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.timeouts.RequestTimeout)
	defer cancel()

	start := time.Now()
	n, err := s.service.Iterate(ctx, req.Cr, req.Ci, req.MaxIter, req.Precision)
	if err != nil {
		s.writeEngineError(w, "iterate", err)
		return
	}
	s.writeJSONResponse(w, http.StatusOK, models.IterateResponse{
		Cr:         req.Cr,
		Ci:         req.Ci,
		MaxIter:    req.MaxIter,
		Precision:  req.Precision,
		Iterations: n,
		Escaped:    n < req.MaxIter,
		Duration:   time.Since(start).String(),
	})
}

func (s *Server) handleTile(w http.ResponseWriter, r *http.Request) {
	req := models.TileRequest{
		Size:      config.DefaultTileSize,
		MaxIter:   config.DefaultMaxIter,
		Precision: config.DefaultPrecision,
	}
	err := s.decodeRequest(r, &req, func(q url.Values) error {
		return queryParams(q,
			stringParam("center_re", &req.CenterRe),
			stringParam("center_im", &req.CenterIm),
			stringParam("scale", &req.Scale),
			intParam("size", &req.Size),
			intParam("max_iter", &req.MaxIter),
			intParam("precision", &req.Precision),
		)
	})
	if err == nil {
		err = requireParams(map[string]string{
			"center_re": req.CenterRe,
			"center_im": req.CenterIm,
			"scale":     req.Scale,
		})
	}
	if err != nil {
		s.writeParseError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.timeouts.RequestTimeout)
	defer cancel()

	start := time.Now()
	values, err := s.service.Tile(ctx, req.Params())
	if err != nil {
		s.writeEngineError(w, "tile", err)
		return
	}
	s.writeJSONResponse(w, http.StatusOK, models.TileResponse{
		TileRequest: req,
		Values:      values,
		Duration:    time.Since(start).String(),
	})
}

func (s *Server) handleOrbit(w http.ResponseWriter, r *http.Request) {
	req := models.OrbitRequest{MaxIter: config.DefaultMaxIter, Precision: config.DefaultPrecision}
	err := s.decodeRequest(r, &req, func(q url.Values) error {
		return queryParams(q,
			stringParam("cr", &req.Cr),
			stringParam("ci", &req.Ci),
			intParam("max_iter", &req.MaxIter),
			intParam("precision", &req.Precision),
			boolParam("extended", &req.Extended),
		)
	})
	if err == nil {
		err = requireParams(map[string]string{"cr": req.Cr, "ci": req.Ci})
	}
	if err != nil {
		s.writeParseError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.timeouts.RequestTimeout)
	defer cancel()

	start := time.Now()
	orbit, err := s.service.Orbit(ctx, service.OrbitRequest{
		Cr:        req.Cr,
		Ci:        req.Ci,
		MaxIter:   req.MaxIter,
		Precision: req.Precision,
		Extended:  req.Extended,
	})
	if err != nil {
		s.writeEngineError(w, "orbit", err)
		return
	}
	resp := models.NewOrbitResponse(req.Cr, req.Ci, orbit)
	resp.Duration = time.Since(start).String()
	s.writeJSONResponse(w, http.StatusOK, resp)
}

// decodeRequest fills dst from the query string (GET) or a JSON body
// (POST). Fields absent from the request keep the values already in dst.
func (s *Server) decodeRequest(r *http.Request, dst any, fromQuery func(url.Values) error) error {
	switch r.Method {
	case http.MethodGet:
		return fromQuery(r.URL.Query())
	case http.MethodPost:
		body := http.MaxBytesReader(nil, r.Body, s.securityConfig.maxBodyBytes())
		dec := json.NewDecoder(body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(dst); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				return ParseError{Message: "Request body too large", StatusCode: http.StatusRequestEntityTooLarge}
			}
			return ParseError{Message: "Invalid JSON body: " + err.Error(), StatusCode: http.StatusBadRequest}
		}
		return nil
	default:
		return ParseError{Message: "Method not allowed", StatusCode: http.StatusMethodNotAllowed}
	}
}

// param reads one query value into its destination when present.
type param func(url.Values) error

func queryParams(q url.Values, params ...param) error {
	for _, p := range params {
		if err := p(q); err != nil {
			return err
		}
	}
	return nil
}

func stringParam(name string, dst *string) param {
	return func(q url.Values) error {
		if q.Has(name) {
			*dst = q.Get(name)
		}
		return nil
	}
}

func intParam(name string, dst *int) param {
	return func(q url.Values) error {
		if !q.Has(name) {
			return nil
		}
		v, err := strconv.Atoi(q.Get(name))
		if err != nil {
			return ParseError{
				Message:    fmt.Sprintf("Invalid '%s' parameter: must be an integer", name),
				StatusCode: http.StatusBadRequest,
			}
		}
		*dst = v
		return nil
	}
}

func boolParam(name string, dst *bool) param {
	return func(q url.Values) error {
		if !q.Has(name) {
			return nil
		}
		raw := q.Get(name)
		if raw == "" {
			*dst = true
			return nil
		}
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return ParseError{
				Message:    fmt.Sprintf("Invalid '%s' parameter: must be a boolean", name),
				StatusCode: http.StatusBadRequest,
			}
		}
		*dst = v
		return nil
	}
}

// requireParams rejects empty values, reporting names in a stable order.
func requireParams(values map[string]string) error {
	for _, name := range []string{"cr", "ci", "center_re", "center_im", "scale"} {
		if v, ok := values[name]; ok && v == "" {
			return ParseError{
				Message:    fmt.Sprintf("Missing '%s' parameter", name),
				StatusCode: http.StatusBadRequest,
			}
		}
	}
	return nil
}

func (s *Server) writeParseError(w http.ResponseWriter, err error) {
	var pe ParseError
	if errors.As(err, &pe) {
		s.writeErrorResponse(w, pe.StatusCode, pe.Message)
		return
	}
	s.writeErrorResponse(w, http.StatusBadRequest, err.Error())
}

// engineStatus maps a service error to its HTTP status.
func engineStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrLimitExceeded):
		return http.StatusUnprocessableEntity
	case apperrors.IsInputError(err):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeEngineError(w http.ResponseWriter, op string, err error) {
	status := engineStatus(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		s.logger.Error("engine failure", err, logging.String("operation", op))
		msg = "internal engine error"
	}
	s.writeErrorResponse(w, status, msg)
}

func (s *Server) writeJSONResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to encode response", err)
	}
}

func (s *Server) writeErrorResponse(w http.ResponseWriter, status int, message string) {
	s.writeJSONResponse(w, status, models.ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
	})
}
