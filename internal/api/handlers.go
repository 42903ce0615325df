package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/arrange/pkg/buildinfo"
	arrerrors "github.com/matzehuels/arrange/pkg/errors"
	"github.com/matzehuels/arrange/pkg/layout"
	"github.com/matzehuels/arrange/pkg/pipeline"
	"github.com/matzehuels/arrange/pkg/render"
)

var contentTypes = map[render.Format]string{
	render.FormatSVG: "image/svg+xml",
	render.FormatPNG: "image/png",
	render.FormatPDF: "application/pdf",
	render.FormatDOT: "text/vnd.graphviz; charset=utf-8",
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, HealthResponse{Status: "ok", Build: buildinfo.Current()})
}

func (s *Server) handleListAlgorithms(w http.ResponseWriter, r *http.Request) {
	algorithms := layout.List()
	out := make([]AlgorithmInfo, len(algorithms))
	for i, a := range algorithms {
		out[i] = describe(a)
	}
	s.respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleDescribeAlgorithm(w http.ResponseWriter, r *http.Request) {
	a, err := layout.Parse(chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, r, arrerrors.Wrap(arrerrors.ErrCodeNotFound, err, "no such algorithm"))
		return
	}
	s.respondJSON(w, http.StatusOK, describe(a))
}

func describe(a layout.Algorithm) AlgorithmInfo {
	name, desc := layout.Describe(a)
	return AlgorithmInfo{ID: string(a), Name: name, Description: desc}
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	var req LayoutRequest
	if !s.decode(w, r, &req) {
		return
	}

	opts := s.withDefaults(req.options())
	res, err := s.runner.Compute(r.Context(), opts)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, newLayoutResponse(opts.Algorithm, res))
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var req RenderRequest
	if !s.decode(w, r, &req) {
		return
	}

	opts := s.withDefaults(req.options())
	if err := opts.ValidateAndSetDefaults(); err != nil {
		s.respondError(w, r, err)
		return
	}

	positions := req.Positions
	if len(positions) == 0 {
		res, err := s.runner.Compute(r.Context(), opts)
		if err != nil {
			s.respondError(w, r, err)
			return
		}
		positions = res.Positions
	}

	data, cached, err := s.runner.RenderWithCacheInfo(r.Context(), opts, positions)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", contentTypes[opts.RenderFormat()])
	if cached {
		w.Header().Set("X-Cache", "hit")
	} else {
		w.Header().Set("X-Cache", "miss")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// withDefaults applies the server's configured defaults to opts.
func (s *Server) withDefaults(opts pipeline.Options) pipeline.Options {
	if opts.Algorithm == "" {
		opts.Algorithm = s.defaults.Algorithm
	}
	if opts.Seed == 0 {
		opts.Seed = s.defaults.Seed
	}
	opts.Logger = s.logger
	return opts
}

// =============================================================================
// Request and Response Helpers
// =============================================================================

// decode reads and validates a JSON body into v. On failure it writes the
// error response and returns false.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.respondError(w, r, arrerrors.Wrap(arrerrors.ErrCodeInvalidInput, err, "request body too large"))
			return false
		}
		s.respondError(w, r, arrerrors.Wrap(arrerrors.ErrCodeInvalidInput, err, "invalid request body"))
		return false
	}
	if err := validateRequest(v); err != nil {
		s.respondError(w, r, err)
		return false
	}
	return true
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("write response failed", "err", err)
	}
}

// respondError writes err with the status its code maps to. Internal
// details are logged, not returned.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := arrerrors.HTTPStatus(err)
	code := arrerrors.GetCode(err)
	if code == "" {
		code = arrerrors.ErrCodeInternal
	}

	msg := arrerrors.UserMessage(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", chiRequestID(r),
			"err", err)
		msg = "internal error"
	}
	s.respondJSON(w, status, ErrorResponse{Error: msg, Code: string(code)})
}
