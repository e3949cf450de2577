package console

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/felixge/httpsnoop"
	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/panyam/bandplot/loader"
)

// maxBodyBytes bounds uploaded dataset documents.
const maxBodyBytes = 64 << 20

// WebServer exposes a PlotService as a JSON API plus live frame streams.
type WebServer struct {
	svc *PlotService
	hub *Hub
}

func NewWebServer(svc *PlotService, hub *Hub) *WebServer {
	return &WebServer{svc: svc, hub: hub}
}

type createPlotRequest struct {
	ID      string   `json:"id"`
	Sources []string `json:"sources"`
}

type sourcesRequest struct {
	Sources []string `json:"sources"`
}

type pathRequest struct {
	Path  string `json:"path"`
	Force bool   `json:"force"`
}

type yLimitRequest struct {
	Min *float64 `json:"min"`
	Max *float64 `json:"max"`
}

type zoomRequest struct {
	Mode string `json:"mode"`
}

// Handler returns the routes with request logging applied.
func (ws *WebServer) Handler() http.Handler {
	r := http.NewServeMux()

	r.HandleFunc("GET /api/plots", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, ws.svc.ListPlots(req.Context()))
	})
	r.HandleFunc("POST /api/plots", func(w http.ResponseWriter, req *http.Request) {
		var body createPlotRequest
		if !readJSON(w, req, &body) {
			return
		}
		info, err := ws.svc.CreatePlot(req.Context(), body.ID, body.Sources)
		respond(w, http.StatusCreated, info, err)
	})
	r.HandleFunc("GET /api/plots/{id}", func(w http.ResponseWriter, req *http.Request) {
		info, err := ws.svc.GetPlot(req.Context(), req.PathValue("id"))
		respond(w, http.StatusOK, info, err)
	})
	r.HandleFunc("DELETE /api/plots/{id}", func(w http.ResponseWriter, req *http.Request) {
		if err := ws.svc.DeletePlot(req.Context(), req.PathValue("id")); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
	r.HandleFunc("POST /api/plots/{id}/datasets", func(w http.ResponseWriter, req *http.Request) {
		data, err := io.ReadAll(http.MaxBytesReader(w, req.Body, maxBodyBytes))
		if err != nil {
			writeError(w, status.Error(codes.InvalidArgument, err.Error()))
			return
		}
		ds, err := loader.Decode(data)
		if err != nil {
			writeError(w, status.Errorf(codes.InvalidArgument, "invalid dataset: %v", err))
			return
		}
		frame, err := ws.svc.AddDataset(req.Context(), req.PathValue("id"), ds, req.URL.Query().Get("color"))
		respond(w, http.StatusOK, frame, err)
	})
	r.HandleFunc("POST /api/plots/{id}/sources", func(w http.ResponseWriter, req *http.Request) {
		var body sourcesRequest
		if !readJSON(w, req, &body) {
			return
		}
		frame, err := ws.svc.LoadDatasets(req.Context(), req.PathValue("id"), body.Sources)
		respond(w, http.StatusOK, frame, err)
	})
	r.HandleFunc("PUT /api/plots/{id}/path", func(w http.ResponseWriter, req *http.Request) {
		var body pathRequest
		if !readJSON(w, req, &body) {
			return
		}
		result, err := ws.svc.SetPath(req.Context(), req.PathValue("id"), body.Path, body.Force)
		respond(w, http.StatusOK, result, err)
	})
	r.HandleFunc("POST /api/plots/{id}/path/reset", func(w http.ResponseWriter, req *http.Request) {
		result, err := ws.svc.ResetPath(req.Context(), req.PathValue("id"))
		respond(w, http.StatusOK, result, err)
	})
	r.HandleFunc("PUT /api/plots/{id}/ylimit", func(w http.ResponseWriter, req *http.Request) {
		var body yLimitRequest
		if !readJSON(w, req, &body) {
			return
		}
		if body.Min == nil || body.Max == nil {
			writeError(w, status.Error(codes.InvalidArgument, "min and max are required"))
			return
		}
		frame, err := ws.svc.SetYLimit(req.Context(), req.PathValue("id"), *body.Min, *body.Max)
		respond(w, http.StatusOK, frame, err)
	})
	r.HandleFunc("PUT /api/plots/{id}/zoom", func(w http.ResponseWriter, req *http.Request) {
		var body zoomRequest
		if !readJSON(w, req, &body) {
			return
		}
		frame, err := ws.svc.SetZoomMode(req.Context(), req.PathValue("id"), body.Mode)
		respond(w, http.StatusOK, frame, err)
	})
	r.HandleFunc("GET /api/plots/{id}/frame", func(w http.ResponseWriter, req *http.Request) {
		frame, err := ws.svc.Frame(req.Context(), req.PathValue("id"))
		respond(w, http.StatusOK, frame, err)
	})
	r.HandleFunc("GET /api/plots/{id}/points", func(w http.ResponseWriter, req *http.Request) {
		info, err := ws.svc.Points(req.Context(), req.PathValue("id"))
		respond(w, http.StatusOK, info, err)
	})
	r.HandleFunc("GET /api/plots/{id}/svg", func(w http.ResponseWriter, req *http.Request) {
		svg, err := ws.svc.SVG(req.Context(), req.PathValue("id"))
		if err != nil {
			writeError(w, err)
			return
		}
		w.Header().Set("Content-Type", "image/svg+xml")
		io.WriteString(w, svg)
	})
	r.HandleFunc("GET /api/plots/{id}/live", ws.serveLive)

	return logRequests(r)
}

func (ws *WebServer) serveLive(w http.ResponseWriter, req *http.Request) {
	id := req.PathValue("id")
	if ws.hub == nil {
		writeError(w, status.Error(codes.Unimplemented, "live updates are disabled"))
		return
	}
	frame, err := ws.svc.Frame(req.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	initial, err := json.Marshal(frame)
	if err != nil {
		writeError(w, status.Error(codes.Internal, err.Error()))
		return
	}
	ws.hub.Serve(w, req, id, initial)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m := httpsnoop.CaptureMetrics(next, w, r)
		slog.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", m.Code,
			"bytes", m.Written,
			"duration", m.Duration)
	})
}

func readJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		writeError(w, status.Errorf(codes.InvalidArgument, "invalid request body: %v", err))
		return false
	}
	return true
}

func respond(w http.ResponseWriter, code int, v any, err error) {
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, code, v)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encode failed", "error", err)
	}
}

// writeError converts a grpc status into its HTTP equivalent.
func writeError(w http.ResponseWriter, err error) {
	s := status.Convert(err)
	httpStatus := runtime.HTTPStatusFromCode(s.Code())
	slog.Debug("request failed", "code", s.Code(), "http_status", httpStatus, "msg", s.Message())

	body := struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}{
		Error:   s.Code().String(),
		Message: s.Message(),
	}
	writeJSON(w, httpStatus, body)
}
