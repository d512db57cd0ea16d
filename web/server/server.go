package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/df07/go-wave-optics/pkg/core"
	"github.com/df07/go-wave-optics/pkg/renderer"
	"github.com/df07/go-wave-optics/pkg/scene"
)

// Server handles web requests for the wave optics field renderer
type Server struct {
	host   string
	port   int
	logger core.Logger
	mux    *http.ServeMux
}

// NewServer creates a new web server
func NewServer(host string, port int, logger core.Logger) *Server {
	s := &Server{
		host:   host,
		port:   port,
		logger: logger,
		mux:    http.NewServeMux(),
	}
	s.mux.HandleFunc("/", s.handleIndex)
	s.mux.HandleFunc("/api/health", s.handleHealth)
	s.mux.HandleFunc("/api/scenes", s.handleScenes)
	s.mux.HandleFunc("/api/render-progressive", s.handleRenderProgressive)
	s.mux.HandleFunc("/api/trace", s.handleTrace)
	return s
}

// Handler returns the server's HTTP handler with request logging applied
func (s *Server) Handler() http.Handler {
	return s.logRequests(s.mux)
}

// logRequests logs method, path and duration of every request
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Printf("%s %s (%v)\n", r.Method, r.URL.Path, time.Since(start))
	})
}

// Start starts the web server
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.host, s.port)
	s.logger.Printf("Starting web server on http://%s\n", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// RenderRequest represents a render request from the client
type RenderRequest struct {
	Scene      string `json:"scene"`      // Scene name
	Width      int    `json:"width"`      // Image width
	Height     int    `json:"height"`     // Image height
	MaxSamples int    `json:"maxSamples"` // Maximum samples per pixel
	MaxPasses  int    `json:"maxPasses"`  // Maximum number of passes
	Falloff    bool   `json:"falloff"`    // Distance falloff
}

// ProgressUpdate represents a single progressive update sent via SSE
type ProgressUpdate struct {
	PassNumber  int    `json:"passNumber"`
	TotalPasses int    `json:"totalPasses"`
	ImageData   string `json:"imageData"` // Base64 encoded PNG
	Stats       Stats  `json:"stats"`
	IsComplete  bool   `json:"isComplete"`
	ElapsedMs   int64  `json:"elapsedMs"`
}

// Stats represents render statistics
type Stats struct {
	TotalPixels    int     `json:"totalPixels"`
	TotalSamples   int64   `json:"totalSamples"`
	AverageSamples float64 `json:"averageSamples"`
	MaxSamples     int     `json:"maxSamples"`
	MinSamples     int     `json:"minSamples"`
	MaxSamplesUsed int     `json:"maxSamplesUsed"`
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// handleScenes lists the available scene names
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	json.NewEncoder(w).Encode(map[string][]string{"scenes": scene.ListSceneNames()})
}

// handleRenderProgressive streams progressive render passes via SSE
func (s *Server) handleRenderProgressive(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRenderRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	sceneObj, err := scene.NewSceneByName(req.Scene)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// Set SSE headers
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	config := renderer.DefaultConfig()
	config.MaxSamplesPerPixel = req.MaxSamples
	config.MaxPasses = req.MaxPasses
	config.Falloff = req.Falloff

	s.logger.Printf("Render request: scene=%s %dx%d samples=%d passes=%d\n",
		req.Scene, req.Width, req.Height, req.MaxSamples, req.MaxPasses)

	fieldRenderer := renderer.NewRenderer(sceneObj, req.Width, req.Height, config, s.logger)

	// Client disconnection cancels the render between passes
	ctx := r.Context()
	startTime := time.Now()

	passChan, errChan := fieldRenderer.RenderProgressive(ctx)
	for result := range passChan {
		imageData, err := s.imageToBase64PNG(result.Image)
		if err != nil {
			s.sendSSEError(w, fmt.Sprintf("Failed to encode image: %v", err))
			return
		}

		update := ProgressUpdate{
			PassNumber:  result.PassNumber,
			TotalPasses: req.MaxPasses,
			ImageData:   imageData,
			Stats: Stats{
				TotalPixels:    result.Stats.TotalPixels,
				TotalSamples:   int64(result.Stats.TotalSamples),
				AverageSamples: result.Stats.AverageSamples,
				MaxSamples:     result.Stats.MaxSamples,
				MinSamples:     result.Stats.MinSamples,
				MaxSamplesUsed: result.Stats.MaxSamplesUsed,
			},
			IsComplete: result.IsLast,
			ElapsedMs:  time.Since(startTime).Milliseconds(),
		}
		if err := s.sendSSEUpdate(w, update); err != nil {
			return
		}
	}
	if err := <-errChan; err != nil {
		s.sendSSEError(w, fmt.Sprintf("Render error: %v", err))
		return
	}

	s.sendSSEEvent(w, "complete", "Rendering completed")
}

// TraceResponse represents the JSON response for a ray trace query
type TraceResponse struct {
	Hit         bool       `json:"hit"`
	ElementType string     `json:"elementType,omitempty"`
	HitType     string     `json:"hitType,omitempty"`
	Point       [2]float64 `json:"point,omitempty"`
	Distance    float64    `json:"distance,omitempty"`
	PhaseShift  float64    `json:"phaseShift,omitempty"`
	Blocked     bool       `json:"blocked"`
}

// handleTrace traces a single ray through a scene and reports the nearest
// interaction, for scene debugging from the viewer
func (s *Server) handleTrace(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	q := r.URL.Query()
	sceneName := q.Get("scene")
	if sceneName == "" {
		sceneName = "double-slit"
	}
	sceneObj, err := scene.NewSceneByName(sceneName)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	coords := [4]float64{}
	for i, key := range []string{"x1", "y1", "x2", "y2"} {
		coords[i], err = parseFloatParam(q, key, 0, -1e6, 1e6)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	result := sceneObj.TraceRay(coords[0], coords[1], coords[2], coords[3])
	resp := TraceResponse{}
	if result != nil {
		resp.Hit = true
		resp.ElementType = result.Element.Type().String()
		resp.HitType = result.Type.String()
		resp.Point = [2]float64{result.Point.X, result.Point.Y}
		resp.Distance = result.Distance
		resp.PhaseShift = result.PhaseShift
		resp.Blocked = result.Blocked
	}
	json.NewEncoder(w).Encode(resp)
}

// parseRenderRequest parses and validates render parameters
func (s *Server) parseRenderRequest(r *http.Request) (*RenderRequest, error) {
	req := &RenderRequest{}
	q := r.URL.Query()

	if name := q.Get("scene"); name != "" {
		req.Scene = name
	} else {
		req.Scene = "double-slit"
	}

	var err error
	if req.Width, err = parseIntParam(q, "width", 800, 100, 2000); err != nil {
		return nil, err
	}
	if req.Height, err = parseIntParam(q, "height", 600, 100, 2000); err != nil {
		return nil, err
	}
	if req.MaxSamples, err = parseIntParam(q, "maxSamples", 16, 1, 1024); err != nil {
		return nil, err
	}
	if req.MaxPasses, err = parseIntParam(q, "maxPasses", 4, 1, 100); err != nil {
		return nil, err
	}
	req.Falloff = q.Get("falloff") != "false"

	if req.Width*req.Height > 800*600 && req.MaxSamples > 64 {
		log.Printf("Render warning: Large image with high samples may render slowly")
	}

	return req, nil
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// parseFloatParam parses a float parameter from URL query with validation
func parseFloatParam(values url.Values, key string, defaultValue, min, max float64) (float64, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %f and %f, got: %f", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// imageToBase64PNG converts an image to base64-encoded PNG
func (s *Server) imageToBase64PNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// sendSSEUpdate sends a progress update via SSE
func (s *Server) sendSSEUpdate(w http.ResponseWriter, update ProgressUpdate) error {
	data, err := json.Marshal(update)
	if err != nil {
		return err
	}
	return s.sendSSEEvent(w, "pass", string(data))
}

// sendSSEError sends an error via SSE
func (s *Server) sendSSEError(w http.ResponseWriter, message string) error {
	return s.sendSSEEvent(w, "error", message)
}

// sendSSEEvent sends a generic SSE event
func (s *Server) sendSSEEvent(w http.ResponseWriter, event, data string) error {
	if flusher, ok := w.(http.Flusher); ok {
		fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
		flusher.Flush()
		return nil
	}
	return fmt.Errorf("streaming not supported")
}
