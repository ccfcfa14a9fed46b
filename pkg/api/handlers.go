package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/luxgrid/pxld/pkg/codec"
	"github.com/luxgrid/pxld/pkg/pxfile"
)

// maxFramePage caps how many frame metadata rows one listing request may ask
// for. Each row costs one header read against the file.
const maxFramePage = 1000

// Server holds the API server state
type Server struct {
	registry *FileRegistry
	config   ServerConfig
	metrics  *Metrics
}

// NewServer creates a new API server
func NewServer(registry *FileRegistry, config ServerConfig, metrics *Metrics) *Server {
	return &Server{
		registry: registry,
		config:   config,
		metrics:  metrics,
	}
}

// handleHealth reports liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	sendSuccess(w, map[string]string{"status": "healthy"})
}

// handleRegisterFile opens a capture file and registers it under a new handle.
func (s *Server) handleRegisterFile(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, "Invalid JSON request", http.StatusBadRequest)
		return
	}
	if req.Path == "" {
		sendError(w, "path is required", http.StatusBadRequest)
		return
	}

	id, reader, err := s.registry.Open(req.Path, req.SkipVerify)
	if err != nil {
		if s.metrics != nil {
			s.metrics.RecordFrameDecode(err)
		}
		if os.IsNotExist(err) {
			sendError(w, fmt.Sprintf("File not found: %s", req.Path), http.StatusNotFound)
			return
		}
		sendError(w, fmt.Sprintf("Failed to open file: %v", err), http.StatusBadRequest)
		return
	}

	if s.metrics != nil {
		s.metrics.SetFilesOpen(s.registry.Len())
	}
	sendSuccess(w, FileSummary{ID: id, Info: reader.Info()})
}

// handleListFiles lists every registered file.
func (s *Server) handleListFiles(w http.ResponseWriter, r *http.Request) {
	sendSuccess(w, map[string]interface{}{"files": s.registry.List()})
}

// handleGetFile returns one registered file's summary.
func (s *Server) handleGetFile(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	reader, ok := s.registry.Get(id)
	if !ok {
		sendError(w, "File not registered", http.StatusNotFound)
		return
	}
	sendSuccess(w, FileSummary{ID: id, Info: reader.Info()})
}

// handleCloseFile closes and unregisters a file.
func (s *Server) handleCloseFile(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.registry.Close(id); err != nil {
		sendError(w, "File not registered", http.StatusNotFound)
		return
	}
	if s.metrics != nil {
		s.metrics.SetFilesOpen(s.registry.Len())
	}
	sendSuccess(w, map[string]string{"message": "File closed"})
}

// handleListFrames returns a page of frame metadata rows.
func (s *Server) handleListFrames(w http.ResponseWriter, r *http.Request) {
	reader, ok := s.registry.Get(chi.URLParam(r, "id"))
	if !ok {
		sendError(w, "File not registered", http.StatusNotFound)
		return
	}

	from, err := parseFrameQuery(r.URL.Query().Get("from"), 0)
	if err != nil {
		sendError(w, "Invalid from parameter", http.StatusBadRequest)
		return
	}
	to, err := parseFrameQuery(r.URL.Query().Get("to"), reader.FrameCount())
	if err != nil {
		sendError(w, "Invalid to parameter", http.StatusBadRequest)
		return
	}
	if from > to || to > reader.FrameCount() {
		sendError(w, fmt.Sprintf("Frame range [%d,%d) outside [0,%d)", from, to, reader.FrameCount()),
			http.StatusBadRequest)
		return
	}
	if to-from > maxFramePage {
		sendError(w, fmt.Sprintf("Range of %d frames exceeds page limit of %d", to-from, maxFramePage),
			http.StatusBadRequest)
		return
	}

	rows := make([]FrameMeta, 0, to-from)
	for id := from; id < to; id++ {
		fh, err := reader.ReadFrameHeader(id)
		if err != nil {
			if s.metrics != nil {
				s.metrics.RecordFrameDecode(err)
			}
			sendError(w, fmt.Sprintf("Failed to read frame %d: %v", id, err), statusForError(err))
			return
		}
		rows = append(rows, frameMeta(reader, fh))
	}

	sendSuccess(w, map[string]interface{}{
		"frames": rows,
		"total":  reader.FrameCount(),
	})
}

// handleGetFrame returns one frame's metadata and slave table.
func (s *Server) handleGetFrame(w http.ResponseWriter, r *http.Request) {
	reader, ok := s.registry.Get(chi.URLParam(r, "id"))
	if !ok {
		sendError(w, "File not registered", http.StatusNotFound)
		return
	}
	frameID, err := parseFrameParam(chi.URLParam(r, "n"))
	if err != nil {
		sendError(w, "Invalid frame number", http.StatusBadRequest)
		return
	}

	frame, err := reader.ReadFrame(frameID)
	if s.metrics != nil {
		s.metrics.RecordFrameDecode(err)
	}
	if err != nil {
		sendError(w, fmt.Sprintf("Failed to read frame %d: %v", frameID, err), statusForError(err))
		return
	}

	detail := FrameDetail{
		FrameMeta:  frameMeta(reader, frame.Header),
		SlaveTable: make([]SlaveInfo, 0, len(frame.Slaves)),
	}
	for _, e := range frame.Slaves {
		detail.SlaveTable = append(detail.SlaveTable, slaveInfoFromEntry(e))
	}
	sendSuccess(w, detail)
}

// handleGetSlaveData streams one slave's canonical pixel bytes from one frame.
func (s *Server) handleGetSlaveData(w http.ResponseWriter, r *http.Request) {
	reader, ok := s.registry.Get(chi.URLParam(r, "id"))
	if !ok {
		sendError(w, "File not registered", http.StatusNotFound)
		return
	}
	frameID, err := parseFrameParam(chi.URLParam(r, "n"))
	if err != nil {
		sendError(w, "Invalid frame number", http.StatusBadRequest)
		return
	}
	slaveID, err := strconv.ParseUint(chi.URLParam(r, "sid"), 10, 8)
	if err != nil {
		sendError(w, "Invalid slave id", http.StatusBadRequest)
		return
	}

	data, err := reader.ReadSlaveData(frameID, uint8(slaveID))
	if s.metrics != nil {
		s.metrics.RecordFrameDecode(err)
	}
	if err != nil {
		sendError(w, fmt.Sprintf("Failed to read slave %d of frame %d: %v", slaveID, frameID, err),
			statusForError(err))
		return
	}

	if s.metrics != nil {
		s.metrics.RecordSlaveRead(len(data))
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	if _, err := w.Write(data); err != nil {
		return
	}
}

func frameMeta(reader *pxfile.Reader, fh codec.FrameHeader) FrameMeta {
	return FrameMeta{
		FrameID:     fh.FrameID,
		TimestampMS: reader.Timestamp(fh.FrameID).Milliseconds(),
		Flags:       fh.Flags,
		Slaves:      int(reader.Header().TotalSlaves),
		PixelBytes:  fh.PixelDataSize,
	}
}

// parseFrameParam parses a path segment as a frame ordinal.
func parseFrameParam(s string) (uint32, error) {
	n, err := strconv.ParseUint(s, 10, 32)
	return uint32(n), err
}

// parseFrameQuery parses an optional query parameter, using fallback when the
// parameter is absent.
func parseFrameQuery(s string, fallback uint32) (uint32, error) {
	if s == "" {
		return fallback, nil
	}
	return parseFrameParam(s)
}

// statusForError maps decode failures to HTTP statuses: requests past the end
// of the file or for absent slaves are the client's mistake, anything else is
// the file's.
func statusForError(err error) int {
	var ferr *codec.FormatError
	if errors.As(err, &ferr) {
		switch ferr.Kind {
		case codec.KindOutOfRange, codec.KindUnknownSlave:
			return http.StatusNotFound
		}
	}
	return http.StatusInternalServerError
}
