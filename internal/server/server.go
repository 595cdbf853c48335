package server

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/iwvelando/baf-stacker/internal/config"
	"github.com/iwvelando/baf-stacker/internal/ingest"
	"github.com/iwvelando/baf-stacker/internal/stacker"
	"github.com/iwvelando/baf-stacker/pkg/constants"
	"github.com/iwvelando/baf-stacker/pkg/output"
	"go.uber.org/zap"
)

//go:embed static/*
var staticFiles embed.FS

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type handler struct {
	logger        *zap.Logger
	maxUploadSize int64
	version       string
	stacking      config.StackingConfig
	packer        *stacker.Packer
}

// NewHandler constructs the HTTP handler that serves the web UI and stacking API.
func NewHandler(logger *zap.Logger, maxUploadSize int64, version string, stacking config.StackingConfig) (http.Handler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if maxUploadSize <= 0 {
		maxUploadSize = constants.DefaultMaxUploadSizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	stacking.ApplyDefaults()
	packer, err := stacking.NewPacker(logger)
	if err != nil {
		return nil, err
	}

	h := &handler{
		logger:        logger,
		maxUploadSize: maxUploadSize,
		version:       trimmedVersion,
		stacking:      stacking,
		packer:        packer,
	}

	mux := http.NewServeMux()

	// Stacking API endpoint (file upload)
	mux.HandleFunc("/api/stack", h.handleStack)

	// Stacking API endpoint for JSON coil lists
	mux.HandleFunc("/api/stack/json", h.handleStackJSON)

	// Version endpoint for UI metadata
	mux.HandleFunc("/api/version", h.handleVersion)

	// Static assets (web UI)
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		return nil, fmt.Errorf("failed to prepare embedded static files: %w", err)
	}
	mux.Handle("/", http.FileServer(http.FS(sub)))

	return mux, nil
}

type stackResponse struct {
	Stacks   []stacker.Stack     `json:"stacks"`
	Waiting  []stacker.Coil      `json:"waiting"`
	Summary  stacker.Summary     `json:"summary"`
	Limits   stacker.Limits      `json:"limits"`
	Dropped  []ingest.DroppedRow `json:"dropped,omitempty"`
	Warnings []string            `json:"warnings,omitempty"`
	CSV      string              `json:"csv"`
	Duration string              `json:"duration"`
}

type stackRequest struct {
	Coils        []coilPayload        `json:"coils"`
	Limits       *stacker.Limits      `json:"limits,omitempty"`
	GradeAliases *[]config.GradeAlias `json:"gradeAliases,omitempty"`
}

type coilPayload struct {
	Width  float64 `json:"width"`
	Weight float64 `json:"weight"`
	Grade  string  `json:"grade"`
}

func (h *handler) handleStack(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleStack"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	if h.maxUploadSize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	}
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("upload exceeds limit of %d bytes", h.maxUploadSize), op)
			return
		}
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to parse upload: %v", err), op)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, "missing coil file", op)
		return
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			h.logger.Warn("failed to close uploaded file",
				zap.String("op", op),
				zap.Error(closeErr),
			)
		}
	}()

	batch, err := ingest.Read(file, header.Filename)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}
	if len(batch.Dropped) > 0 {
		h.logger.Info("dropped unusable rows",
			zap.String("op", op),
			zap.String("file", header.Filename),
			zap.Int("dropped", len(batch.Dropped)),
		)
	}

	result, err := h.packer.Pack(batch.Coils)
	if err != nil {
		h.respondErrorWithOp(w, statusFor(err), err.Error(), op)
		return
	}

	if strings.EqualFold(r.URL.Query().Get("format"), constants.OutputFormatXLSX) {
		h.writeWorkbook(w, result, header.Filename, op)
		return
	}

	h.respond(w, result, h.packer.Limits(), batch.Dropped, h.stacking.Warnings(), start, op)
}

func (h *handler) handleStackJSON(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleStackJSON"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)

	var payload stackRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request exceeds limit of %d bytes", h.maxUploadSize), op)
			return
		}
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode request: %v", err), op)
		return
	}

	stacking := h.overrideStacking(payload)
	packer := h.packer
	if payload.Limits != nil || payload.GradeAliases != nil {
		var err error
		packer, err = stacking.NewPacker(h.logger)
		if err != nil {
			h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
			return
		}
	}

	coils := make([]stacker.Coil, 0, len(payload.Coils))
	for _, c := range payload.Coils {
		coils = append(coils, stacker.Coil{Width: c.Width, Weight: c.Weight, Grade: c.Grade})
	}

	result, err := packer.Pack(coils)
	if err != nil {
		h.respondErrorWithOp(w, statusFor(err), err.Error(), op)
		return
	}

	h.respond(w, result, packer.Limits(), nil, stacking.Warnings(), start, op)
}

// overrideStacking merges request-level settings over the server defaults.
// Zero limit fields keep the server value.
func (h *handler) overrideStacking(payload stackRequest) config.StackingConfig {
	stacking := h.stacking
	if l := payload.Limits; l != nil {
		if l.MaxStackHeight != 0 {
			stacking.MaxStackHeight = l.MaxStackHeight
		}
		if l.MaxStackWeight != 0 {
			stacking.MaxStackWeight = l.MaxStackWeight
		}
		if l.MinCoils != 0 {
			stacking.MinCoils = l.MinCoils
		}
		if l.MaxCoils != 0 {
			stacking.MaxCoils = l.MaxCoils
		}
		if l.TallStackThreshold != 0 {
			stacking.TallStackThreshold = l.TallStackThreshold
		}
	}
	if payload.GradeAliases != nil {
		stacking.GradeAliases = append([]config.GradeAlias{}, (*payload.GradeAliases)...)
	}
	return stacking
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) respond(w http.ResponseWriter, result stacker.Result, limits stacker.Limits, dropped []ingest.DroppedRow, warnings []string, start time.Time, op string) {
	var csvBuf bytes.Buffer
	if err := output.CsvFormat(&csvBuf, result); err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to render CSV: %v", err), op)
		return
	}

	elapsed := time.Since(start)
	response := stackResponse{
		Stacks:   result.Stacks,
		Waiting:  result.Waiting,
		Summary:  result.Summary,
		Limits:   limits,
		Dropped:  dropped,
		Warnings: warnings,
		CSV:      csvBuf.String(),
		Duration: elapsed.String(),
	}

	h.logger.Info("stacks computed",
		zap.String("op", op),
		zap.Int("coils", result.Summary.TotalCoils),
		zap.Int("stacks", result.Summary.StackCount),
		zap.Int("waiting", result.Summary.WaitingCoils),
		zap.Duration("duration", elapsed),
	)

	h.writeJSON(w, http.StatusOK, response)
}

func (h *handler) writeWorkbook(w http.ResponseWriter, result stacker.Result, filename, op string) {
	var buf bytes.Buffer
	if err := output.WriteWorkbook(&buf, result); err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to build workbook: %v", err), op)
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", stackedFilename(filename)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.logger.Error("failed to write workbook response",
			zap.String("op", op),
			zap.Error(err),
		)
	}
}

func stackedFilename(upload string) string {
	base := upload
	if idx := strings.LastIndexAny(base, `/\`); idx >= 0 {
		base = base[idx+1:]
	}
	if idx := strings.LastIndex(base, "."); idx > 0 {
		base = base[:idx]
	}
	if base == "" {
		base = "coils"
	}
	return base + "-stacks.xlsx"
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, stacker.ErrInvalidInput),
		errors.Is(err, stacker.ErrInvalidLimits),
		errors.Is(err, config.ErrInvalidConfig):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, msg string, op string) {
	h.logger.Error("stacking request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}
