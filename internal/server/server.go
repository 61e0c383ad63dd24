package server

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/iwvelando/sip-calculator/internal/config"
	"github.com/iwvelando/sip-calculator/internal/goal"
	"github.com/iwvelando/sip-calculator/internal/projection"
	"github.com/iwvelando/sip-calculator/internal/report"
	"github.com/iwvelando/sip-calculator/pkg/constants"
	"github.com/iwvelando/sip-calculator/pkg/mathutil"
	"github.com/iwvelando/sip-calculator/pkg/sip"
	"go.uber.org/zap"
)

//go:embed static/*
var staticFiles embed.FS

type handler struct {
	logger        *zap.Logger
	calc          *sip.Calculator
	maxUploadSize int64
	strict        bool
	version       string
}

// NewHandler constructs the HTTP handler that serves the dashboard and calculation API.
// A nil cfg uses DefaultConfig.
func NewHandler(logger *zap.Logger, cfg *Config, version string) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}

	maxUploadSize := cfg.UploadSizeBytes()
	if maxUploadSize <= 0 {
		maxUploadSize = constants.DefaultMaxUploadSizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{
		logger:        logger,
		calc:          sip.NewCalculator(logger, cfg.Policy()),
		maxUploadSize: maxUploadSize,
		strict:        cfg.Strict,
		version:       trimmedVersion,
	}

	r := mux.NewRouter()

	// Live dashboard recalculation
	r.HandleFunc("/api/calculate", h.handleCalculateQuery).Methods(http.MethodGet)

	// Gated dashboard recalculation
	r.HandleFunc("/api/calculate", h.handleCalculateBody).Methods(http.MethodPost)

	// Scenario file upload
	r.HandleFunc("/api/scenarios", h.handleScenarios).Methods(http.MethodPost)

	r.HandleFunc("/api/version", h.handleVersion).Methods(http.MethodGet)
	r.HandleFunc("/healthz", h.handleHealth).Methods(http.MethodGet)

	// Static assets (dashboard)
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(fmt.Sprintf("failed to prepare embedded static files: %v", err))
	}
	r.PathPrefix("/").Handler(http.FileServer(http.FS(sub))).Methods(http.MethodGet, http.MethodHead)

	return r
}

type calculateRequest struct {
	SIPAmount       float64 `json:"sipAmount"`
	AnnualIncrement float64 `json:"annualIncrement"`
	Tenure          int     `json:"tenure"`
	RateOfReturn    float64 `json:"rateOfReturn"`
	Series          bool    `json:"series"`
}

type calculateResponse struct {
	Inputs      sip.Inputs          `json:"inputs"`
	Summary     sip.Summary         `json:"summary"`
	Lines       []report.Line       `json:"lines"`
	Composition sip.Composition     `json:"composition"`
	Series      []sip.MonthSnapshot `json:"series,omitempty"`
	Duration    string              `json:"duration"`
}

type scenariosResponse struct {
	Scenarios []projection.Projection `json:"scenarios"`
	TaxLabel  string                  `json:"taxLabel"`
	CSV       string                  `json:"csv"`
	Warnings  []string                `json:"warnings,omitempty"`
	Duration  string                  `json:"duration"`
}

func (h *handler) handleCalculateQuery(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleCalculateQuery"
	start := time.Now()

	query := r.URL.Query()
	var (
		req  calculateRequest
		errs []string
	)
	req.SIPAmount = parseFloatParam(query.Get("sipAmount"), "sipAmount", &errs)
	req.AnnualIncrement = parseFloatParam(query.Get("annualIncrement"), "annualIncrement", &errs)
	req.RateOfReturn = parseFloatParam(query.Get("rateOfReturn"), "rateOfReturn", &errs)
	if raw := strings.TrimSpace(query.Get("tenure")); raw == "" {
		errs = append(errs, "tenure is required")
	} else if tenure, err := strconv.Atoi(raw); err != nil {
		errs = append(errs, fmt.Sprintf("tenure must be a whole number of years, got %q", raw))
	} else {
		req.Tenure = tenure
	}
	if len(errs) > 0 {
		h.respondErrorWithOp(w, http.StatusBadRequest, strings.Join(errs, "; "), op)
		return
	}
	req.Series = coerceBool(query.Get("series"))

	h.calculate(w, req, start, op)
}

func (h *handler) handleCalculateBody(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleCalculateBody"
	start := time.Now()

	var req calculateRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, h.maxUploadSize))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode inputs: %v", err), op)
		return
	}

	h.calculate(w, req, start, op)
}

func (h *handler) calculate(w http.ResponseWriter, req calculateRequest, start time.Time, op string) {
	in := sip.Inputs{
		SIPAmount:       req.SIPAmount,
		AnnualIncrement: req.AnnualIncrement,
		Tenure:          req.Tenure,
		RateOfReturn:    req.RateOfReturn,
	}

	if !mathutil.IsFinite(in.SIPAmount) || !mathutil.IsFinite(in.AnnualIncrement) || !mathutil.IsFinite(in.RateOfReturn) {
		h.respondErrorWithOp(w, http.StatusBadRequest, "inputs must be finite numbers", op)
		return
	}
	if err := sip.CheckLimits(in); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}
	if h.strict {
		if err := sip.Validate(in); err != nil {
			h.respondErrorWithOp(w, http.StatusUnprocessableEntity, err.Error(), op)
			return
		}
	}

	result := h.calc.Compute(in, req.Series)
	elapsed := time.Since(start)

	h.logger.Debug("calculation served",
		zap.String("op", op),
		zap.Int("months", in.Months()),
		zap.Bool("series", req.Series),
		zap.Duration("duration", elapsed),
	)

	h.writeJSON(w, http.StatusOK, calculateResponse{
		Inputs:      in,
		Summary:     result.Summary,
		Lines:       report.Lines(result.Summary, result.Policy),
		Composition: result.Summary.Composition(),
		Series:      result.Series,
		Duration:    elapsed.String(),
	})
}

func (h *handler) handleScenarios(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleScenarios"
	start := time.Now()

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
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
		h.respondErrorWithOp(w, http.StatusBadRequest, "missing scenario file", op)
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

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, file); err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to read scenario file: %v", err), op)
		return
	}

	cfg, err := config.LoadConfigurationFromReaderWithType(&buf, uploadType(header.Filename))
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}
	cfg.Strict = cfg.Strict || h.strict
	withSeries := coerceBool(r.FormValue("series"))

	warnings := cfg.ValidateConfiguration()

	runner, err := goal.NewRunner(h.logger, cfg)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to initialize goal runner: %v", err), op)
		return
	}
	goals, err := runner.Run()
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("goal evaluation failed: %v", err), op)
		return
	}

	results, err := projection.GetProjections(h.logger, *cfg, withSeries)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, sip.ErrLimitExceeded):
			status = http.StatusBadRequest
		case errors.Is(err, sip.ErrInvalidInput):
			status = http.StatusUnprocessableEntity
		}
		h.respondErrorWithOp(w, status, err.Error(), op)
		return
	}
	goals.Apply(results)

	var csvBuf bytes.Buffer
	report.CsvFormat(&csvBuf, results, cfg.Policy(), false)

	elapsed := time.Since(start)
	h.logger.Info("scenarios computed",
		zap.String("op", op),
		zap.Int("scenarios", len(results)),
		zap.Int("goals", len(goals.Summaries)),
		zap.Int("warnings", len(warnings)),
		zap.Duration("duration", elapsed),
	)

	if results == nil {
		results = []projection.Projection{}
	}
	h.writeJSON(w, http.StatusOK, scenariosResponse{
		Scenarios: results,
		TaxLabel:  report.TaxLabel(cfg.Policy()),
		CSV:       csvBuf.String(),
		Warnings:  warnings,
		Duration:  elapsed.String(),
	})
}

func (h *handler) handleVersion(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, msg string, op string) {
	h.logger.Error("request failed",
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

func parseFloatParam(raw, name string, errs *[]string) float64 {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		*errs = append(*errs, fmt.Sprintf("%s is required", name))
		return 0
	}
	value, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		*errs = append(*errs, fmt.Sprintf("%s must be a number, got %q", name, raw))
		return 0
	}
	return value
}

func uploadType(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".toml":
		return "toml"
	case ".json":
		return "json"
	default:
		return "yaml"
	}
}

func coerceBool(value string) bool {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return false
	}
	parsed, err := strconv.ParseBool(trimmed)
	return err == nil && parsed
}
