package aging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"APAgingSuite/api"
	"APAgingSuite/api/constants"
	"APAgingSuite/internal/audit"
	"APAgingSuite/internal/checksum"
	"APAgingSuite/internal/export"
	"APAgingSuite/internal/ledger"
	"APAgingSuite/internal/logger"
	"APAgingSuite/internal/pipeline"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
)

// Handler serves the aging endpoints. Every request runs its own pipeline.
type Handler struct {
	DefaultRate     decimal.Decimal
	DefaultCurrency string
	MaxUploadBytes  int64
	Recorder        audit.Recorder
	Now             func() time.Time
}

// NewRouter registers the aging routes on a gorilla/mux router.
func NewRouter(h *Handler) *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/aging/analyze", h.Analyze).Methods(http.MethodPost)
	router.HandleFunc("/aging/download", h.Download).Methods(http.MethodPost)
	router.HandleFunc("/aging/health", h.Health).Methods(http.MethodGet)
	router.Use(api.RequestLogger)

	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		api.RespondWithError(w, http.StatusMethodNotAllowed, constants.ErrMethodNotAllowed)
	})
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		api.RespondWithError(w, http.StatusNotFound, constants.ErrRouteNotFound)
	})
	return router
}

// Analyze handles POST /aging/analyze: pivots and summaries as JSON.
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	rep, ok := h.run(w, r)
	if !ok {
		return
	}
	api.RespondWithPayload(w, analysisPayload(rep))
}

// Download handles POST /aging/download: the three-sheet workbook.
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	rep, ok := h.run(w, r)
	if !ok {
		return
	}
	w.Header().Set(constants.HeaderRunID, rep.RunID)
	api.RespondWithFile(w, rep.FileName, constants.ContentTypeXLSX, rep.Workbook)
}

// Health handles GET /aging/health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	api.RespondWithPayload(w, map[string]interface{}{
		"service":  "aging",
		"status":   "ok",
		"currency": h.DefaultCurrency,
		"eur_rate": number(h.DefaultRate),
	})
}

type uploadError struct {
	status int
	msg    string
}

func (h *Handler) readUpload(w http.ResponseWriter, r *http.Request) (string, []byte, pipeline.Options, *uploadError) {
	var opts pipeline.Options
	r.Body = http.MaxBytesReader(w, r.Body, h.MaxUploadBytes)
	if err := r.ParseMultipartForm(h.MaxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return "", nil, opts, &uploadError{http.StatusRequestEntityTooLarge, constants.FormatUploadTooLarge(int(h.MaxUploadBytes >> 20))}
		}
		return "", nil, opts, &uploadError{http.StatusBadRequest, constants.ErrInvalidForm}
	}

	file, header, err := r.FormFile(constants.FormFile)
	if err != nil {
		return "", nil, opts, &uploadError{http.StatusBadRequest, constants.ErrMissingFile}
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		return "", nil, opts, &uploadError{http.StatusBadRequest, fmt.Sprintf(constants.ErrReadFile, err)}
	}

	opts.EURRate = h.DefaultRate
	if raw := strings.TrimSpace(r.FormValue(constants.FormEURRate)); raw != "" {
		rate, err := decimal.NewFromString(raw)
		if err != nil {
			return "", nil, opts, &uploadError{http.StatusBadRequest, constants.ErrInvalidRate}
		}
		opts.EURRate = rate
	}
	if !opts.EURRate.IsPositive() {
		return "", nil, opts, &uploadError{http.StatusBadRequest, constants.ErrInvalidRate}
	}
	opts.Currency = strings.ToUpper(strings.TrimSpace(r.FormValue(constants.FormCurrency)))
	if opts.Currency == "" {
		opts.Currency = h.DefaultCurrency
	}
	opts.Source = header.Filename
	opts.Now = h.Now
	return header.Filename, data, opts, nil
}

// run executes one upload and writes the error response itself when it fails.
func (h *Handler) run(w http.ResponseWriter, r *http.Request) (*pipeline.Report, bool) {
	reqID := r.Header.Get(constants.HeaderRequestID)
	if reqID == "" {
		reqID = uuid.NewString()
	}
	reqLog := logger.L().With().Str("request_id", reqID).Logger()
	ctx := logger.WithContext(r.Context(), reqLog)

	name, data, opts, uerr := h.readUpload(w, r)
	if uerr != nil {
		api.RespondWithError(w, uerr.status, uerr.msg)
		return nil, false
	}

	start := time.Now()
	rep, err := pipeline.RunFile(ctx, name, data, opts)
	if err != nil {
		status, msg := errorResponse(err)
		h.record(ctx, audit.Entry{
			RunID:     uuid.NewString(),
			Source:    name,
			SourceSHA: checksum.Sum(data),
			Duration:  time.Since(start),
			Failed:    true,
			Error:     msg,
		})
		api.RespondWithError(w, status, msg)
		return nil, false
	}
	h.record(ctx, audit.Entry{
		RunID:      rep.RunID,
		Source:     rep.Source,
		SourceSHA:  rep.SourceSHA,
		Rows:       rep.Records,
		ReportDate: rep.ReportDate,
		APRows:     len(rep.Pivots.AP.Rows),
		DPRows:     len(rep.Pivots.DP.Rows),
		DebitRows:  len(rep.Pivots.Debit.Rows),
		Duration:   rep.Duration,
	})
	return rep, true
}

func (h *Handler) record(ctx context.Context, e audit.Entry) {
	if h.Recorder == nil {
		return
	}
	if err := h.Recorder.Record(ctx, e); err != nil {
		l := logger.FromContext(ctx)
		l.Warn().Err(err).Str("run_id", e.RunID).Msg("run audit not recorded")
	}
}

// errorResponse maps pipeline failures to a status and a user facing message.
func errorResponse(err error) (int, string) {
	var schemaErr *ledger.SchemaError
	switch {
	case errors.Is(err, pipeline.ErrInvalidRate):
		return http.StatusBadRequest, constants.ErrInvalidRate
	case errors.As(err, &schemaErr):
		return http.StatusBadRequest, fmt.Sprintf(constants.ErrMissingColumns, strings.Join(schemaErr.Missing, ", "))
	case errors.Is(err, ledger.ErrUnsupportedFormat):
		return http.StatusBadRequest, constants.ErrUnsupportedFile
	case errors.Is(err, ledger.ErrEmptyFile):
		return http.StatusBadRequest, constants.ErrEmptyFile
	case errors.Is(err, pipeline.ErrLoad):
		return http.StatusBadRequest, fmt.Sprintf(constants.ErrReadFile, strings.TrimPrefix(err.Error(), pipeline.ErrLoad.Error()+": "))
	case errors.Is(err, export.ErrSerialization):
		return http.StatusInternalServerError, constants.ErrExportFailed
	default:
		return http.StatusInternalServerError, constants.ErrInternal
	}
}
