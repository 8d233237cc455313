package api

import (
	"encoding/json"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/rosterfmt/pkg/buildinfo"
	"github.com/matzehuels/rosterfmt/pkg/errors"
	"github.com/matzehuels/rosterfmt/pkg/order"
	"github.com/matzehuels/rosterfmt/pkg/pipeline"
	"github.com/matzehuels/rosterfmt/pkg/sheet"
)

// ContentTypeXLSX is the media type of workbook responses.
const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Response headers carrying run details alongside a workbook.
const (
	HeaderRunID        = "X-Run-Id"
	HeaderRecords      = "X-Record-Count"
	HeaderUnrecognized = "X-Unrecognized-Count"
	HeaderUnparsed     = "X-Unparsed-Count"
)

// APIError is the JSON body of an error response.
type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// Rank is one entry of a rank response.
type Rank struct {
	Label      string `json:"label"`
	Normalized string `json:"normalized"`
	Rank       int    `json:"rank"`
	Known      bool   `json:"known"`
}

// StatusFor maps an error to its HTTP status.
func StatusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeInputShape, errors.ErrCodeCapacityExceeded:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidConfig,
		errors.ErrCodeUnsupportedFormat, errors.ErrCodeSheetNotFound:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	info := buildinfo.Get()
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": info.Version,
		"commit":  info.Commit,
	})
}

func (s *Server) handleSort(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := pipeline.Options{
		Sheet:    q.Get("sheet"),
		Strategy: q.Get("strategy"),
		Config:   s.Config,
	}
	var err error
	if opts.RowsPerGroup, err = intParam(q.Get("rows")); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "rows must be an integer"))
		return
	}
	if opts.Flat, err = boolParam(q.Get("flat")); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "flat must be a boolean"))
		return
	}

	name, tbl, err := s.readUpload(w, r, opts.Sheet)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.Runner.SortTable(r.Context(), tbl, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	suffix := sheet.SuffixTiled
	if opts.Flat {
		suffix = sheet.SuffixFlat
	}
	w.Header().Set(HeaderRunID, result.RunID)
	w.Header().Set(HeaderRecords, strconv.Itoa(result.Stats.Records))
	w.Header().Set(HeaderUnrecognized, strconv.Itoa(result.Stats.Unrecognized))
	writeWorkbook(w, sheet.OutputName(name, suffix), result.Workbook)
}

func (s *Server) handleSplit(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := pipeline.Options{
		Sheet:  q.Get("sheet"),
		Config: s.Config,
	}
	var err error
	if opts.KeepUnparsed, err = boolParam(q.Get("keep_unparsed")); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "keep_unparsed must be a boolean"))
		return
	}

	name, tbl, err := s.readUpload(w, r, opts.Sheet)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.Runner.SplitTable(r.Context(), tbl, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set(HeaderRunID, result.RunID)
	w.Header().Set(HeaderRecords, strconv.Itoa(result.Stats.Records))
	w.Header().Set(HeaderUnparsed, strconv.Itoa(result.Stats.Unparsed))
	writeWorkbook(w, sheet.OutputName(name, sheet.SuffixSeparated), result.Workbook)
}

func (s *Server) handleRank(w http.ResponseWriter, r *http.Request) {
	labels := r.URL.Query()["label"]
	if len(labels) == 0 {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "at least one label parameter is required"))
		return
	}

	ranks := make([]Rank, len(labels))
	for i, l := range labels {
		rank, known := s.order.Resolve(l)
		ranks[i] = Rank{Label: l, Normalized: order.Normalize(l), Rank: rank, Known: known}
	}
	writeJSON(w, http.StatusOK, map[string]any{"ranks": ranks})
}

// readUpload decodes the multipart "file" field.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request, sheetName string) (string, *sheet.Table, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.MaxUploadBytes)
	file, hdr, err := r.FormFile("file")
	if err != nil {
		return "", nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "multipart field \"file\" is required")
	}
	defer file.Close()

	if err := errors.ValidateUploadFilename(hdr.Filename); err != nil {
		return "", nil, err
	}
	tbl, err := sheet.ReadFrom(file, hdr.Filename, sheet.ReadOptions{Sheet: sheetName})
	if err != nil {
		return "", nil, err
	}
	return hdr.Filename, tbl, nil
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	if status == http.StatusInternalServerError {
		s.Logger.Error("request failed", "path", r.URL.Path, "err", err)
	}
	writeJSON(w, status, APIError{
		Code:      string(code),
		Message:   errors.UserMessage(err),
		RequestID: middleware.GetReqID(r.Context()),
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeWorkbook(w http.ResponseWriter, filename string, data []byte) {
	w.Header().Set("Content-Type", ContentTypeXLSX)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func intParam(v string) (int, error) {
	if v = strings.TrimSpace(v); v == "" {
		return 0, nil
	}
	return strconv.Atoi(v)
}

func boolParam(v string) (bool, error) {
	if v = strings.TrimSpace(v); v == "" {
		return false, nil
	}
	return strconv.ParseBool(v)
}
