package web

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/JonMunkholm/CrawlClean/internal/core"
	"github.com/JonMunkholm/CrawlClean/internal/logging"
	"github.com/JonMunkholm/CrawlClean/internal/sheet"
	"github.com/JonMunkholm/CrawlClean/internal/web/templates"
	"github.com/go-chi/chi/v5"
)

// Export formats accepted by the clean endpoints.
const (
	formatJSON    = "json"
	formatPreview = "preview"
	formatXLSX    = "xlsx"
	formatCSV     = "csv"
)

// Banner texts shown on the upload page.
const (
	msgCleaned = "Data cleaned successfully."
	msgNoData  = "Cleaning returned no data. Please check the file format or contents."
)

// multipartMemory is how much of an upload is buffered in memory before
// spilling to temporary files.
const multipartMemory = 32 << 20

// upload is a parsed multipart request.
type upload struct {
	retailer core.Retailer
	fileName string
	table    core.RawTable
}

// RetailerResponse describes one supported retailer.
type RetailerResponse struct {
	Retailer  core.Retailer `json:"retailer"`
	Label     string        `json:"label"`
	Domain    string        `json:"domain"`
	HeaderRow int           `json:"header_row"`
	URLColumn string        `json:"url_column"`
	Columns   []string      `json:"columns"`
	FileName  string        `json:"export_file_name"`
}

// CleanResponse is the JSON body of a successful clean run.
type CleanResponse struct {
	RunID      string           `json:"run_id"`
	Retailer   core.Retailer    `json:"retailer"`
	FileName   string           `json:"file_name"`
	Columns    []string         `json:"columns"`
	Rows       [][]any          `json:"rows"`
	TotalRows  int              `json:"total_rows"`
	InputRows  int              `json:"input_rows"`
	Dropped    int              `json:"dropped"`
	DurationMS int64            `json:"duration_ms"`
	Validation *core.Validation `json:"validation,omitempty"`
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, r, http.StatusOK, templates.PageData{})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.service.RunLimiterStatus())
}

func (s *Server) handleListRetailers(w http.ResponseWriter, r *http.Request) {
	infos := s.service.ListRetailers()
	out := make([]RetailerResponse, len(infos))
	for i, info := range infos {
		out[i] = RetailerResponse{
			Retailer:  info.Retailer,
			Label:     info.Label,
			Domain:    info.Retailer.Domain(),
			HeaderRow: info.HeaderRow,
			URLColumn: info.URLColumn,
			Columns:   info.Columns,
			FileName:  core.ExportFileName(info.Retailer),
		}
	}
	writeJSON(w, out)
}

// handleValidate reports whether an uploaded file matches the retailer in
// the path. A mismatch is a normal answer here, not an error.
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	up, err := s.readUpload(w, r, chi.URLParam(r, "retailer"))
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	v := s.service.Validate(up.table, up.retailer)
	logging.FromContext(r.Context()).Info("validated upload",
		"retailer", up.retailer,
		"file", up.fileName,
		"accepted", v.Accepted,
		"detected", v.Detected,
	)
	writeJSON(w, v)
}

// handleClean cleans an uploaded file and returns JSON or a download,
// selected by the format query parameter.
func (s *Server) handleClean(w http.ResponseWriter, r *http.Request) {
	format := strings.ToLower(r.URL.Query().Get("format"))
	if format == "" {
		format = formatJSON
	}
	if format != formatJSON && format != formatXLSX && format != formatCSV {
		err := fmt.Errorf("%w: export format %q", core.ErrUnsupportedFile, format)
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	result, err := s.clean(w, r, chi.URLParam(r, "retailer"), r.URL.Query().Get("skip_validation") == "true")
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	if format == formatJSON {
		writeJSON(w, CleanResponse{
			RunID:      result.RunID,
			Retailer:   result.Retailer,
			FileName:   result.FileName,
			Columns:    result.Table.Header(),
			Rows:       result.Table.Records(s.service.PreviewRows()),
			TotalRows:  len(result.Table.Rows),
			InputRows:  result.InputRows,
			Dropped:    result.Dropped,
			DurationMS: result.Duration.Milliseconds(),
			Validation: result.Validation,
		})
		return
	}

	s.sendExport(w, r, result, format)
}

// handleCleanForm serves the upload page form: a banner plus a preview, or a
// file download when an export format was chosen.
func (s *Server) handleCleanForm(w http.ResponseWriter, r *http.Request) {
	result, err := s.clean(w, r, "", false)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	data := templates.PageData{Selected: string(result.Retailer)}
	if result.Table.Empty() {
		data.Banner = &templates.Banner{Kind: templates.BannerWarning, Message: msgNoData}
		s.renderPage(w, r, http.StatusOK, data)
		return
	}

	switch format := r.FormValue("format"); format {
	case formatXLSX, formatCSV:
		s.sendExport(w, r, result, format)
		return
	}

	data.Banner = &templates.Banner{Kind: templates.BannerSuccess, Message: msgCleaned}
	data.Preview = previewOf(result, s.service.PreviewRows())
	s.renderPage(w, r, http.StatusOK, data)
}

// clean reads the upload and runs it through the service.
func (s *Server) clean(w http.ResponseWriter, r *http.Request, retailer string, skipValidation bool) (core.CleanResult, error) {
	up, err := s.readUpload(w, r, retailer)
	if err != nil {
		return core.CleanResult{}, err
	}

	return s.service.Clean(WithRequestMetadata(r.Context(), r), core.CleanRequest{
		Retailer:       up.retailer,
		FileName:       up.fileName,
		Table:          up.table,
		SkipValidation: skipValidation,
	})
}

// readUpload parses the multipart "file" part with the retailer's header row.
// An empty retailer is taken from the "retailer" form field.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request, retailer string) (upload, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Upload.MaxFileSize)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			return upload{}, fmt.Errorf("file too large: %w", err)
		}
		return upload{}, fmt.Errorf("%w: %v", errNoFile, err)
	}

	if retailer == "" {
		retailer = r.FormValue("retailer")
	}
	rt, err := core.ParseRetailer(retailer)
	if err != nil {
		return upload{}, err
	}
	headerRow, err := s.service.HeaderRow(rt)
	if err != nil {
		return upload{}, err
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return upload{}, errNoFile
	}
	defer file.Close()

	if header.Size == 0 {
		return upload{}, core.ErrEmptyFile
	}
	if !sheet.Supported(header.Filename) {
		return upload{}, fmt.Errorf("%w: %q", core.ErrUnsupportedFile, header.Filename)
	}

	table, err := sheet.ReadFile(header.Filename, file, headerRow)
	if err != nil {
		return upload{}, fmt.Errorf("read %s: %w", header.Filename, err)
	}

	return upload{retailer: rt, fileName: header.Filename, table: table}, nil
}

// sendExport streams the cleaned table as an attachment. The file is
// rendered into memory first so a failure can still be reported.
func (s *Server) sendExport(w http.ResponseWriter, r *http.Request, result core.CleanResult, format string) {
	var (
		buf         bytes.Buffer
		err         error
		contentType string
		fileName    = core.ExportFileName(result.Retailer)
	)

	switch format {
	case formatCSV:
		err = sheet.WriteCSV(&buf, result.Table)
		contentType = sheet.ContentTypeCSV
		fileName = strings.TrimSuffix(fileName, sheet.ExtXLSX) + sheet.ExtCSV
	default:
		err = sheet.WriteXLSX(&buf, result.Table)
		contentType = sheet.ContentTypeXLSX
	}
	if err != nil {
		s.respondError(w, r, fmt.Errorf("export %s: %w", format, err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, fileName))
	w.Header().Set("X-Run-ID", result.RunID)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("export write failed", "run_id", result.RunID, "error", err)
	}
}

// renderPage renders the upload page with the retailer list filled in.
func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, status int, data templates.PageData) {
	infos := s.service.ListRetailers()
	data.Retailers = make([]templates.RetailerOption, len(infos))
	for i, info := range infos {
		data.Retailers[i] = templates.RetailerOption{Value: string(info.Retailer), Label: info.Label}
	}
	if rt, err := core.ParseRetailer(data.Selected); err == nil {
		data.Selected = string(rt)
	}
	data.MaxSizeMB = s.cfg.Upload.MaxFileSize >> 20

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := templates.Page(data).Render(r.Context(), w); err != nil {
		slog.Error("render page", "error", err)
	}
}

// previewOf formats the first rows of a result for the page.
func previewOf(result core.CleanResult, limit int) *templates.Preview {
	recs := result.Table.Records(limit)
	rows := make([][]string, len(recs))
	for i, rec := range recs {
		rows[i] = make([]string, len(rec))
		for j, v := range rec {
			rows[i][j] = sheet.FormatValue(v)
		}
	}
	return &templates.Preview{
		RunID:     result.RunID,
		FileName:  result.FileName,
		Columns:   result.Table.Header(),
		Rows:      rows,
		TotalRows: len(result.Table.Rows),
		Dropped:   result.Dropped,
	}
}
