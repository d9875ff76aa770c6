package imports

import (
	"encoding/json"
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tally/internal/category"
	"github.com/MrJamesThe3rd/tally/internal/columns"
	"github.com/MrJamesThe3rd/tally/internal/http/owner"
	txHandler "github.com/MrJamesThe3rd/tally/internal/http/transaction"
	"github.com/MrJamesThe3rd/tally/internal/importer"
	"github.com/MrJamesThe3rd/tally/internal/source"
)

const formMemory = 10 << 20

type Handler struct {
	importSvc *importer.Service
	loader    *source.Loader
}

func NewHandler(importSvc *importer.Service, loader *source.Loader) *Handler {
	return &Handler{
		importSvc: importSvc,
		loader:    loader,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/table", h.importTable)
	r.Post("/document", h.importDocument)
}

type importResponse struct {
	importer.BatchResult

	Transactions []txHandler.Response `json:"transactions"`
	Categories   []*category.Category `json:"new_categories"`
}

type failureResponse struct {
	Imported int    `json:"imported"`
	Reason   string `json:"reason"`
}

func (h *Handler) importTable(w http.ResponseWriter, r *http.Request) {
	up, ok := readUpload(w, r)
	if !ok {
		return
	}
	defer up.file.Close()

	table, err := h.loader.Table(up.format, up.file)
	if err != nil {
		writeFailure(w, sourceStatus(err), err)
		return
	}

	result, err := h.importSvc.ImportTable(r.Context(), up.owner, table, mappingFrom(r))
	if err != nil {
		writeFailure(w, importStatus(err), err)
		return
	}

	writeResult(w, result)
}

func (h *Handler) importDocument(w http.ResponseWriter, r *http.Request) {
	up, ok := readUpload(w, r)
	if !ok {
		return
	}
	defer up.file.Close()

	doc, err := h.loader.Document(r.Context(), up.format, up.file)
	if err != nil {
		writeFailure(w, sourceStatus(err), err)
		return
	}

	result, err := h.importSvc.ImportDocument(r.Context(), up.owner, doc)
	if err != nil {
		writeFailure(w, importStatus(err), err)
		return
	}

	writeResult(w, result)
}

type upload struct {
	owner  uuid.UUID
	format source.Format
	file   multipart.File
}

// readUpload writes the error response itself when it returns false.
func readUpload(w http.ResponseWriter, r *http.Request) (upload, bool) {
	id, ok := owner.From(r.Context())
	if !ok {
		http.Error(w, owner.ErrMissing.Error(), http.StatusUnauthorized)
		return upload{}, false
	}

	if err := r.ParseMultipartForm(formMemory); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return upload{}, false
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return upload{}, false
	}

	format := source.Format(r.FormValue("format"))
	if format == "" {
		if format, err = source.FormatOf(header.Filename); err != nil {
			file.Close()
			writeFailure(w, http.StatusUnsupportedMediaType, err)

			return upload{}, false
		}
	}

	return upload{owner: id, format: format, file: file}, true
}

// mappingFrom returns nil unless the form names at least one column.
func mappingFrom(r *http.Request) *columns.Mapping {
	m := columns.Mapping{
		Date:        r.FormValue("date_column"),
		Description: r.FormValue("description_column"),
		Amount:      r.FormValue("amount_column"),
		Category:    r.FormValue("category_column"),
	}

	if m == (columns.Mapping{}) {
		return nil
	}

	return &m
}

func sourceStatus(err error) int {
	switch {
	case errors.Is(err, source.ErrTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, source.ErrUnsupportedFormat):
		return http.StatusUnsupportedMediaType
	default:
		return http.StatusBadRequest
	}
}

func importStatus(err error) int {
	var resErr *columns.ResolutionError
	if errors.As(err, &resErr) {
		return http.StatusUnprocessableEntity
	}

	return http.StatusInternalServerError
}

func writeFailure(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(failureResponse{Reason: err.Error()}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeResult(w http.ResponseWriter, result *importer.BatchResult) {
	resp := importResponse{
		BatchResult:  *result,
		Transactions: txHandler.ToResponseList(result.Transactions),
		Categories:   result.Categories,
	}

	if resp.Categories == nil {
		resp.Categories = []*category.Category{}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
