package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/example/hr-timesheet/internal/application"
)

// maxUploadBytes bounds the size of a single multipart upload.
const maxUploadBytes = 32 << 20

type fileService interface {
	Upload(ctx context.Context, params application.UploadFileParams) (application.Attachment, error)
	Download(ctx context.Context, principal application.Principal, fileID string) (application.Attachment, io.ReadCloser, error)
	ListForEmployee(ctx context.Context, principal application.Principal, employeeID string) ([]application.Attachment, error)
}

type FileHandler struct {
	service   fileService
	responder responder
	logger    *slog.Logger
}

func NewFileHandler(service fileService, logger *slog.Logger) *FileHandler {
	base := defaultLogger(logger)
	return &FileHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *FileHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "FileHandler", operation, attrs...)
}

func (h *FileHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	employeeID, ok := EmployeeIDFromContext(r.Context())
	if !ok || strings.TrimSpace(employeeID) == "" {
		h.log(r.Context(), "Upload", "error_kind", "bad_request").ErrorContext(r.Context(), "missing employee id for upload")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidEmployeeID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "Upload", "principal_id", principal.EmployeeID, "employee_id", employeeID)

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(8 << 20); err != nil {
		logger.With("error_kind", "bad_request").ErrorContext(r.Context(), "failed to parse multipart form", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errors.New("the request must be a multipart form with a file field"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		logger.With("error_kind", "bad_request").ErrorContext(r.Context(), "missing file field in upload", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errors.New("a file field is required"))
		return
	}
	defer file.Close()

	attachment, err := h.service.Upload(r.Context(), application.UploadFileParams{
		Principal:   principal,
		EmployeeID:  employeeID,
		Kind:        application.AttachmentKind(strings.TrimSpace(r.FormValue("kind"))),
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Content:     file,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "file upload failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("file_id", attachment.ID, "size_bytes", attachment.SizeBytes).InfoContext(r.Context(), "file uploaded")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, attachmentResponse{Attachment: toAttachmentDTO(attachment)})
}

func (h *FileHandler) Download(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	fileID, ok := FileIDFromContext(r.Context())
	if !ok || strings.TrimSpace(fileID) == "" {
		h.log(r.Context(), "Download", "error_kind", "bad_request").ErrorContext(r.Context(), "missing file id for download")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidFileID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "Download", "principal_id", principal.EmployeeID, "file_id", fileID)

	attachment, contents, err := h.service.Download(r.Context(), principal, fileID)
	if err != nil {
		logger.ErrorContext(r.Context(), "file download failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	defer contents.Close()

	w.Header().Set("Content-Type", attachment.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": attachment.Filename}))
	if attachment.SizeBytes > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(attachment.SizeBytes, 10))
	}
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, contents); err != nil {
		logger.ErrorContext(r.Context(), "streaming file contents failed", "error", err)
		return
	}
	logger.InfoContext(r.Context(), "file downloaded")
}

func (h *FileHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	employeeID, ok := EmployeeIDFromContext(r.Context())
	if !ok || strings.TrimSpace(employeeID) == "" {
		h.log(r.Context(), "List", "error_kind", "bad_request").ErrorContext(r.Context(), "missing employee id for listing")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidEmployeeID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "List", "principal_id", principal.EmployeeID, "employee_id", employeeID)

	attachments, err := h.service.ListForEmployee(r.Context(), principal, employeeID)
	if err != nil {
		logger.ErrorContext(r.Context(), "file listing failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	dtos := make([]attachmentDTO, 0, len(attachments))
	for _, attachment := range attachments {
		dtos = append(dtos, toAttachmentDTO(attachment))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, attachmentListResponse{Attachments: dtos})
}

type attachmentDTO struct {
	ID          string `json:"id"`
	EmployeeID  string `json:"employee_id"`
	Kind        string `json:"kind"`
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	SizeBytes   int64  `json:"size_bytes"`
	URL         string `json:"url"`
	CreatedAt   string `json:"created_at"`
}

type attachmentResponse struct {
	Attachment attachmentDTO `json:"attachment"`
}

type attachmentListResponse struct {
	Attachments []attachmentDTO `json:"attachments"`
}

func toAttachmentDTO(attachment application.Attachment) attachmentDTO {
	return attachmentDTO{
		ID:          attachment.ID,
		EmployeeID:  attachment.EmployeeID,
		Kind:        string(attachment.Kind),
		Filename:    attachment.Filename,
		ContentType: attachment.ContentType,
		SizeBytes:   attachment.SizeBytes,
		URL:         fmt.Sprintf("/files/%s", attachment.ID),
		CreatedAt:   attachment.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}
