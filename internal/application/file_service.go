package application

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"
)

// AttachmentRepository captures the metadata operations needed by the file service.
type AttachmentRepository interface {
	CreateAttachment(ctx context.Context, attachment Attachment) (Attachment, error)
	GetAttachment(ctx context.Context, id string) (Attachment, error)
	ListAttachmentsForEmployee(ctx context.Context, employeeID string) ([]Attachment, error)
	DeleteAttachment(ctx context.Context, id string) error
}

// BlobStore holds opaque file contents addressed by key.
type BlobStore interface {
	Put(key string, contents io.Reader) (int64, error)
	Open(key string) (io.ReadCloser, error)
	Remove(key string) error
}

// UploadFileParams wraps the data required to store a file for an employee.
type UploadFileParams struct {
	Principal   Principal
	EmployeeID  string
	Kind        AttachmentKind
	Filename    string
	ContentType string
	Content     io.Reader
}

// FileService coordinates attachment metadata with the blob store.
type FileService struct {
	attachments AttachmentRepository
	blobs       BlobStore
	employees   EmployeeDirectory
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewFileService wires dependencies for the file service.
func NewFileService(attachments AttachmentRepository, blobs BlobStore, employees EmployeeDirectory, idGenerator func() string, now func() time.Time, logger *slog.Logger) *FileService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &FileService{
		attachments: attachments,
		blobs:       blobs,
		employees:   employees,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

func (s *FileService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "FileService", operation, attrs...)
}

// Upload streams a file into the blob store and records its metadata.
// Owners may upload for themselves; admins for anyone.
func (s *FileService) Upload(ctx context.Context, params UploadFileParams) (Attachment, error) {
	if s == nil {
		return Attachment{}, fmt.Errorf("FileService is nil")
	}
	if s.attachments == nil || s.blobs == nil {
		return Attachment{}, fmt.Errorf("file storage not configured")
	}
	if params.Principal.EmployeeID != params.EmployeeID && !params.Principal.IsAdmin() {
		return Attachment{}, ErrUnauthorized
	}

	logger := s.loggerWith(ctx, "Upload", "employee_id", params.EmployeeID)

	kind := params.Kind
	if kind == "" {
		kind = KindDocument
	}
	filename := filepath.Base(strings.TrimSpace(params.Filename))

	vErr := &ValidationError{}
	if !kind.Valid() {
		vErr.add("kind", "kind must be profile_image, cv, or document")
	}
	if filename == "" || filename == "." || filename == string(filepath.Separator) {
		vErr.add("file", "filename is required")
	}
	if params.Content == nil {
		vErr.add("file", "file contents are required")
	}
	if vErr.HasErrors() {
		return Attachment{}, vErr
	}

	if s.employees != nil {
		if _, err := s.employees.GetEmployee(ctx, params.EmployeeID); err != nil {
			return Attachment{}, mapRepoError(err)
		}
	}

	key := s.idGenerator()
	size, err := s.blobs.Put(key, params.Content)
	if err != nil {
		logger.ErrorContext(ctx, "failed to store blob", "error", err)
		return Attachment{}, fmt.Errorf("failed to store file: %w", err)
	}

	contentType := strings.TrimSpace(params.ContentType)
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	attachment := Attachment{
		ID:          key,
		EmployeeID:  params.EmployeeID,
		Kind:        kind,
		Filename:    filename,
		ContentType: contentType,
		SizeBytes:   size,
		CreatedAt:   s.now(),
	}

	persisted, err := s.attachments.CreateAttachment(ctx, attachment)
	if err != nil {
		// The blob is orphaned if this cleanup fails; it is unreachable
		// without its metadata row either way.
		if removeErr := s.blobs.Remove(key); removeErr != nil {
			logger.ErrorContext(ctx, "failed to remove orphaned blob", "error", removeErr, "blob_key", key)
		}
		err = mapRepoError(err)
		logger.ErrorContext(ctx, "failed to record attachment", "error", err, "error_kind", ErrorKind(err))
		return Attachment{}, err
	}

	logger.With("attachment_id", persisted.ID).InfoContext(ctx, "file uploaded")
	return persisted, nil
}

// Download opens a stored file for any authenticated principal. The
// caller owns the returned reader.
func (s *FileService) Download(ctx context.Context, principal Principal, fileID string) (Attachment, io.ReadCloser, error) {
	if s == nil {
		return Attachment{}, nil, fmt.Errorf("FileService is nil")
	}
	if s.attachments == nil || s.blobs == nil {
		return Attachment{}, nil, fmt.Errorf("file storage not configured")
	}
	if principal.EmployeeID == "" {
		return Attachment{}, nil, ErrUnauthorized
	}

	attachment, err := s.attachments.GetAttachment(ctx, fileID)
	if err != nil {
		return Attachment{}, nil, mapRepoError(err)
	}

	contents, err := s.blobs.Open(attachment.ID)
	if err != nil {
		return Attachment{}, nil, fmt.Errorf("failed to open file: %w", err)
	}
	return attachment, contents, nil
}

// ListForEmployee returns the attachment metadata for one employee,
// visible to the owner, their manager, and admins.
func (s *FileService) ListForEmployee(ctx context.Context, principal Principal, employeeID string) ([]Attachment, error) {
	if s == nil {
		return nil, fmt.Errorf("FileService is nil")
	}
	if s.attachments == nil {
		return nil, fmt.Errorf("attachment repository not configured")
	}

	if principal.EmployeeID != employeeID && !principal.IsAdmin() {
		if principal.Role != RoleManager || s.employees == nil {
			return nil, ErrUnauthorized
		}
		owner, err := s.employees.GetEmployee(ctx, employeeID)
		if err != nil {
			return nil, mapRepoError(err)
		}
		if owner.ManagerID == nil || *owner.ManagerID != principal.EmployeeID {
			return nil, ErrUnauthorized
		}
	}

	attachments, err := s.attachments.ListAttachmentsForEmployee(ctx, employeeID)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return attachments, nil
}
