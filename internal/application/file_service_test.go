package application

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/example/hr-timesheet/internal/persistence"
)

type attachmentRepoStub struct {
	attachment Attachment
	created    Attachment
	createErr  error
	list       []Attachment
	listErr    error
	deleted    string
}

func (s *attachmentRepoStub) CreateAttachment(ctx context.Context, attachment Attachment) (Attachment, error) {
	if s.createErr != nil {
		return Attachment{}, s.createErr
	}
	s.created = attachment
	return attachment, nil
}

func (s *attachmentRepoStub) GetAttachment(ctx context.Context, id string) (Attachment, error) {
	if s.attachment.ID == "" || s.attachment.ID != id {
		return Attachment{}, persistence.ErrNotFound
	}
	return s.attachment, nil
}

func (s *attachmentRepoStub) ListAttachmentsForEmployee(ctx context.Context, employeeID string) ([]Attachment, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	out := make([]Attachment, len(s.list))
	copy(out, s.list)
	return out, nil
}

func (s *attachmentRepoStub) DeleteAttachment(ctx context.Context, id string) error {
	s.deleted = id
	return nil
}

type blobStoreStub struct {
	data    map[string][]byte
	putErr  error
	openErr error
	removed []string
}

func (s *blobStoreStub) Put(key string, contents io.Reader) (int64, error) {
	if s.putErr != nil {
		return 0, s.putErr
	}
	buf, err := io.ReadAll(contents)
	if err != nil {
		return 0, err
	}
	if s.data == nil {
		s.data = make(map[string][]byte)
	}
	s.data[key] = buf
	return int64(len(buf)), nil
}

func (s *blobStoreStub) Open(key string) (io.ReadCloser, error) {
	if s.openErr != nil {
		return nil, s.openErr
	}
	buf, ok := s.data[key]
	if !ok {
		return nil, errors.New("blob not found")
	}
	return io.NopCloser(bytes.NewReader(buf)), nil
}

func (s *blobStoreStub) Remove(key string) error {
	s.removed = append(s.removed, key)
	delete(s.data, key)
	return nil
}

func newFileService(repo *attachmentRepoStub, blobs *blobStoreStub, dir *employeeDirectoryStub, t *testing.T) *FileService {
	t.Helper()
	if dir == nil {
		dir = &employeeDirectoryStub{employees: map[string]Employee{"emp-1": {ID: "emp-1"}}}
	}
	return NewFileService(repo, blobs, dir, func() string { return "blob-1" }, fixedNow(t), nil)
}

func TestFileService_Upload_StoresBlobAndMetadata(t *testing.T) {
	t.Parallel()

	repo := &attachmentRepoStub{}
	blobs := &blobStoreStub{}
	svc := newFileService(repo, blobs, nil, t)

	attachment, err := svc.Upload(context.Background(), UploadFileParams{
		Principal:   employee(),
		EmployeeID:  "emp-1",
		Kind:        KindCV,
		Filename:    "cv.pdf",
		ContentType: "application/pdf",
		Content:     strings.NewReader("pdf bytes"),
	})
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}

	if attachment.ID != "blob-1" {
		t.Errorf("expected blob key as id, got %q", attachment.ID)
	}
	if attachment.SizeBytes != int64(len("pdf bytes")) {
		t.Errorf("expected recorded size, got %d", attachment.SizeBytes)
	}
	if string(blobs.data["blob-1"]) != "pdf bytes" {
		t.Errorf("expected blob contents stored, got %q", blobs.data["blob-1"])
	}
	if repo.created.Filename != "cv.pdf" {
		t.Errorf("expected metadata recorded, got %+v", repo.created)
	}
}

func TestFileService_Upload_OwnerOrAdminOnly(t *testing.T) {
	t.Parallel()

	svc := newFileService(&attachmentRepoStub{}, &blobStoreStub{}, nil, t)

	_, err := svc.Upload(context.Background(), UploadFileParams{
		Principal:  Principal{EmployeeID: "emp-2", Role: RoleEmployee},
		EmployeeID: "emp-1",
		Filename:   "cv.pdf",
		Content:    strings.NewReader("x"),
	})
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}

	if _, err := svc.Upload(context.Background(), UploadFileParams{
		Principal:  admin(),
		EmployeeID: "emp-1",
		Filename:   "cv.pdf",
		Content:    strings.NewReader("x"),
	}); err != nil {
		t.Fatalf("admin upload failed: %v", err)
	}
}

func TestFileService_Upload_ValidatesKindAndFilename(t *testing.T) {
	t.Parallel()

	svc := newFileService(&attachmentRepoStub{}, &blobStoreStub{}, nil, t)

	_, err := svc.Upload(context.Background(), UploadFileParams{
		Principal:  employee(),
		EmployeeID: "emp-1",
		Kind:       AttachmentKind("archive"),
	})

	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if _, ok := vErr.FieldErrors["kind"]; !ok {
		t.Errorf("expected kind validation error, got %v", vErr.FieldErrors)
	}
	if _, ok := vErr.FieldErrors["file"]; !ok {
		t.Errorf("expected file validation error, got %v", vErr.FieldErrors)
	}
}

func TestFileService_Upload_DefaultsKindAndContentType(t *testing.T) {
	t.Parallel()

	repo := &attachmentRepoStub{}
	svc := newFileService(repo, &blobStoreStub{}, nil, t)

	attachment, err := svc.Upload(context.Background(), UploadFileParams{
		Principal:  employee(),
		EmployeeID: "emp-1",
		Filename:   "notes.txt",
		Content:    strings.NewReader("x"),
	})
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	if attachment.Kind != KindDocument {
		t.Errorf("expected document kind default, got %s", attachment.Kind)
	}
	if attachment.ContentType != "application/octet-stream" {
		t.Errorf("expected octet-stream default, got %s", attachment.ContentType)
	}
}

func TestFileService_Upload_UnknownEmployee(t *testing.T) {
	t.Parallel()

	dir := &employeeDirectoryStub{}
	svc := newFileService(&attachmentRepoStub{}, &blobStoreStub{}, dir, t)

	_, err := svc.Upload(context.Background(), UploadFileParams{
		Principal:  admin(),
		EmployeeID: "ghost",
		Filename:   "cv.pdf",
		Content:    strings.NewReader("x"),
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFileService_Upload_RemovesBlobWhenMetadataFails(t *testing.T) {
	t.Parallel()

	repo := &attachmentRepoStub{createErr: persistence.ErrForeignKeyViolation}
	blobs := &blobStoreStub{}
	svc := newFileService(repo, blobs, nil, t)

	_, err := svc.Upload(context.Background(), UploadFileParams{
		Principal:  employee(),
		EmployeeID: "emp-1",
		Filename:   "cv.pdf",
		Content:    strings.NewReader("x"),
	})
	if err == nil {
		t.Fatal("expected error when metadata write fails")
	}
	if len(blobs.removed) != 1 || blobs.removed[0] != "blob-1" {
		t.Fatalf("expected orphaned blob removed, got %v", blobs.removed)
	}
}

func TestFileService_Download(t *testing.T) {
	t.Parallel()

	repo := &attachmentRepoStub{attachment: Attachment{ID: "blob-1", EmployeeID: "emp-1", Filename: "cv.pdf"}}
	blobs := &blobStoreStub{data: map[string][]byte{"blob-1": []byte("pdf bytes")}}
	svc := newFileService(repo, blobs, nil, t)

	attachment, contents, err := svc.Download(context.Background(), Principal{EmployeeID: "emp-9", Role: RoleEmployee}, "blob-1")
	if err != nil {
		t.Fatalf("Download failed: %v", err)
	}
	defer contents.Close()

	if attachment.Filename != "cv.pdf" {
		t.Errorf("expected metadata returned, got %+v", attachment)
	}
	buf, err := io.ReadAll(contents)
	if err != nil {
		t.Fatalf("reading contents failed: %v", err)
	}
	if string(buf) != "pdf bytes" {
		t.Errorf("unexpected contents %q", buf)
	}
}

func TestFileService_Download_UnknownID(t *testing.T) {
	t.Parallel()

	svc := newFileService(&attachmentRepoStub{}, &blobStoreStub{}, nil, t)

	_, _, err := svc.Download(context.Background(), employee(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFileService_ListForEmployee_Visibility(t *testing.T) {
	t.Parallel()

	managerID := "mgr-1"
	dir := &employeeDirectoryStub{employees: map[string]Employee{
		"emp-1": {ID: "emp-1", ManagerID: &managerID},
	}}
	repo := &attachmentRepoStub{list: []Attachment{{ID: "blob-1", EmployeeID: "emp-1"}}}
	svc := newFileService(repo, &blobStoreStub{}, dir, t)
	ctx := context.Background()

	if _, err := svc.ListForEmployee(ctx, employee(), "emp-1"); err != nil {
		t.Errorf("owner list failed: %v", err)
	}
	if _, err := svc.ListForEmployee(ctx, Principal{EmployeeID: "mgr-1", Role: RoleManager}, "emp-1"); err != nil {
		t.Errorf("assigned manager list failed: %v", err)
	}
	if _, err := svc.ListForEmployee(ctx, Principal{EmployeeID: "emp-2", Role: RoleEmployee}, "emp-1"); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized for unrelated employee, got %v", err)
	}
	if _, err := svc.ListForEmployee(ctx, Principal{EmployeeID: "mgr-2", Role: RoleManager}, "emp-1"); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized for unrelated manager, got %v", err)
	}
}
