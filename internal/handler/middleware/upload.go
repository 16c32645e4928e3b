package middleware

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/gin-gonic/gin"

	"tunehub/backend/internal/tempstore"
)

const (
	contextKeyStagedUpload = "staged_upload"
	maxFieldSize           = 1 << 20
)

var (
	ErrFileTooLarge       = errors.New("file too large")
	ErrTooManyFiles       = errors.New("too many files")
	ErrMalformedMultipart = errors.New("malformed multipart body")
)

// StagedUpload holds the parts of a multipart request after staging.
type StagedUpload struct {
	Files  map[string][]*tempstore.TempFile
	Fields map[string][]string
	store  *tempstore.Store
}

func newStagedUpload(store *tempstore.Store) *StagedUpload {
	return &StagedUpload{
		Files:  make(map[string][]*tempstore.TempFile),
		Fields: make(map[string][]string),
		store:  store,
	}
}

// File returns the first file staged for field, or nil.
func (u *StagedUpload) File(field string) *tempstore.TempFile {
	if files := u.Files[field]; len(files) > 0 {
		return files[0]
	}
	return nil
}

// Value returns the first value of a non-file field.
func (u *StagedUpload) Value(field string) string {
	if vals := u.Fields[field]; len(vals) > 0 {
		return vals[0]
	}
	return ""
}

// Release removes every staged file. Errors are ignored; the sweeper will
// catch anything left behind.
func (u *StagedUpload) Release() {
	if u.store == nil {
		return
	}
	for _, files := range u.Files {
		for _, f := range files {
			_ = u.store.Remove(f.Path)
		}
	}
}

// StagedFromContext returns the staged upload for the request. Requests that
// were not multipart get an empty value.
func StagedFromContext(c *gin.Context) *StagedUpload {
	if val, ok := c.Get(contextKeyStagedUpload); ok {
		if u, ok := val.(*StagedUpload); ok {
			return u
		}
	}
	return newStagedUpload(nil)
}

// UploadStaging streams every file of a multipart request into store. A part
// larger than maxFileSize, or more than maxFiles file parts, rejects the whole
// request. maxFiles <= 0 disables the count limit.
func UploadStaging(store *tempstore.Store, maxFileSize int64, maxFiles int) Stage {
	return Stage{
		Name: "upload_staging",
		Run: func(c *gin.Context) error {
			if c.ContentType() != gin.MIMEMultipartPOSTForm {
				return nil
			}
			if err := store.EnsureDir(); err != nil {
				return fmt.Errorf("create temp dir: %w", err)
			}
			reader, err := c.Request.MultipartReader()
			if err != nil {
				return fmt.Errorf("%w: %v", ErrMalformedMultipart, err)
			}

			upload := newStagedUpload(store)
			staged := 0
			for {
				part, err := reader.NextPart()
				if errors.Is(err, io.EOF) {
					break
				}
				if err != nil {
					upload.Release()
					return fmt.Errorf("%w: %v", ErrMalformedMultipart, err)
				}

				field := part.FormName()
				if part.FileName() == "" {
					val, err := io.ReadAll(io.LimitReader(part, maxFieldSize))
					part.Close()
					if err != nil {
						upload.Release()
						return fmt.Errorf("%w: %v", ErrMalformedMultipart, err)
					}
					upload.Fields[field] = append(upload.Fields[field], string(val))
					continue
				}

				if maxFiles > 0 && staged >= maxFiles {
					part.Close()
					upload.Release()
					return fmt.Errorf("%w: limit is %d files", ErrTooManyFiles, maxFiles)
				}
				file, err := stageFile(store, part, maxFileSize)
				part.Close()
				if err != nil {
					upload.Release()
					return err
				}
				file.FieldName = field
				file.FileName = part.FileName()
				file.ContentType = part.Header.Get("Content-Type")
				upload.Files[field] = append(upload.Files[field], file)
				staged++
			}

			c.Set(contextKeyStagedUpload, upload)
			return nil
		},
	}
}

func stageFile(store *tempstore.Store, src io.Reader, maxFileSize int64) (*tempstore.TempFile, error) {
	dst, err := store.Create()
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	n, err := io.Copy(dst, io.LimitReader(src, maxFileSize+1))
	closeErr := dst.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		_ = store.Remove(dst.Name())
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	if n > maxFileSize {
		_ = store.Remove(dst.Name())
		return nil, fmt.Errorf("%w: limit is %d bytes", ErrFileTooLarge, maxFileSize)
	}
	return &tempstore.TempFile{
		Path:      dst.Name(),
		Size:      n,
		CreatedAt: time.Now(),
	}, nil
}

