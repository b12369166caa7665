package printing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PDFStorage defines the interface for storing and retrieving PDF files
type PDFStorage interface {
	// Store saves a PDF file and returns its path and URL
	Store(ctx context.Context, req *StoreRequest) (*StoreResult, error)
	// Get retrieves a PDF file by its path
	Get(ctx context.Context, path string) (io.ReadCloser, error)
	// Delete removes a PDF file
	Delete(ctx context.Context, path string) error
	// CleanupOlderThan removes files older than the specified duration
	CleanupOlderThan(ctx context.Context, age time.Duration) (int, error)
	// GetURL returns the accessible URL for a stored PDF
	GetURL(path string) string
}

// StoreRequest contains the parameters for storing a PDF
type StoreRequest struct {
	// JobID is the print job identifier and the file name
	JobID uuid.UUID
	// BillNumber is recorded as metadata where the backend supports it
	BillNumber string
	// PDFData is the raw PDF content
	PDFData []byte
}

// StoreResult contains the result of storing a PDF
type StoreResult struct {
	// Path is the storage path (relative to base)
	Path string
	// URL is the accessible URL for the PDF
	URL string
	// Size is the file size in bytes
	Size int64
}

// ObjectPath is the layout shared by all backends: receipts/{year}/{month}/{job_id}.pdf
func ObjectPath(jobID uuid.UUID, now time.Time) string {
	return fmt.Sprintf("receipts/%d/%02d/%s.pdf", now.Year(), now.Month(), jobID)
}

func validateStoreRequest(req *StoreRequest) error {
	if req == nil {
		return NewRenderError(ErrCodeStorageFailed, "store request is nil", nil)
	}
	if req.JobID == uuid.Nil {
		return NewRenderError(ErrCodeStorageFailed, "job ID is required", nil)
	}
	if len(req.PDFData) == 0 {
		return NewRenderError(ErrCodeStorageFailed, "PDF data is empty", nil)
	}
	return nil
}

// FileSystemStorageConfig contains configuration for file system storage
type FileSystemStorageConfig struct {
	// BasePath is the root directory for PDF storage
	BasePath string
	// BaseURL is the URL prefix for downloading PDFs
	BaseURL string
	// Logger for operations
	Logger *zap.Logger
}

// FileSystemStorage stores PDFs on the local file system
type FileSystemStorage struct {
	config *FileSystemStorageConfig
	logger *zap.Logger
}

// NewFileSystemStorage creates a new file system based PDF storage
func NewFileSystemStorage(config *FileSystemStorageConfig) (*FileSystemStorage, error) {
	if config == nil {
		config = &FileSystemStorageConfig{}
	}
	if config.BasePath == "" {
		config.BasePath = "./data/receipts"
	}
	if config.BaseURL == "" {
		config.BaseURL = "/files"
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")

	if err := os.MkdirAll(config.BasePath, 0o755); err != nil {
		return nil, NewRenderError(ErrCodeStorageFailed,
			fmt.Sprintf("failed to create storage directory: %s", config.BasePath), err)
	}

	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &FileSystemStorage{
		config: config,
		logger: logger.With(zap.String("storage", "fs")),
	}, nil
}

// Store writes the PDF under BasePath
func (s *FileSystemStorage) Store(ctx context.Context, req *StoreRequest) (*StoreResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, NewRenderError(ErrCodeStorageFailed, "operation cancelled", err)
	}
	if err := validateStoreRequest(req); err != nil {
		return nil, err
	}

	relativePath := ObjectPath(req.JobID, time.Now())
	fullPath := filepath.Join(s.config.BasePath, filepath.FromSlash(relativePath))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return nil, NewRenderError(ErrCodeStorageFailed, "failed to create directory", err)
	}
	if err := os.WriteFile(fullPath, req.PDFData, 0o644); err != nil {
		return nil, NewRenderError(ErrCodeStorageFailed, "failed to write PDF file", err)
	}

	url := s.GetURL(relativePath)
	s.logger.Info("PDF stored",
		zap.String("path", fullPath),
		zap.String("bill_number", req.BillNumber),
		zap.Int("size", len(req.PDFData)))

	return &StoreResult{
		Path: relativePath,
		URL:  url,
		Size: int64(len(req.PDFData)),
	}, nil
}

// Get opens a stored PDF
func (s *FileSystemStorage) Get(ctx context.Context, path string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, NewRenderError(ErrCodeStorageFailed, "operation cancelled", err)
	}

	fullPath, err := s.resolve(path)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(fullPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, NewRenderError(ErrCodeFileNotFound, "PDF not found", err)
		}
		return nil, NewRenderError(ErrCodeStorageFailed, "failed to open PDF file", err)
	}
	return file, nil
}

// Delete removes a PDF file; a missing file is not an error
func (s *FileSystemStorage) Delete(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return NewRenderError(ErrCodeStorageFailed, "operation cancelled", err)
	}

	fullPath, err := s.resolve(path)
	if err != nil {
		return err
	}

	if err := os.Remove(fullPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return NewRenderError(ErrCodeStorageFailed, "failed to delete PDF file", err)
	}

	s.logger.Info("PDF deleted", zap.String("path", path))
	return nil
}

// resolve maps a relative storage path into BasePath, refusing anything that escapes it
func (s *FileSystemStorage) resolve(path string) (string, error) {
	cleanPath := filepath.Clean(filepath.FromSlash(path))
	if filepath.IsAbs(cleanPath) || containsDotDot(path) {
		s.logger.Warn("blocked potentially malicious path", zap.String("path", path))
		return "", NewRenderError(ErrCodeStorageFailed, "invalid path", nil)
	}

	absBase, err := filepath.Abs(s.config.BasePath)
	if err != nil {
		return "", NewRenderError(ErrCodeStorageFailed, "failed to resolve base path", err)
	}
	absPath, err := filepath.Abs(filepath.Join(s.config.BasePath, cleanPath))
	if err != nil {
		return "", NewRenderError(ErrCodeStorageFailed, "failed to resolve file path", err)
	}
	if !strings.HasPrefix(absPath, absBase+string(filepath.Separator)) {
		s.logger.Warn("path escape attempt blocked",
			zap.String("path", path),
			zap.String("abs_path", absPath))
		return "", NewRenderError(ErrCodeStorageFailed, "invalid path", nil)
	}
	return absPath, nil
}

// CleanupOlderThan removes PDFs whose modification time is older than age
func (s *FileSystemStorage) CleanupOlderThan(ctx context.Context, age time.Duration) (int, error) {
	cutoff := time.Now().Add(-age)
	deletedCount := 0

	err := filepath.WalkDir(s.config.BasePath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() || filepath.Ext(path) != ".pdf" {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(path); err == nil {
				deletedCount++
				s.logger.Debug("deleted old PDF", zap.String("path", path))
			}
		}
		return nil
	})
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		return deletedCount, NewRenderError(ErrCodeStorageFailed, "cleanup walk failed", err)
	}

	s.logger.Info("cleanup completed",
		zap.Int("deleted", deletedCount),
		zap.Duration("age", age))
	return deletedCount, nil
}

// GetURL returns the download URL for a stored PDF
func (s *FileSystemStorage) GetURL(path string) string {
	return s.config.BaseURL + "/" + filepath.ToSlash(filepath.Clean(path))
}

// containsDotDot checks the raw path for ".." components before any cleaning
func containsDotDot(path string) bool {
	parts := strings.FieldsFunc(path, func(r rune) bool {
		return r == '/' || r == '\\' || r == filepath.Separator
	})
	return slices.Contains(parts, "..")
}

// Ensure FileSystemStorage implements PDFStorage
var _ PDFStorage = (*FileSystemStorage)(nil)
