package printing

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var samplePDF = []byte("%PDF-1.4 sample")

func newTestStorage(t *testing.T) *FileSystemStorage {
	t.Helper()
	s, err := NewFileSystemStorage(&FileSystemStorageConfig{
		BasePath: t.TempDir(),
		BaseURL:  "http://till.local/files/",
	})
	require.NoError(t, err)
	return s
}

func TestObjectPath(t *testing.T) {
	id := uuid.MustParse("6f1c2d7e-3a55-4bb1-9e0c-0a8b3f2e1d44")
	got := ObjectPath(id, time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, "receipts/2026/03/6f1c2d7e-3a55-4bb1-9e0c-0a8b3f2e1d44.pdf", got)
}

func TestFileSystemStorage_StoreGetDelete(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()
	jobID := uuid.New()

	res, err := s.Store(ctx, &StoreRequest{JobID: jobID, BillNumber: "TB0007", PDFData: samplePDF})
	require.NoError(t, err)
	assert.Equal(t, int64(len(samplePDF)), res.Size)
	assert.True(t, strings.HasSuffix(res.Path, jobID.String()+".pdf"))
	assert.Equal(t, "http://till.local/files/"+res.Path, res.URL)

	rc, err := s.Get(ctx, res.Path)
	require.NoError(t, err)
	content, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, samplePDF, content)

	require.NoError(t, s.Delete(ctx, res.Path))
	require.NoError(t, s.Delete(ctx, res.Path), "deleting twice is not an error")

	_, err = s.Get(ctx, res.Path)
	var renderErr *RenderError
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, ErrCodeFileNotFound, renderErr.Code)
}

func TestFileSystemStorage_StoreValidation(t *testing.T) {
	s := newTestStorage(t)

	tests := []struct {
		name string
		req  *StoreRequest
	}{
		{"nil request", nil},
		{"missing job id", &StoreRequest{PDFData: samplePDF}},
		{"empty data", &StoreRequest{JobID: uuid.New()}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Store(context.Background(), tt.req)
			var renderErr *RenderError
			require.ErrorAs(t, err, &renderErr)
			assert.Equal(t, ErrCodeStorageFailed, renderErr.Code)
		})
	}
}

func TestFileSystemStorage_RejectsEscapingPaths(t *testing.T) {
	s := newTestStorage(t)

	for _, path := range []string{"../secret.pdf", "receipts/../../x.pdf", "/etc/passwd", `..\x.pdf`} {
		t.Run(path, func(t *testing.T) {
			_, err := s.Get(context.Background(), path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid path")
			assert.Error(t, s.Delete(context.Background(), path))
		})
	}
}

func TestFileSystemStorage_CancelledContext(t *testing.T) {
	s := newTestStorage(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Store(ctx, &StoreRequest{JobID: uuid.New(), PDFData: samplePDF})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFileSystemStorage_CleanupOlderThan(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	oldRes, err := s.Store(ctx, &StoreRequest{JobID: uuid.New(), PDFData: samplePDF})
	require.NoError(t, err)
	newRes, err := s.Store(ctx, &StoreRequest{JobID: uuid.New(), PDFData: samplePDF})
	require.NoError(t, err)

	past := time.Now().Add(-48 * time.Hour)
	oldFull := filepath.Join(s.config.BasePath, filepath.FromSlash(oldRes.Path))
	require.NoError(t, os.Chtimes(oldFull, past, past))

	deleted, err := s.CleanupOlderThan(ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, deleted)

	_, err = os.Stat(oldFull)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(s.config.BasePath, filepath.FromSlash(newRes.Path)))
	assert.NoError(t, err)
}
