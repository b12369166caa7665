package printing

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"github.com/techverse-private-limited/stock-blueprints-54/internal/domain/printing"
	"go.uber.org/zap"
)

// TemplateStore holds the receipt templates.
// Files in an external directory override the embedded ones by file name.
type TemplateStore struct {
	externalDir string
	logger      *zap.Logger
	templates   []StaticTemplate
	mu          sync.RWMutex
}

// StaticTemplate is a receipt template with its content loaded
type StaticTemplate struct {
	ID          string // Stable ID derived from doc type, paper size and orientation
	DocType     printing.DocType
	Name        string
	Description string
	PaperSize   printing.PaperSize
	Orientation printing.Orientation
	Margins     printing.Margins
	Content     string
	IsDefault   bool
	External    bool // Loaded from the override directory
}

// TemplateStoreConfig configures the template store
type TemplateStoreConfig struct {
	// ExternalDir is searched first. Missing files fall back to the embedded copy.
	ExternalDir string
	Logger      *zap.Logger
}

// NewTemplateStore creates a template store and loads every template
func NewTemplateStore(config *TemplateStoreConfig) (*TemplateStore, error) {
	store := &TemplateStore{logger: zap.NewNop()}
	if config != nil {
		store.externalDir = config.ExternalDir
		if config.Logger != nil {
			store.logger = config.Logger
		}
	}

	if err := store.loadTemplates(); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *TemplateStore) loadTemplates() error {
	defaults := GetDefaultTemplates()
	loaded := make([]StaticTemplate, 0, len(defaults))

	for _, dt := range defaults {
		content, external, err := s.loadTemplateContent(dt.FilePath)
		if err != nil {
			return fmt.Errorf("failed to load template %s: %w", dt.Name, err)
		}

		loaded = append(loaded, StaticTemplate{
			ID:          generateTemplateID(dt.DocType, dt.PaperSize, dt.Orientation),
			DocType:     dt.DocType,
			Name:        dt.Name,
			Description: dt.Description,
			PaperSize:   dt.PaperSize,
			Orientation: dt.Orientation,
			Margins:     dt.Margins,
			Content:     content,
			IsDefault:   dt.IsDefault,
			External:    external,
		})
	}

	s.mu.Lock()
	s.templates = loaded
	s.mu.Unlock()
	return nil
}

func (s *TemplateStore) loadTemplateContent(embeddedPath string) (string, bool, error) {
	if s.externalDir != "" {
		externalPath := filepath.Join(s.externalDir, filepath.Base(embeddedPath))
		if content, err := os.ReadFile(externalPath); err == nil {
			s.logger.Info("Using external receipt template", zap.String("path", externalPath))
			return string(content), true, nil
		}
	}

	content, err := LoadTemplateContent(embeddedPath)
	return content, false, err
}

// GetByID returns a template by its ID, or nil
func (s *TemplateStore) GetByID(id string) *StaticTemplate {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.templates {
		if s.templates[i].ID == id {
			t := s.templates[i]
			return &t
		}
	}
	return nil
}

// GetDefault returns the default template for a document type, or nil
func (s *TemplateStore) GetDefault(docType printing.DocType) *StaticTemplate {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.templates {
		if s.templates[i].DocType == docType && s.templates[i].IsDefault {
			t := s.templates[i]
			return &t
		}
	}
	return nil
}

// ForPaperSize returns the receipt template for a paper size.
// An empty size selects the default template.
func (s *TemplateStore) ForPaperSize(paperSize printing.PaperSize) (*StaticTemplate, error) {
	if paperSize == "" {
		if t := s.GetDefault(printing.DocTypeBillReceipt); t != nil {
			return t, nil
		}
		paperSize = printing.DefaultPaperSize
	}
	if !paperSize.IsValid() {
		return nil, NewRenderError(ErrCodeInvalidPaperSize, "invalid paper size: "+paperSize.String(), nil)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.templates {
		if s.templates[i].DocType == printing.DocTypeBillReceipt && s.templates[i].PaperSize == paperSize {
			t := s.templates[i]
			return &t, nil
		}
	}
	return nil, NewRenderError(ErrCodeTemplateNotFound, "no receipt template for paper size "+paperSize.String(), nil)
}

// GetAll returns a copy of all templates
func (s *TemplateStore) GetAll() []StaticTemplate {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]StaticTemplate, len(s.templates))
	copy(result, s.templates)
	return result
}

// Reload re-reads the templates, picking up edits in the external directory
func (s *TemplateStore) Reload() error {
	return s.loadTemplates()
}

// generateTemplateID derives a UUID v5 so a template keeps its ID across restarts
func generateTemplateID(docType printing.DocType, paperSize printing.PaperSize, orientation printing.Orientation) string {
	name := fmt.Sprintf("print-template:%s:%s:%s", docType, paperSize, orientation)
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(name)).String()
}
