package printing

import (
	"embed"
	"fmt"

	"github.com/techverse-private-limited/stock-blueprints-54/internal/domain/printing"
)

//go:embed templates/*.html
var templateFS embed.FS

// DefaultTemplate describes a receipt template bundled with the binary
type DefaultTemplate struct {
	DocType     printing.DocType
	Name        string
	Description string
	PaperSize   printing.PaperSize
	Orientation printing.Orientation
	Margins     printing.Margins
	FilePath    string // Path within embed.FS
	IsDefault   bool   // Whether this is the default for its doc type
}

// rollMargins is zero because the roll templates pad the body themselves
var rollMargins = printing.Margins{}

// GetDefaultTemplates returns all bundled template configurations
func GetDefaultTemplates() []DefaultTemplate {
	return []DefaultTemplate{
		{
			DocType:     printing.DocTypeBillReceipt,
			Name:        "Receipt 80mm",
			Description: "Thermal roll receipt, 80mm paper",
			PaperSize:   printing.PaperSizeReceipt80MM,
			Orientation: printing.OrientationPortrait,
			Margins:     rollMargins,
			FilePath:    "templates/receipt_80mm.html",
			IsDefault:   true,
		},
		{
			DocType:     printing.DocTypeBillReceipt,
			Name:        "Receipt 58mm",
			Description: "Narrow thermal roll receipt, 58mm paper",
			PaperSize:   printing.PaperSizeReceipt58MM,
			Orientation: printing.OrientationPortrait,
			Margins:     rollMargins,
			FilePath:    "templates/receipt_58mm.html",
		},
		{
			DocType:     printing.DocTypeBillReceipt,
			Name:        "Receipt A4",
			Description: "Receipt centred on an A4 sheet for office printers",
			PaperSize:   printing.PaperSizeA4,
			Orientation: printing.OrientationPortrait,
			Margins:     printing.MarginsFor(printing.PaperSizeA4),
			FilePath:    "templates/receipt_a4.html",
		},
	}
}

// LoadTemplateContent reads an embedded template file
func LoadTemplateContent(filePath string) (string, error) {
	content, err := templateFS.ReadFile(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to read embedded template %s: %w", filePath, err)
	}
	return string(content), nil
}
