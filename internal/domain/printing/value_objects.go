package printing

import "github.com/techverse-private-limited/stock-blueprints-54/internal/domain/shared"

// Margins represents the page margins in millimeters
type Margins struct {
	Top    int `json:"top"`
	Right  int `json:"right"`
	Bottom int `json:"bottom"`
	Left   int `json:"left"`
}

// NewMargins creates a new Margins value object
func NewMargins(top, right, bottom, left int) (Margins, error) {
	if top < 0 || right < 0 || bottom < 0 || left < 0 {
		return Margins{}, shared.NewDomainError("INVALID_MARGINS", "Margins cannot be negative")
	}
	if top > 50 || right > 50 || bottom > 50 || left > 50 {
		return Margins{}, shared.NewDomainError("INVALID_MARGINS", "Margins cannot exceed 50mm")
	}
	return Margins{Top: top, Right: right, Bottom: bottom, Left: left}, nil
}

// DefaultMargins returns page margins for A4 paper
func DefaultMargins() Margins {
	return Margins{Top: 10, Right: 10, Bottom: 10, Left: 10}
}

// ReceiptMargins returns the 5mm padding used around thermal receipts
func ReceiptMargins() Margins {
	return Margins{Top: 5, Right: 5, Bottom: 5, Left: 5}
}

// MarginsFor picks the default margins for a paper size
func MarginsFor(p PaperSize) Margins {
	if p.IsReceipt() {
		return ReceiptMargins()
	}
	return DefaultMargins()
}

// IsZero returns true if all margins are zero
func (m Margins) IsZero() bool {
	return m.Top == 0 && m.Right == 0 && m.Bottom == 0 && m.Left == 0
}
