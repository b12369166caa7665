package printing

// DocType represents the type of document that can be printed
type DocType string

const (
	DocTypeBillReceipt DocType = "BILL_RECEIPT"
)

// IsValid checks if the DocType is a valid value
func (d DocType) IsValid() bool {
	return d == DocTypeBillReceipt
}

// String returns the string representation of DocType
func (d DocType) String() string {
	return string(d)
}

// DisplayName returns a human readable name for the document type
func (d DocType) DisplayName() string {
	switch d {
	case DocTypeBillReceipt:
		return "Receipt"
	default:
		return string(d)
	}
}

// PaperSize represents the paper a receipt is printed on
type PaperSize string

const (
	PaperSizeReceipt80MM PaperSize = "RECEIPT_80MM" // 80mm thermal roll (default)
	PaperSizeReceipt58MM PaperSize = "RECEIPT_58MM" // 58mm thermal roll
	PaperSizeA4          PaperSize = "A4"           // 210mm x 297mm office printer
)

// DefaultPaperSize is used when the caller does not pick one
const DefaultPaperSize = PaperSizeReceipt80MM

// IsValid checks if the PaperSize is a valid value
func (p PaperSize) IsValid() bool {
	switch p {
	case PaperSizeReceipt80MM, PaperSizeReceipt58MM, PaperSizeA4:
		return true
	}
	return false
}

// String returns the string representation of PaperSize
func (p PaperSize) String() string {
	return string(p)
}

// Dimensions returns the paper dimensions in millimeters (width, height).
// Roll paper has no fixed height and reports 0.
func (p PaperSize) Dimensions() (width, height int) {
	switch p {
	case PaperSizeReceipt80MM:
		return 80, 0
	case PaperSizeReceipt58MM:
		return 58, 0
	case PaperSizeA4:
		return 210, 297
	default:
		return 80, 0
	}
}

// IsReceipt returns true for thermal roll paper
func (p PaperSize) IsReceipt() bool {
	return p == PaperSizeReceipt58MM || p == PaperSizeReceipt80MM
}

// AllPaperSizes returns all valid PaperSize values
func AllPaperSizes() []PaperSize {
	return []PaperSize{PaperSizeReceipt80MM, PaperSizeReceipt58MM, PaperSizeA4}
}

// Orientation represents the page orientation for printing
type Orientation string

const (
	OrientationPortrait  Orientation = "PORTRAIT"
	OrientationLandscape Orientation = "LANDSCAPE"
)

// IsValid checks if the Orientation is a valid value
func (o Orientation) IsValid() bool {
	return o == OrientationPortrait || o == OrientationLandscape
}

// String returns the string representation of Orientation
func (o Orientation) String() string {
	return string(o)
}

// JobStatus represents the status of a print job
type JobStatus string

const (
	JobStatusPending   JobStatus = "PENDING"
	JobStatusRendering JobStatus = "RENDERING"
	JobStatusCompleted JobStatus = "COMPLETED"
	JobStatusFailed    JobStatus = "FAILED"
)

// IsValid checks if the JobStatus is a valid value
func (s JobStatus) IsValid() bool {
	switch s {
	case JobStatusPending, JobStatusRendering, JobStatusCompleted, JobStatusFailed:
		return true
	}
	return false
}

// String returns the string representation of JobStatus
func (s JobStatus) String() string {
	return string(s)
}

// IsTerminal returns true if no further transitions are possible
func (s JobStatus) IsTerminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

// CanTransitionTo checks if the status can transition to the target status
func (s JobStatus) CanTransitionTo(target JobStatus) bool {
	switch s {
	case JobStatusPending:
		return target == JobStatusRendering || target == JobStatusFailed
	case JobStatusRendering:
		return target == JobStatusCompleted || target == JobStatusFailed
	}
	return false
}
