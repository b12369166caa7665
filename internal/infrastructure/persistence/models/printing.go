package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/techverse-private-limited/stock-blueprints-54/internal/domain/printing"
)

// PrintJobModel is the GORM model for print_jobs table
type PrintJobModel struct {
	AggregateModel
	DocumentType string     `gorm:"column:document_type;type:varchar(50);not null"`
	BillID       uuid.UUID  `gorm:"column:bill_id;type:uuid;not null;index"`
	BillNumber   string     `gorm:"column:bill_number;type:varchar(50);not null"`
	PaperSize    string     `gorm:"column:paper_size;type:varchar(20);not null"`
	Status       string     `gorm:"type:varchar(20);not null;default:'PENDING'"`
	Copies       int        `gorm:"not null;default:1"`
	PdfURL       string     `gorm:"column:pdf_url;type:text"`
	StoragePath  string     `gorm:"column:storage_path;type:text"`
	FileSize     int64      `gorm:"column:file_size;not null;default:0"`
	ErrorMessage string     `gorm:"column:error_message;type:text"`
	PrintedAt    *time.Time `gorm:"column:printed_at"`
	PrintedBy    *uuid.UUID `gorm:"column:printed_by;type:uuid"`
}

// TableName returns the table name for PrintJobModel
func (PrintJobModel) TableName() string {
	return "print_jobs"
}

// ToDomain converts PrintJobModel to domain PrintJob
func (m *PrintJobModel) ToDomain() *printing.PrintJob {
	return &printing.PrintJob{
		BaseAggregateRoot: m.ToAggregateRoot(),
		DocumentType:      printing.DocType(m.DocumentType),
		BillID:            m.BillID,
		BillNumber:        m.BillNumber,
		PaperSize:         printing.PaperSize(m.PaperSize),
		Status:            printing.JobStatus(m.Status),
		Copies:            m.Copies,
		PdfURL:            m.PdfURL,
		StoragePath:       m.StoragePath,
		FileSize:          m.FileSize,
		ErrorMessage:      m.ErrorMessage,
		PrintedAt:         m.PrintedAt,
		PrintedBy:         m.PrintedBy,
	}
}

// PrintJobModelFromDomain creates a PrintJobModel from domain PrintJob
func PrintJobModelFromDomain(j *printing.PrintJob) *PrintJobModel {
	m := &PrintJobModel{
		DocumentType: string(j.DocumentType),
		BillID:       j.BillID,
		BillNumber:   j.BillNumber,
		PaperSize:    string(j.PaperSize),
		Status:       string(j.Status),
		Copies:       j.Copies,
		PdfURL:       j.PdfURL,
		StoragePath:  j.StoragePath,
		FileSize:     j.FileSize,
		ErrorMessage: j.ErrorMessage,
		PrintedAt:    j.PrintedAt,
		PrintedBy:    j.PrintedBy,
	}
	m.FromDomainAggregateRoot(j.BaseAggregateRoot)
	return m
}
