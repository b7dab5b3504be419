// Package models defines the persistent domain types shared by
// repositories, services and handlers.
package models

import (
	"time"

	"github.com/google/uuid"
)

// ColumnKind classifies a dataset column for prompt compilation and
// snippet helpers.
type ColumnKind string

const (
	// ColumnText holds free-form strings (names, categories, codes).
	ColumnText ColumnKind = "text"
	// ColumnNumeric holds values coercible to float64.
	ColumnNumeric ColumnKind = "numeric"
	// ColumnMonthly is a wide-format month column named like "01.01.2024".
	ColumnMonthly ColumnKind = "monthly"
)

// Column describes one column of an uploaded dataset.
type Column struct {
	Name string     `json:"name"`
	Kind ColumnKind `json:"kind"`
}

// Dataset represents an uploaded tabular file registered for a tenant.
type Dataset struct {
	ID       uuid.UUID `json:"id"`
	TenantID uuid.UUID `json:"tenant_id"`

	Name             string `json:"name"`
	OriginalFilename string `json:"original_filename"`
	StoredPath       string `json:"-"`
	ContentHash      string `json:"content_hash"`
	UploadedBy       string `json:"uploaded_by"`

	SizeBytes   int64    `json:"size_bytes"`
	RowCount    int      `json:"row_count"`
	ColumnCount int      `json:"column_count"`
	Columns     []Column `json:"columns"`

	// Domain is the data domain this dataset serves ("business" or
	// "accounting"). It feeds routing availability checks.
	Domain string `json:"domain"`

	// Encoding and Delimiter record which parse attempt succeeded so the
	// file can be reloaded the same way without re-running the ladder.
	Encoding  string `json:"encoding"`
	Delimiter string `json:"delimiter"`

	LastUsedAt *time.Time `json:"last_used_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}
