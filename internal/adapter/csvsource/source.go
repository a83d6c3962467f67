package csvsource

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/iho/relbalance/internal/domain"
)

// ValidateFile checks that path names an existing regular file with a .csv extension.
func ValidateFile(path string) error {
	if strings.TrimSpace(path) == "" {
		return domain.ErrMissingTransactionFile
	}

	if !strings.EqualFold(filepath.Ext(path), ".csv") {
		return fmt.Errorf("%w: %s", domain.ErrInvalidTransactionFile, path)
	}

	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return fmt.Errorf("%w: %s", domain.ErrInvalidTransactionFile, path)
	}

	return nil
}

// FileSource reads every record from a CSV file on each call.
type FileSource struct {
	path   string
	layout string
}

// NewFileSource validates path and returns a source bound to it.
func NewFileSource(path, layout string) (*FileSource, error) {
	if err := ValidateFile(path); err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	return &FileSource{
		path:   abs,
		layout: layout,
	}, nil
}

// ID identifies the file contents by path, size and modification time, so a
// rewritten file does not share cache entries with its previous version.
func (s *FileSource) ID() string {
	info, err := os.Stat(s.path)
	if err != nil {
		return "file:" + s.path
	}
	return fmt.Sprintf("file:%s:%d:%d", s.path, info.Size(), info.ModTime().UnixNano())
}

// Transactions returns all records in the file. Filtering by account is left
// to the calculator, which needs reversals from anywhere in the file.
func (s *FileSource) Transactions(ctx context.Context, _ string) ([]*domain.TransactionRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidTransactionFile, err)
	}
	defer f.Close()

	records, err := Parse(f, s.layout)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", s.path, err)
	}

	return records, nil
}

// MemorySource serves records that were already parsed, e.g. from an upload.
type MemorySource struct {
	id      string
	records []*domain.TransactionRecord
}

// NewUploadSource parses body and identifies it by content hash, so identical
// uploads share cache entries.
func NewUploadSource(body []byte, layout string) (*MemorySource, error) {
	records, err := Parse(bytes.NewReader(body), layout)
	if err != nil {
		return nil, err
	}

	sum := sha256.Sum256(body)
	return NewMemorySource("upload:"+hex.EncodeToString(sum[:]), records), nil
}

// NewMemorySource wraps records under id.
func NewMemorySource(id string, records []*domain.TransactionRecord) *MemorySource {
	return &MemorySource{id: id, records: records}
}

func (s *MemorySource) ID() string {
	return s.id
}

func (s *MemorySource) Transactions(ctx context.Context, _ string) ([]*domain.TransactionRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.records, nil
}
