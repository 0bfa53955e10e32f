package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/mrlokans/highlights-notion-sync/internal/readwise"
)

// Auditor writes payloads as indented JSON files into a directory.
type Auditor struct {
	AuditDir string
}

func NewAuditor(auditDir string) *Auditor {
	return &Auditor{
		AuditDir: auditDir,
	}
}

// SaveJSON saves data to "<prefix>-<uuid>.json" and returns the file name.
func (a *Auditor) SaveJSON(prefix string, data any) (string, error) {
	if err := a.ensureAuditDir(); err != nil {
		return "", fmt.Errorf("failed to ensure audit directory: %w", err)
	}

	filename := fmt.Sprintf("%s-%s.json", prefix, uuid.NewString())
	path := filepath.Join(a.AuditDir, filename)

	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal data to JSON: %w", err)
	}

	if err := os.WriteFile(path, jsonData, 0644); err != nil {
		return "", fmt.Errorf("failed to write audit file: %w", err)
	}

	return filename, nil
}

// ensureAuditDir creates the audit directory if it doesn't exist
func (a *Auditor) ensureAuditDir() error {
	if _, err := os.Stat(a.AuditDir); os.IsNotExist(err) {
		if err := os.MkdirAll(a.AuditDir, 0755); err != nil {
			return fmt.Errorf("failed to create audit directory: %w", err)
		}
	}
	return nil
}

// PageFetcher is satisfied by *readwise.Client.
type PageFetcher interface {
	FetchPage(ctx context.Context, cursor *string) (*readwise.ExportResponse, error)
}

// RecordingFetcher saves every export page it fetches before returning it.
// Audit write failures are logged and never fail the fetch.
type RecordingFetcher struct {
	next    PageFetcher
	auditor *Auditor
	page    int
}

func NewRecordingFetcher(next PageFetcher, auditor *Auditor) *RecordingFetcher {
	return &RecordingFetcher{next: next, auditor: auditor}
}

func (r *RecordingFetcher) FetchPage(ctx context.Context, cursor *string) (*readwise.ExportResponse, error) {
	resp, err := r.next.FetchPage(ctx, cursor)
	if err != nil {
		return nil, err
	}

	r.page++
	filename, saveErr := r.auditor.SaveJSON(fmt.Sprintf("export-page-%03d", r.page), resp)
	if saveErr != nil {
		slog.Warn("Failed to save export page", "page", r.page, "error", saveErr)
	} else {
		slog.Debug("Saved export page", "page", r.page, "file", filename)
	}

	return resp, nil
}
