// Package audit persists the per-candidate resolution trace next to the
// other artifacts of a source item.
package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/rs/zerolog/log"

	"reelmap/internal/domain"
)

const (
	traceFile = "matches.json"
	lockFile  = ".matches.lock"
)

// FileTraceWriter writes OUT_DIR/reels/<shortcode>/matches.json.
type FileTraceWriter struct {
	outDir string
}

func NewFileTraceWriter(outDir string) *FileTraceWriter {
	return &FileTraceWriter{outDir: outDir}
}

// Dir returns the artifact directory for a shortcode.
func (w *FileTraceWriter) Dir(shortcode string) string {
	return filepath.Join(w.outDir, "reels", shortcode)
}

// Path returns the trace file location for a shortcode.
func (w *FileTraceWriter) Path(shortcode string) string {
	return filepath.Join(w.Dir(shortcode), traceFile)
}

// WriteTrace replaces the trace for shortcode. The file is swapped in with
// a rename so a reader never sees a partial document.
func (w *FileTraceWriter) WriteTrace(ctx context.Context, shortcode string, entries []domain.AuditEntry) error {
	if shortcode == "" || shortcode != filepath.Base(shortcode) {
		return fmt.Errorf("invalid shortcode %q", shortcode)
	}
	dir := w.Dir(shortcode)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	lock := flock.New(filepath.Join(dir, lockFile))
	ok, err := lock.TryLockContext(ctx, 50*time.Millisecond)
	if err != nil {
		return fmt.Errorf("lock trace: %w", err)
	}
	if !ok {
		return fmt.Errorf("lock trace for %s: not acquired", shortcode)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			log.Warn().Err(err).Str("shortcode", shortcode).Msg("trace unlock failed")
		}
	}()

	if entries == nil {
		entries = []domain.AuditEntry{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(entries); err != nil {
		return fmt.Errorf("encode trace: %w", err)
	}

	tmp, err := os.CreateTemp(dir, traceFile+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), w.Path(shortcode)); err != nil {
		return fmt.Errorf("replace trace: %w", err)
	}
	log.Debug().Str("path", w.Path(shortcode)).Int("entries", len(entries)).Msg("audit trace written")
	return nil
}
