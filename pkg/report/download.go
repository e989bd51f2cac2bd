package report

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/klokku/timesheet/internal/utils"
	log "github.com/sirupsen/logrus"
)

// FileDownloader saves reports into a directory. The content is staged in a
// transient file which is released after releaseDelay whether or not the save
// succeeded.
type FileDownloader struct {
	dir          string
	releaseDelay time.Duration
	clock        utils.Clock
}

func NewFileDownloader(dir string, releaseDelay time.Duration, clock utils.Clock) *FileDownloader {
	return &FileDownloader{dir: dir, releaseDelay: releaseDelay, clock: clock}
}

func (d *FileDownloader) Download(ctx context.Context, filename string, content []byte) (string, error) {
	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	staged, err := os.CreateTemp(d.dir, ".report-*.tmp")
	if err != nil {
		return "", fmt.Errorf("staging report: %w", err)
	}
	defer d.release(ctx, staged.Name())

	if _, err := staged.Write(content); err != nil {
		staged.Close()
		return "", fmt.Errorf("staging report: %w", err)
	}
	if err := staged.Close(); err != nil {
		return "", fmt.Errorf("staging report: %w", err)
	}

	target := availableName(d.dir, filename)
	if err := copyFile(staged.Name(), target); err != nil {
		return "", fmt.Errorf("saving report %s: %w", filename, err)
	}
	return target, nil
}

func (d *FileDownloader) release(ctx context.Context, path string) {
	// the delay is waited out even if ctx is already cancelled
	if err := d.clock.Sleep(context.WithoutCancel(ctx), d.releaseDelay); err != nil {
		log.Debugf("Release delay interrupted: %v", err)
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Warnf("Failed to release staged report %s: %v", path, err)
	}
}

// availableName returns dir/filename, or "name (n).ext" when that is taken.
func availableName(dir, filename string) string {
	target := filepath.Join(dir, filename)
	if _, err := os.Stat(target); os.IsNotExist(err) {
		return target
	}
	ext := filepath.Ext(filename)
	base := strings.TrimSuffix(filename, ext)
	for n := 1; ; n++ {
		candidate := filepath.Join(dir, fmt.Sprintf("%s (%d)%s", base, n, ext))
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate
		}
	}
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
