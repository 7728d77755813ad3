// Package convert turns slide decks into PDFs through a headless
// LibreOffice process. The converter is an external service: this package
// owns only binary discovery, invocation, and the timeout.
package convert

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"backoffice/internal/model"
)

const defaultTimeout = 30 * time.Second

// candidateBinaries are tried in order when no explicit path is configured.
var candidateBinaries = []string{
	"libreoffice",
	"soffice",
	"/usr/bin/libreoffice",
	"/usr/local/bin/libreoffice",
	"/snap/bin/libreoffice",
	"/opt/libreoffice/program/soffice",
	"/Applications/LibreOffice.app/Contents/MacOS/soffice",
}

// LibreOffice converts PPTX decks to PDF in headless mode. The binary is
// discovered lazily on first use, so a host without LibreOffice still
// serves everything that needs no conversion; certificate requests fail
// per request until a converter is installed.
type LibreOffice struct {
	explicit string
	timeout  time.Duration

	mu     sync.Mutex
	binary string
}

// Find locates the LibreOffice binary. An explicit path wins; otherwise
// the usual install locations are probed.
func Find(explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}

	for _, candidate := range candidateBinaries {
		if strings.ContainsRune(candidate, os.PathSeparator) {
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
			continue
		}
		if path, err := exec.LookPath(candidate); err == nil {
			return path, nil
		}
	}

	return "", fmt.Errorf("%w: libreoffice binary not found", model.ErrConverterFailed)
}

// NewLibreOffice creates a converter. An empty explicit path means the
// binary is probed from the usual install locations on first conversion.
func NewLibreOffice(explicit string) *LibreOffice {
	return &LibreOffice{explicit: explicit, timeout: defaultTimeout}
}

// resolve locates the binary, caching a successful lookup. A failed lookup
// is retried on the next conversion, so installing LibreOffice on a
// running host takes effect without a restart.
func (l *LibreOffice) resolve() (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.binary != "" {
		return l.binary, nil
	}

	binary, err := Find(l.explicit)
	if err != nil {
		return "", err
	}
	l.binary = binary

	return binary, nil
}

// ToPDF converts the deck at deckPath, writing the PDF into outDir.
// Returns the path of the produced file.
func (l *LibreOffice) ToPDF(ctx context.Context, deckPath string, outDir string) (string, error) {
	binary, err := l.resolve()
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, binary,
		"--headless",
		"--convert-to", "pdf",
		"--outdir", outDir,
		deckPath,
	)
	output, err := cmd.CombinedOutput()
	if ctx.Err() == context.DeadlineExceeded {
		return "", fmt.Errorf("%w: conversion timed out", model.ErrConverterFailed)
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v: %s", model.ErrConverterFailed, err, strings.TrimSpace(string(output)))
	}

	// LibreOffice names the PDF after the input deck.
	base := strings.TrimSuffix(filepath.Base(deckPath), filepath.Ext(deckPath))
	pdfPath := filepath.Join(outDir, base+".pdf")
	if _, err := os.Stat(pdfPath); err != nil {
		return "", fmt.Errorf("%w: converter produced no output: %v", model.ErrConverterFailed, err)
	}

	return pdfPath, nil
}
