package convert

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"backoffice/internal/model"
)

func TestFind_ExplicitPathWins(t *testing.T) {
	path, err := Find("/custom/soffice")
	require.NoError(t, err)
	require.Equal(t, "/custom/soffice", path)
}

func TestToPDF_MissingBinary(t *testing.T) {
	dir := t.TempDir()
	conv := NewLibreOffice(filepath.Join(dir, "missing-soffice"))

	_, err := conv.ToPDF(context.Background(), filepath.Join(dir, "deck.pptx"), dir)
	require.Error(t, err)
	require.True(t, errors.Is(err, model.ErrConverterFailed))
}

func TestToPDF_ResolvesBinaryOnce(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "soffice")
	require.NoError(t, os.WriteFile(script, []byte(
		"#!/bin/sh\nout=$5\nin=$6\nbase=$(basename \"$in\" .pptx)\ntouch \"$out/$base.pdf\"\n",
	), 0o755))

	deck := filepath.Join(dir, "deck.pptx")
	require.NoError(t, os.WriteFile(deck, []byte("zip"), 0o644))

	conv := NewLibreOffice(script)
	for i := 0; i < 2; i++ {
		pdfPath, err := conv.ToPDF(context.Background(), deck, dir)
		require.NoError(t, err)
		require.Equal(t, filepath.Join(dir, "deck.pdf"), pdfPath)
	}
	require.Equal(t, script, conv.binary)
}

func TestToPDF_FakeConverter(t *testing.T) {
	// A stand-in script that mimics LibreOffice's output naming.
	dir := t.TempDir()
	script := filepath.Join(dir, "soffice")
	require.NoError(t, os.WriteFile(script, []byte(
		"#!/bin/sh\nout=$5\nin=$6\nbase=$(basename \"$in\" .pptx)\ntouch \"$out/$base.pdf\"\n",
	), 0o755))

	deck := filepath.Join(dir, "deck.pptx")
	require.NoError(t, os.WriteFile(deck, []byte("zip"), 0o644))

	conv := NewLibreOffice(script)
	pdfPath, err := conv.ToPDF(context.Background(), deck, dir)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "deck.pdf"), pdfPath)
}

func TestToPDF_ConverterFails(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "soffice")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\necho boom >&2\nexit 1\n"), 0o755))

	conv := NewLibreOffice(script)
	_, err := conv.ToPDF(context.Background(), filepath.Join(dir, "deck.pptx"), dir)
	require.Error(t, err)
	require.True(t, errors.Is(err, model.ErrConverterFailed))
}

func TestToPDF_NoOutputProduced(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "soffice")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\nexit 0\n"), 0o755))

	conv := NewLibreOffice(script)
	_, err := conv.ToPDF(context.Background(), filepath.Join(dir, "deck.pptx"), dir)
	require.Error(t, err)
	require.True(t, errors.Is(err, model.ErrConverterFailed))
}
