package deck

import (
	"archive/zip"
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backoffice/internal/model"
)

const slideXML = `<?xml version="1.0"?><p:sld xmlns:a="a"><p:txBody>` +
	`<a:r><a:t>ВРАЧ: Doctor_1</a:t></a:r>` +
	`<a:r><a:t xml:space="preserve">price руб.</a:t></a:r>` +
	`<a:r><a:t>plain text</a:t></a:r>` +
	`</p:txBody></p:sld>`

func writeTemplate(t *testing.T, entries map[string]string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "template.pptx")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	w := zip.NewWriter(f)
	for name, content := range entries {
		fw, err := w.Create(name)
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	return path
}

func readEntries(t *testing.T, archive []byte) map[string]string {
	t.Helper()

	r, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	require.NoError(t, err)

	entries := make(map[string]string)
	for _, f := range r.File {
		rc, err := f.Open()
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		rc.Close()
		entries[f.Name] = string(data)
	}
	return entries
}

func TestFill_ReplacesSlideText(t *testing.T) {
	path := writeTemplate(t, map[string]string{
		"[Content_Types].xml":    `<Types/>`,
		"ppt/slides/slide1.xml":  slideXML,
		"ppt/media/image1.png":   "binary-bytes",
		"ppt/slides/_rels/a.txt": "not xml, untouched",
	})

	out, err := Fill(path, map[string]string{
		"Doctor_1": "Иванов И.И.",
		"price":    "5000",
	})
	require.NoError(t, err)

	entries := readEntries(t, out)
	slide := entries["ppt/slides/slide1.xml"]
	assert.Contains(t, slide, "ВРАЧ: Иванов И.И.")
	assert.Contains(t, slide, ">5000 руб.<")
	assert.Contains(t, slide, "plain text")
	assert.NotContains(t, slide, "Doctor_1")

	// Non-slide entries pass through byte-for-byte.
	assert.Equal(t, "binary-bytes", entries["ppt/media/image1.png"])
	assert.Equal(t, `<Types/>`, entries["[Content_Types].xml"])
	assert.Equal(t, "not xml, untouched", entries["ppt/slides/_rels/a.txt"])
}

func TestFill_EscapesValues(t *testing.T) {
	path := writeTemplate(t, map[string]string{
		"ppt/slides/slide1.xml": `<a:t>name</a:t>`,
	})

	out, err := Fill(path, map[string]string{"name": `ООО "Р&Т" <центр>`})
	require.NoError(t, err)

	slide := readEntries(t, out)["ppt/slides/slide1.xml"]
	assert.Contains(t, slide, "Р&amp;Т")
	assert.Contains(t, slide, "&lt;центр&gt;")
	assert.NotContains(t, slide, "<центр>")
}

func TestFill_DoesNotTouchMarkup(t *testing.T) {
	// Placeholder also occurs as an attribute value; only run text changes.
	xml := `<p:sld><p:cNvPr name="price"/><a:r><a:t>price</a:t></a:r></p:sld>`
	path := writeTemplate(t, map[string]string{"ppt/slides/slide1.xml": xml})

	out, err := Fill(path, map[string]string{"price": "100"})
	require.NoError(t, err)

	slide := readEntries(t, out)["ppt/slides/slide1.xml"]
	assert.Contains(t, slide, `name="price"`)
	assert.Contains(t, slide, `<a:t>100</a:t>`)
}

func TestFill_MissingTemplate(t *testing.T) {
	_, err := Fill(filepath.Join(t.TempDir(), "absent.pptx"), nil)
	require.Error(t, err)
	require.True(t, errors.Is(err, model.ErrTemplateMissing))
}
