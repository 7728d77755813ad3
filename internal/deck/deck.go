// Package deck fills placeholders inside PPTX slide decks. A .pptx file is
// a zip archive; the only mutation needed here is literal text replacement
// inside the slide XML, so everything else is copied through untouched.
package deck

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"backoffice/internal/model"
)

// textRun matches the text content of a single run inside slide XML.
// Replacements are applied only there, never to markup or attributes.
var textRun = regexp.MustCompile(`(<a:t[^>]*>)([^<]*)(</a:t>)`)

var xmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// Fill reads the template at path and replaces each placeholder key with
// its value in every slide's text runs. Returns the rewritten archive.
func Fill(path string, replacements map[string]string) ([]byte, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", model.ErrTemplateMissing, path)
		}
		return nil, fmt.Errorf("open template: %w", err)
	}
	defer r.Close()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)

	for _, f := range r.File {
		if isSlide(f.Name) {
			if err := rewriteSlide(w, f, replacements); err != nil {
				return nil, err
			}
			continue
		}
		if err := copyRaw(w, f); err != nil {
			return nil, err
		}
	}

	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("finalize archive: %w", err)
	}

	return buf.Bytes(), nil
}

func isSlide(name string) bool {
	return strings.HasPrefix(name, "ppt/slides/") && strings.HasSuffix(name, ".xml")
}

func rewriteSlide(w *zip.Writer, f *zip.File, replacements map[string]string) error {
	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("open slide %s: %w", f.Name, err)
	}
	data, err := io.ReadAll(rc)
	rc.Close()
	if err != nil {
		return fmt.Errorf("read slide %s: %w", f.Name, err)
	}

	replaced := textRun.ReplaceAllStringFunc(string(data), func(run string) string {
		groups := textRun.FindStringSubmatch(run)
		text := groups[2]
		for key, value := range replacements {
			text = strings.ReplaceAll(text, key, xmlEscaper.Replace(value))
		}
		return groups[1] + text + groups[3]
	})

	fw, err := w.CreateHeader(&zip.FileHeader{Name: f.Name, Method: zip.Deflate})
	if err != nil {
		return fmt.Errorf("create slide entry %s: %w", f.Name, err)
	}
	if _, err := fw.Write([]byte(replaced)); err != nil {
		return fmt.Errorf("write slide %s: %w", f.Name, err)
	}

	return nil
}

// copyRaw moves an entry between archives without recompression.
func copyRaw(w *zip.Writer, f *zip.File) error {
	header := f.FileHeader
	fw, err := w.CreateRaw(&header)
	if err != nil {
		return fmt.Errorf("create entry %s: %w", f.Name, err)
	}

	rr, err := f.OpenRaw()
	if err != nil {
		return fmt.Errorf("open entry %s: %w", f.Name, err)
	}
	if _, err := io.Copy(fw, rr); err != nil {
		return fmt.Errorf("copy entry %s: %w", f.Name, err)
	}

	return nil
}
