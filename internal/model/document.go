package model

import (
	"context"
	"errors"
)

var (
	ErrTemplateMissing = errors.New("document template missing")
	ErrConverterFailed = errors.New("document converter failed")
	ErrInvalidPrice    = errors.New("invalid certificate price")
)

// DeckConverter converts a saved slide deck to PDF. The converter is an
// external process; implementations own binary discovery and timeouts.
type DeckConverter interface {
	ToPDF(ctx context.Context, deckPath string, outDir string) (pdfPath string, err error)
}

// CardFields is the input for a doctor/patient card sheet. Empty slots keep
// their template placeholders untouched.
type CardFields struct {
	Doctors  [4]string
	Patients [4]string
	// Day overrides the current day of month when set to a numeric string.
	Day string
}
