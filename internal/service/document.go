package service

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"backoffice/internal/deck"
	"backoffice/internal/logger"
	"backoffice/internal/model"
)

// russianMonths are genitive month names for the card date line.
var russianMonths = [...]string{
	"января", "февраля", "марта", "апреля", "мая", "июня",
	"июля", "августа", "сентября", "октября", "ноября", "декабря",
}

const maxPriceDigits = 6

// Documents generates gift certificates and doctor/patient card sheets
// from slide-deck templates.
type Documents struct {
	converter    model.DeckConverter
	certTemplate string
	cardTemplate string
	logger       *logger.Logger

	now    func() time.Time
	serial func() int
}

func NewDocuments(converter model.DeckConverter, certTemplate, cardTemplate string, logger *logger.Logger) *Documents {
	return &Documents{
		converter:    converter,
		certTemplate: certTemplate,
		cardTemplate: cardTemplate,
		logger:       logger,
		now:          time.Now,
		serial:       func() int { return rand.Intn(900000) + 100000 },
	}
}

// GenerateCertificate fills the certificate template with the recipient
// name, price, and a random serial number, then converts it to PDF.
// Both fields are optional; a provided price must be a positive number of
// at most six digits.
func (d *Documents) GenerateCertificate(ctx context.Context, name, price string) ([]byte, error) {
	name = strings.TrimSpace(name)
	price = strings.TrimSpace(price)

	if price != "" {
		if len(price) > maxPriceDigits {
			return nil, fmt.Errorf("%w: at most %d digits", model.ErrInvalidPrice, maxPriceDigits)
		}
		n, err := strconv.Atoi(price)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("%w: must be a positive number", model.ErrInvalidPrice)
		}
	}

	filled, err := deck.Fill(d.certTemplate, map[string]string{
		"name":   name,
		"price":  price,
		"serial": strconv.Itoa(d.serial()),
	})
	if err != nil {
		return nil, fmt.Errorf("fill certificate template: %w", err)
	}

	workDir, err := os.MkdirTemp("", "gencert-*")
	if err != nil {
		return nil, fmt.Errorf("create work dir: %w", err)
	}
	defer os.RemoveAll(workDir)

	deckPath := filepath.Join(workDir, "certificate.pptx")
	if err := os.WriteFile(deckPath, filled, 0o600); err != nil {
		return nil, fmt.Errorf("write filled deck: %w", err)
	}

	pdfPath, err := d.converter.ToPDF(ctx, deckPath, workDir)
	if err != nil {
		return nil, err
	}

	pdf, err := os.ReadFile(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("read converted pdf: %w", err)
	}

	d.logger.Info("Document service: certificate generated", "bytes", len(pdf))
	return pdf, nil
}

// GenerateCards fills the doctor/patient card template. The result stays a
// slide deck; it is printed, not mailed, so no PDF conversion happens.
func (d *Documents) GenerateCards(fields model.CardFields) ([]byte, error) {
	replacements := make(map[string]string, 9)
	for i, doctor := range fields.Doctors {
		if doctor != "" {
			replacements[fmt.Sprintf("Doctor_%d", i+1)] = "ВРАЧ: " + doctor
		}
	}
	for i, patient := range fields.Patients {
		if patient != "" {
			replacements[fmt.Sprintf("Patient_%d", i+1)] = "ПАЦИЕНТ: " + strings.ToUpper(patient)
		}
	}
	replacements["Дата"] = d.cardDate(fields.Day)

	filled, err := deck.Fill(d.cardTemplate, replacements)
	if err != nil {
		return nil, fmt.Errorf("fill card template: %w", err)
	}

	d.logger.Info("Document service: cards generated", "bytes", len(filled))
	return filled, nil
}

// cardDate renders «d» <month> yyyy г., with an optional day-of-month
// override from the form.
func (d *Documents) cardDate(dayOverride string) string {
	now := d.now()
	day := now.Day()
	if dayOverride != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(dayOverride)); err == nil && n >= 1 && n <= 31 {
			day = n
		}
	}

	return fmt.Sprintf("«%d» %s %d г.", day, russianMonths[now.Month()-1], now.Year())
}
