package api

import (
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"

	"backoffice/internal/metrics"
	"backoffice/internal/model"
	"backoffice/internal/service"
)

const (
	emailStatusCookie = "email_status"
	certStatusCookie  = "gen_cert_status"
	cardsStatusCookie = "doctor_form_status"

	maxAttachmentBytes = 10 << 20

	pptxContentType = "application/vnd.openxmlformats-officedocument.presentationml.presentation"
)

type statusPage struct {
	Status string
}

// ReportPage shows the report form with the outcome of the last send, if
// one is pending in the flash cookie.
func (a *API) ReportPage(w http.ResponseWriter, r *http.Request) {
	status := popFlash(w, r, emailStatusCookie)
	a.renderPage(w, http.StatusOK, "send_email.html", statusPage{Status: status})
}

// SendReport mails the daily sales report with the uploaded spreadsheet.
// The outcome (success time or error text) travels back to the form page
// in a flash cookie; send failures never escalate past that.
func (a *API) SendReport(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxAttachmentBytes); err != nil {
		a.finishReport(w, r, "Ошибка отправки: не удалось прочитать форму")
		return
	}

	file, _, err := r.FormFile("attachment")
	if err != nil {
		a.finishReport(w, r, "Ошибка отправки: файл отчёта не приложен")
		return
	}
	defer file.Close()

	attachment, err := io.ReadAll(file)
	if err != nil {
		a.finishReport(w, r, "Ошибка отправки: не удалось прочитать вложение")
		return
	}

	fields := service.ReportFields{
		Cashless: r.PostFormValue("cashless_pay"),
		Card:     r.PostFormValue("card_pay"),
		QR:       r.PostFormValue("qr_pay"),
		Cash:     r.PostFormValue("cash_pay"),
	}

	sentAt, err := a.reports.Send(r.Context(), fields, attachment)
	if err != nil {
		metrics.ReportsSent.WithLabelValues(metrics.ResultError).Inc()
		a.finishReport(w, r, fmt.Sprintf("Ошибка отправки: %v", err))
		return
	}

	metrics.ReportsSent.WithLabelValues(metrics.ResultOK).Inc()
	a.finishReport(w, r, fmt.Sprintf("Письмо успешно отправлено в %s", sentAt))
}

func (a *API) finishReport(w http.ResponseWriter, r *http.Request, status string) {
	setFlash(w, r, emailStatusCookie, status)
	http.Redirect(w, r, "/send_email", http.StatusSeeOther)
}

// CertificatePage shows the gift certificate form.
func (a *API) CertificatePage(w http.ResponseWriter, r *http.Request) {
	status := popFlash(w, r, certStatusCookie)
	a.renderPage(w, http.StatusOK, "gen_rit_cert.html", statusPage{Status: status})
}

// GenerateCertificate builds the certificate PDF and streams it as a
// download. Validation and converter failures go back to the form as a
// flash status.
func (a *API) GenerateCertificate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}

	pdf, err := a.documents.GenerateCertificate(r.Context(), r.PostFormValue("name"), r.PostFormValue("price"))
	if err != nil {
		metrics.DocumentsGenerated.WithLabelValues("certificate", metrics.ResultError).Inc()
		setFlash(w, r, certStatusCookie, fmt.Sprintf("Ошибка генерации: %v", err))
		http.Redirect(w, r, "/gen_rit_cert", http.StatusSeeOther)
		return
	}

	metrics.DocumentsGenerated.WithLabelValues("certificate", metrics.ResultOK).Inc()
	serveDownload(w, pdf, "Сертификат.pdf", "application/pdf")
}

// CardsPage shows the doctor/patient card form.
func (a *API) CardsPage(w http.ResponseWriter, r *http.Request) {
	status := popFlash(w, r, cardsStatusCookie)
	a.renderPage(w, http.StatusOK, "doctor_form.html", statusPage{Status: status})
}

// GenerateCards builds the filled card deck and streams it for printing.
func (a *API) GenerateCards(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}

	fields := model.CardFields{Day: r.PostFormValue("date")}
	for i := 0; i < 4; i++ {
		fields.Doctors[i] = r.PostFormValue(fmt.Sprintf("doctor_%d", i+1))
		fields.Patients[i] = r.PostFormValue(fmt.Sprintf("patient_%d", i+1))
	}

	filled, err := a.documents.GenerateCards(fields)
	if err != nil {
		metrics.DocumentsGenerated.WithLabelValues("cards", metrics.ResultError).Inc()
		setFlash(w, r, cardsStatusCookie, fmt.Sprintf("Ошибка генерации: %v", err))
		http.Redirect(w, r, "/doctor_form", http.StatusSeeOther)
		return
	}

	metrics.DocumentsGenerated.WithLabelValues("cards", metrics.ResultOK).Inc()
	serveDownload(w, filled, "Бланк Врача на печать.pptx", pptxContentType)
}

func serveDownload(w http.ResponseWriter, data []byte, filename, contentType string) {
	disposition := mime.FormatMediaType("attachment", map[string]string{"filename": filename})
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", disposition)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	_, _ = w.Write(data)
}
