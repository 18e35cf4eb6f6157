package main

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"

	"github.com/smenuberu/dashboard/internal/domain"
	"github.com/wneessen/go-mail"
)

//go:embed templates/*.html
var templateFS embed.FS

var errUnsupportedType = errors.New("unsupported mail type")

type mailKind struct {
	template string
	subject  string
}

var mailKinds = map[string]mailKind{
	domain.MailShiftsCreated:          {"shifts_created.html", "Смену опубликовали"},
	domain.MailShiftsPartiallyCreated: {"shifts_partially_created.html", "Смены созданы не полностью"},
}

// queuedMail mirrors domain.MailMessage with the payload left undecoded.
type queuedMail struct {
	Type string          `json:"type"`
	To   string          `json:"to"`
	Data json.RawMessage `json:"data"`
}

type templates map[string]*template.Template

func loadTemplates() (templates, error) {
	t := templates{}
	for _, kind := range mailKinds {
		tmpl, err := template.ParseFS(templateFS, "templates/"+kind.template)
		if err != nil {
			return nil, err
		}
		t[kind.template] = tmpl
	}
	return t, nil
}

// buildMessage turns one queue message into a mail ready to send. Every error
// it returns is permanent for that message.
func (t templates) buildMessage(from string, body []byte) (*mail.Msg, error) {
	var queued queuedMail
	if err := json.Unmarshal(body, &queued); err != nil {
		return nil, fmt.Errorf("decode mail message: %w", err)
	}

	kind, ok := mailKinds[queued.Type]
	if !ok {
		return nil, fmt.Errorf("%w: %q", errUnsupportedType, queued.Type)
	}

	var data domain.ShiftsCreatedMailData
	if err := json.Unmarshal(queued.Data, &data); err != nil {
		return nil, fmt.Errorf("decode mail data: %w", err)
	}

	m := mail.NewMsg()
	if err := m.From(from); err != nil {
		return nil, err
	}
	if err := m.To(queued.To); err != nil {
		return nil, err
	}
	if err := m.SetBodyHTMLTemplate(t[kind.template], data); err != nil {
		return nil, err
	}

	subject := kind.subject
	if queued.Type == domain.MailShiftsCreated && data.Total > 1 {
		subject = fmt.Sprintf("Опубликовано смен: %d", data.Total)
	}
	m.Subject("Сменуберу: " + subject)

	return m, nil
}
