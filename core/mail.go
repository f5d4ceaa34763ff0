package core

import (
	"bytes"
	htmltmpl "html/template"
	"net/mail"
	"path/filepath"
	"sync"
	texttmpl "text/template"
)

type (
	Attachment struct {
		Content     *bytes.Buffer
		ContentType string
		Filename    string
	}

	EmailMessage struct {
		To          []mail.Address
		Cc          []mail.Address
		Bcc         []mail.Address
		Subject     string
		BodyStr     string // simple text/plain, non-templated content
		Attachments []Attachment

		// templated contents
		TemplateName string // without ext
		TemplateData interface{}
		TextContent  string
		HTMLContent  string
	}

	// TemplateContext is the data passed to every email template.
	TemplateContext struct {
		AppName         string
		FrontendBaseURL string
		Data            interface{}
	}

	// EmailService is any service that can send emails.
	EmailService interface {
		// SendMessages sends messages concurrently
		SendMessages(messages ...*EmailMessage)
	}
)

var (
	tmplInit  sync.Once
	textTmpls *texttmpl.Template
	htmlTmpls *htmltmpl.Template
)

// Render resolves the message's text and HTML contents, executing the
// named templates from assets/templates/email when set.
func (m *EmailMessage) Render(conf *Config) error {
	if m.BodyStr != "" {
		m.TextContent = m.BodyStr
	}
	if m.TemplateName == "" {
		return nil
	}

	var tmplErr error
	tmplInit.Do(func() { tmplErr = parseTemplates(conf) })
	if tmplErr != nil {
		return tmplErr
	}

	data := TemplateContext{
		AppName:         conf.AppName,
		FrontendBaseURL: conf.FrontendBaseURL,
		Data:            m.TemplateData,
	}
	if textTmpls != nil {
		if tmpl := textTmpls.Lookup(m.TemplateName + ".txt"); tmpl != nil {
			var buff bytes.Buffer
			if err := tmpl.Execute(&buff, data); err != nil {
				return err
			}
			m.TextContent = buff.String()
		}
	}
	if htmlTmpls != nil {
		if tmpl := htmlTmpls.Lookup(m.TemplateName + ".gohtml"); tmpl != nil {
			var buff bytes.Buffer
			if err := tmpl.Execute(&buff, data); err != nil {
				return err
			}
			m.HTMLContent = buff.String()
		}
	}
	return nil
}

func (m *EmailMessage) HasRecipients() bool  { return len(m.To) > 0 }
func (m *EmailMessage) HasContent() bool     { return (m.TextContent != "") || (m.HTMLContent != "") }
func (m *EmailMessage) HasAttachments() bool { return len(m.Attachments) > 0 }

func parseTemplates(conf *Config) error {
	rp := filepath.Join(conf.WorkDir, "assets", "templates", "email")

	if tmpls, err := texttmpl.ParseGlob(filepath.Join(rp, "*.txt")); err == nil {
		textTmpls = tmpls
	}
	if tmpls, err := htmltmpl.ParseGlob(filepath.Join(rp, "*.gohtml")); err == nil {
		htmlTmpls = tmpls
	}
	return nil
}
