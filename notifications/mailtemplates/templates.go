package mailtemplates

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	"io/fs"
	"path"
	"strings"
	texttemplate "text/template"

	"github.com/raiseyourvoice/backend/notifications"
)

// DefaultLanguage is used when a template has no version in the requested
// language.
const DefaultLanguage = "en"

// availableTemplates stores the parsed HTML templates by key. The key is the
// filename without the extension, suffixed with the language
// (milestone_reached_en).
var availableTemplates map[TemplateKey]*htmltemplate.Template

// TemplateKey identifies a template file.
type TemplateKey string

// MailTemplate struct represents an email template. It includes the file key
// and the notification placeholder to be sent. The notification placeholder
// includes the plain body template, used as a fallback for email clients that
// do not support HTML, and the mail subject. WebAppURI is the path of the web
// app page the email links to.
type MailTemplate struct {
	File        TemplateKey
	Placeholder notifications.Notification
	WebAppURI   string
}

// Load parses every ".html" file under dir of the provided filesystem,
// usually the embedded assets.
func Load(fsys fs.FS, dir string) error {
	templates := make(map[TemplateKey]*htmltemplate.Template)
	if err := fs.WalkDir(fsys, dir, func(fPath string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".html") {
			return nil
		}
		tmpl, err := htmltemplate.ParseFS(fsys, fPath)
		if err != nil {
			return fmt.Errorf("could not parse template %s: %w", fPath, err)
		}
		templates[TemplateKey(strings.TrimSuffix(path.Base(fPath), ".html"))] = tmpl
		return nil
	}); err != nil {
		return err
	}
	availableTemplates = templates
	return nil
}

// Available returns the keys of the loaded templates.
func Available() []TemplateKey {
	keys := make([]TemplateKey, 0, len(availableTemplates))
	for k := range availableTemplates {
		keys = append(keys, k)
	}
	return keys
}

// localizedTemplate returns the template in the language or in the default
// language.
func (mt MailTemplate) localizedTemplate(lang string) (*htmltemplate.Template, error) {
	if tmpl, ok := availableTemplates[TemplateKey(fmt.Sprintf("%s_%s", mt.File, lang))]; ok {
		return tmpl, nil
	}
	if tmpl, ok := availableTemplates[TemplateKey(fmt.Sprintf("%s_%s", mt.File, DefaultLanguage))]; ok {
		return tmpl, nil
	}
	return nil, fmt.Errorf("template %s not found", mt.File)
}

// ExecTemplate renders the template in the language with the data provided
// and returns the notification with the subject, the HTML body and the plain
// body filled.
func (mt MailTemplate) ExecTemplate(lang string, data any) (*notifications.Notification, error) {
	tmpl, err := mt.localizedTemplate(lang)
	if err != nil {
		return nil, err
	}
	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, data); err != nil {
		return nil, err
	}
	subject, err := execText(mt.Placeholder.Subject, data)
	if err != nil {
		return nil, err
	}
	plain, err := execText(mt.Placeholder.PlainBody, data)
	if err != nil {
		return nil, err
	}
	return &notifications.Notification{
		Subject:   subject,
		Body:      buf.String(),
		PlainBody: plain,
	}, nil
}

func execText(text string, data any) (string, error) {
	if text == "" {
		return "", nil
	}
	tmpl, err := texttemplate.New("plain").Parse(text)
	if err != nil {
		return "", err
	}
	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
