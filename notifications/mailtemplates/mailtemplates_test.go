package mailtemplates

import (
	"testing"

	qt "github.com/frankban/quicktest"
	root "github.com/raiseyourvoice/backend"
)

func TestMailTemplateLoading(t *testing.T) {
	c := qt.New(t)
	c.Assert(Load(root.Assets, "assets/mail"), qt.IsNil)
	available := map[TemplateKey]bool{}
	for _, key := range Available() {
		available[key] = true
	}
	for _, tmpl := range []MailTemplate{
		DonationReceivedNotification,
		MilestoneReachedNotification,
		CampaignStatusNotification,
	} {
		for _, lang := range []string{"en", "es"} {
			key := TemplateKey(string(tmpl.File) + "_" + lang)
			c.Assert(available[key], qt.IsTrue, qt.Commentf("template %s should be available", key))
		}
	}
}

func TestExecTemplate(t *testing.T) {
	c := qt.New(t)
	c.Assert(Load(root.Assets, "assets/mail"), qt.IsNil)
	data := Data{
		UserName: "Ana",
		Title:    "Milestone reached",
		Body:     "Clean water reached 500",
		Link:     "https://app.example.org/campaigns/abc",
	}
	n, err := MilestoneReachedNotification.ExecTemplate("es", data)
	c.Assert(err, qt.IsNil)
	c.Assert(n.Subject, qt.Equals, "Milestone reached")
	c.Assert(n.Body, qt.Contains, "Hola Ana")
	c.Assert(n.PlainBody, qt.Contains, "Clean water reached 500")
	c.Assert(n.PlainBody, qt.Contains, data.Link)

	// unknown languages fall back to english
	n, err = MilestoneReachedNotification.ExecTemplate("fr", data)
	c.Assert(err, qt.IsNil)
	c.Assert(n.Body, qt.Contains, "Hello Ana")

	_, err = MailTemplate{File: "missing"}.ExecTemplate("en", data)
	c.Assert(err, qt.Not(qt.IsNil))
}
