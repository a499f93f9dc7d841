package sim

import (
	"github.com/odvcencio/virtualviews/pkg/native"
)

// Alert is a presented acknowledgement dialog.
type Alert struct {
	On        native.ViewController
	Title     string
	Accept    string
	dismissed bool
}

// Dismiss acknowledges the alert.
func (a *Alert) Dismiss() { a.dismissed = true }

// Dismissed reports whether the alert was acknowledged.
func (a *Alert) Dismissed() bool { return a.dismissed }

// Prompt is a presented text-entry dialog.
type Prompt struct {
	On native.ViewController
	native.Prompt
	done     func(string, bool)
	resolved bool
}

// Respond confirms the prompt with text. Only the first resolution is
// delivered.
func (p *Prompt) Respond(text string) { p.resolve(text, true) }

// Cancel dismisses the prompt without text.
func (p *Prompt) Cancel() { p.resolve("", false) }

// Resolved reports whether the prompt was answered or cancelled.
func (p *Prompt) Resolved() bool { return p.resolved }

func (p *Prompt) resolve(text string, ok bool) {
	if p.resolved {
		return
	}
	p.resolved = true
	if p.done != nil {
		p.done(text, ok)
	}
}

// Dialogs records presented dialogs until a test or the host answers them.
type Dialogs struct {
	alerts  []*Alert
	prompts []*Prompt
}

// Alert implements native.Dialogs.
func (d *Dialogs) Alert(on native.ViewController, title, accept string) {
	d.alerts = append(d.alerts, &Alert{On: on, Title: title, Accept: accept})
}

// TextPrompt implements native.Dialogs.
func (d *Dialogs) TextPrompt(on native.ViewController, p native.Prompt, done func(string, bool)) {
	d.prompts = append(d.prompts, &Prompt{On: on, Prompt: p, done: done})
}

// Alerts returns every alert presented so far.
func (d *Dialogs) Alerts() []*Alert { return d.alerts }

// Prompts returns every prompt presented so far.
func (d *Dialogs) Prompts() []*Prompt { return d.prompts }

// PendingAlert returns the oldest unacknowledged alert.
func (d *Dialogs) PendingAlert() *Alert {
	for _, a := range d.alerts {
		if !a.dismissed {
			return a
		}
	}
	return nil
}

// PendingPrompt returns the oldest unresolved prompt.
func (d *Dialogs) PendingPrompt() *Prompt {
	for _, p := range d.prompts {
		if !p.resolved {
			return p
		}
	}
	return nil
}

var _ native.Dialogs = (*Dialogs)(nil)
