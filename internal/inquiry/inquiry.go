// Package inquiry handles contact messages and viewing bookings submitted
// from the site. Each submission is validated, enriched with the referring
// agent when one is named, and mailed to the sales desk.
package inquiry

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"strings"

	"github.com/bahayahay/realty/internal/listing"
	"github.com/bahayahay/realty/pkg/datetime"
	"go.uber.org/zap"
)

const (
	// DefaultContactRecipient receives contact messages when none is configured.
	DefaultContactRecipient = "bahayahay.ph@gmail.com"
	// DefaultBookingRecipient receives booking requests when none is configured.
	DefaultBookingRecipient = "frontdesk@enjoyrealty.com"
)

// ErrDelivery wraps any failure to hand a message to the mailer.
var ErrDelivery = errors.New("failed to deliver inquiry")

// Contact is a general inquiry from the contact form.
type Contact struct {
	Name             string `json:"name"`
	Email            string `json:"email"`
	Phone            string `json:"phone"`
	ProjectLocation  string `json:"projectLocation"`
	PropertyInterest string `json:"propertyInterest,omitempty"`
	Message          string `json:"message,omitempty"`
	ReferredBy       string `json:"referredBy,omitempty"`
}

// Booking is a request to view a property on a given date.
type Booking struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Message       string `json:"message"`
	PreferredDate string `json:"preferredDate"`
	PropertyName  string `json:"propertyName"`
	ReferredBy    string `json:"referredBy,omitempty"`
}

// DecodeContact validates and decodes a contact payload.
func DecodeContact(body []byte) (Contact, error) {
	var c Contact
	if err := validatePayload(schemaContact, body, &c); err != nil {
		return Contact{}, err
	}
	return c, nil
}

// DecodeBooking validates and decodes a booking payload.
func DecodeBooking(body []byte) (Booking, error) {
	var b Booking
	if err := validatePayload(schemaBooking, body, &b); err != nil {
		return Booking{}, err
	}
	return b, nil
}

// FormattedDate renders the preferred date as "Monday, January 2, 2006".
func (b Booking) FormattedDate() (string, error) {
	date, err := datetime.LongDate(b.PreferredDate)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMissingFields, err)
	}
	return date, nil
}

// AgentFinder resolves referral tags. listing.Store satisfies it.
type AgentFinder interface {
	GetAgent(ctx context.Context, id string) (listing.Agent, error)
}

// Recipients are the mailboxes inquiries are delivered to.
type Recipients struct {
	From    string
	Contact string
	Booking string
}

// Service composes and sends inquiry emails.
type Service struct {
	mailer     Mailer
	agents     AgentFinder
	recipients Recipients
	logger     *zap.Logger
}

// NewService returns an inquiry service. Empty recipients fall back to the
// default sales mailboxes.
func NewService(mailer Mailer, agents AgentFinder, recipients Recipients, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if recipients.Contact == "" {
		recipients.Contact = DefaultContactRecipient
	}
	if recipients.Booking == "" {
		recipients.Booking = DefaultBookingRecipient
	}
	return &Service{mailer: mailer, agents: agents, recipients: recipients, logger: logger}
}

// referral is what the email shows about the referring agent.
type referral struct {
	Tag   string
	Agent *listing.Agent
}

func (s *Service) lookupReferral(ctx context.Context, tag string) *referral {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return nil
	}
	ref := &referral{Tag: tag}
	if s.agents == nil {
		return ref
	}
	agent, err := s.agents.GetAgent(ctx, tag)
	if err != nil {
		if !errors.Is(err, listing.ErrNotFound) {
			s.logger.Warn("failed to look up referral agent",
				zap.String("op", "inquiry.lookupReferral"),
				zap.String("agent", tag),
				zap.Error(err),
			)
		}
		return ref
	}
	ref.Agent = &agent
	return ref
}

// SubmitContact mails a contact inquiry to the sales desk.
func (s *Service) SubmitContact(ctx context.Context, c Contact) error {
	body, err := renderEmail("contact", struct {
		Contact
		Referral *referral
	}{c, s.lookupReferral(ctx, c.ReferredBy)})
	if err != nil {
		return err
	}

	msg := Message{
		From:    s.recipients.From,
		To:      []string{s.recipients.Contact},
		ReplyTo: c.Email,
		Subject: "New Contact Form Submission from " + c.Name,
		HTML:    body,
	}
	return s.send(ctx, "inquiry.SubmitContact", msg)
}

// SubmitBooking mails a viewing request to the front desk.
func (s *Service) SubmitBooking(ctx context.Context, b Booking) error {
	date, err := b.FormattedDate()
	if err != nil {
		return err
	}
	body, err := renderEmail("booking", struct {
		Booking
		Date     string
		Referral *referral
	}{b, date, s.lookupReferral(ctx, b.ReferredBy)})
	if err != nil {
		return err
	}

	msg := Message{
		From:    s.recipients.From,
		To:      []string{s.recipients.Booking},
		ReplyTo: b.Email,
		Subject: "New Viewing Booking Request for " + b.PropertyName,
		HTML:    body,
	}
	return s.send(ctx, "inquiry.SubmitBooking", msg)
}

func (s *Service) send(ctx context.Context, op string, msg Message) error {
	if err := s.mailer.Send(ctx, msg); err != nil {
		s.logger.Error("failed to send inquiry",
			zap.String("op", op),
			zap.Strings("to", msg.To),
			zap.Error(err),
		)
		return fmt.Errorf("%w: %v", ErrDelivery, err)
	}
	s.logger.Info("inquiry sent",
		zap.String("op", op),
		zap.Strings("to", msg.To),
		zap.String("subject", msg.Subject),
	)
	return nil
}

var emailTemplates = template.Must(template.New("email").Funcs(template.FuncMap{
	"lines": func(s string) []string { return strings.Split(s, "\n") },
}).Parse(`
{{- define "referral"}}
{{- with .}}
{{- if .Agent}}
      <p><strong>Referred By:</strong> {{.Agent.Name}}</p>
      <p><strong>Brokerage:</strong> {{.Agent.Brokerage}}</p>
      <p><strong>Classification:</strong> {{.Agent.Classification}}</p>
      <p><strong>Team:</strong> {{.Agent.Team}}</p>
{{- else}}
      <p><strong>Referred By:</strong> {{.Tag}}</p>
{{- end}}
{{- end}}
{{- end}}

{{- define "message"}}{{range $i, $line := lines .}}{{if $i}}<br>{{end}}{{$line}}{{end}}{{end}}

{{- define "contact"}}
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #333;">New Contact Form Submission</h2>
  <div style="background-color: #f5f5f5; padding: 20px; border-radius: 8px; margin: 20px 0;">
      <p><strong>Name:</strong> {{.Name}}</p>
      <p><strong>Email:</strong> {{.Email}}</p>
      <p><strong>Phone:</strong> {{.Phone}}</p>
      <p><strong>Project Location:</strong> {{.ProjectLocation}}</p>
{{- with .PropertyInterest}}
      <p><strong>Property Interest:</strong> {{.}}</p>
{{- end}}
{{- with .Message}}
      <p><strong>Message:</strong></p>
      <p>{{template "message" .}}</p>
{{- end}}
{{- template "referral" .Referral}}
  </div>
  <p style="color: #666; font-size: 12px;">This email was sent from the contact form on your website.</p>
</div>
{{- end}}

{{- define "booking"}}
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #333;">New Viewing Booking Request</h2>
  <div style="background-color: #f5f5f5; padding: 20px; border-radius: 8px; margin: 20px 0;">
      <p><strong>Property:</strong> {{.PropertyName}}</p>
      <p><strong>Preferred Date:</strong> {{.Date}}</p>
      <p><strong>Name:</strong> {{.Name}}</p>
      <p><strong>Email:</strong> {{.Email}}</p>
      <p><strong>Phone:</strong> {{.Phone}}</p>
      <p><strong>Message:</strong></p>
      <p>{{template "message" .Message}}</p>
{{- template "referral" .Referral}}
  </div>
  <p style="color: #666; font-size: 12px;">This booking request was submitted through the property viewing form on your website.</p>
</div>
{{- end}}
`))

func renderEmail(name string, data interface{}) (string, error) {
	var sb strings.Builder
	if err := emailTemplates.ExecuteTemplate(&sb, name, data); err != nil {
		return "", fmt.Errorf("failed to render %s email: %w", name, err)
	}
	return sb.String(), nil
}
