package inquiry

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/bahayahay/realty/internal/listing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingMailer struct {
	sent []Message
	err  error
}

func (m *recordingMailer) Send(_ context.Context, msg Message) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

func newTestService(t *testing.T, mailer Mailer) *Service {
	t.Helper()
	store := listing.NewMemoryStore()
	store.Seed(listing.SampleCatalogue())
	return NewService(mailer, store, Recipients{From: "site@example.com"}, zap.NewNop())
}

func TestDecodeContact(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"Required fields only", `{"name":"Ana","email":"ana@example.com","phone":"0917","projectLocation":"Naga"}`, false},
		{"Optional fields", `{"name":"Ana","email":"ana@example.com","phone":"0917","projectLocation":"Naga","propertyInterest":"Lot","message":"Hi","referredBy":"a10-1"}`, false},
		{"Null optional field", `{"name":"Ana","email":"ana@example.com","phone":"0917","projectLocation":"Naga","message":null}`, false},
		{"Missing phone", `{"name":"Ana","email":"ana@example.com","projectLocation":"Naga"}`, true},
		{"Blank name", `{"name":"  ","email":"ana@example.com","phone":"0917","projectLocation":"Naga"}`, true},
		{"Wrong type", `{"name":"Ana","email":"ana@example.com","phone":917,"projectLocation":"Naga"}`, true},
		{"Not JSON", `name=Ana`, true},
		{"Header injection in email", `{"name":"Ana","email":"ana@example.com\r\nBcc: victim@evil.test\r\nX-Injected: yes","phone":"0917","projectLocation":"Naga"}`, true},
		{"Email without domain", `{"name":"Ana","email":"ana","phone":"0917","projectLocation":"Naga"}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			contact, err := DecodeContact([]byte(tt.body))
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrMissingFields), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "Ana", contact.Name)
		})
	}
}

func TestDecodeBooking(t *testing.T) {
	valid := `{"name":"Ana","email":"ana@example.com","phone":"0917","message":"Weekend please","preferredDate":"2025-03-15","propertyName":"Queenie 72"}`
	booking, err := DecodeBooking([]byte(valid))
	require.NoError(t, err)
	assert.Equal(t, "Queenie 72", booking.PropertyName)

	date, err := booking.FormattedDate()
	require.NoError(t, err)
	assert.Equal(t, "Saturday, March 15, 2025", date)

	invalid := []string{
		`{"name":"Ana","email":"ana@example.com","phone":"0917","preferredDate":"2025-03-15","propertyName":"Queenie 72"}`,
		`{"name":"Ana","email":"ana@example.com","phone":"0917","message":"Hi","preferredDate":"next week","propertyName":"Queenie 72"}`,
		`{"name":"Ana","email":"ana@example.com","phone":"0917","message":"Hi","preferredDate":"2025-03-15"}`,
		`{"name":"Ana","email":"ana@example.com\nBcc: victim@evil.test","phone":"0917","message":"Hi","preferredDate":"2025-03-15","propertyName":"Queenie 72"}`,
	}
	for _, body := range invalid {
		_, err := DecodeBooking([]byte(body))
		assert.True(t, errors.Is(err, ErrMissingFields), "expected rejection of %s", body)
	}
}

func TestSubmitContact(t *testing.T) {
	mailer := &recordingMailer{}
	svc := newTestService(t, mailer)

	err := svc.SubmitContact(context.Background(), Contact{
		Name:            "Ana Reyes",
		Email:           "ana@example.com",
		Phone:           "0917 000 0000",
		ProjectLocation: "Naga City",
		Message:         "First line\nSecond line",
		ReferredBy:      "A20-2",
	})
	require.NoError(t, err)
	require.Len(t, mailer.sent, 1)

	msg := mailer.sent[0]
	assert.Equal(t, []string{DefaultContactRecipient}, msg.To)
	assert.Equal(t, "site@example.com", msg.From)
	assert.Equal(t, "ana@example.com", msg.ReplyTo)
	assert.Equal(t, "New Contact Form Submission from Ana Reyes", msg.Subject)
	assert.Contains(t, msg.HTML, "<strong>Project Location:</strong> Naga City")
	assert.Contains(t, msg.HTML, "First line<br>Second line")
	assert.Contains(t, msg.HTML, "<strong>Referred By:</strong> Armando L. Aman")
	assert.Contains(t, msg.HTML, "<strong>Brokerage:</strong> Audjean Realty")
	assert.Contains(t, msg.HTML, "<strong>Classification:</strong> Broker")
	assert.NotContains(t, msg.HTML, "Property Interest")
}

func TestSubmitContactUnknownReferral(t *testing.T) {
	mailer := &recordingMailer{}
	svc := newTestService(t, mailer)

	err := svc.SubmitContact(context.Background(), Contact{
		Name: "Ana", Email: "ana@example.com", Phone: "0917", ProjectLocation: "Naga", ReferredBy: "zz-99",
	})
	require.NoError(t, err)
	require.Len(t, mailer.sent, 1)
	assert.Contains(t, mailer.sent[0].HTML, "<strong>Referred By:</strong> zz-99")
	assert.NotContains(t, mailer.sent[0].HTML, "Brokerage")
}

func TestSubmitContactEscapesInput(t *testing.T) {
	mailer := &recordingMailer{}
	svc := newTestService(t, mailer)

	err := svc.SubmitContact(context.Background(), Contact{
		Name: "<b>Ana</b>", Email: "ana@example.com", Phone: "0917", ProjectLocation: "Naga",
	})
	require.NoError(t, err)
	assert.NotContains(t, mailer.sent[0].HTML, "<b>Ana</b>")
	assert.Contains(t, mailer.sent[0].HTML, "&lt;b&gt;Ana&lt;/b&gt;")
}

func TestSubmitBooking(t *testing.T) {
	mailer := &recordingMailer{}
	store := listing.NewMemoryStore()
	store.Seed(listing.SampleCatalogue())
	svc := NewService(mailer, store, Recipients{Booking: "desk@example.com"}, nil)

	err := svc.SubmitBooking(context.Background(), Booking{
		Name:          "Ana",
		Email:         "ana@example.com",
		Phone:         "0917",
		Message:       "Morning works",
		PreferredDate: "2025-03-15",
		PropertyName:  "Queenie 72 - Basic Package",
	})
	require.NoError(t, err)
	require.Len(t, mailer.sent, 1)

	msg := mailer.sent[0]
	assert.Equal(t, []string{"desk@example.com"}, msg.To)
	assert.Equal(t, "New Viewing Booking Request for Queenie 72 - Basic Package", msg.Subject)
	assert.Contains(t, msg.HTML, "<strong>Preferred Date:</strong> Saturday, March 15, 2025")
	assert.NotContains(t, msg.HTML, "Referred By")
}

func TestSubmitBookingInvalidDate(t *testing.T) {
	mailer := &recordingMailer{}
	svc := newTestService(t, mailer)

	err := svc.SubmitBooking(context.Background(), Booking{PreferredDate: "15/03/2025"})
	assert.True(t, errors.Is(err, ErrMissingFields))
	assert.Empty(t, mailer.sent)
}

func TestSubmitDeliveryFailure(t *testing.T) {
	svc := newTestService(t, &recordingMailer{err: errors.New("connection refused")})

	err := svc.SubmitContact(context.Background(), Contact{Name: "Ana", Email: "a@example.com", Phone: "1", ProjectLocation: "Naga"})
	assert.True(t, errors.Is(err, ErrDelivery))
	assert.False(t, errors.Is(err, ErrMissingFields))
}

func TestMessageBytes(t *testing.T) {
	msg := Message{
		From:    "site@example.com",
		To:      []string{"a@example.com", "b@example.com"},
		ReplyTo: "ana@example.com",
		Subject: "New Contact Form Submission from Ana",
		HTML:    "<p>Hi</p>\n<p>There</p>",
	}
	raw := string(msg.Bytes())

	assert.True(t, strings.HasPrefix(raw, "From: site@example.com\r\n"))
	assert.Contains(t, raw, "To: a@example.com, b@example.com\r\n")
	assert.Contains(t, raw, "Reply-To: ana@example.com\r\n")
	assert.Contains(t, raw, "Subject: New Contact Form Submission from Ana\r\n")
	assert.Contains(t, raw, "Content-Type: text/html; charset=\"UTF-8\"\r\n\r\n<p>Hi</p>\r\n<p>There</p>")
}

func TestMessageBytesStripsHeaderBreaks(t *testing.T) {
	msg := Message{
		From:    "site@example.com",
		To:      []string{"a@example.com"},
		ReplyTo: "ana@example.com\r\nBcc: victim@evil.test\r\nX-Injected: yes",
		Subject: "Hello\r\nX-Other: yes",
		HTML:    "<p>Hi</p>",
	}
	raw := string(msg.Bytes())
	headers := raw[:strings.Index(raw, "\r\n\r\n")]

	for _, line := range strings.Split(headers, "\r\n") {
		assert.False(t, strings.HasPrefix(line, "Bcc:"), "unexpected header line %q", line)
		assert.False(t, strings.HasPrefix(line, "X-Injected:"), "unexpected header line %q", line)
		assert.False(t, strings.HasPrefix(line, "X-Other:"), "unexpected header line %q", line)
	}
	assert.Contains(t, headers, "Reply-To: ana@example.comBcc: victim@evil.testX-Injected: yes")
}

func TestLogMailer(t *testing.T) {
	mailer := NewLogMailer(zap.NewNop())
	assert.NoError(t, mailer.Send(context.Background(), Message{To: []string{"a@example.com"}}))
}
