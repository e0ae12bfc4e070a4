package mailer

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

const (
	defaultSendGridHost = "https://api.sendgrid.com"
	sendGridEndpoint    = "/v3/mail/send"
)

// SendGridMailer delivers messages through the SendGrid v3 API.
type SendGridMailer struct {
	key        string
	host       string
	from       *sgmail.Email
	subjPrefix string
	client     *rest.Client
}

// SendGridOption customises the mailer.
type SendGridOption func(*SendGridMailer)

// WithHost overrides the API host.
func WithHost(host string) SendGridOption {
	return func(m *SendGridMailer) { m.host = host }
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(client *http.Client) SendGridOption {
	return func(m *SendGridMailer) { m.client = &rest.Client{HTTPClient: client} }
}

// NewSendGridMailer constructs a SendGrid mailer.
func NewSendGridMailer(key, appName, fromEmail string, opts ...SendGridOption) *SendGridMailer {
	m := &SendGridMailer{
		key:        key,
		host:       defaultSendGridHost,
		from:       sgmail.NewEmail(appName, fromEmail),
		subjPrefix: "[" + appName + "] ",
		client:     &rest.Client{HTTPClient: &http.Client{Timeout: 10 * time.Second}},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Send delivers the message, returning an error for non-2xx responses.
func (m *SendGridMailer) Send(ctx context.Context, msg Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}

	req := sendgrid.GetRequest(m.key, sendGridEndpoint, m.host)
	req.Method = rest.Post
	req.Body = sgmail.GetRequestBody(m.prepare(msg))

	res, err := m.client.SendWithContext(ctx, req)
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if res.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("sendgrid send: status %d: %s", res.StatusCode, res.Body)
	}
	return nil
}

func (m *SendGridMailer) prepare(msg Message) *sgmail.SGMailV3 {
	p := sgmail.NewPersonalization()
	p.Subject = m.subjPrefix + msg.Subject
	for _, to := range msg.To {
		p.AddTos(sgmail.NewEmail(to.Name, to.Email))
	}

	v3 := sgmail.NewV3Mail()
	v3.SetFrom(m.from)
	v3.AddPersonalizations(p)

	text := msg.Text
	if text == "" {
		text = msg.Subject
	}
	v3.AddContent(sgmail.NewContent("text/plain", text))
	if msg.HTML != "" {
		v3.AddContent(sgmail.NewContent("text/html", msg.HTML))
	}
	return v3
}
