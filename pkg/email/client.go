// Package email sends the registration email with a shareable download link
// over SMTP. Sends are bounded by a fixed timeout; any failure is returned
// as an error for the scheduler's retry state machine to handle.
package email

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"gopkg.in/mail.v2"
)

var bodyTemplate = template.Must(template.New("registration").Parse(`<!DOCTYPE html>
<html>
<body>
  <p>Спасибо за регистрацию!</p>
  <p>Скачайте бета-версию игры по ссылке ниже:</p>
  <p><a href="{{.DownloadLink}}">{{.DownloadLink}}</a></p>
  <p>Если вы не регистрировались на {{.BaseURL}}, просто проигнорируйте это письмо.</p>
</body>
</html>`))

type Client struct {
	smtpHost string
	smtpPort int
	username string
	password string
	from     string
	baseURL  string
	timeout  time.Duration
}

func NewClient(smtpHost string, smtpPort int, username, password, from, baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		smtpHost: smtpHost,
		smtpPort: smtpPort,
		username: username,
		password: password,
		from:     from,
		baseURL:  strings.TrimRight(baseURL, "/"),
		timeout:  timeout,
	}
}

// Send delivers the registration email with the download link for the given
// share token.
func (c *Client) Send(to string, token string) error {
	link := fmt.Sprintf("%s/download/%s", c.baseURL, token)

	var body bytes.Buffer
	err := bodyTemplate.Execute(&body, struct {
		DownloadLink string
		BaseURL      string
	}{DownloadLink: link, BaseURL: c.baseURL})
	if err != nil {
		return fmt.Errorf("render email body: %w", err)
	}

	message := mail.NewMessage()

	message.SetHeader("From", c.from)
	message.SetHeader("To", to)
	message.SetHeader("Subject", "Скачайте бета-версию игры")

	message.SetBody("text/html", body.String())

	dialer := mail.NewDialer(c.smtpHost, c.smtpPort, c.username, c.password)
	dialer.Timeout = c.timeout

	return dialer.DialAndSend(message)
}
