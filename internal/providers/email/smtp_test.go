package email

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func testProvider() *SMTPProvider {
	return NewSMTP(Config{
		Host:     "smtp.example.com",
		Port:     587,
		From:     "noreply@example.com",
		FromName: "Teklif Sistemi",
	})
}

func TestBuildMessageWithoutAttachments(t *testing.T) {
	msg := string(testProvider().buildMessage(
		[]string{"mehmet@example.com"}, "Teklif TKF-202503-001", "<p>hello</p>", nil))

	assert.Contains(t, msg, "To: mehmet@example.com\r\n")
	assert.Contains(t, msg, "MIME-Version: 1.0\r\n")
	assert.Contains(t, msg, "Content-Type: text/html")
	assert.Contains(t, msg, "<p>hello</p>")
	assert.NotContains(t, msg, "multipart/mixed")
}

func TestBuildMessageWithAttachment(t *testing.T) {
	msg := string(testProvider().buildMessage(
		[]string{"mehmet@example.com"}, "Teklif", "<p>ektedir</p>",
		[]Attachment{{
			Filename:    "TKF-202503-001.pdf",
			ContentType: "application/pdf",
			Data:        []byte("%PDF-1.7 test"),
		}}))

	assert.Contains(t, msg, "multipart/mixed")
	assert.Contains(t, msg, `Content-Type: application/pdf; name="TKF-202503-001.pdf"`)
	assert.Contains(t, msg, "Content-Transfer-Encoding: base64")
	assert.Contains(t, msg, `Content-Disposition: attachment; filename="TKF-202503-001.pdf"`)
	assert.True(t, strings.HasSuffix(msg, "--offerdesk-mixed-boundary--\r\n"))
}

func TestBuildMessageEncodesSubject(t *testing.T) {
	msg := string(testProvider().buildMessage(
		[]string{"mehmet@example.com"}, "Teklif Gönderimi", "<p>x</p>", nil))

	// Non-ASCII subjects are Q-encoded.
	assert.Contains(t, msg, "Subject: =?utf-8?q?")
}
