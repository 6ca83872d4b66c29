package mail

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	_ "github.com/emersion/go-message/charset" // decode non UTF-8 alert bodies
	gomail "github.com/emersion/go-message/mail"
)

// maxBodyBytes bounds how much of a single text part is read.
const maxBodyBytes = 1 << 20

// ErrNoTextBody is returned when a multipart message has no text/plain part.
var ErrNoTextBody = errors.New("message has no text body")

// Message is the subset of an email the extractor needs.
type Message struct {
	Date    time.Time
	Subject string
	From    string
	Body    string
}

// ParseMessage decodes a raw RFC 822 message. Encoded subjects are decoded and
// the first text/plain part is used as the body. A single-part message uses
// its only body whatever its content type. A message without a usable Date
// header gets the zero time.
func ParseMessage(raw []byte) (Message, error) {
	r, err := gomail.CreateReader(bytes.NewReader(raw))
	if r == nil {
		return Message{}, fmt.Errorf("failed to read message: %w", err)
	}
	defer func() { _ = r.Close() }()

	var msg Message
	if subject, err := r.Header.Subject(); err == nil {
		msg.Subject = subject
	} else {
		msg.Subject = r.Header.Get("Subject")
	}
	if date, err := r.Header.Date(); err == nil {
		msg.Date = date
	}
	if from, err := r.Header.AddressList("From"); err == nil && len(from) > 0 {
		msg.From = from[0].Address
	} else {
		msg.From = r.Header.Get("From")
	}

	mediaType, _, _ := r.Header.ContentType()
	multipart := strings.HasPrefix(strings.ToLower(mediaType), "multipart/")

	body, err := firstTextPart(r, multipart)
	if err != nil {
		return msg, err
	}
	msg.Body = body
	return msg, nil
}

func firstTextPart(r *gomail.Reader, multipart bool) (string, error) {
	for {
		part, err := r.NextPart()
		if errors.Is(err, io.EOF) {
			return "", ErrNoTextBody
		}
		if err != nil {
			return "", fmt.Errorf("failed to read message part: %w", err)
		}

		h, ok := part.Header.(*gomail.InlineHeader)
		if !ok {
			continue
		}

		if multipart {
			contentType, _, _ := h.ContentType()
			if !strings.EqualFold(contentType, "text/plain") {
				continue
			}
		}

		b, err := io.ReadAll(io.LimitReader(part.Body, maxBodyBytes))
		if err != nil {
			return "", fmt.Errorf("failed to read message body: %w", err)
		}
		return string(b), nil
	}
}
