package mailer

import (
	"context"
	"errors"
	"net/smtp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendBuildsMessage(t *testing.T) {
	s := NewSMTP(Config{Host: "mail.example.com", From: "site@example.com", Password: "pw"})

	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg []byte
	var gotAuth smtp.Auth
	s.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotAuth, gotFrom, gotTo, gotMsg = addr, a, from, to, msg
		return nil
	}

	err := s.Send(context.Background(), []string{"a@example.com", "b@example.com"}, "New\r\nBcc: x", "line1\nline2")
	require.NoError(t, err)

	assert.Equal(t, "mail.example.com:587", gotAddr)
	assert.NotNil(t, gotAuth)
	assert.Equal(t, "site@example.com", gotFrom)
	assert.Equal(t, []string{"a@example.com", "b@example.com"}, gotTo)

	msg := string(gotMsg)
	assert.True(t, strings.HasPrefix(msg, "Subject: New  Bcc: x\r\n"))
	assert.Contains(t, msg, "To: a@example.com, b@example.com\r\n")
	assert.Contains(t, msg, "\r\n\r\nline1\r\nline2\r\n")
}

func TestSendErrors(t *testing.T) {
	s := NewSMTP(Config{Host: "h", From: "f"})
	s.send = func(string, smtp.Auth, string, []string, []byte) error { return errors.New("refused") }

	assert.Error(t, s.Send(context.Background(), nil, "s", "b"))
	err := s.Send(context.Background(), []string{"x@example.com"}, "s", "b")
	assert.ErrorContains(t, err, "refused")

	assert.False(t, Config{Host: "h"}.Enabled())
	assert.True(t, Config{Host: "h", From: "f"}.Enabled())
}
