package passreset

import (
	"context"
	"log"
)

// Mailer delivers a verification code to an address. Delivery transport is
// outside this service; only the code lifecycle lives here.
type Mailer interface {
	SendCode(ctx context.Context, email, code string) error
}

// LogMailer writes codes to the process log. Stands in for a real mail
// provider in development and tests.
type LogMailer struct{}

func (LogMailer) SendCode(_ context.Context, email, code string) error {
	log.Printf("verification code for %s: %s", email, code)
	return nil
}
