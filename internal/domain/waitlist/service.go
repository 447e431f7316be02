// Package waitlist handles landing-page waitlist signups: it validates the
// submission and sends a confirmation email, plus an optional admin notice.
package waitlist

import (
	"context"
	"fmt"
	"regexp"

	"github.com/rs/zerolog"

	"github.com/medivault/api/internal/platform/mailer"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Signup is a waitlist submission.
type Signup struct {
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
}

func (s *Signup) Validate() error {
	if s.Email == "" || s.FirstName == "" {
		return fmt.Errorf("email and firstName are required")
	}
	if !emailPattern.MatchString(s.Email) {
		return fmt.Errorf("invalid email address")
	}
	return nil
}

const confirmationSubject = "You're on the MediVault waitlist!"

const confirmationTemplate = `Hi {{firstName}},

Thanks for joining the MediVault waitlist! We'll let you know as soon as
your spot opens up.

In the meantime, your medical documents will thank you.

— The MediVault team`

const adminNoticeTemplate = `New waitlist signup: {{firstName}} <{{email}}>`

type Service struct {
	sender     mailer.EmailSender
	adminEmail string
	logger     zerolog.Logger
}

// NewService creates the waitlist service. adminEmail may be empty, in which
// case no admin notice is sent.
func NewService(sender mailer.EmailSender, adminEmail string, logger zerolog.Logger) *Service {
	return &Service{sender: sender, adminEmail: adminEmail, logger: logger}
}

// Join validates the signup and sends the confirmation email. The admin
// notice is best-effort; its failure is logged, not surfaced.
func (s *Service) Join(ctx context.Context, signup *Signup) error {
	if err := signup.Validate(); err != nil {
		return err
	}

	err := s.sender.Send(ctx, mailer.Email{
		To:      signup.Email,
		Subject: confirmationSubject,
		Body:    mailer.Render(confirmationTemplate, map[string]string{"firstName": signup.FirstName}),
	})
	if err != nil {
		return fmt.Errorf("sending confirmation: %w", err)
	}

	if s.adminEmail != "" {
		err := s.sender.Send(ctx, mailer.Email{
			To:      s.adminEmail,
			Subject: "New waitlist signup",
			Body: mailer.Render(adminNoticeTemplate, map[string]string{
				"firstName": signup.FirstName,
				"email":     signup.Email,
			}),
		})
		if err != nil {
			s.logger.Warn().Err(err).Msg("failed to send waitlist admin notice")
		}
	}
	return nil
}
