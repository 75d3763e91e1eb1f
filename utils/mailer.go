package utils

import (
	"context"
	"fmt"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

// Mailer sends transactional mail (MFA and password-reset codes) via SES.
type Mailer struct {
	client *ses.Client
	from   string
}

func NewMailer(ctx context.Context, region, from string) (*Mailer, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("AWS config load failed: %w", err)
	}
	return &Mailer{client: ses.NewFromConfig(cfg), from: from}, nil
}

func (m *Mailer) send(ctx context.Context, to, subject, body string) error {
	input := &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data: aws.String(subject),
			},
			Body: &types.Body{
				Text: &types.Content{
					Data: aws.String(body),
				},
			},
		},
		Source: aws.String(m.from),
	}

	if _, err := m.client.SendEmail(ctx, input); err != nil {
		log.Printf("SES send error: %v", err)
		return fmt.Errorf("email send failed: %w", err)
	}
	return nil
}

func (m *Mailer) SendMFAEmail(ctx context.Context, to, code string) error {
	subject := "Your MFA Code"
	body := fmt.Sprintf("Your MFA verification code is: %s\n\nUse this to complete your login.", code)
	return m.send(ctx, to, subject, body)
}

func (m *Mailer) SendResetEmail(ctx context.Context, to, token string) error {
	subject := "Password Reset Code"
	body := fmt.Sprintf("Your password reset code is: %s\n\nUse this in the app to set a new password.", token)
	return m.send(ctx, to, subject, body)
}
