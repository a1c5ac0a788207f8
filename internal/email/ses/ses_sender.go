package ses

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"veridoc/internal/port"
)

type sesNotifier struct {
	client      *sesv2.Client
	fromAddress string
	fromName    string
	frontendURL string
}

// NewSESNotifier creates a new SES-backed Notifier.
func NewSESNotifier(region, fromAddress, fromName, frontendURL string) (port.Notifier, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config for SES: %w", err)
	}
	client := sesv2.NewFromConfig(cfg)
	return &sesNotifier{
		client:      client,
		fromAddress: fromAddress,
		fromName:    fromName,
		frontendURL: frontendURL,
	}, nil
}

func (s *sesNotifier) NotifyStepReady(ctx context.Context, toEmail, toName string, n port.StepNotification) error {
	docURL := fmt.Sprintf("%s/documents/%s", s.frontendURL, n.DocumentID)

	subject := fmt.Sprintf("Action required: %s awaits %s", n.DocumentNumber, n.StepLabel)
	htmlBody := buildStepReadyHTML(toName, n, docURL)
	textBody := fmt.Sprintf(
		"Hi %s,\n\nDocument %s (%s) has reached the %q step and is waiting on your role.\n\nReview it here:\n%s\n\nSLA: %d hours.\n\nVeriDoc",
		toName, n.DocumentNumber, n.DocumentTitle, n.StepLabel, docURL, n.SLAHours,
	)

	from := fmt.Sprintf("%s <%s>", s.fromName, s.fromAddress)

	_, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: &from,
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: &subject},
				Body: &types.Body{
					Html: &types.Content{Data: &htmlBody},
					Text: &types.Content{Data: &textBody},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("SES SendEmail: %w", err)
	}
	return nil
}

func buildStepReadyHTML(name string, n port.StepNotification, docURL string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #333;">A document is waiting for you</h2>
  <p>Hi %s,</p>
  <p>Document <strong>%s</strong> (%s) has reached the <strong>%s</strong> step and is waiting on your role.</p>
  <p style="text-align: center; margin: 30px 0;">
    <a href="%s" style="background-color: #4F46E5; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; display: inline-block;">Review Document</a>
  </p>
  <p>Or copy and paste this link into your browser:</p>
  <p style="word-break: break-all; color: #666;">%s</p>
  <p style="color: #999; font-size: 12px;">Step SLA: %d hours.</p>
  <hr style="border: none; border-top: 1px solid #eee; margin: 20px 0;">
  <p style="color: #999; font-size: 12px;">VeriDoc - Document Control Platform</p>
</body>
</html>`, name, n.DocumentNumber, n.DocumentTitle, n.StepLabel, docURL, docURL, n.SLAHours)
}
