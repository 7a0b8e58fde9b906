package sns

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/pugly/api/internal/config"
	"github.com/pugly/api/internal/domain"
)

// Sender delivers messages as SMS via AWS SNS. It satisfies the same
// delivery capability as the SMTP mailer; the subject is dropped since SMS
// has no subject line.
type Sender struct {
	client *sns.Client
}

func NewSender(cfg *config.Config) (*Sender, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.SNSRegion),
	)
	if err != nil {
		return nil, err
	}
	return &Sender{client: sns.NewFromConfig(awsCfg)}, nil
}

func (s *Sender) Deliver(ctx context.Context, to, _, body string) error {
	_, err := s.client.Publish(ctx, &sns.PublishInput{
		PhoneNumber: &to,
		Message:     &body,
	})
	if err != nil {
		return fmt.Errorf("publish sms to %s: %w", to, domain.ErrDeliveryFailed)
	}
	return nil
}
