package mailer

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"github.com/Adeela565/ClickSafe/internal/domain"
	"github.com/Adeela565/ClickSafe/internal/pkg/logger"
)

// SESAPI is the subset of the SES v2 client used for sending.
type SESAPI interface {
	SendEmail(ctx context.Context, in *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// SESSender sends email through the AWS SES v2 API.
type SESSender struct {
	client SESAPI
	from   From
}

// NewSESSender wraps an existing SES client.
func NewSESSender(client SESAPI, from From) *SESSender {
	return &SESSender{client: client, from: from}
}

// NewSESClient builds an SES v2 client. Static credentials are used when
// both keys are set; otherwise the default AWS credential chain applies.
func NewSESClient(ctx context.Context, region, accessKey, secretKey string) (*sesv2.Client, error) {
	if region == "" {
		region = "us-west-2"
	}
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if accessKey != "" && secretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, secretKey, "")))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return sesv2.NewFromConfig(cfg), nil
}

// Send delivers a single message through SES.
func (s *SESSender) Send(ctx context.Context, msg *domain.EmailMessage) error {
	if s.client == nil {
		return errors.New("ses client not initialized")
	}
	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(s.from.header()),
		Destination:      &types.Destination{ToAddresses: []string{msg.To}},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(msg.Subject), Charset: aws.String("UTF-8")},
				Body: &types.Body{
					Html: &types.Content{Data: aws.String(msg.HTMLBody), Charset: aws.String("UTF-8")},
					Text: &types.Content{Data: aws.String(msg.Text()), Charset: aws.String("UTF-8")},
				},
			},
		},
		EmailTags: []types.MessageTag{
			{Name: aws.String("campaign_id"), Value: aws.String(strconv.FormatInt(msg.CampaignID, 10))},
		},
	}

	out, err := s.client.SendEmail(ctx, input)
	if err != nil {
		return fmt.Errorf("ses send: %w", err)
	}
	logger.Debug("ses message sent", "campaign_id", msg.CampaignID, "recipient", msg.To,
		"message_id", aws.ToString(out.MessageId))
	return nil
}
