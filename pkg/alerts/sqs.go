package alerts

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
)

// SQSAPI is the subset of the SQS client used for alerts.
type SQSAPI interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// SQSAlerter implements the Alerter interface using AWS SQS.
// Every alert is also logged, so a failed send is never silent.
type SQSAlerter struct {
	Client   SQSAPI
	QueueURL string
	Logger   *slog.Logger
}

// NewSQSAlerter creates a new SQSAlerter.
func NewSQSAlerter(client SQSAPI, queueURL string, logger *slog.Logger) *SQSAlerter {
	return &SQSAlerter{Client: client, QueueURL: queueURL, Logger: logger}
}

// Make sure we conform to the interface
var _ Alerter = (*SQSAlerter)(nil)

// OrphanedCharge sends the alert to the SQS queue.
func (a *SQSAlerter) OrphanedCharge(ctx context.Context, alert OrphanedCharge) error {
	logged := &LogAlerter{Logger: a.Logger}
	_ = logged.OrphanedCharge(ctx, alert)

	body, err := json.Marshal(alert)
	if err != nil {
		return fmt.Errorf("failed to marshal alert for SQS: %w", err)
	}

	_, err = a.Client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(a.QueueURL),
		MessageBody: aws.String(string(body)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"alert_type": {DataType: aws.String("String"), StringValue: aws.String("orphaned_charge")},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to send alert to SQS: %w", err)
	}

	return nil
}
