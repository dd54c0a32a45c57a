// Package sqsbus 将领域事件转发到SQS队列，供外部通知系统消费
package sqsbus

import (
	"context"
	"encoding/json"

	"github.com/flaboy/aira-pay/pkg/config"
	"github.com/flaboy/aira-pay/pkg/logger"
	"github.com/flaboy/aira-pay/pkg/types"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/google/uuid"
)

type namedEvent interface {
	EventName() string
}

// Bus 基于SQS的EventHandler实现
type Bus struct {
	client   *sqs.Client
	queueURL string
}

func New() (*Bus, error) {
	ctx := context.Background()

	var cfg aws.Config
	var err error
	if config.Config.EventBridge.AWSAccessKey != "" {
		cfg, err = awsConfig.LoadDefaultConfig(ctx,
			awsConfig.WithRegion(config.Config.EventBridge.AWSRegion),
			awsConfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
				config.Config.EventBridge.AWSAccessKey,
				config.Config.EventBridge.AWSSecret,
				"",
			)),
		)
	} else {
		cfg, err = awsConfig.LoadDefaultConfig(ctx,
			awsConfig.WithRegion(config.Config.EventBridge.AWSRegion),
		)
	}
	if err != nil {
		return nil, err
	}

	return &Bus{
		client:   sqs.NewFromConfig(cfg),
		queueURL: config.Config.EventBridge.SQSQueueURL,
	}, nil
}

type envelope struct {
	MessageID string      `json:"message_id"`
	Event     string      `json:"event"`
	Payload   interface{} `json:"payload"`
}

func (b *Bus) publish(event namedEvent) error {
	body, err := json.Marshal(envelope{
		MessageID: uuid.NewString(),
		Event:     event.EventName(),
		Payload:   event,
	})
	if err != nil {
		return err
	}

	_, err = b.client.SendMessage(context.Background(), &sqs.SendMessageInput{
		QueueUrl:    aws.String(b.queueURL),
		MessageBody: aws.String(string(body)),
	})
	if err != nil {
		logger.Logger.Error().Err(err).Str("event", event.EventName()).Msg("failed to publish event to SQS")
	}
	return err
}

func (b *Bus) OnNewPaymentIntent(event *types.NewPaymentIntentEvent) error {
	return b.publish(event)
}

func (b *Bus) OnPaymentIntentMatched(event *types.PaymentIntentMatchedEvent) error {
	return b.publish(event)
}

func (b *Bus) OnPaymentIntentLPPaid(event *types.PaymentIntentLPPaidEvent) error {
	return b.publish(event)
}

func (b *Bus) OnPaymentIntentConfirmed(event *types.PaymentIntentConfirmedEvent) error {
	return b.publish(event)
}

func (b *Bus) OnPaymentIntentCancelled(event *types.PaymentIntentCancelledEvent) error {
	return b.publish(event)
}

func (b *Bus) OnSettlementSuccess(event *types.SettlementSuccessEvent) error {
	return b.publish(event)
}

func (b *Bus) OnSettlementFailed(event *types.SettlementFailedEvent) error {
	return b.publish(event)
}
