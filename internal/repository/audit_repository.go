package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/fiftyhertz/agriapi/internal/models"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// auditRetention is how long DynamoDB keeps an event before TTL expiry.
const auditRetention = 90 * 24 * time.Hour

// DynamoDBAPI is the subset of the DynamoDB client the audit log needs.
type DynamoDBAPI interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

type AuditRepository struct {
	client    DynamoDBAPI
	tableName string
	logger    *logrus.Logger
	now       func() time.Time
}

func NewAuditRepository(client DynamoDBAPI, tableName string, logger *logrus.Logger) *AuditRepository {
	return &AuditRepository{
		client:    client,
		tableName: tableName,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Store appends an event. Events are partitioned by phone, or by user id when the phone is unknown.
func (r *AuditRepository) Store(ctx context.Context, event *models.AuditEvent) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = r.now()
	}

	item, err := attributevalue.MarshalMap(event)
	if err != nil {
		return fmt.Errorf("failed to marshal audit event: %w", err)
	}

	pk := fmt.Sprintf("USER#%d", event.UserID)
	if event.Phone != "" {
		pk = "PHONE#" + event.Phone
	}
	item["PK"] = &types.AttributeValueMemberS{Value: pk}
	item["SK"] = &types.AttributeValueMemberS{Value: fmt.Sprintf("EVENT#%s#%s", event.CreatedAt.Format(time.RFC3339Nano), event.ID)}
	item["TTL"] = &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", event.CreatedAt.Add(auditRetention).Unix())}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	if err != nil {
		r.logger.WithError(err).WithField("event_type", event.EventType).Error("Failed to store audit event in DynamoDB")
		return fmt.Errorf("failed to store audit event: %w", err)
	}

	return nil
}
