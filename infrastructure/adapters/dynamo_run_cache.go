package adapters

import (
	"context"
	"time"

	"generate-lecture-service/application/ports/outbound"
	"generate-lecture-service/config"
	"generate-lecture-service/domain"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbattribute"
)

type dynamoRunItem struct {
	RunID           string `dynamodbav:"run_id"`
	UserID          string `dynamodbav:"user_id"`
	Title           string `dynamodbav:"title"`
	DurationSeconds int    `dynamodbav:"duration_seconds"`
	SegmentCount    int    `dynamodbav:"segment_count"`
	TTL             int64  `dynamodbav:"ttl"`
}

type dynamoRunCache struct {
	logger       outbound.LoggerPort
	dynamoSvc    *dynamodb.DynamoDB
	dynamoConfig *config.DynamoConfig
}

func NewDynamoRunCache(logger outbound.LoggerPort, dynamoSvc *dynamodb.DynamoDB, dynamoConfig *config.DynamoConfig) outbound.RunCachePort {
	return &dynamoRunCache{
		logger:       logger,
		dynamoSvc:    dynamoSvc,
		dynamoConfig: dynamoConfig,
	}
}

func (c *dynamoRunCache) Save(ctx context.Context, record domain.RunRecord) error {
	item := dynamoRunItem{
		RunID:           record.RunID,
		UserID:          record.UserID,
		Title:           record.Title,
		DurationSeconds: record.DurationSeconds,
		SegmentCount:    record.SegmentCount,
		TTL:             time.Now().Add(time.Duration(c.dynamoConfig.TtlMinutes) * time.Minute).Unix(),
	}

	av, err := dynamodbattribute.MarshalMap(item)
	if err != nil {
		c.logger.ErrorWithFields(err, "Failed to marshal run record", map[string]interface{}{
			"runID": record.RunID,
		})
		return err
	}

	input := &dynamodb.PutItemInput{
		Item:      av,
		TableName: aws.String(c.dynamoConfig.TableName),
	}

	if _, err = c.dynamoSvc.PutItemWithContext(ctx, input); err != nil {
		c.logger.ErrorWithFields(err, "Failed to save run record", map[string]interface{}{
			"runID": record.RunID,
		})
		return err
	}

	return nil
}
