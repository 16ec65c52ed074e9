package adapters

import (
	"context"
	"fmt"
	"strings"

	"generate-lecture-service/application/ports/outbound"
	"generate-lecture-service/config"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3"
)

type s3ScriptStore struct {
	logger   outbound.LoggerPort
	s3Svc    *s3.S3
	s3Config *config.S3Config
}

func NewS3ScriptStore(logger outbound.LoggerPort, s3Svc *s3.S3, s3Config *config.S3Config) outbound.ScriptStorePort {
	return &s3ScriptStore{
		logger:   logger,
		s3Svc:    s3Svc,
		s3Config: s3Config,
	}
}

func (s *s3ScriptStore) Save(ctx context.Context, req outbound.StoreScriptRequest) (string, error) {
	itemPath := s.scriptPath(req)

	putInput := &s3.PutObjectInput{
		Bucket:        aws.String(s.s3Config.BucketName),
		Key:           aws.String(itemPath),
		Body:          strings.NewReader(req.Rendered),
		ContentLength: aws.Int64(int64(len(req.Rendered))),
		ContentType:   aws.String("text/plain; charset=utf-8"),
	}

	if _, err := s.s3Svc.PutObjectWithContext(ctx, putInput); err != nil {
		s.logger.ErrorWithFields(err, "Failed to upload script to S3", map[string]interface{}{
			"bucket": s.s3Config.BucketName,
			"runID":  req.RunID,
		})
		return "", err
	}

	s3Url := fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.s3Config.BucketName, itemPath)
	s.logger.DebugWithFields("Uploaded script to S3", map[string]interface{}{
		"s3Url": s3Url,
	})

	return s3Url, nil
}

func (s *s3ScriptStore) scriptPath(req outbound.StoreScriptRequest) string {
	return fmt.Sprintf("user/%s/lecture/%s/script.txt", req.UserID, req.RunID)
}
