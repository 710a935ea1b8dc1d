package storage

import (
	"bytes"
	"context"
	"fmt"
	"onboarding-service/internal/app/contracts"
	"onboarding-service/internal/app/models"
	"onboarding-service/internal/pkg/constvars"
	"onboarding-service/internal/pkg/exceptions"
	"onboarding-service/internal/pkg/utils"
	"time"

	"github.com/goccy/go-json"
	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

type minioAuditArchive struct {
	MinioClient   *minio.Client
	BucketName    string
	PresignExpiry time.Duration
	Log           *zap.Logger
}

func NewMinioAuditArchive(minioClient *minio.Client, bucketName string, presignExpiry time.Duration, logger *zap.Logger) contracts.AuditArchive {
	return &minioAuditArchive{
		MinioClient:   minioClient,
		BucketName:    bucketName,
		PresignExpiry: presignExpiry,
		Log:           logger,
	}
}

// ExportTargetTrail uploads the entries as one JSON document and returns a presigned download URL.
func (m *minioAuditArchive) ExportTargetTrail(ctx context.Context, targetID string, entries []models.AuditEntry) (string, error) {
	requestID := utils.GetRequestID(ctx)
	m.Log.Info("minioAuditArchive.ExportTargetTrail called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingTargetIDKey, targetID),
		zap.Int("entries", len(entries)),
	)

	body, err := json.Marshal(map[string]interface{}{
		"targetId":   targetID,
		"exportedAt": time.Now().UTC(),
		"entries":    entries,
	})
	if err != nil {
		return "", exceptions.ErrCannotMarshalJSON(err)
	}

	objectName := fmt.Sprintf("audit/%s/%s.json", targetID, time.Now().UTC().Format("20060102T150405Z"))
	_, err = m.MinioClient.PutObject(
		ctx,
		m.BucketName,
		objectName,
		bytes.NewReader(body),
		int64(len(body)),
		minio.PutObjectOptions{ContentType: constvars.MIMEApplicationJSON},
	)
	if err != nil {
		m.Log.Error("minioAuditArchive.ExportTargetTrail error calling MinioClient.PutObject",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return "", exceptions.ErrMinioCreateObject(err, m.BucketName)
	}

	presignedURL, err := m.MinioClient.PresignedGetObject(ctx, m.BucketName, objectName, m.PresignExpiry, nil)
	if err != nil {
		m.Log.Error("minioAuditArchive.ExportTargetTrail error calling MinioClient.PresignedGetObject",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return "", exceptions.ErrMinioPresignObject(err, m.BucketName)
	}

	m.Log.Info("minioAuditArchive.ExportTargetTrail succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String("object_name", objectName),
	)
	return presignedURL.String(), nil
}
