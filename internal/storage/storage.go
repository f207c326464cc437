package storage

import (
	"context"
	"errors"
	"time"
)

// ErrObjectNotFound is returned when a requested report file is not in the bucket.
var ErrObjectNotFound = errors.New("object not found")

type ObjectInfo struct {
	Key          string
	Size         int64
	LastModified *time.Time
}

// Service reads rendered report files from remote object storage.
type Service interface {
	ListObjects(ctx context.Context, bucket, prefix string) ([]ObjectInfo, error)
	GetObjectURL(ctx context.Context, bucket, key string, expires time.Duration) (string, error)
}

// ReportKey is the object key of a report file under prefix.
func ReportKey(prefix, reportID string) string {
	if prefix == "" {
		return reportID + ".pdf"
	}
	return prefix + "/" + reportID + ".pdf"
}
