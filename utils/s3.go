package utils

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3Uploader stores user images and returns their public URL.
type S3Uploader struct {
	client    *s3.Client
	bucket    string
	publicURL string
}

func NewS3Uploader(cfg aws.Config, bucket, publicURL string) *S3Uploader {
	return &S3Uploader{
		client:    s3.NewFromConfig(cfg),
		bucket:    bucket,
		publicURL: strings.TrimRight(publicURL, "/"),
	}
}

func (u *S3Uploader) UploadDataURI(ctx context.Context, dataURI, keyPrefix string) (string, error) {
	contentType, data, err := ParseDataURI(dataURI)
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("profile-pictures/%s-%d%s", keyPrefix, time.Now().UnixNano(), ExtensionFor(contentType))

	_, err = u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
		ACL:         s3types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}
	return fmt.Sprintf("%s/%s", u.publicURL, key), nil
}
