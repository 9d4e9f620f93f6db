package imagestore

import (
	"bytes"
	"os"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/google/uuid"
	Logger "github.com/marketloop/marketloop/utils/log"
	"github.com/pkg/errors"
)

const defaultRegion = "us-west-1"

// S3ImageStore uploads images to an S3 bucket and serves them through a
// public url prefix (typically a CDN distribution in front of the
// bucket).
type S3ImageStore struct {
	bucket    string
	urlPrefix string
	uploader  *s3manager.Uploader
}

// NewS3ImageStore builds a store from the environment: IMAGE_S3_BUCKET,
// IMAGE_URL_PREFIX and optionally IMAGE_S3_REGION.
func NewS3ImageStore() (*S3ImageStore, error) {
	bucket := os.Getenv("IMAGE_S3_BUCKET")
	urlPrefix := os.Getenv("IMAGE_URL_PREFIX")
	if bucket == "" || urlPrefix == "" {
		return nil, errors.New("IMAGE_S3_BUCKET and IMAGE_URL_PREFIX must be configured")
	}
	region := os.Getenv("IMAGE_S3_REGION")
	if region == "" {
		region = defaultRegion
	}

	// AWS client session
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(region),
	})
	if err != nil {
		return nil, err
	}

	return &S3ImageStore{
		bucket:    bucket,
		urlPrefix: strings.TrimSuffix(urlPrefix, "/") + "/",
		uploader:  s3manager.NewUploader(sess),
	}, nil
}

// Store uploads the image bytes under a fresh uuid key, keeping the
// original file extension, and returns the public url.
func (s *S3ImageStore) Store(data []byte, fileName string) (string, error) {
	key := uuid.New().String() + strings.ToLower(path.Ext(fileName))

	_, err := s.uploader.Upload(&s3manager.UploadInput{
		ACL:    aws.String("public-read"),
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		Logger.Log.Warn("fail to upload image, key: ", key, " err: ", err)
		return "", err
	}
	return s.urlPrefix + key, nil
}
