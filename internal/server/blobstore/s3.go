package blobstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/sethvargo/go-retry"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/logging"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

// s3API is the part of *s3.Client the store uses.
type s3API interface {
	HeadObject(ctx context.Context, in *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Options configures an S3Store. Zero Timeout and RetryBase fall back to
// 5s and 100ms.
type S3Options struct {
	Bucket       string
	Region       string
	AccessKey    string
	SecretKey    string
	BaseEndpoint string
	Timeout      time.Duration
	MaxRetries   int
	RetryBase    time.Duration
	Logger       logging.Logger
	Observer     Observer
}

// S3Store keeps blobs in an S3-compatible bucket (AWS S3, MinIO, GCS
// interoperability endpoint).
type S3Store struct {
	api        s3API
	bucket     string
	timeout    time.Duration
	maxRetries uint64
	retryBase  time.Duration
	logger     logging.Logger
	observer   Observer
}

// NewS3Store builds the AWS client from static credentials. A non-empty
// BaseEndpoint switches to path-style addressing, which MinIO requires.
func NewS3Store(ctx context.Context, opts S3Options) (*S3Store, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(opts.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			opts.AccessKey,
			opts.SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if opts.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(opts.BaseEndpoint)
			o.UsePathStyle = true
		}
	})

	return newS3Store(client, opts), nil
}

func newS3Store(api s3API, opts S3Options) *S3Store {
	s := &S3Store{
		api:       api,
		bucket:    opts.Bucket,
		timeout:   opts.Timeout,
		retryBase: opts.RetryBase,
		logger:    opts.Logger,
		observer:  opts.Observer,
	}
	if opts.MaxRetries > 0 {
		s.maxRetries = uint64(opts.MaxRetries)
	}
	if s.timeout <= 0 {
		s.timeout = 5 * time.Second
	}
	if s.retryBase <= 0 {
		s.retryBase = 100 * time.Millisecond
	}
	if s.logger == nil {
		s.logger = logging.Nop()
	}
	s.logger = s.logger.With("module", "blobstore", "bucket", s.bucket)
	return s
}

func (s *S3Store) Exists(ctx context.Context, key string) (bool, error) {
	var found bool
	err := s.do(ctx, OpExists, key, func(ctx context.Context) error {
		_, err := s.api.HeadObject(ctx, &s3.HeadObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(key),
		})
		if err != nil {
			return err
		}
		found = true
		return nil
	})
	if errors.Is(err, common.ErrorNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return found, nil
}

func (s *S3Store) Read(ctx context.Context, key string) ([]byte, error) {
	var data []byte
	err := s.do(ctx, OpRead, key, func(ctx context.Context) error {
		out, err := s.api.GetObject(ctx, &s3.GetObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(key),
		})
		if err != nil {
			return err
		}
		defer out.Body.Close()

		data, err = io.ReadAll(out.Body)
		return err
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (s *S3Store) Write(ctx context.Context, key string, data []byte, contentType string) error {
	return s.do(ctx, OpWrite, key, func(ctx context.Context) error {
		_, err := s.api.PutObject(ctx, s.putInput(key, data, contentType))
		return err
	})
}

// Create writes key with If-None-Match: *, so the write fails with
// common.ErrorAlreadyExists if another writer got there first.
func (s *S3Store) Create(ctx context.Context, key string, data []byte, contentType string) error {
	return s.do(ctx, OpCreate, key, func(ctx context.Context) error {
		in := s.putInput(key, data, contentType)
		in.IfNoneMatch = aws.String("*")
		_, err := s.api.PutObject(ctx, in)
		return err
	})
}

func (s *S3Store) putInput(key string, data []byte, contentType string) *s3.PutObjectInput {
	return &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentType),
	}
}

// do runs fn with a per-attempt timeout and retries transient failures with
// exponential backoff.
func (s *S3Store) do(ctx context.Context, op, key string, fn func(ctx context.Context) error) error {
	start := time.Now()
	backoff := retry.WithMaxRetries(s.maxRetries, retry.NewExponential(s.retryBase))

	attempt := 0
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		callCtx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()

		transient, err := classify(fn(callCtx))
		if err != nil && transient {
			s.logger.Warn(ctx, "storage call failed", "op", op, "key", key, "attempt", attempt, "error", err)
			return retry.RetryableError(err)
		}
		return err
	})

	// retry.Do reports parent cancellation as a bare context error.
	if err != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) &&
		!errors.Is(err, common.ErrorStorageUnavailable) {
		err = fmt.Errorf("%w: %v", common.ErrorStorageUnavailable, err)
	}

	if s.observer != nil {
		s.observer.ObserveStorage(op, time.Since(start), err)
	}
	return err
}

type httpStatusError interface {
	HTTPStatusCode() int
}

// classify maps an SDK error onto the common sentinels and reports whether
// a retry may help. Only a missing key is ErrorNotFound; a missing bucket,
// denied access or any other coded failure is ErrorStorageUnavailable.
func classify(err error) (bool, error) {
	if err == nil {
		return false, nil
	}

	var noSuchKey *types.NoSuchKey
	var notFound *types.NotFound
	if errors.As(err, &noSuchKey) || errors.As(err, &notFound) {
		return false, fmt.Errorf("%w: %v", common.ErrorNotFound, err)
	}

	code := 0
	var statusErr httpStatusError
	if errors.As(err, &statusErr) {
		code = statusErr.HTTPStatusCode()
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return false, fmt.Errorf("%w: %v", common.ErrorNotFound, err)
		case "PreconditionFailed", "ConditionalRequestConflict":
			return false, fmt.Errorf("%w: %v", common.ErrorAlreadyExists, err)
		}
		return code == 0 || retryableStatus(code), fmt.Errorf("%w: %v", common.ErrorStorageUnavailable, err)
	}

	switch {
	case code == 0:
		return true, fmt.Errorf("%w: %v", common.ErrorStorageUnavailable, err)
	case code == http.StatusNotFound:
		return false, fmt.Errorf("%w: %v", common.ErrorNotFound, err)
	case code == http.StatusPreconditionFailed:
		return false, fmt.Errorf("%w: %v", common.ErrorAlreadyExists, err)
	default:
		// auth failures are not retried
		return retryableStatus(code), fmt.Errorf("%w: %v", common.ErrorStorageUnavailable, err)
	}
}

func retryableStatus(code int) bool {
	return code >= 500 || code == http.StatusTooManyRequests || code == http.StatusRequestTimeout
}
