package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/resumebuilder/internal/common"
	"github.com/dmitrijs2005/resumebuilder/internal/logging"
	sc "github.com/dmitrijs2005/resumebuilder/internal/server/config"
	"github.com/dmitrijs2005/resumebuilder/internal/server/models"
	"github.com/dmitrijs2005/resumebuilder/internal/server/repositories/repomanager"
	"github.com/google/uuid"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// AvatarUpload tells the client where to PUT the image bytes.
type AvatarUpload struct {
	Key       string `json:"key"`
	UploadURL string `json:"uploadUrl"`
}

// AvatarService hands out presigned S3 URLs for profile images. The image
// bytes never pass through the server.
type AvatarService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	config      *sc.Config
	logger      logging.Logger

	mu      sync.Mutex
	presign *s3.PresignClient
}

func NewAvatarService(db *sql.DB, m repomanager.RepositoryManager, config *sc.Config, logger logging.Logger) *AvatarService {
	return &AvatarService{
		db:          db,
		repomanager: m,
		config:      config,
		logger:      logger,
	}
}

// AvatarStorageKey returns a fresh object key under the user's prefix.
func AvatarStorageKey(userID string) string {
	return fmt.Sprintf("avatars/%s/%v", userID, uuid.New())
}

// getPresignClient builds the S3 presign client on first use and reuses it
// afterwards. A failed build is retried on the next call.
func (s *AvatarService) getPresignClient(ctx context.Context) (*s3.PresignClient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.presign != nil {
		return s.presign, nil
	}

	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		o.UsePathStyle = true
	})

	s.presign = newS3PresignClient(client)
	return s.presign, nil
}

// CreateUpload presigns a PUT for a new avatar object and records its key
// as the user's profile image.
func (s *AvatarService) CreateUpload(ctx context.Context, userID string) (*AvatarUpload, error) {
	presignClient, err := s.getPresignClient(ctx)
	if err != nil {
		s.logger.Error(ctx, "s3 client", "error", err)
		return nil, common.ErrorInternal
	}

	bucket := s.config.S3Bucket
	key := AvatarStorageKey(userID)

	req, err := presignPutObject(presignClient, ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(s.config.AvatarURLValidity))
	if err != nil {
		s.logger.Error(ctx, "presign put", "key", key, "error", err)
		return nil, common.ErrorInternal
	}

	if _, err := s.repomanager.Users(s.db).UpdateProfile(ctx, userID, models.ProfilePatch{ProfileImage: &key}); err != nil {
		return nil, s.userError(ctx, err)
	}

	return &AvatarUpload{Key: key, UploadURL: req.URL}, nil
}

// DownloadURL presigns a GET for the user's current avatar.
func (s *AvatarService) DownloadURL(ctx context.Context, userID string) (string, error) {
	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		return "", s.userError(ctx, err)
	}
	if user.ProfileImage == nil || *user.ProfileImage == "" {
		return "", common.ErrorNotFound
	}

	presignClient, err := s.getPresignClient(ctx)
	if err != nil {
		s.logger.Error(ctx, "s3 client", "error", err)
		return "", common.ErrorInternal
	}

	bucket := s.config.S3Bucket
	req, err := presignGetObject(presignClient, ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    user.ProfileImage,
	}, s3.WithPresignExpires(s.config.AvatarURLValidity))
	if err != nil {
		s.logger.Error(ctx, "presign get", "key", *user.ProfileImage, "error", err)
		return "", common.ErrorInternal
	}

	return req.URL, nil
}

func (s *AvatarService) userError(ctx context.Context, err error) error {
	if errors.Is(err, common.ErrorNotFound) {
		return common.ErrorNotFound
	}
	s.logger.Error(ctx, "user repository", "error", err)
	return common.ErrorInternal
}
