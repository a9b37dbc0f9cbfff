package services

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"carpool-backend/internal/models"
	"carpool-backend/internal/security"
)

const uploadURLTTL = 5 * time.Minute

// DocumentService handles driver licence document uploads via pre-signed
// S3 URLs: the client PUTs the file straight to the bucket.
type DocumentService struct {
	documents DocumentStore
	drivers   DriverStore
	s3Client  *s3.Client
	s3Bucket  string
}

// NewDocumentService creates a new document service
func NewDocumentService(
	documents DocumentStore,
	drivers DriverStore,
	awsRegion, s3Bucket, accessKey, secretKey, endpoint string,
) (*DocumentService, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(awsRegion),
	}
	if accessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, secretKey, "")))
	}

	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	s3Client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})

	return &DocumentService{
		documents: documents,
		drivers:   drivers,
		s3Client:  s3Client,
		s3Bucket:  s3Bucket,
	}, nil
}

// UploadResponse carries the pre-signed URL for the client-side PUT
type UploadResponse struct {
	UploadURL  string `json:"uploadUrl"`
	DocumentID string `json:"documentId"`
	ExpiresIn  int    `json:"expiresIn"`
}

// PresignUpload issues a pre-signed PUT URL for a licence document and
// records it. Only the owning driver or an admin may upload.
func (s *DocumentService) PresignUpload(ctx context.Context, p security.Principal, driverID int64, contentType string) (*UploadResponse, error) {
	driverID = p.ResolveID(driverID)
	if err := p.CanActOn(driverID); err != nil {
		return nil, err
	}
	driver, err := s.drivers.GetByID(ctx, driverID)
	if err != nil {
		return nil, err
	}

	documentID := uuid.New().String()
	s3Key := fmt.Sprintf("licences/%d/%s", driver.ID, documentID)

	presignClient := s3.NewPresignClient(s.s3Client)
	request, err := presignClient.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3Bucket),
		Key:         aws.String(s3Key),
		ContentType: aws.String(contentType),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = uploadURLTTL
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate pre-signed URL: %w", err)
	}

	doc := &models.DriverDocument{
		ID:          documentID,
		Driver:      models.Ref{ID: driver.ID},
		S3URL:       fmt.Sprintf("s3://%s/%s", s.s3Bucket, s3Key),
		ContentType: contentType,
		CreatedDate: time.Now(),
	}
	if err := s.documents.Create(ctx, doc); err != nil {
		return nil, err
	}

	return &UploadResponse{
		UploadURL:  request.URL,
		DocumentID: documentID,
		ExpiresIn:  int(uploadURLTTL.Seconds()),
	}, nil
}

// ListDocuments retrieves the licence documents uploaded for a driver
func (s *DocumentService) ListDocuments(ctx context.Context, p security.Principal, driverID int64) ([]models.DocumentView, error) {
	driverID = p.ResolveID(driverID)
	if err := p.CanActOn(driverID); err != nil {
		return nil, err
	}
	docs, err := s.documents.ListByDriver(ctx, driverID)
	if err != nil {
		return nil, err
	}
	views := make([]models.DocumentView, 0, len(docs))
	for i := range docs {
		views = append(views, docs[i].View())
	}
	return views, nil
}
