package mongo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/gofix/gofix-api/internal/core/domain"
	"github.com/gofix/gofix-api/internal/core/ports"
)

const (
	uploadBucket  = "uploads"
	uploadTimeout = 60 * time.Second
)

// UploadStore keeps images in a GridFS bucket.
type UploadStore struct {
	db *mongo.Database
}

func NewUploadStore(db *mongo.Database) *UploadStore {
	return &UploadStore{db: db}
}

var _ ports.UploadStore = (*UploadStore)(nil)

// bucket returns a bucket whose deadlines follow ctx. Buckets are not safe
// for concurrent deadline changes, so one is built per call.
func (s *UploadStore) bucket(ctx context.Context) (*gridfs.Bucket, error) {
	b, err := gridfs.NewBucket(s.db, options.GridFSBucket().SetName(uploadBucket))
	if err != nil {
		return nil, fmt.Errorf("gridfs bucket: %w", err)
	}
	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(uploadTimeout)
	}
	if err := b.SetWriteDeadline(deadline); err != nil {
		return nil, err
	}
	if err := b.SetReadDeadline(deadline); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *UploadStore) Save(ctx context.Context, filename, contentType string, r io.Reader) (*domain.Upload, error) {
	b, err := s.bucket(ctx)
	if err != nil {
		return nil, err
	}

	opts := options.GridFSUpload().SetMetadata(bson.M{"content_type": contentType})
	stream, err := b.OpenUploadStream(filename, opts)
	if err != nil {
		return nil, fmt.Errorf("open upload stream: %w", err)
	}

	n, err := io.Copy(stream, r)
	if err != nil {
		_ = stream.Abort()
		return nil, err
	}
	if err := stream.Close(); err != nil {
		return nil, fmt.Errorf("close upload stream: %w", err)
	}

	up := &domain.Upload{
		Filename:    filename,
		ContentType: contentType,
		Size:        n,
		UploadedAt:  time.Now().UTC(),
	}
	if oid, ok := stream.FileID.(primitive.ObjectID); ok {
		up.ID = oid.Hex()
	}
	return up, nil
}

// Open returns domain.ErrNotFound for unknown or malformed ids.
func (s *UploadStore) Open(ctx context.Context, id string) (*domain.Upload, io.ReadCloser, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, nil, domain.ErrNotFound
	}
	b, err := s.bucket(ctx)
	if err != nil {
		return nil, nil, err
	}

	stream, err := b.OpenDownloadStream(oid)
	if err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return nil, nil, domain.ErrNotFound
		}
		return nil, nil, fmt.Errorf("open download stream: %w", err)
	}

	file := stream.GetFile()
	up := &domain.Upload{
		ID:          id,
		Filename:    file.Name,
		Size:        file.Length,
		UploadedAt:  file.UploadDate,
		ContentType: "application/octet-stream",
	}
	if ct, ok := file.Metadata.Lookup("content_type").StringValueOK(); ok {
		up.ContentType = ct
	}
	return up, stream, nil
}
