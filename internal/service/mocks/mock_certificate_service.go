package mocks

import (
	"context"
	"io"
	"time"

	"certapi/internal/model"
	"certapi/internal/service"
	"certapi/internal/storage"
	"github.com/stretchr/testify/mock"
)

type MockCertificateService struct {
	mock.Mock
}

func (m *MockCertificateService) Recognize(ctx context.Context, data []byte, originalFilename string) (*model.RecognitionEnvelope, error) {
	args := m.Called(ctx, data, originalFilename)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RecognitionEnvelope), args.Error(1)
}

func (m *MockCertificateService) RecognizeBatch(ctx context.Context, uploads []service.RecognitionUpload) ([]model.BatchRecognitionItem, error) {
	args := m.Called(ctx, uploads)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.BatchRecognitionItem), args.Error(1)
}

func (m *MockCertificateService) Submit(ctx context.Context, in service.SubmitInput) (*model.Achievement, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Achievement), args.Error(1)
}

func (m *MockCertificateService) DeleteEvidence(ctx context.Context, url string, ownerID int64, isAdmin bool) (bool, error) {
	args := m.Called(ctx, url, ownerID, isAdmin)
	return args.Bool(0), args.Error(1)
}

func (m *MockCertificateService) ArchiveFetch(ctx context.Context, url string) (io.ReadCloser, storage.ObjectInfo, error) {
	args := m.Called(ctx, url)
	if args.Get(0) == nil {
		return nil, args.Get(1).(storage.ObjectInfo), args.Error(2)
	}
	return args.Get(0).(io.ReadCloser), args.Get(1).(storage.ObjectInfo), args.Error(2)
}

func (m *MockCertificateService) ArchiveLink(ctx context.Context, url string, expiry time.Duration) (string, error) {
	args := m.Called(ctx, url, expiry)
	return args.String(0), args.Error(1)
}
