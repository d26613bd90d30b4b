package mocks

import (
	"context"

	"certapi/internal/model"
	"github.com/stretchr/testify/mock"
)

type MockRecognizer struct {
	mock.Mock
}

func (m *MockRecognizer) Recognize(ctx context.Context, imagePath string) *model.RecognitionEnvelope {
	args := m.Called(ctx, imagePath)
	return args.Get(0).(*model.RecognitionEnvelope)
}

func (m *MockRecognizer) RecognizeBatch(ctx context.Context, imagePaths []string) []*model.RecognitionEnvelope {
	args := m.Called(ctx, imagePaths)
	return args.Get(0).([]*model.RecognitionEnvelope)
}
