package pipeline

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/sells-group/ocr-pdftotext/internal/runner"
)

// --- Extractor Mock ---

type mockExtractor struct {
	mock.Mock
}

func (m *mockExtractor) Extract(ctx context.Context, args []string) (*runner.Result, error) {
	ret := m.Called(ctx, args)
	if ret.Get(0) == nil {
		return nil, ret.Error(1)
	}
	return ret.Get(0).(*runner.Result), ret.Error(1)
}

// --- DocumentOCR Mock ---

type mockDocumentOCR struct {
	mock.Mock
}

func (m *mockDocumentOCR) PageCount(inputPath string) (int, error) {
	ret := m.Called(inputPath)
	return ret.Int(0), ret.Error(1)
}

func (m *mockDocumentOCR) OCRPages(ctx context.Context, inputPath string, n int) ([]byte, error) {
	ret := m.Called(ctx, inputPath, n)
	if ret.Get(0) == nil {
		return nil, ret.Error(1)
	}
	return ret.Get(0).([]byte), ret.Error(1)
}
