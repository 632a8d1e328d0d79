// Package testutil provides mock implementations and fixture builders shared
// by the file-forge test suites.
package testutil

import (
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/Sujal-Gaha/file-forge/pkg/converter"
	"github.com/Sujal-Gaha/file-forge/pkg/converter/kind"
)

// MockHooks provides a mock implementation of the converter.Hooks interface.
// Configure expectations using testify/mock methods (e.g. .On("OnRequestQueued", ...)).
type MockHooks struct {
	mock.Mock
}

// OnRequestQueued mocks the OnRequestQueued method.
func (m *MockHooks) OnRequestQueued(index int, req converter.ConversionRequest) error {
	args := m.Called(index, req)
	return args.Error(0)
}

// OnRequestStatusUpdate mocks the OnRequestStatusUpdate method.
func (m *MockHooks) OnRequestStatusUpdate(index int, path string, status converter.Status, message string, duration time.Duration) error {
	args := m.Called(index, path, status, message, duration)
	return args.Error(0)
}

// OnBatchComplete mocks the OnBatchComplete method.
func (m *MockHooks) OnBatchComplete(report converter.Report) error {
	args := m.Called(report)
	return args.Error(0)
}

// MockDetector provides a mock implementation of the kind.Detector interface.
type MockDetector struct {
	mock.Mock
}

// DetectKind mocks the DetectKind method.
func (m *MockDetector) DetectKind(path string) (kind.FileKind, error) {
	args := m.Called(path)
	k, _ := args.Get(0).(kind.FileKind)
	return k, args.Error(1)
}

// MockDecoder provides a mock implementation of the textenc.Decoder interface.
type MockDecoder struct {
	mock.Mock
}

// DecodeToUTF8 mocks the DecodeToUTF8 method.
func (m *MockDecoder) DecodeToUTF8(content []byte) ([]byte, string, bool, error) {
	args := m.Called(content)
	b, _ := args.Get(0).([]byte)
	enc, _ := args.Get(1).(string)
	certain, _ := args.Get(2).(bool)
	return b, enc, certain, args.Error(3)
}
