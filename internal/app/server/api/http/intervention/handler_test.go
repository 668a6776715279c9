package intervention

import (
	"context"
	"encoding/base64"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/exp/slog"

	"fieldsync/internal/domain/intervention"
)

// MockService is a mock implementation of the Servicer interface for testing
type MockService struct {
	mock.Mock
}

func (m *MockService) List(ctx context.Context) ([]intervention.Intervention, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]intervention.Intervention), args.Error(1)
}

func (m *MockService) ListStock(ctx context.Context) ([]intervention.StockItem, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]intervention.StockItem), args.Error(1)
}

func (m *MockService) AddTimeEntry(ctx context.Context, entry *intervention.TimeEntry) (int64, error) {
	args := m.Called(ctx, entry)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockService) AddLine(ctx context.Context, line *intervention.Line) (int64, error) {
	args := m.Called(ctx, line)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockService) UpdateTask(ctx context.Context, interventionID, taskID int64, status string) error {
	args := m.Called(ctx, interventionID, taskID, status)
	return args.Error(0)
}

func (m *MockService) AddPhoto(ctx context.Context, photo *intervention.Photo) (int64, error) {
	args := m.Called(ctx, photo)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockService) SaveSignature(ctx context.Context, sig *intervention.Signature) error {
	args := m.Called(ctx, sig)
	return args.Error(0)
}

func (m *MockService) UpdateNote(ctx context.Context, interventionID int64, notePrivate string) error {
	args := m.Called(ctx, interventionID, notePrivate)
	return args.Error(0)
}

func newTestHandler(service intervention.Servicer) *Handler {
	return NewHandler(service, slog.Default(), huma.Middlewares{})
}

func TestHandler_list(t *testing.T) {
	// Arrange
	service := new(MockService)
	service.On("List", mock.Anything).Return([]intervention.Intervention{
		{ID: 42, Ref: "INT-2025-0042", ClientName: "Immeuble Les Terrasses"},
	}, nil)
	handler := newTestHandler(service)

	// Act
	out, err := handler.list(context.Background(), nil)

	// Assert
	assert.NoError(t, err)
	assert.Len(t, out.Body.Interventions, 1)
	assert.Equal(t, int64(42), out.Body.Interventions[0].ID)
}

func TestHandler_addLine(t *testing.T) {
	// Arrange
	service := new(MockService)
	service.On("AddLine", mock.Anything, &intervention.Line{
		InterventionID: 42,
		ProductID:      7,
		QtyUsed:        2,
	}).Return(int64(11), nil)
	handler := newTestHandler(service)

	input := &lineInput{
		ID:   42,
		Body: lineRequest{ProductID: 7, QtyUsed: 2},
	}

	// Act
	out, err := handler.addLine(context.Background(), input)

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, "Ok", out.Body.Status)
	assert.Equal(t, int64(11), out.Body.ID)
	service.AssertExpectations(t)
}

func TestHandler_updateTask(t *testing.T) {
	service := new(MockService)
	service.On("UpdateTask", mock.Anything, int64(42), int64(3), "fait").Return(nil)
	handler := newTestHandler(service)

	input := &taskInput{
		ID:     42,
		TaskID: 3,
		Body:   taskRequest{Status: "fait"},
	}

	out, err := handler.updateTask(context.Background(), input)

	assert.NoError(t, err)
	assert.Equal(t, "Ok", out.Body.Status)
	service.AssertExpectations(t)
}

func TestHandler_updateTask_InvalidStatus(t *testing.T) {
	service := new(MockService)
	service.On("UpdateTask", mock.Anything, int64(42), int64(3), "done").
		Return(intervention.ErrInvalidInput)
	handler := newTestHandler(service)

	input := &taskInput{
		ID:     42,
		TaskID: 3,
		Body:   taskRequest{Status: "done"},
	}

	_, err := handler.updateTask(context.Background(), input)

	assert.Error(t, err)
	var statusErr huma.StatusError
	assert.ErrorAs(t, err, &statusErr)
	assert.Equal(t, 422, statusErr.GetStatus())
}

func TestHandler_uploadPhoto(t *testing.T) {
	service := new(MockService)
	service.On("AddPhoto", mock.Anything, mock.MatchedBy(func(p *intervention.Photo) bool {
		return p.InterventionID == 42 && p.Kind == "avant" && string(p.Data) == "jpegbytes"
	})).Return(int64(9), nil)
	handler := newTestHandler(service)

	input := &photoInput{
		ID: 42,
		Body: photoRequest{
			Base64:   base64.StdEncoding.EncodeToString([]byte("jpegbytes")),
			Type:     "avant",
			Filename: "site.jpg",
		},
	}

	out, err := handler.uploadPhoto(context.Background(), input)

	assert.NoError(t, err)
	assert.Equal(t, int64(9), out.Body.ID)
	service.AssertExpectations(t)
}

func TestHandler_uploadPhoto_BadBase64(t *testing.T) {
	service := new(MockService)
	handler := newTestHandler(service)

	input := &photoInput{
		ID:   42,
		Body: photoRequest{Base64: "%%%not-base64%%%", Type: "avant", Filename: "x.jpg"},
	}

	_, err := handler.uploadPhoto(context.Background(), input)

	assert.Error(t, err)
	service.AssertNotCalled(t, "AddPhoto")
}

func TestHandler_update(t *testing.T) {
	service := new(MockService)
	service.On("UpdateNote", mock.Anything, int64(42), "code porte 1234").Return(nil)
	handler := newTestHandler(service)

	input := &updateInput{
		ID:   42,
		Body: updateRequest{NotePrivate: "code porte 1234"},
	}

	out, err := handler.update(context.Background(), input)

	assert.NoError(t, err)
	assert.Equal(t, "Ok", out.Body.Status)
	service.AssertExpectations(t)
}
