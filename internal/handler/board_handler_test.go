package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/OussemaBenslimene/Tasker/internal/handler"
	"github.com/OussemaBenslimene/Tasker/internal/middleware"
	"github.com/OussemaBenslimene/Tasker/internal/model"
	"github.com/OussemaBenslimene/Tasker/internal/service"
)

type MockBoardRepository struct {
	mock.Mock
}

func (m *MockBoardRepository) Create(ctx context.Context, board *model.Board) error {
	args := m.Called(ctx, board)
	return args.Error(0)
}

func (m *MockBoardRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Board, error) {
	args := m.Called(ctx, id)
	board := args.Get(0)
	if board == nil {
		return nil, args.Error(1)
	}
	return board.(*model.Board), args.Error(1)
}

func (m *MockBoardRepository) List(ctx context.Context, userID uuid.UUID, page, itemsPerPage int, search string) ([]model.Board, int64, error) {
	args := m.Called(ctx, userID, page, itemsPerPage, search)
	boards, _ := args.Get(0).([]model.Board)
	return boards, args.Get(1).(int64), args.Error(2)
}

func (m *MockBoardRepository) Update(ctx context.Context, board *model.Board) error {
	args := m.Called(ctx, board)
	return args.Error(0)
}

func (m *MockBoardRepository) UpdateColumnOrderIDs(ctx context.Context, id uuid.UUID, columnOrderIDs []uuid.UUID) error {
	args := m.Called(ctx, id, columnOrderIDs)
	return args.Error(0)
}

func (m *MockBoardRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockColumnRepository struct {
	mock.Mock
}

func (m *MockColumnRepository) Create(ctx context.Context, column *model.Column) error {
	args := m.Called(ctx, column)
	return args.Error(0)
}

func (m *MockColumnRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Column, error) {
	args := m.Called(ctx, id)
	column := args.Get(0)
	if column == nil {
		return nil, args.Error(1)
	}
	return column.(*model.Column), args.Error(1)
}

func (m *MockColumnRepository) GetByBoardID(ctx context.Context, boardID uuid.UUID) ([]model.Column, error) {
	args := m.Called(ctx, boardID)
	columns, _ := args.Get(0).([]model.Column)
	return columns, args.Error(1)
}

func (m *MockColumnRepository) Update(ctx context.Context, column *model.Column) error {
	args := m.Called(ctx, column)
	return args.Error(0)
}

func (m *MockColumnRepository) UpdateCardOrderIDs(ctx context.Context, id uuid.UUID, cardOrderIDs []uuid.UUID) error {
	args := m.Called(ctx, id, cardOrderIDs)
	return args.Error(0)
}

func (m *MockColumnRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockCardRepository struct {
	mock.Mock
}

func (m *MockCardRepository) Create(ctx context.Context, card *model.Card) error {
	args := m.Called(ctx, card)
	return args.Error(0)
}

func (m *MockCardRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Card, error) {
	args := m.Called(ctx, id)
	card := args.Get(0)
	if card == nil {
		return nil, args.Error(1)
	}
	return card.(*model.Card), args.Error(1)
}

func (m *MockCardRepository) GetByBoardID(ctx context.Context, boardID uuid.UUID) ([]model.Card, error) {
	args := m.Called(ctx, boardID)
	cards, _ := args.Get(0).([]model.Card)
	return cards, args.Error(1)
}

func (m *MockCardRepository) Save(ctx context.Context, card *model.Card) error {
	args := m.Called(ctx, card)
	return args.Error(0)
}

func (m *MockCardRepository) UpdateColumnID(ctx context.Context, id, columnID uuid.UUID) error {
	args := m.Called(ctx, id, columnID)
	return args.Error(0)
}

func (m *MockCardRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCardRepository) DeleteByColumnID(ctx context.Context, columnID uuid.UUID) error {
	args := m.Called(ctx, columnID)
	return args.Error(0)
}

type MockUploader struct {
	mock.Mock
}

func (m *MockUploader) Upload(ctx context.Context, folder, fileName string, data []byte) (string, error) {
	args := m.Called(ctx, folder, fileName, data)
	return args.String(0), args.Error(1)
}

func setupBoardTest() (*gin.Engine, *MockBoardRepository, *MockUploader, uuid.UUID) {
	gin.SetMode(gin.TestMode)
	boardRepo := new(MockBoardRepository)
	uploader := new(MockUploader)
	actorID := uuid.New()

	svc := service.NewBoardService(boardRepo, new(MockColumnRepository), new(MockCardRepository),
		new(MockUserRepository), uploader, nil, zap.NewNop())
	boardHandler := handler.NewBoardHandler(svc)

	r := gin.New()
	r.Use(middleware.ErrorHandler(zap.NewNop()))
	r.Use(func(c *gin.Context) {
		c.Set(middleware.UserIDKey, actorID)
		c.Set(middleware.UserEmailKey, "owner@example.com")
	})
	r.POST("/v1/boards", boardHandler.Create)
	r.PUT("/v1/boards/:id", boardHandler.Update)

	return r, boardRepo, uploader, actorID
}

func multipartBody(fields map[string]string, fileField, fileName string, fileData []byte) (*bytes.Buffer, string) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for key, value := range fields {
		writer.WriteField(key, value)
	}
	if fileField != "" {
		part, _ := writer.CreateFormFile(fileField, fileName)
		part.Write(fileData)
	}
	writer.Close()
	return body, writer.FormDataContentType()
}

func TestCreateBoard_MultipartWithCover(t *testing.T) {
	// Arrange
	router, boardRepo, uploader, actorID := setupBoardTest()

	uploader.On("Upload", mock.Anything, "board-covers", "cover.png", []byte("image-bytes")).
		Return("https://cdn.example.com/board-covers/cover.png", nil)
	boardRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.Board")).Return(nil)

	body, contentType := multipartBody(map[string]string{"title": "Launch Plan"},
		"backgroundImage", "cover.png", []byte("image-bytes"))
	req, _ := http.NewRequest("POST", "/v1/boards", body)
	req.Header.Set("Content-Type", contentType)

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusCreated, resp.Code)

	var board model.Board
	err := json.Unmarshal(resp.Body.Bytes(), &board)
	assert.NoError(t, err)
	assert.Equal(t, "Launch Plan", board.Title)
	assert.Equal(t, "https://cdn.example.com/board-covers/cover.png", board.BackgroundImageURL)
	assert.Contains(t, board.OwnerIDs, actorID)

	uploader.AssertExpectations(t)
	boardRepo.AssertExpectations(t)
}

func TestCreateBoard_MultipartWithoutCover(t *testing.T) {
	// Arrange: the cover file is optional on create
	router, boardRepo, uploader, _ := setupBoardTest()

	boardRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.Board")).Return(nil)

	body, contentType := multipartBody(map[string]string{"title": "Launch Plan"}, "", "", nil)
	req, _ := http.NewRequest("POST", "/v1/boards", body)
	req.Header.Set("Content-Type", contentType)

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusCreated, resp.Code)
	uploader.AssertNotCalled(t, "Upload")
}

func TestCreateBoard_MultipartValidationError(t *testing.T) {
	// Arrange
	router, boardRepo, _, _ := setupBoardTest()

	body, contentType := multipartBody(map[string]string{"title": "ab"},
		"backgroundImage", "cover.png", []byte("image-bytes"))
	req, _ := http.NewRequest("POST", "/v1/boards", body)
	req.Header.Set("Content-Type", contentType)

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	assert.Contains(t, resp.Body.String(), "Title")
	boardRepo.AssertNotCalled(t, "Create")
}

func TestUpdateBoard_MultipartMergesFormFields(t *testing.T) {
	// Arrange
	router, boardRepo, uploader, actorID := setupBoardTest()
	boardID := uuid.New()

	board := &model.Board{ID: boardID, Title: "Old Board", Slug: "old-board", OwnerIDs: []uuid.UUID{actorID}}
	boardRepo.On("GetByID", mock.Anything, boardID).Return(board, nil)
	boardRepo.On("Update", mock.Anything, mock.AnythingOfType("*model.Board")).Return(nil)
	uploader.On("Upload", mock.Anything, "board-covers", "bg.jpg", []byte("jpg-bytes")).
		Return("https://cdn.example.com/board-covers/bg.jpg", nil)

	body, contentType := multipartBody(map[string]string{"title": "Renamed Board"},
		"backgroundImage", "bg.jpg", []byte("jpg-bytes"))
	req, _ := http.NewRequest("PUT", "/v1/boards/"+boardID.String(), body)
	req.Header.Set("Content-Type", contentType)

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert: the upload and the form fields both land
	assert.Equal(t, http.StatusOK, resp.Code)

	var updated model.Board
	err := json.Unmarshal(resp.Body.Bytes(), &updated)
	assert.NoError(t, err)
	assert.Equal(t, "Renamed Board", updated.Title)
	assert.Equal(t, "renamed-board", updated.Slug)
	assert.Equal(t, "https://cdn.example.com/board-covers/bg.jpg", updated.BackgroundImageURL)

	uploader.AssertExpectations(t)
}
