package users

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	custom_error "github.com/anggaSaputra16/management-assets-sub004/pkg/errors"
	"github.com/anggaSaputra16/management-assets-sub004/pkg/models"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) PersistUser(companyID int, req models.CreateUserRequest, hashedPassword []byte) error {
	args := m.Called(companyID, req, hashedPassword)
	return args.Error(0)
}

func (m *MockUserRepository) GetUser(companyID, id int) (*models.User, error) {
	args := m.Called(companyID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetUsers(companyID int) ([]models.User, error) {
	args := m.Called(companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserRepository) UpdateUser(companyID, id int, changes *models.UserChanges) error {
	args := m.Called(companyID, id, changes)
	return args.Error(0)
}

func setupTestContext() (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("userID", 1)
	c.Set("role", "admin")
	c.Set("companyID", 3)
	return c, w
}

func TestRegisterUser(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		payload        models.CreateUserRequest
		setupMock      func(m *MockUserRepository)
		expectedStatus int
	}{
		{
			name: "successful registration",
			payload: models.CreateUserRequest{
				Username: "jdoe",
				Fullname: "Jan Dorota",
				Password: "secret123",
				Role:     "user",
			},
			setupMock: func(m *MockUserRepository) {
				m.On("PersistUser", 3, mock.AnythingOfType("models.CreateUserRequest"), mock.Anything).
					Return(nil).Once()
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "unknown role",
			payload: models.CreateUserRequest{
				Username: "jdoe",
				Password: "secret123",
				Role:     "superuser",
			},
			setupMock:      func(m *MockUserRepository) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "duplicate username",
			payload: models.CreateUserRequest{
				Username: "jdoe",
				Password: "secret123",
				Role:     "user",
			},
			setupMock: func(m *MockUserRepository) {
				m.On("PersistUser", 3, mock.AnythingOfType("models.CreateUserRequest"), mock.Anything).
					Return(custom_error.WrapDBError("username", "23505")).Once()
			},
			expectedStatus: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			handler := NewHandler(mockRepo)
			tt.setupMock(mockRepo)

			c, w := setupTestContext()
			body, _ := json.Marshal(tt.payload)
			c.Request = httptest.NewRequest(http.MethodPost, "/users", bytes.NewReader(body))
			c.Request.Header.Set("Content-Type", "application/json")

			handler.RegisterUser(c)

			assert.Equal(t, tt.expectedStatus, w.Code)
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestGetUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockRepo := new(MockUserRepository)
	handler := NewHandler(mockRepo)

	user := &models.User{ID: 5, Username: "jdoe", Role: "user", CompanyID: 3}
	mockRepo.On("GetUser", 3, 5).Return(user, nil).Once()

	c, w := setupTestContext()
	c.Params = gin.Params{{Key: "id", Value: "5"}}
	c.Request = httptest.NewRequest(http.MethodGet, "/users/5", nil)

	handler.GetUser(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var got models.User
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "jdoe", got.Username)

	mockRepo.AssertExpectations(t)
}

func TestGetUserNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockRepo := new(MockUserRepository)
	handler := NewHandler(mockRepo)

	mockRepo.On("GetUser", 3, 99).Return(nil, custom_error.ErrNotFound).Once()

	c, w := setupTestContext()
	c.Params = gin.Params{{Key: "id", Value: "99"}}
	c.Request = httptest.NewRequest(http.MethodGet, "/users/99", nil)

	handler.GetUser(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateUserNoChanges(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockRepo := new(MockUserRepository)
	handler := NewHandler(mockRepo)

	user := &models.User{ID: 5, Username: "jdoe", Role: "user", CompanyID: 3}
	mockRepo.On("GetUser", 3, 5).Return(user, nil).Once()

	c, w := setupTestContext()
	c.Params = gin.Params{{Key: "id", Value: "5"}}
	body, _ := json.Marshal(models.UpdateUserRequest{})
	c.Request = httptest.NewRequest(http.MethodPatch, "/users/5", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.UpdateUser(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockRepo.AssertNotCalled(t, "UpdateUser", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateUserChangesRole(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockRepo := new(MockUserRepository)
	handler := NewHandler(mockRepo)

	user := &models.User{ID: 5, Username: "jdoe", Role: "user", CompanyID: 3}
	moderator := "moderator"

	mockRepo.On("GetUser", 3, 5).Return(user, nil).Once()
	mockRepo.On("UpdateUser", 3, 5, mock.MatchedBy(func(changes *models.UserChanges) bool {
		return changes.Role != nil && *changes.Role == moderator
	})).Return(nil).Once()
	updated := &models.User{ID: 5, Username: "jdoe", Role: moderator, CompanyID: 3}
	mockRepo.On("GetUser", 3, 5).Return(updated, nil).Once()

	c, w := setupTestContext()
	c.Params = gin.Params{{Key: "id", Value: "5"}}
	body, _ := json.Marshal(models.UpdateUserRequest{Role: &moderator})
	c.Request = httptest.NewRequest(http.MethodPatch, "/users/5", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.UpdateUser(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockRepo.AssertExpectations(t)
}

func TestGetUserList(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockRepo := new(MockUserRepository)
	handler := NewHandler(mockRepo)

	usersList := []models.User{
		{ID: 1, Username: "jdoe", Role: "user", CompanyID: 3},
		{ID: 2, Username: "asmith", Role: "moderator", CompanyID: 3},
	}
	mockRepo.On("GetUsers", 3).Return(usersList, nil).Once()

	c, w := setupTestContext()
	c.Request = httptest.NewRequest(http.MethodGet, "/users", nil)

	handler.GetUserList(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var got []models.User
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Len(t, got, 2)
}
