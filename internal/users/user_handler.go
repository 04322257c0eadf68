package users

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	custom_error "github.com/anggaSaputra16/management-assets-sub004/pkg/errors"
	"github.com/anggaSaputra16/management-assets-sub004/pkg/models"
	"github.com/anggaSaputra16/management-assets-sub004/pkg/roles"
	"github.com/anggaSaputra16/management-assets-sub004/pkg/security"
)

type UsersHandler struct {
	Repository UserRepository
}

func NewHandler(r UserRepository) *UsersHandler {
	return &UsersHandler{Repository: r}
}

func (h *UsersHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/users", security.Authorize("admin"), h.RegisterUser)
	router.PATCH("/users/:id", security.Authorize("admin"), h.UpdateUser)
	router.GET("/users/:id", security.Authorize("user"), h.GetUser)
	router.GET("/users", security.Authorize("moderator"), h.GetUserList)
}

func (h *UsersHandler) RegisterUser(c *gin.Context) {
	companyID, err := security.GetCompanyIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	var req models.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	if !roles.Role(req.Role).IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown role", "details": req.Role})
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	if err := h.Repository.PersistUser(companyID, req, hashedPassword); err != nil {
		c.JSON(custom_error.HTTPStatus(err), gin.H{"error": "Failed to create user", "details": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "User registered successfully"})
}

func (h *UsersHandler) UpdateUser(c *gin.Context) {
	companyID, err := security.GetCompanyIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID", "details": err.Error()})
		return
	}

	var req models.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	user, err := h.Repository.GetUser(companyID, userID)
	if err != nil {
		c.JSON(custom_error.HTTPStatus(err), gin.H{"error": "Unable to find user", "details": err.Error()})
		return
	}

	changes := &models.UserChanges{}

	if req.Password != nil && *req.Password != "" {
		if len(*req.Password) < 6 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Password must be at least 6 characters long"})
			return
		}
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
			return
		}
		passwordHash := string(hashedPassword)
		changes.PasswordHash = &passwordHash
	}

	if req.Fullname != nil && *req.Fullname != user.Fullname {
		changes.Fullname = req.Fullname
	}

	if req.Role != nil && *req.Role != user.Role {
		if !roles.Role(*req.Role).IsValid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown role", "details": *req.Role})
			return
		}
		changes.Role = req.Role
	}

	if !changes.HasChanges() {
		c.JSON(http.StatusOK, user)
		return
	}

	if err := h.Repository.UpdateUser(companyID, userID, changes); err != nil {
		c.JSON(custom_error.HTTPStatus(err), gin.H{"error": "Failed to update user", "details": err.Error()})
		return
	}

	updated, err := h.Repository.GetUser(companyID, userID)
	if err != nil {
		c.JSON(custom_error.HTTPStatus(err), gin.H{"error": "Unable to find user", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, updated)
}

func (h *UsersHandler) GetUser(c *gin.Context) {
	companyID, err := security.GetCompanyIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID", "details": err.Error()})
		return
	}

	user, err := h.Repository.GetUser(companyID, userID)
	if err != nil {
		c.JSON(custom_error.HTTPStatus(err), gin.H{"error": "Unable to find user", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *UsersHandler) GetUserList(c *gin.Context) {
	companyID, err := security.GetCompanyIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	users, err := h.Repository.GetUsers(companyID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to list users", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, users)
}
