package security

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"github.com/anggaSaputra16/management-assets-sub004/internal/repository"
	"github.com/anggaSaputra16/management-assets-sub004/pkg/models"
)

var jwtSecret []byte

func init() {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		// .env may not be loaded yet when this package initializes first
		if err := godotenv.Load(); err == nil {
			secret = os.Getenv("JWT_SECRET")
		}
	}

	if secret == "" {
		log.Println("Warning: JWT_SECRET is not set, token operations will fail")
		return
	}

	jwtSecret = []byte(secret)
}

func AuthenticateUser(username, password string, repo *repository.Repository) (*models.User, error) {
	var user models.User

	query := repo.GoquDBWrapper.
		Select("id", "username", "password_hash", "role", "company_id").
		From("users").
		Where(goqu.Ex{"username": username})

	if _, err := query.Executor().ScanStruct(&user); err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, err
	}

	return &user, nil
}

func GenerateJWT(userID int, role string, username string, companyID int) (string, error) {
	if len(jwtSecret) == 0 {
		return "", fmt.Errorf("JWT_SECRET is not configured")
	}

	claims := jwt.MapClaims{
		"userID":    userID,
		"role":      role,
		"username":  username,
		"companyID": companyID,
		"exp":       time.Now().Add(time.Hour * 24).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}

// GetCompanyIDFromContext reads the tenant scope the middleware extracted
// from the token. Every handler is tenant-scoped through this.
func GetCompanyIDFromContext(c *gin.Context) (int, error) {
	value, exists := c.Get("companyID")
	if !exists {
		return 0, fmt.Errorf("companyID missing from request context")
	}

	companyID, ok := value.(int)
	if !ok {
		return 0, fmt.Errorf("companyID has unexpected type %T", value)
	}

	return companyID, nil
}

func GetUserIDFromContext(c *gin.Context) (int, error) {
	value, exists := c.Get("userID")
	if !exists {
		return 0, fmt.Errorf("userID missing from request context")
	}

	userID, ok := value.(int)
	if !ok {
		return 0, fmt.Errorf("userID has unexpected type %T", value)
	}

	return userID, nil
}
