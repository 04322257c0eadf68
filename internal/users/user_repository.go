package users

import (
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"

	"github.com/anggaSaputra16/management-assets-sub004/internal/repository"
	custom_error "github.com/anggaSaputra16/management-assets-sub004/pkg/errors"
	"github.com/anggaSaputra16/management-assets-sub004/pkg/models"
)

type UserRepository interface {
	PersistUser(companyID int, req models.CreateUserRequest, hashedPassword []byte) error
	GetUser(companyID, id int) (*models.User, error)
	GetUsers(companyID int) ([]models.User, error)
	UpdateUser(companyID, id int, changes *models.UserChanges) error
}

type userRepositoryImpl struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) UserRepository {
	return &userRepositoryImpl{repository: r}
}

func (r *userRepositoryImpl) PersistUser(companyID int, req models.CreateUserRequest, hashedPassword []byte) error {
	query := r.repository.GoquDBWrapper.Insert("users").
		Rows(goqu.Record{
			"username":      req.Username,
			"fullname":      req.Fullname,
			"password_hash": string(hashedPassword),
			"role":          req.Role,
			"company_id":    companyID,
		})

	if _, err := query.Executor().Exec(); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return custom_error.WrapDBError(fmt.Sprintf("username %q", req.Username), string(pqErr.Code))
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}

	return nil
}

func (r *userRepositoryImpl) GetUsers(companyID int) ([]models.User, error) {
	var users []models.User
	query := r.repository.GoquDBWrapper.
		Select("id", "username", "fullname", "role", "company_id").
		From("users").
		Where(goqu.Ex{"company_id": companyID})

	if err := query.Executor().ScanStructs(&users); err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	return users, nil
}

func (r *userRepositoryImpl) GetUser(companyID, id int) (*models.User, error) {
	var user models.User
	query := r.repository.GoquDBWrapper.
		Select("id", "username", "fullname", "password_hash", "role", "company_id").
		From("users").
		Where(goqu.Ex{"id": id, "company_id": companyID})

	found, err := query.Executor().ScanStruct(&user)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("user %d: %w", id, custom_error.ErrNotFound)
	}

	return &user, nil
}

func (r *userRepositoryImpl) UpdateUser(companyID, id int, changes *models.UserChanges) error {
	record := goqu.Record{}
	if changes.Fullname != nil {
		record["fullname"] = *changes.Fullname
	}
	if changes.PasswordHash != nil {
		record["password_hash"] = *changes.PasswordHash
	}
	if changes.Role != nil {
		record["role"] = *changes.Role
	}

	result, err := r.repository.GoquDBWrapper.Update("users").
		Set(record).
		Where(goqu.Ex{"id": id, "company_id": companyID}).
		Executor().Exec()
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("user %d: %w", id, custom_error.ErrNotFound)
	}

	return nil
}
