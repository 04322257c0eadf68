package models

type User struct {
	ID           int    `json:"id" db:"id"`
	Username     string `json:"username" db:"username"`
	Fullname     string `json:"fullname" db:"fullname"`
	PasswordHash string `json:"-" db:"password_hash"`
	Role         string `json:"role" db:"role"`
	CompanyID    int    `json:"company_id" db:"company_id"`
}

func (u *User) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   u.ID,
		ResourceType: "user",
		CompanyID:    u.CompanyID,
	}
}

type CreateUserRequest struct {
	Username string `json:"username" binding:"required"`
	Fullname string `json:"fullname"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role" binding:"required"`
}

type UpdateUserRequest struct {
	Fullname *string `json:"fullname"`
	Password *string `json:"password"`
	Role     *string `json:"role"`
}

// UserChanges collects column updates so the repository patches only what
// actually changed.
type UserChanges struct {
	Fullname     *string
	PasswordHash *string
	Role         *string
}

func (c *UserChanges) HasChanges() bool {
	return c.Fullname != nil || c.PasswordHash != nil || c.Role != nil
}
