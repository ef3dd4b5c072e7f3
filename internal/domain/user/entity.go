package user

import (
	"time"
)

// Role 用户角色
type Role string

const (
	RoleUser      Role = "User"      // 普通读者
	RoleLibrarian Role = "Librarian" // 馆员：办理借还、上架
	RoleAdmin     Role = "Admin"     // 管理员
)

// ParseRole 解析角色，非法值返回ErrInvalidRole
func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleUser, RoleLibrarian, RoleAdmin:
		return r, nil
	}
	return "", ErrInvalidRole
}

// IsPrivileged 馆员和管理员可以操作他人的预约、办理借还
func (r Role) IsPrivileged() bool {
	return r == RoleLibrarian || r == RoleAdmin
}

// User 用户实体（聚合根）
// 密码为bcrypt哈希值，领域实体不依赖GORM tag
type User struct {
	ID        uint
	Email     string
	Password  string // bcrypt哈希值
	Nickname  string
	Role      Role
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewUser 创建新用户，注册用户一律为普通读者
func NewUser(email, hashedPassword, nickname string) *User {
	now := time.Now()
	return &User{
		Email:     email,
		Password:  hashedPassword,
		Nickname:  nickname,
		Role:      RoleUser,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// UpdateNickname 更新昵称
func (u *User) UpdateNickname(nickname string) {
	u.Nickname = nickname
	u.UpdatedAt = time.Now()
}

// ChangeRole 修改角色
func (u *User) ChangeRole(role Role) {
	u.Role = role
	u.UpdatedAt = time.Now()
}
