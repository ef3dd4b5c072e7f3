package user

import (
	"context"

	"github.com/xiebiao/library/internal/domain/user"
)

// RegisterUseCase 读者注册
type RegisterUseCase struct {
	userService user.Service
}

// NewRegisterUseCase 创建注册用例
func NewRegisterUseCase(userService user.Service) *RegisterUseCase {
	return &RegisterUseCase{userService: userService}
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	Email    string
	Password string
	Nickname string
}

// UserInfo 用户信息，不含密码
type UserInfo struct {
	ID       uint   `json:"id"`
	Email    string `json:"email"`
	Nickname string `json:"nickname"`
	Role     string `json:"role"`
}

func toUserInfo(u *user.User) UserInfo {
	return UserInfo{
		ID:       u.ID,
		Email:    u.Email,
		Nickname: u.Nickname,
		Role:     string(u.Role),
	}
}

// Execute 执行注册，新用户一律为普通读者
func (uc *RegisterUseCase) Execute(ctx context.Context, req RegisterRequest) (*UserInfo, error) {
	u, err := uc.userService.Register(ctx, req.Email, req.Password, req.Nickname)
	if err != nil {
		return nil, err
	}
	info := toUserInfo(u)
	return &info, nil
}

// ChangeRoleUseCase 管理员修改用户角色
type ChangeRoleUseCase struct {
	userService user.Service
}

// NewChangeRoleUseCase 创建修改角色用例
func NewChangeRoleUseCase(userService user.Service) *ChangeRoleUseCase {
	return &ChangeRoleUseCase{userService: userService}
}

// Execute 修改角色，新角色在下次登录或刷新Token后生效
func (uc *ChangeRoleUseCase) Execute(ctx context.Context, userID uint, role string) (*UserInfo, error) {
	r, err := user.ParseRole(role)
	if err != nil {
		return nil, err
	}
	u, err := uc.userService.ChangeRole(ctx, userID, r)
	if err != nil {
		return nil, err
	}
	info := toUserInfo(u)
	return &info, nil
}
