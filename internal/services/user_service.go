package services

import (
	"context"
	"strings"
	"time"

	"garage_manager/internal/apperr"
	"garage_manager/internal/auth"
	"garage_manager/internal/models"
	"garage_manager/internal/repository"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Revoker blocks a token id until ttl passes.
type Revoker interface {
	RevokeToken(ctx context.Context, tokenID string, ttl time.Duration) error
}

type RegisterInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
}

// PartyInput creates a staff member, customer or admin.
type PartyInput struct {
	Username string           `json:"username"`
	Password string           `json:"password"`
	FullName string           `json:"full_name"`
	Phone    string           `json:"phone"`
	Role     string           `json:"role"`
	Position *string          `json:"chucvu"`
	Debt     *decimal.Decimal `json:"so_no"`
	Note     *string          `json:"note"`
}

// PartyUpdateInput only rewrites the fields present in the request body.
type PartyUpdateInput struct {
	Username models.Optional[string]          `json:"username"`
	Password models.Optional[string]          `json:"password"`
	FullName models.Optional[string]          `json:"full_name"`
	Phone    models.Optional[string]          `json:"phone"`
	Position models.Optional[string]          `json:"chucvu"`
	Debt     models.Optional[decimal.Decimal] `json:"so_no"`
	Note     models.Optional[string]          `json:"note"`
}

type LoginResult struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *models.User `json:"user"`
}

type UserService interface {
	Register(ctx context.Context, in RegisterInput) (*models.User, error)
	Login(ctx context.Context, username, password string) (*LoginResult, error)
	Logout(ctx context.Context, claims *auth.Claims) error
	Me(ctx context.Context, id uint) (*models.User, error)
	CreateUser(ctx context.Context, in PartyInput) (*models.User, error)
	ListParties(ctx context.Context, role models.UserRole) ([]models.User, error)
	CreateParty(ctx context.Context, role models.UserRole, in PartyInput) (*models.User, error)
	UpdateParty(ctx context.Context, role models.UserRole, id uint, in PartyUpdateInput) (*models.User, error)
	DeleteParty(ctx context.Context, callerRole string, id uint) (*models.User, error)
	FindCustomerByPhone(ctx context.Context, phone string) (*models.User, error)
	ChangePassword(ctx context.Context, id uint, oldPassword, newPassword string) error
}

type userService struct {
	users   repository.UserRepository
	tokens  *auth.TokenIssuer
	revoker Revoker
	log     zerolog.Logger
	now     func() time.Time
}

// NewUserService wires the party directory. revoker may be nil, in which case
// logout only clears the cookie.
func NewUserService(users repository.UserRepository, tokens *auth.TokenIssuer, revoker Revoker, log zerolog.Logger) UserService {
	return &userService{users: users, tokens: tokens, revoker: revoker, log: log, now: time.Now}
}

const (
	msgUserNotFound     = "Người dùng không tồn tại"
	msgMissingFields    = "Thiếu thông tin bắt buộc"
	msgInvalidUsername  = "Username không hợp lệ"
	msgInvalidPhone     = "Số điện thoại không hợp lệ"
	msgUsernameTaken    = "Username đã tồn tại"
	msgPhoneTaken       = "Số điện thoại đã tồn tại"
	msgPasswordTooShort = "Mật khẩu mới phải có ít nhất 6 ký tự"
	msgBadCredentials   = "Sai tên đăng nhập hoặc mật khẩu"
)

func (s *userService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	return s.CreateParty(ctx, models.RoleCustomer, PartyInput{
		Username: in.Username,
		Password: in.Password,
		FullName: in.FullName,
		Phone:    in.Phone,
	})
}

func (s *userService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, apperr.Validation("Thiếu username hoặc password")
	}
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.Unauthorized(msgBadCredentials)
		}
		return nil, internal(err)
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, apperr.Unauthorized(msgBadCredentials)
	}

	token, claims, err := s.tokens.Sign(user.ID, user.Username, user.Role)
	if err != nil {
		return nil, internal(err)
	}
	s.log.Info().Uint("user_id", user.ID).Str("role", user.Role).Msg("login")
	return &LoginResult{Token: token, ExpiresAt: claims.ExpiresAt.Time, User: user}, nil
}

func (s *userService) Logout(ctx context.Context, claims *auth.Claims) error {
	if s.revoker == nil || claims == nil || claims.ID == "" || claims.ExpiresAt == nil {
		return nil
	}
	ttl := claims.ExpiresAt.Time.Sub(s.now())
	if err := s.revoker.RevokeToken(ctx, claims.ID, ttl); err != nil {
		return internal(err)
	}
	return nil
}

func (s *userService) Me(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, fromRepo(err, "Không tìm thấy người dùng")
	}
	return user, nil
}

// CreateUser is the admin path for new employee accounts.
func (s *userService) CreateUser(ctx context.Context, in PartyInput) (*models.User, error) {
	role := models.UserRole(strings.TrimSpace(in.Role))
	if role != models.RoleStaff && role != models.RoleAdmin {
		return nil, apperr.Validation("Role không hợp lệ")
	}
	return s.CreateParty(ctx, role, in)
}

func (s *userService) ListParties(ctx context.Context, role models.UserRole) ([]models.User, error) {
	users, err := s.users.ListByRole(ctx, string(role))
	if err != nil {
		return nil, internal(err)
	}
	return users, nil
}

func (s *userService) CreateParty(ctx context.Context, role models.UserRole, in PartyInput) (*models.User, error) {
	if !role.Valid() {
		return nil, apperr.Validation("Role không hợp lệ")
	}
	username := strings.TrimSpace(in.Username)
	fullName := strings.TrimSpace(in.FullName)
	phone := strings.TrimSpace(in.Phone)
	if username == "" || in.Password == "" || fullName == "" || phone == "" {
		return nil, apperr.Validation(msgMissingFields)
	}
	if !ValidUsername(username) {
		return nil, apperr.Validation(msgInvalidUsername)
	}
	if !ValidPhone(phone) {
		return nil, apperr.Validation(msgInvalidPhone)
	}
	if len(in.Password) < auth.MinPasswordLength {
		return nil, apperr.Validation("Mật khẩu phải có ít nhất 6 ký tự")
	}
	if in.Debt != nil && in.Debt.IsNegative() {
		return nil, apperr.Validation("Số nợ không được âm")
	}
	if err := s.checkUnique(ctx, username, phone, 0); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, internal(err)
	}
	user := &models.User{
		Username:     username,
		PasswordHash: hash,
		FullName:     fullName,
		Phone:        phone,
		Role:         string(role),
		Note:         in.Note,
		Debt:         decimal.Zero,
	}
	switch role {
	case models.RoleStaff, models.RoleAdmin:
		user.Position = in.Position
	case models.RoleCustomer:
		if in.Debt != nil {
			user.Debt = *in.Debt
		}
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperr.Conflict("Username hoặc số điện thoại đã tồn tại")
		}
		return nil, internal(err)
	}
	return user, nil
}

func (s *userService) UpdateParty(ctx context.Context, role models.UserRole, id uint, in PartyUpdateInput) (*models.User, error) {
	fields := map[string]interface{}{}
	var username, phone string

	if v, ok := in.Username.Get(); ok {
		username = strings.TrimSpace(v)
		if !ValidUsername(username) {
			return nil, apperr.Validation(msgInvalidUsername)
		}
		fields["username"] = username
	} else if in.Username.Set {
		return nil, apperr.Validation(msgInvalidUsername)
	}
	if v, ok := in.Phone.Get(); ok {
		phone = strings.TrimSpace(v)
		if !ValidPhone(phone) {
			return nil, apperr.Validation(msgInvalidPhone)
		}
		fields["phone"] = phone
	} else if in.Phone.Set {
		return nil, apperr.Validation(msgInvalidPhone)
	}
	if v, ok := in.FullName.Get(); ok {
		if v = strings.TrimSpace(v); v == "" {
			return nil, apperr.Validation("Họ tên không được để trống")
		}
		fields["full_name"] = v
	} else if in.FullName.Set {
		return nil, apperr.Validation("Họ tên không được để trống")
	}
	if v, ok := in.Password.Get(); ok && v != "" {
		if len(v) < auth.MinPasswordLength {
			return nil, apperr.Validation("Mật khẩu phải có ít nhất 6 ký tự")
		}
		hash, err := auth.HashPassword(v)
		if err != nil {
			return nil, internal(err)
		}
		fields["password"] = hash
	}
	if in.Note.Set {
		fields["note"] = nullable(in.Note)
	}
	if in.Position.Set && role != models.RoleCustomer {
		fields["chucvu"] = nullable(in.Position)
	}
	if in.Debt.Set && role == models.RoleCustomer {
		debt := decimal.Zero
		if v, ok := in.Debt.Get(); ok {
			debt = v
		}
		if debt.IsNegative() {
			return nil, apperr.Validation("Số nợ không được âm")
		}
		fields["so_no"] = debt
	}
	if len(fields) == 0 {
		return nil, apperr.Validation("Không có trường nào để cập nhật")
	}

	if err := s.checkUnique(ctx, username, phone, id); err != nil {
		return nil, err
	}
	user, err := s.users.UpdateFields(ctx, id, string(role), fields)
	if err != nil {
		return nil, fromRepo(err, partyNotFound(role))
	}
	return user, nil
}

// DeleteParty lets admins delete anyone and staff delete customers only.
func (s *userService) DeleteParty(ctx context.Context, callerRole string, id uint) (*models.User, error) {
	target, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, fromRepo(err, "User không tồn tại")
	}
	switch models.UserRole(callerRole) {
	case models.RoleAdmin:
	case models.RoleStaff:
		if target.Role != string(models.RoleCustomer) {
			return nil, apperr.Forbidden("Nhân viên chỉ được xoá khách hàng")
		}
	default:
		return nil, apperr.Forbidden("Không có quyền xoá user")
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return nil, fromRepo(err, "User không tồn tại")
	}
	return target, nil
}

func (s *userService) FindCustomerByPhone(ctx context.Context, phone string) (*models.User, error) {
	phone = strings.TrimSpace(phone)
	if !ValidPhone(phone) {
		return nil, apperr.Validation(msgInvalidPhone)
	}
	user, err := s.users.FindCustomerByPhone(ctx, phone)
	if err != nil {
		return nil, fromRepo(err, msgCustomerNotFound)
	}
	return user, nil
}

func (s *userService) ChangePassword(ctx context.Context, id uint, oldPassword, newPassword string) error {
	if oldPassword == "" || newPassword == "" {
		return apperr.Validation("Vui lòng nhập đầy đủ mật khẩu cũ và mới")
	}
	if len(newPassword) < auth.MinPasswordLength {
		return apperr.Validation(msgPasswordTooShort)
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return fromRepo(err, msgUserNotFound)
	}
	if !auth.CheckPassword(user.PasswordHash, oldPassword) {
		return apperr.Unauthorized("Mật khẩu cũ không đúng")
	}
	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return internal(err)
	}
	return fromRepo(s.users.UpdatePassword(ctx, id, hash), msgUserNotFound)
}

func (s *userService) checkUnique(ctx context.Context, username, phone string, excludeID uint) error {
	if username != "" {
		taken, err := s.users.UsernameTaken(ctx, username, excludeID)
		if err != nil {
			return internal(err)
		}
		if taken {
			return apperr.Conflict(msgUsernameTaken)
		}
	}
	if phone != "" {
		taken, err := s.users.PhoneTaken(ctx, phone, excludeID)
		if err != nil {
			return internal(err)
		}
		if taken {
			return apperr.Conflict(msgPhoneTaken)
		}
	}
	return nil
}

func partyNotFound(role models.UserRole) string {
	switch role {
	case models.RoleStaff:
		return "Nhân viên không tồn tại"
	case models.RoleCustomer:
		return "Khách hàng không tồn tại"
	}
	return msgUserNotFound
}

// nullable maps an explicit null to SQL NULL.
func nullable(o models.Optional[string]) interface{} {
	if v, ok := o.Get(); ok {
		return v
	}
	return nil
}
