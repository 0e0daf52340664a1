package models

// User roles
const (
	RoleUser    = "user"
	RoleManager = "manager"
	RoleAdmin   = "admin"
)

// UserStats is derived from the user's order history
type UserStats struct {
	Orders   int     `json:"orders"`
	Packages int     `json:"packages"`
	Spend    float64 `json:"spend"`
}

// UserRecord is one directory entry under @users, keyed by normalized email.
// The same shape is cached under @userProfile for the signed-in user.
type UserRecord struct {
	Email            string       `json:"email"`
	Name             string       `json:"name,omitempty"`
	FirstName        string       `json:"firstName,omitempty"`
	LastName         string       `json:"lastName,omitempty"`
	Phone            string       `json:"phone,omitempty"`
	Address          string       `json:"address,omitempty"`
	AvatarURI        string       `json:"avatarUri,omitempty"`
	Role             string       `json:"role,omitempty"`
	Permissions      []string     `json:"permissions"`
	Stats            UserStats    `json:"stats"`
	PaymentMethods   []WalletCard `json:"paymentMethods"`
	DefaultPaymentID string       `json:"defaultPaymentId,omitempty"`
	MemberSince      string       `json:"memberSince,omitempty"`
	CreatedAt        string       `json:"createdAt,omitempty"`
	PasswordHash     string       `json:"passwordHash,omitempty"`
	// LegacyPassword is the plaintext field older builds wrote; it is replaced by PasswordHash on sign-in.
	LegacyPassword string `json:"password,omitempty"`
}

// SessionProfile is the cached, possibly stale copy of the signed-in user's directory entry
type SessionProfile = UserRecord

// Public strips credentials before a record leaves the store layer
func (u UserRecord) Public() UserRecord {
	u.PasswordHash = ""
	u.LegacyPassword = ""
	return u
}

// ProfilePatch is a partial profile update. Nil fields are left untouched.
type ProfilePatch struct {
	FirstName        *string       `json:"firstName,omitempty"`
	LastName         *string       `json:"lastName,omitempty"`
	Name             *string       `json:"name,omitempty"`
	Email            *string       `json:"email,omitempty"`
	Phone            *string       `json:"phone,omitempty"`
	Address          *string       `json:"address,omitempty"`
	AvatarURI        *string       `json:"avatarUri,omitempty"`
	Role             *string       `json:"role,omitempty"`
	Permissions      *[]string     `json:"permissions,omitempty"`
	PaymentMethods   *[]WalletCard `json:"paymentMethods,omitempty"`
	DefaultPaymentID *string       `json:"defaultPaymentId,omitempty"`
}

// RegisterRequest represents the request body for creating an account
type RegisterRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	Password  string `json:"password"`
}

// SignInRequest represents the request body for signing in
type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// GrantRequest represents the request body for granting admin rights
type GrantRequest struct {
	Email string `json:"email"`
}

// ResetPasswordRequest represents the request body for replacing a password
type ResetPasswordRequest struct {
	Email       string `json:"email"`
	NewPassword string `json:"newPassword"`
}
