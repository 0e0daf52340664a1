package repository

import (
	"context"
	"encoding/json"
	"strings"

	log "github.com/sirupsen/logrus"

	"storefront-core/kvstore"
	"storefront-core/models"
	"storefront-core/utils"
)

// Account storage keys
const (
	UsersKey            = "@users"
	AuthEmailKey        = "@authEmail"
	UserProfileKey      = "@userProfile"
	CurrentUserEmailKey = "@currentUserEmail"
)

// UserRepository owns the user directory, the session profile cache and the auth pointers
type UserRepository struct {
	store kvstore.Store
	locks *kvstore.KeyedMutex
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(store kvstore.Store, locks *kvstore.KeyedMutex) *UserRepository {
	return &UserRepository{store: store, locks: locks}
}

// Ensure UserRepository implements UserRepositoryInterface
var _ UserRepositoryInterface = (*UserRepository)(nil)

// LoadDirectory returns every registered user. An unreadable directory is an empty one.
func (r *UserRepository) LoadDirectory(ctx context.Context) ([]models.UserRecord, error) {
	raw, err := readRaw(ctx, r.store, UsersKey)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return []models.UserRecord{}, nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		log.Warnf("⚠️  LoadDirectory: %s is not a list, treating the directory as empty", UsersKey)
		return []models.UserRecord{}, nil
	}

	users := make([]models.UserRecord, 0, len(items))
	for _, item := range items {
		u, ok := NormalizeUserRecord(item)
		if !ok {
			log.Warnf("⚠️  LoadDirectory: Skipping entry without an email %.40s", string(item))
			continue
		}
		users = append(users, u)
	}
	return DedupeDirectory(users), nil
}

// UpdateDirectory runs fn over the directory under the directory lock and persists the
// deduplicated result. Returning an error from fn leaves the directory untouched.
func (r *UserRepository) UpdateDirectory(ctx context.Context, fn func([]models.UserRecord) ([]models.UserRecord, error)) error {
	unlock := r.locks.Lock(UsersKey)
	defer unlock()

	users, err := r.LoadDirectory(ctx)
	if err != nil {
		return err
	}
	next, err := fn(users)
	if err != nil {
		return err
	}
	return writeJSON(ctx, r.store, UsersKey, DedupeDirectory(next))
}

// FindByEmail returns the directory entry for an email or ErrNotFound
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.UserRecord, error) {
	users, err := r.LoadDirectory(ctx)
	if err != nil {
		return nil, err
	}
	if i := IndexByEmail(users, email); i >= 0 {
		u := users[i]
		return &u, nil
	}
	return nil, ErrNotFound
}

// GrantRole adds a role and permissions to one entry. Existing permissions are kept.
func (r *UserRepository) GrantRole(ctx context.Context, email, role string, permissions []string) (*models.UserRecord, error) {
	var granted *models.UserRecord
	err := r.UpdateDirectory(ctx, func(users []models.UserRecord) ([]models.UserRecord, error) {
		i := IndexByEmail(users, email)
		if i < 0 {
			return nil, ErrNotFound
		}
		users[i].Role = role
		for _, p := range permissions {
			if !containsString(users[i].Permissions, p) {
				users[i].Permissions = append(users[i].Permissions, p)
			}
		}
		u := users[i]
		granted = &u
		return users, nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("🔑 GrantRole: %s is now %s", utils.NormalizeEmail(email), role)
	return granted, nil
}

// AuthEmail returns the signed-in email pointer, "" when signed out
func (r *UserRepository) AuthEmail(ctx context.Context) (string, error) {
	value, _, err := r.store.Get(ctx, AuthEmailKey)
	if err != nil {
		return "", err
	}
	return utils.NormalizeEmail(value), nil
}

// SetAuthEmail points both auth keys at email
func (r *UserRepository) SetAuthEmail(ctx context.Context, email string) error {
	email = utils.NormalizeEmail(email)
	if err := r.store.Set(ctx, AuthEmailKey, email); err != nil {
		return err
	}
	return r.store.Set(ctx, CurrentUserEmailKey, email)
}

// LoadSession returns the cached session profile, nil when absent or unreadable
func (r *UserRepository) LoadSession(ctx context.Context) (*models.SessionProfile, error) {
	raw, err := readRaw(ctx, r.store, UserProfileKey)
	if err != nil || raw == nil {
		return nil, err
	}
	profile, ok := NormalizeUserRecord(raw)
	if !ok {
		log.Warnf("⚠️  LoadSession: Ignoring unreadable %s", UserProfileKey)
		return nil, nil
	}
	return &profile, nil
}

// SaveSession overwrites the session cache
func (r *UserRepository) SaveSession(ctx context.Context, profile models.SessionProfile) error {
	return writeJSON(ctx, r.store, UserProfileKey, normalizeUserRecord(profile))
}

// ClearSession removes the auth pointers and the cached profile
func (r *UserRepository) ClearSession(ctx context.Context) error {
	return r.store.Remove(ctx, AuthEmailKey, CurrentUserEmailKey, UserProfileKey)
}

// IndexByEmail finds an entry by normalized email, -1 when absent
func IndexByEmail(users []models.UserRecord, email string) int {
	email = utils.NormalizeEmail(email)
	if email == "" {
		return -1
	}
	for i, u := range users {
		if utils.NormalizeEmail(u.Email) == email {
			return i
		}
	}
	return -1
}

// DedupeDirectory collapses entries sharing a normalized email. The first occurrence
// keeps its position; later duplicates only fill fields it lacks. Entries without
// an email are dropped.
func DedupeDirectory(users []models.UserRecord) []models.UserRecord {
	out := make([]models.UserRecord, 0, len(users))
	seen := make(map[string]int, len(users))

	for _, u := range users {
		u = normalizeUserRecord(u)
		if u.Email == "" {
			continue
		}
		if i, ok := seen[u.Email]; ok {
			fillMissing(&out[i], u)
			continue
		}
		seen[u.Email] = len(out)
		out = append(out, u)
	}
	return out
}

func normalizeUserRecord(u models.UserRecord) models.UserRecord {
	u.Email = utils.NormalizeEmail(u.Email)
	u.Name = strings.TrimSpace(u.Name)
	u.FirstName = strings.TrimSpace(u.FirstName)
	u.LastName = strings.TrimSpace(u.LastName)
	if u.FirstName == "" && u.LastName == "" && u.Name != "" {
		u.FirstName, u.LastName = utils.SplitFullName(u.Name)
	}
	if u.Name == "" {
		u.Name = utils.FullName(u.FirstName, u.LastName, "")
	}
	if u.Permissions == nil {
		u.Permissions = []string{}
	}
	if u.PaymentMethods == nil {
		u.PaymentMethods = []models.WalletCard{}
	}
	return u
}

func fillMissing(dst *models.UserRecord, src models.UserRecord) {
	fill := func(d *string, s string) {
		if *d == "" {
			*d = s
		}
	}
	fill(&dst.Name, src.Name)
	fill(&dst.FirstName, src.FirstName)
	fill(&dst.LastName, src.LastName)
	fill(&dst.Phone, src.Phone)
	fill(&dst.Address, src.Address)
	fill(&dst.AvatarURI, src.AvatarURI)
	fill(&dst.Role, src.Role)
	fill(&dst.DefaultPaymentID, src.DefaultPaymentID)
	fill(&dst.MemberSince, src.MemberSince)
	fill(&dst.CreatedAt, src.CreatedAt)
	fill(&dst.PasswordHash, src.PasswordHash)
	fill(&dst.LegacyPassword, src.LegacyPassword)
	if len(dst.Permissions) == 0 {
		dst.Permissions = src.Permissions
	}
	if len(dst.PaymentMethods) == 0 {
		dst.PaymentMethods = src.PaymentMethods
	}
	if dst.Stats == (models.UserStats{}) {
		dst.Stats = src.Stats
	}
}
