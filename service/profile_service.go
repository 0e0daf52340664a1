package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"storefront-core/models"
	"storefront-core/pricing"
	"storefront-core/repository"
	"storefront-core/utils"
)

const minPasswordLength = 8

// AdminPermissions are granted on top of whatever the user already has
var AdminPermissions = []string{"product:create", "panel:create"}

// ProfileService owns the signed-in user's profile. It keeps the session cache and
// the directory entry consistent and derives statistics from order history.
type ProfileService struct {
	users       repository.UserRepositoryInterface
	orders      repository.OrderRepositoryInterface
	collections UserCollections
	now         func() time.Time

	mu         sync.Mutex
	current    models.SessionProfile
	generation uint64
}

// NewProfileService creates a new ProfileService holding the empty profile
func NewProfileService(users repository.UserRepositoryInterface, orders repository.OrderRepositoryInterface, collections UserCollections) *ProfileService {
	return &ProfileService{
		users:       users,
		orders:      orders,
		collections: collections,
		now:         time.Now,
		current:     emptyProfile(),
	}
}

// Ensure ProfileService implements ProfileServiceInterface
var _ ProfileServiceInterface = (*ProfileService)(nil)

func emptyProfile() models.SessionProfile {
	return models.SessionProfile{
		Permissions:    []string{},
		PaymentMethods: []models.WalletCard{},
	}
}

func cloneProfile(p models.SessionProfile) models.SessionProfile {
	p.Permissions = append([]string{}, p.Permissions...)
	p.PaymentMethods = append([]models.WalletCard{}, p.PaymentMethods...)
	return p
}

// set replaces the in-memory profile and returns the new generation. Callers hold s.mu.
func (s *ProfileService) set(p models.SessionProfile) uint64 {
	s.current = cloneProfile(p.Public())
	s.generation++
	return s.generation
}

// Current returns a copy of the in-memory profile
func (s *ProfileService) Current() models.SessionProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneProfile(s.current)
}

// UserID is the key of the signed-in user's namespaced collections, "" when signed out
func (s *ProfileService) UserID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.Email
}

func (s *ProfileService) reset() {
	s.mu.Lock()
	s.set(emptyProfile())
	s.mu.Unlock()
}

// Hydrate loads the profile for the auth-email pointer. The directory entry wins; the
// session cache is used only when its email matches the pointer. Anything else resets
// to the empty profile.
func (s *ProfileService) Hydrate(ctx context.Context) (models.SessionProfile, error) {
	email, err := s.users.AuthEmail(ctx)
	if err != nil {
		return s.Current(), err
	}
	if email == "" {
		log.Printf("👤 Hydrate: No signed-in user")
		s.reset()
		return s.Current(), nil
	}

	var found *models.UserRecord
	entry, err := s.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		found = entry
	case errors.Is(err, repository.ErrNotFound):
		cached, err := s.users.LoadSession(ctx)
		if err != nil {
			return s.Current(), err
		}
		if cached != nil && utils.NormalizeEmail(cached.Email) == email {
			log.Warnf("⚠️  Hydrate: %s missing from directory, using session cache", email)
			found = cached
		}
	default:
		return s.Current(), err
	}

	if found == nil {
		log.Warnf("⚠️  Hydrate: No profile for %s, resetting to empty profile", email)
		s.reset()
		return s.Current(), nil
	}

	profile := found.Public()
	if err := s.users.SaveSession(ctx, profile); err != nil {
		return s.Current(), err
	}

	s.mu.Lock()
	s.set(profile)
	s.mu.Unlock()

	log.Printf("✅ Hydrate: Loaded profile for %s", email)

	if _, err := s.RecomputeStatistics(ctx); err != nil {
		log.Errorf("❌ Hydrate: Failed to recompute statistics for %s: %v", email, err)
	}
	return s.Current(), nil
}

// Update applies patch to the in-memory profile right away and then persists it to the
// session cache and the directory. On a storage failure the in-memory change is rolled
// back unless a newer change has landed since.
func (s *ProfileService) Update(ctx context.Context, patch models.ProfilePatch) (models.SessionProfile, error) {
	s.mu.Lock()
	prev := cloneProfile(s.current)
	next, err := applyPatch(prev, patch)
	if err != nil {
		s.mu.Unlock()
		return prev, err
	}
	gen := s.set(next)
	s.mu.Unlock()

	log.Printf("✏️  UpdateProfile: email=%s", next.Email)

	if err := s.persistProfile(ctx, prev.Email, next); err != nil {
		s.mu.Lock()
		if s.generation == gen {
			s.set(prev)
		}
		s.mu.Unlock()
		log.Errorf("❌ UpdateProfile: Failed to persist profile: %v", err)
		return s.Current(), err
	}
	return s.Current(), nil
}

func applyPatch(p models.SessionProfile, patch models.ProfilePatch) (models.SessionProfile, error) {
	if patch.Email != nil {
		email := utils.NormalizeEmail(*patch.Email)
		if email == "" || !strings.Contains(email, "@") {
			return p, models.NewValidationError("email", "a valid email is required")
		}
		p.Email = email
	}
	if patch.FirstName != nil {
		p.FirstName = strings.TrimSpace(*patch.FirstName)
	}
	if patch.LastName != nil {
		p.LastName = strings.TrimSpace(*patch.LastName)
	}
	switch {
	case patch.FirstName != nil || patch.LastName != nil:
		p.Name = utils.FullName(p.FirstName, p.LastName, p.Name)
	case patch.Name != nil:
		p.Name = strings.TrimSpace(*patch.Name)
		p.FirstName, p.LastName = utils.SplitFullName(p.Name)
	}
	if patch.Phone != nil {
		p.Phone = utils.OnlyDigits(*patch.Phone)
	}
	if patch.Address != nil {
		p.Address = strings.TrimSpace(*patch.Address)
	}
	if patch.AvatarURI != nil {
		p.AvatarURI = strings.TrimSpace(*patch.AvatarURI)
	}
	if patch.Role != nil {
		p.Role = strings.TrimSpace(*patch.Role)
	}
	if patch.Permissions != nil {
		p.Permissions = utils.CleanStrings(*patch.Permissions)
	}
	if patch.PaymentMethods != nil {
		p.PaymentMethods = append([]models.WalletCard{}, (*patch.PaymentMethods)...)
	}
	if patch.DefaultPaymentID != nil {
		p.DefaultPaymentID = strings.TrimSpace(*patch.DefaultPaymentID)
	}
	return p, nil
}

// persistProfile writes next into the directory and the session cache. The directory
// entry is found by the auth pointer first, then by the previous in-memory email.
// When the email changes, the user's collections move to the new email while the
// directory lock is held; they are moved back if the directory write fails.
func (s *ProfileService) persistProfile(ctx context.Context, prevEmail string, next models.SessionProfile) error {
	auth, err := s.users.AuthEmail(ctx)
	if err != nil {
		return err
	}
	oldID := auth
	if oldID == "" {
		oldID = utils.NormalizeEmail(prevEmail)
	}

	if next.Email != "" {
		renamed := false
		err = s.users.UpdateDirectory(ctx, func(users []models.UserRecord) ([]models.UserRecord, error) {
			i := repository.IndexByEmail(users, auth)
			if i < 0 {
				i = repository.IndexByEmail(users, prevEmail)
			}
			if j := repository.IndexByEmail(users, next.Email); j >= 0 && j != i {
				return nil, models.NewValidationError("email", "email is already registered")
			}
			if oldID != "" && oldID != next.Email {
				if _, err := s.collections.Rename(ctx, oldID, next.Email); err != nil {
					return nil, fmt.Errorf("failed to move collections to %s: %w", next.Email, err)
				}
				renamed = true
			}
			if i < 0 {
				return append(users, cloneProfile(next)), nil
			}
			entry := cloneProfile(next)
			entry.PasswordHash = users[i].PasswordHash
			entry.LegacyPassword = users[i].LegacyPassword
			entry.Stats = users[i].Stats
			if entry.CreatedAt == "" {
				entry.CreatedAt = users[i].CreatedAt
			}
			users[i] = entry
			return users, nil
		})
		if err != nil {
			if renamed {
				if _, rerr := s.collections.Rename(ctx, next.Email, oldID); rerr != nil {
					log.Errorf("❌ UpdateProfile: Collections left under %s after a failed update: %v", next.Email, rerr)
				}
			}
			return err
		}
	}

	if err := s.users.SaveSession(ctx, next); err != nil {
		return err
	}

	if auth != "" && next.Email != "" && auth != next.Email {
		log.Printf("🔁 UpdateProfile: Moving auth pointer %s -> %s", auth, next.Email)
		if err := s.users.SetAuthEmail(ctx, next.Email); err != nil {
			return err
		}
	}
	return nil
}

// DeriveStatistics computes stats from the user's order history
func DeriveStatistics(shop []models.OrderRecord, service []models.ServiceOrder, now time.Time) models.UserStats {
	stats := models.UserStats{Orders: len(shop) + len(service)}
	for _, o := range shop {
		stats.Spend += o.Total
	}
	for _, o := range service {
		if o.Status == models.ServiceStatusCancelled {
			continue
		}
		stats.Spend += o.Total()
		if repository.IsActiveServiceOrder(o, now) {
			stats.Packages++
		}
	}
	stats.Spend = pricing.RoundCurrency(stats.Spend)
	return stats
}

// RecomputeStatistics derives stats from both order collections and writes them to
// the in-memory profile, the session cache and the directory entry.
func (s *ProfileService) RecomputeStatistics(ctx context.Context) (models.UserStats, error) {
	email := s.UserID()
	if email == "" {
		return models.UserStats{}, nil
	}

	shop, err := s.orders.ListShopOrders(ctx, email)
	if err != nil {
		return models.UserStats{}, fmt.Errorf("failed to load orders: %w", err)
	}
	service, err := s.orders.ListServiceOrders(ctx, email)
	if err != nil {
		return models.UserStats{}, fmt.Errorf("failed to load service orders: %w", err)
	}
	stats := DeriveStatistics(shop, service, s.now())

	s.mu.Lock()
	stillCurrent := s.current.Email == email
	if stillCurrent {
		s.current.Stats = stats
	}
	snapshot := cloneProfile(s.current)
	s.mu.Unlock()

	if stillCurrent {
		if err := s.users.SaveSession(ctx, snapshot); err != nil {
			return stats, err
		}
	}

	err = s.users.UpdateDirectory(ctx, func(users []models.UserRecord) ([]models.UserRecord, error) {
		if i := repository.IndexByEmail(users, email); i >= 0 {
			users[i].Stats = stats
		}
		return users, nil
	})
	if err != nil {
		return stats, err
	}

	log.Printf("📊 RecomputeStatistics: %s orders=%d packages=%d spend=%.2f", email, stats.Orders, stats.Packages, stats.Spend)
	return stats, nil
}

// AddOrder bumps the in-memory counters after a checkout
func (s *ProfileService) AddOrder(amount float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current.Stats.Orders++
	s.current.Stats.Spend += amount
}

// SignOut clears the auth pointers and the session cache
func (s *ProfileService) SignOut(ctx context.Context) error {
	log.Printf("👋 SignOut: email=%s", s.UserID())
	if err := s.users.ClearSession(ctx); err != nil {
		return err
	}
	s.reset()
	return nil
}

// GrantAdmin gives the user the admin role and the catalog permissions
func (s *ProfileService) GrantAdmin(ctx context.Context, email string) (*models.UserRecord, error) {
	granted, err := s.users.GrantRole(ctx, email, models.RoleAdmin, AdminPermissions)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	isCurrent := s.current.Email != "" && s.current.Email == granted.Email
	if isCurrent {
		s.current.Role = granted.Role
		s.current.Permissions = append([]string{}, granted.Permissions...)
	}
	snapshot := cloneProfile(s.current)
	s.mu.Unlock()

	if isCurrent {
		if err := s.users.SaveSession(ctx, snapshot); err != nil {
			return nil, err
		}
	}

	public := granted.Public()
	return &public, nil
}

// Register creates a directory entry. It does not sign the user in.
func (s *ProfileService) Register(ctx context.Context, req models.RegisterRequest) (models.UserRecord, error) {
	email := utils.NormalizeEmail(req.Email)
	if email == "" || !strings.Contains(email, "@") {
		return models.UserRecord{}, models.NewValidationError("email", "a valid email is required")
	}
	first := strings.TrimSpace(req.FirstName)
	last := strings.TrimSpace(req.LastName)
	if first == "" && last == "" {
		return models.UserRecord{}, models.NewValidationError("name", "name is required")
	}
	hash, err := hashPassword(req.Password)
	if err != nil {
		return models.UserRecord{}, err
	}

	now := s.now().UTC()
	record := models.UserRecord{
		Email:          email,
		FirstName:      first,
		LastName:       last,
		Name:           utils.FullName(first, last, ""),
		Phone:          utils.OnlyDigits(req.Phone),
		Role:           models.RoleUser,
		Permissions:    []string{},
		PaymentMethods: []models.WalletCard{},
		MemberSince:    now.Format("2006"),
		CreatedAt:      now.Format(time.RFC3339),
		PasswordHash:   hash,
	}

	err = s.users.UpdateDirectory(ctx, func(users []models.UserRecord) ([]models.UserRecord, error) {
		if repository.IndexByEmail(users, email) >= 0 {
			return nil, models.NewValidationError("email", "email is already registered")
		}
		return append(users, record), nil
	})
	if err != nil {
		return models.UserRecord{}, err
	}

	log.Printf("🆕 Register: Created account for %s", email)
	return record.Public(), nil
}

func hashPassword(password string) (string, error) {
	if len(password) < minPasswordLength {
		return "", models.NewValidationError("password", fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// SignIn checks the credentials, points the auth keys at the user and hydrates.
// An entry that still carries a plaintext password is upgraded to a hash.
func (s *ProfileService) SignIn(ctx context.Context, req models.SignInRequest) (models.SessionProfile, error) {
	invalid := models.NewValidationError("credentials", "email or password is incorrect")

	entry, err := s.users.FindByEmail(ctx, req.Email)
	if errors.Is(err, repository.ErrNotFound) {
		return s.Current(), invalid
	}
	if err != nil {
		return s.Current(), err
	}

	switch {
	case entry.PasswordHash != "":
		if bcrypt.CompareHashAndPassword([]byte(entry.PasswordHash), []byte(req.Password)) != nil {
			return s.Current(), invalid
		}
	case entry.LegacyPassword != "":
		if subtle.ConstantTimeCompare([]byte(entry.LegacyPassword), []byte(req.Password)) != 1 {
			return s.Current(), invalid
		}
		if err := s.setPassword(ctx, entry.Email, req.Password, false); err != nil {
			log.Errorf("❌ SignIn: Failed to upgrade legacy password for %s: %v", entry.Email, err)
		}
	default:
		return s.Current(), invalid
	}

	if err := s.users.SetAuthEmail(ctx, entry.Email); err != nil {
		return s.Current(), err
	}
	log.Printf("🔓 SignIn: %s", entry.Email)
	return s.Hydrate(ctx)
}

// ResetPassword replaces the password of an existing entry
func (s *ProfileService) ResetPassword(ctx context.Context, email, newPassword string) error {
	return s.setPassword(ctx, email, newPassword, true)
}

func (s *ProfileService) setPassword(ctx context.Context, email, password string, enforceLength bool) error {
	var hash string
	var err error
	if enforceLength {
		hash, err = hashPassword(password)
	} else {
		var raw []byte
		raw, err = bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		hash = string(raw)
	}
	if err != nil {
		return err
	}

	return s.users.UpdateDirectory(ctx, func(users []models.UserRecord) ([]models.UserRecord, error) {
		i := repository.IndexByEmail(users, email)
		if i < 0 {
			return nil, repository.ErrNotFound
		}
		users[i].PasswordHash = hash
		users[i].LegacyPassword = ""
		return users, nil
	})
}
