package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"storefront-core/models"
)

// WalletName is the per-user collection holding saved cards
const WalletName = "cards"

// WalletRepository keeps a user's saved cards and the default-card pointer consistent
type WalletRepository struct {
	storage *UserStorage
}

// NewWalletRepository creates a new WalletRepository
func NewWalletRepository(storage *UserStorage) *WalletRepository {
	return &WalletRepository{storage: storage}
}

// Ensure WalletRepository implements WalletRepositoryInterface
var _ WalletRepositoryInterface = (*WalletRepository)(nil)

// Load returns the wallet. A default id that points at no card is dropped.
func (r *WalletRepository) Load(ctx context.Context, userID string) (models.CardStore, error) {
	wallet, err := LoadOr(ctx, r.storage, userID, WalletName, models.CardStore{})
	if err != nil {
		return models.CardStore{List: []models.WalletCard{}}, err
	}
	if wallet.List == nil {
		wallet.List = []models.WalletCard{}
	}
	if wallet.DefaultID != nil && indexOfCard(wallet.List, *wallet.DefaultID) < 0 {
		log.Warnf("⚠️  Wallet: Default card %s for user=%s no longer exists, clearing it", *wallet.DefaultID, userID)
		wallet.DefaultID = nil
	}
	return wallet, nil
}

// Add saves a card, replacing an existing one with the same last4 and holder.
// The card becomes default when there was none or when it replaced the default.
func (r *WalletRepository) Add(ctx context.Context, userID string, card models.WalletCard) (models.CardStore, error) {
	unlock := r.storage.Lock(userID, WalletName)
	defer unlock()

	wallet, err := r.Load(ctx, userID)
	if err != nil {
		return wallet, err
	}

	card.Holder = strings.TrimSpace(card.Holder)
	if card.ID == "" {
		card.ID = "card_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	}

	replacedDefault := false
	list := make([]models.WalletCard, 0, len(wallet.List)+1)
	list = append(list, card)
	for _, existing := range wallet.List {
		if existing.Last4 == card.Last4 && strings.TrimSpace(existing.Holder) == card.Holder {
			if wallet.DefaultID != nil && *wallet.DefaultID == existing.ID {
				replacedDefault = true
			}
			continue
		}
		list = append(list, existing)
	}
	wallet.List = list

	if wallet.DefaultID == nil || replacedDefault {
		id := card.ID
		wallet.DefaultID = &id
	}

	if err := r.storage.Save(ctx, userID, WalletName, wallet); err != nil {
		return wallet, err
	}

	log.Printf("💳 AddCard: user=%s card=%s last4=%s", userID, card.ID, card.Last4)
	return wallet, nil
}

// Remove deletes a card. Removing the default moves it to the first remaining card.
func (r *WalletRepository) Remove(ctx context.Context, userID, id string) (models.CardStore, error) {
	unlock := r.storage.Lock(userID, WalletName)
	defer unlock()

	wallet, err := r.Load(ctx, userID)
	if err != nil {
		return wallet, err
	}
	i := indexOfCard(wallet.List, id)
	if i < 0 {
		return wallet, ErrNotFound
	}
	wallet.List = append(wallet.List[:i], wallet.List[i+1:]...)

	if wallet.DefaultID != nil && *wallet.DefaultID == id {
		wallet.DefaultID = nil
		if len(wallet.List) > 0 {
			next := wallet.List[0].ID
			wallet.DefaultID = &next
		}
	}

	if err := r.storage.Save(ctx, userID, WalletName, wallet); err != nil {
		return wallet, err
	}
	return wallet, nil
}

// SetDefault points the default at an existing card
func (r *WalletRepository) SetDefault(ctx context.Context, userID, id string) (models.CardStore, error) {
	unlock := r.storage.Lock(userID, WalletName)
	defer unlock()

	wallet, err := r.Load(ctx, userID)
	if err != nil {
		return wallet, err
	}
	if indexOfCard(wallet.List, id) < 0 {
		return wallet, models.NewValidationError("id", "card is not in the wallet")
	}
	wallet.DefaultID = &id

	if err := r.storage.Save(ctx, userID, WalletName, wallet); err != nil {
		return wallet, err
	}
	return wallet, nil
}

// Find returns one saved card
func (r *WalletRepository) Find(ctx context.Context, userID, id string) (*models.WalletCard, error) {
	wallet, err := r.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	i := indexOfCard(wallet.List, id)
	if i < 0 {
		return nil, ErrNotFound
	}
	card := wallet.List[i]
	return &card, nil
}

func indexOfCard(list []models.WalletCard, id string) int {
	for i, c := range list {
		if c.ID == id {
			return i
		}
	}
	return -1
}
