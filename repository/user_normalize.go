package repository

import (
	"github.com/tidwall/gjson"

	"storefront-core/models"
	"storefront-core/utils"
)

// NormalizeUserRecord decodes one stored directory or session entry leniently.
// Numbers in text fields become strings, unreadable sub-fields are dropped, and
// the entry is rejected only when it has no usable email.
func NormalizeUserRecord(raw []byte) (models.UserRecord, bool) {
	r := gjson.ParseBytes(raw)
	if !r.IsObject() {
		return models.UserRecord{}, false
	}

	u := models.UserRecord{
		Email:            utils.NormalizeEmail(scalarString(r.Get("email"))),
		Name:             scalarString(r.Get("name")),
		FirstName:        scalarString(r.Get("firstName")),
		LastName:         scalarString(r.Get("lastName")),
		Phone:            scalarString(r.Get("phone")),
		Address:          scalarString(r.Get("address")),
		AvatarURI:        firstString(r, "avatarUri", "avatar"),
		Role:             scalarString(r.Get("role")),
		Permissions:      stringList(r.Get("permissions")),
		DefaultPaymentID: scalarString(r.Get("defaultPaymentId")),
		MemberSince:      scalarString(r.Get("memberSince")),
		CreatedAt:        scalarString(r.Get("createdAt")),
		PasswordHash:     scalarString(r.Get("passwordHash")),
		LegacyPassword:   scalarString(r.Get("password")),
		PaymentMethods:   walletCards(r.Get("paymentMethods")),
	}
	if u.Email == "" {
		return models.UserRecord{}, false
	}

	if stats := r.Get("stats"); stats.IsObject() {
		u.Stats = models.UserStats{
			Orders:   int(numberOf(stats.Get("orders"))),
			Packages: int(numberOf(stats.Get("packages"))),
			Spend:    numberOf(stats.Get("spend")),
		}
	}
	return normalizeUserRecord(u), true
}

// walletCards keeps the card entries that carry an id or last four digits
func walletCards(v gjson.Result) []models.WalletCard {
	cards := []models.WalletCard{}
	if !v.IsArray() {
		return cards
	}
	v.ForEach(func(_, item gjson.Result) bool {
		if !item.IsObject() {
			return true
		}
		card := models.WalletCard{
			ID:     scalarString(item.Get("id")),
			Brand:  scalarString(item.Get("brand")),
			Holder: scalarString(item.Get("holder")),
			Last4:  scalarString(item.Get("last4")),
			Expiry: scalarString(item.Get("expiry")),
		}
		if card.ID != "" || card.Last4 != "" {
			cards = append(cards, card)
		}
		return true
	})
	return cards
}
