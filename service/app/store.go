package app

import (
	"errors"

	"github.com/flow-hydraulics/flow-mint/service/common"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ListOptions struct {
	Limit  int
	Offset int
}

const DefaultLimit = 1000

func ParseListOptions(limit, offset int) ListOptions {
	if limit == 0 {
		limit = DefaultLimit
	}
	if limit < 0 {
		limit = -1
		offset = 0
	}
	if offset < 0 {
		offset = 0
	}
	return ListOptions{Limit: limit, Offset: offset}
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Collection{},
		&WhitelistEntry{},
		&Token{},
		&MintEvent{},
		&PayoutAccount{},
		&Withdrawal{},
	)
}

// Collection

func GetCollection(db *gorm.DB) (*Collection, error) {
	c := Collection{}
	return &c, db.First(&c).Error
}

func InsertCollection(db *gorm.DB, c *Collection) error {
	return db.Create(c).Error
}

func UpdateCollection(db *gorm.DB, c *Collection) error {
	return db.Omit(clause.Associations).Save(c).Error
}

// Allow-list

// GetWhitelistEntry returns the entry of address, or a fresh unsaved one if
// the address was never seen.
func GetWhitelistEntry(db *gorm.DB, address common.FlowAddress) (*WhitelistEntry, error) {
	e := WhitelistEntry{}
	err := db.Where("address = ?", address).Take(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &WhitelistEntry{Address: address}, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// SaveWhitelistEntry inserts new entries and updates existing ones.
func SaveWhitelistEntry(db *gorm.DB, e *WhitelistEntry) error {
	if e.ID == 0 {
		return db.Create(e).Error
	}
	return db.Save(e).Error
}

// Registry

func InsertToken(db *gorm.DB, t *Token) error {
	return db.Create(t).Error
}

func GetToken(db *gorm.DB, id uint64) (*Token, error) {
	t := Token{}
	return &t, db.Where("token_id = ?", id).Take(&t).Error
}

func CountTokensOwnedBy(db *gorm.DB, owner common.FlowAddress) (uint64, error) {
	var count int64
	err := db.Model(&Token{}).Where("owner = ?", owner).Count(&count).Error
	return uint64(count), err
}

func InsertMintEvent(db *gorm.DB, e *MintEvent) error {
	return db.Create(e).Error
}

func ListMintEvents(db *gorm.DB, opt ListOptions) ([]MintEvent, error) {
	list := []MintEvent{}
	if err := db.Order("created_at desc").Order("token_id desc").Limit(opt.Limit).Offset(opt.Offset).Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// Payouts

// GetPayoutAccount returns the account of address, or a fresh unsaved one.
func GetPayoutAccount(db *gorm.DB, address common.FlowAddress) (*PayoutAccount, error) {
	a := PayoutAccount{}
	err := db.Where("address = ?", address).Take(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &PayoutAccount{Address: address}, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func SavePayoutAccount(db *gorm.DB, a *PayoutAccount) error {
	if a.ID == 0 {
		return db.Create(a).Error
	}
	return db.Save(a).Error
}

func InsertWithdrawal(db *gorm.DB, w *Withdrawal) error {
	return db.Create(w).Error
}

func ListWithdrawals(db *gorm.DB, opt ListOptions) ([]Withdrawal, error) {
	list := []Withdrawal{}
	if err := db.Order("created_at desc").Limit(opt.Limit).Offset(opt.Offset).Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}
