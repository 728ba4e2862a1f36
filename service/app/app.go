package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/flow-hydraulics/flow-mint/service/common"
	"github.com/flow-hydraulics/flow-mint/service/config"
	mint_errors "github.com/flow-hydraulics/flow-mint/service/errors"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App is the minting controller. Every mutating operation is serialized and
// runs in one database transaction, so a failing call has no effect.
type App struct {
	cfg      *config.Config
	logger   *log.Logger
	db       *gorm.DB
	admin    common.FlowAddress
	registry Registry
	payments Payments

	mu sync.Mutex
}

// New migrates db, creates the collection on first start and returns the
// controller. An existing collection is never reconfigured.
func New(cfg *config.Config, logger *log.Logger, db *gorm.DB) (*App, error) {
	if cfg == nil {
		return nil, &mint_errors.NilConfigError{}
	}

	if logger == nil {
		logger = log.StandardLogger()
	}

	admin, err := common.ParseFlowAddress(cfg.AdminAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid admin address: %w", err)
	}

	self, err := common.ParseFlowAddress(cfg.CollectionAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid collection address: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	app := &App{
		cfg:      cfg,
		logger:   logger,
		db:       db,
		admin:    admin,
		registry: NewTokenRegistry(AddressLocation{Name: cfg.CollectionSymbol, Address: self}),
		payments: NewPayoutLedger(self),
	}

	if err := app.construct(); err != nil {
		return nil, err
	}

	return app, nil
}

func (app *App) construct() error {
	return app.db.Transaction(func(tx *gorm.DB) error {
		existing, err := GetCollection(tx)
		if err == nil {
			if existing.MaxTotalSupply != app.cfg.MaxTotalSupply {
				app.logger.WithFields(log.Fields{
					"stored":     existing.MaxTotalSupply,
					"configured": app.cfg.MaxTotalSupply,
				}).Warn("Max total supply is fixed at construction, ignoring configured value")
			}
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		c, err := NewCollection(app.cfg)
		if err != nil {
			return err
		}

		app.logger.WithFields(log.Fields{
			"name":           c.Name,
			"symbol":         c.Symbol,
			"maxTotalSupply": c.MaxTotalSupply,
		}).Info("Creating collection")

		return InsertCollection(tx, c)
	})
}

// requireAdministrator is the authorization primitive.
func (app *App) requireAdministrator(caller common.FlowAddress) error {
	if caller != app.admin {
		return mint_errors.ErrNotAuthorized
	}
	return nil
}

// update runs fn serialized, in a transaction, against the current
// collection and saves the collection if fn succeeds.
func (app *App) update(ctx context.Context, fn func(tx *gorm.DB, c *Collection) error) error {
	app.mu.Lock()
	defer app.mu.Unlock()

	return app.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		c, err := GetCollection(tx)
		if err != nil {
			return err
		}

		if err := fn(tx, c); err != nil {
			return err
		}

		return UpdateCollection(tx, c)
	})
}

// asAdmin guards every privileged operation.
func (app *App) asAdmin(ctx context.Context, caller common.FlowAddress, fn func(tx *gorm.DB, c *Collection) error) error {
	if err := app.requireAdministrator(caller); err != nil {
		return err
	}
	return app.update(ctx, fn)
}

func (app *App) TriggerSale(ctx context.Context, caller common.FlowAddress, active bool) error {
	err := app.asAdmin(ctx, caller, func(tx *gorm.DB, c *Collection) error {
		c.TriggerSale(active)
		return nil
	})
	if err != nil {
		return err
	}

	app.logger.WithFields(log.Fields{
		"method": "TriggerSale",
		"state":  common.SaleStateFromFlag(active),
	}).Info("Sale state set")

	return nil
}

func (app *App) SetPrice(ctx context.Context, caller common.FlowAddress, price decimal.Decimal) error {
	err := app.asAdmin(ctx, caller, func(tx *gorm.DB, c *Collection) error {
		return c.SetPrice(price)
	})
	if err != nil {
		return err
	}

	app.logger.WithFields(log.Fields{
		"method": "SetPrice",
		"price":  price,
	}).Info("Price set")

	return nil
}

// EditWhitelist sets the membership flag of every address. Consumed quota is
// kept, removing and re-adding an address does not reset it.
func (app *App) EditWhitelist(ctx context.Context, caller common.FlowAddress, addresses []common.FlowAddress, active bool) error {
	err := app.asAdmin(ctx, caller, func(tx *gorm.DB, c *Collection) error {
		for _, a := range addresses {
			entry, err := GetWhitelistEntry(tx, a)
			if err != nil {
				return err
			}
			entry.Whitelisted = active
			if err := SaveWhitelistEntry(tx, entry); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	app.logger.WithFields(log.Fields{
		"method": "EditWhitelist",
		"count":  len(addresses),
		"active": active,
	}).Info("Whitelist edited")

	return nil
}

func (app *App) SetWhitelistPerWallet(ctx context.Context, caller common.FlowAddress, n uint64) error {
	err := app.asAdmin(ctx, caller, func(tx *gorm.DB, c *Collection) error {
		c.SetWhitelistPerWallet(n)
		return nil
	})
	if err != nil {
		return err
	}

	app.logger.WithFields(log.Fields{
		"method":    "SetWhitelistPerWallet",
		"perWallet": n,
	}).Info("Whitelist per wallet set")

	return nil
}

func (app *App) SetBaseURI(ctx context.Context, caller common.FlowAddress, base string) error {
	err := app.asAdmin(ctx, caller, func(tx *gorm.DB, c *Collection) error {
		c.SetBaseURI(base)
		return nil
	})
	if err != nil {
		return err
	}

	app.logger.WithFields(log.Fields{
		"method":  "SetBaseURI",
		"baseURI": base,
	}).Info("Base URI set")

	return nil
}

// WithdrawEther moves the whole custody balance to destination.
func (app *App) WithdrawEther(ctx context.Context, caller common.FlowAddress, destination common.FlowAddress) (*Withdrawal, error) {
	var withdrawal *Withdrawal

	err := app.asAdmin(ctx, caller, func(tx *gorm.DB, c *Collection) error {
		amount := c.ReleaseCustody()

		if err := app.payments.Transfer(tx, destination, amount); err != nil {
			return mint_errors.Wrap(mint_errors.ErrTransferFailed, "%s", err)
		}

		withdrawal = &Withdrawal{Destination: destination, Amount: amount}
		return InsertWithdrawal(tx, withdrawal)
	})
	if err != nil {
		return nil, err
	}

	app.logger.WithFields(log.Fields{
		"method":      "WithdrawEther",
		"destination": destination,
		"amount":      withdrawal.Amount,
	}).Info("Custody withdrawn")

	return withdrawal, nil
}

// Mint issues quantity items to caller against an exact payment of paid.
func (app *App) Mint(ctx context.Context, caller common.FlowAddress, quantity uint64, paid decimal.Decimal) (*MintResult, error) {
	var res *MintResult

	logger := app.logger.WithFields(log.Fields{
		"method":   "Mint",
		"caller":   caller,
		"quantity": quantity,
		"paid":     paid,
	})

	err := app.update(ctx, func(tx *gorm.DB, c *Collection) error {
		entry, err := GetWhitelistEntry(tx, caller)
		if err != nil {
			return err
		}

		res, err = c.Mint(entry, quantity, paid)
		if err != nil {
			return err
		}
		res.Owner = caller

		if res.FreeUnits > 0 {
			if err := SaveWhitelistEntry(tx, entry); err != nil {
				return err
			}
		}

		for _, id := range res.IDs() {
			if err := app.registry.Issue(tx, caller, id); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		logger.WithField("error", err).Debug("Mint rejected")
		return nil, err
	}

	logger.WithFields(log.Fields{
		"firstID":   res.FirstID,
		"lastID":    res.LastID,
		"freeUnits": res.FreeUnits,
	}).Info("Minted")

	return res, nil
}

// Queries

func (app *App) GetCollection(ctx context.Context) (*Collection, error) {
	return GetCollection(app.db.WithContext(ctx))
}

// GetWhitelistEntry reports membership and consumed quota of address.
// Unknown addresses are not whitelisted and consumed nothing.
func (app *App) GetWhitelistEntry(ctx context.Context, address common.FlowAddress) (*WhitelistEntry, error) {
	return GetWhitelistEntry(app.db.WithContext(ctx), address)
}

func (app *App) TokenURI(ctx context.Context, id uint64) (string, error) {
	c, err := app.GetCollection(ctx)
	if err != nil {
		return "", err
	}
	return c.TokenURI(id), nil
}

func (app *App) OwnerOf(ctx context.Context, id uint64) (common.FlowAddress, error) {
	return app.registry.OwnerOf(app.db.WithContext(ctx), id)
}

func (app *App) BalanceOf(ctx context.Context, owner common.FlowAddress) (uint64, error) {
	return app.registry.BalanceOf(app.db.WithContext(ctx), owner)
}

func (app *App) PayoutBalance(ctx context.Context, address common.FlowAddress) (decimal.Decimal, error) {
	a, err := GetPayoutAccount(app.db.WithContext(ctx), address)
	if err != nil {
		return decimal.Zero, err
	}
	return a.Balance, nil
}

func (app *App) ListMintEvents(ctx context.Context, limit, offset int) ([]MintEvent, error) {
	return ListMintEvents(app.db.WithContext(ctx), ParseListOptions(limit, offset))
}

func (app *App) ListWithdrawals(ctx context.Context, limit, offset int) ([]Withdrawal, error) {
	return ListWithdrawals(app.db.WithContext(ctx), ParseListOptions(limit, offset))
}
