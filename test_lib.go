package main

import (
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/flow-hydraulics/flow-mint/service/app"
	"github.com/flow-hydraulics/flow-mint/service/common"
	"github.com/flow-hydraulics/flow-mint/service/config"
	mint_http "github.com/flow-hydraulics/flow-mint/service/http"
	log "github.com/sirupsen/logrus"
)

const testSecret = "test-secret"

var (
	testAdmin      = common.FlowAddressFromString("0x1")
	testCollection = common.FlowAddressFromString("0x2")
	testUser       = common.FlowAddressFromString("0x3")
)

func getTestCfg(t *testing.T) *config.Config {
	cfg := &config.Config{
		AdminAddress:       testAdmin.Hex(),
		CollectionAddress:  testCollection.Hex(),
		JWTSecret:          testSecret,
		CollectionName:     "NFTN",
		CollectionSymbol:   "NFTS",
		MaxTotalSupply:     10,
		Price:              "1",
		WhitelistPerWallet: 1,
		DatabaseType:       "sqlite",
		DatabaseDSN:        filepath.Join(t.TempDir(), "test.db"),
	}

	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}

	return cfg
}

func getTestApp(t *testing.T, cfg *config.Config) (*app.App, func()) {
	db, err := common.NewGormDB(cfg)
	if err != nil {
		t.Fatal(err)
	}

	logger := log.New()
	logger.SetLevel(log.WarnLevel)

	a, err := app.New(cfg, logger, db)
	if err != nil {
		common.CloseGormDB(db)
		t.Fatal(err)
	}

	clean := func() {
		common.CloseGormDB(db)
	}

	return a, clean
}

func getTestServer(t *testing.T, cfg *config.Config) (*mint_http.Server, func()) {
	a, cleanupApp := getTestApp(t, cfg)
	logger := log.New()
	logger.SetLevel(log.WarnLevel)
	return mint_http.NewServer(cfg, logger, a), cleanupApp
}

func getTestToken(t *testing.T, address common.FlowAddress) string {
	token, err := mint_http.NewAuthenticator(testSecret).Token(address, time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	return token
}

func AssertEqual(t *testing.T, a interface{}, b interface{}) {
	t.Helper()
	if a == b {
		return
	}
	t.Errorf("Received %v (type %v), expected %v (type %v)", a, reflect.TypeOf(a), b, reflect.TypeOf(b))
}

func AssertNotEqual(t *testing.T, a interface{}, b interface{}) {
	t.Helper()
	if a != b {
		return
	}
	t.Error("Did not expect to equal")
}
