package main

import (
	"flag"
	"fmt"
	"time"

	"os"

	"github.com/flow-hydraulics/flow-mint/service/app"
	"github.com/flow-hydraulics/flow-mint/service/common"
	"github.com/flow-hydraulics/flow-mint/service/config"
	"github.com/flow-hydraulics/flow-mint/service/http"
	log "github.com/sirupsen/logrus"
)

const version = "0.1.0"

var (
	sha1ver   string // sha1 revision used to build the program
	buildTime string // when the executable was built
)

func init() {
	log.SetLevel(log.InfoLevel)
}

func main() {
	var (
		printVersion bool
		envFilePath  string
		tokenFor     string
		tokenTTL     time.Duration
	)

	// If we should just print the version number and exit
	flag.BoolVar(&printVersion, "version", false, "if true, print version and exit")

	// Allow configuration of envfile path
	// If not set, ParseConfig will not try to load variables to environment from a file
	flag.StringVar(&envFilePath, "envfile", "", "envfile path")

	// Issue a caller token signed with the configured secret and exit
	flag.StringVar(&tokenFor, "token", "", "print a caller token for the given address and exit")
	flag.DurationVar(&tokenTTL, "token-ttl", 24*time.Hour, "lifetime of tokens issued with -token, 0 never expires")

	flag.Parse()

	if printVersion {
		fmt.Printf("v%s build on %s from sha1 %s\n", version, buildTime, sha1ver)
		os.Exit(0)
	}

	opts := &config.ConfigOptions{EnvFilePath: envFilePath}
	cfg, err := config.ParseConfig(opts)
	if err != nil {
		panic(err)
	}

	if tokenFor != "" {
		if err := printToken(cfg, tokenFor, tokenTTL); err != nil {
			panic(err)
		}
		os.Exit(0)
	}

	if err := runServer(cfg); err != nil {
		panic(err)
	}

	os.Exit(0)
}

func printToken(cfg *config.Config, address string, ttl time.Duration) error {
	caller, err := common.ParseFlowAddress(address)
	if err != nil {
		return err
	}

	token, err := http.NewAuthenticator(cfg.JWTSecret).Token(caller, ttl)
	if err != nil {
		return err
	}

	fmt.Println(token)
	return nil
}

func runServer(cfg *config.Config) error {
	if cfg == nil {
		return fmt.Errorf("config not provided")
	}

	logger := log.New()

	logger.Printf("Starting server (v%s)...\n", version)

	// Database
	db, err := common.NewGormDB(cfg)
	if err != nil {
		return err
	}
	defer common.CloseGormDB(db)

	// Application, migrates the database and constructs the collection on first start
	app, err := app.New(cfg, logger, db)
	if err != nil {
		return err
	}

	// HTTP server
	server := http.NewServer(cfg, logger, app)

	server.ListenAndServe()

	return nil
}
