package http

import (
	"net/http"

	"github.com/flow-hydraulics/flow-mint/service/app"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

func NewRouter(logger *log.Logger, app *app.App, auth *Authenticator) http.Handler {
	r := mux.NewRouter()

	// Catch the api version
	rv := r.PathPrefix("/{apiVersion}").Subrouter()

	caller := func(h http.HandlerFunc) http.Handler {
		return RequireCaller(logger, auth, h)
	}

	rv.HandleFunc("/health/ready", HandleHealthReady()).Methods(http.MethodGet)

	// Public queries
	rv.HandleFunc("/collection", HandleGetCollection(logger, app)).Methods(http.MethodGet)
	rv.HandleFunc("/whitelist/{address}", HandleGetWhitelistEntry(logger, app)).Methods(http.MethodGet)
	rv.HandleFunc("/tokens/{id:[0-9]+}", HandleGetToken(logger, app)).Methods(http.MethodGet)
	rv.HandleFunc("/tokens/{id:[0-9]+}/uri", HandleGetTokenURI(logger, app)).Methods(http.MethodGet)
	rv.HandleFunc("/owners/{address}", HandleGetOwnerBalance(logger, app)).Methods(http.MethodGet)
	rv.HandleFunc("/accounts/{address}", HandleGetPayoutAccount(logger, app)).Methods(http.MethodGet)
	rv.HandleFunc("/events", HandleListMintEvents(logger, app)).Methods(http.MethodGet)
	rv.HandleFunc("/withdrawals", HandleListWithdrawals(logger, app)).Methods(http.MethodGet)

	// Caller bound, admin checks happen in the app
	rv.Handle("/sale", caller(HandleTriggerSale(logger, app))).Methods(http.MethodPost)
	rv.Handle("/price", caller(HandleSetPrice(logger, app))).Methods(http.MethodPut)
	rv.Handle("/whitelist", caller(HandleEditWhitelist(logger, app))).Methods(http.MethodPost)
	rv.Handle("/whitelist/per-wallet", caller(HandleSetWhitelistPerWallet(logger, app))).Methods(http.MethodPut)
	rv.Handle("/base-uri", caller(HandleSetBaseURI(logger, app))).Methods(http.MethodPut)
	rv.Handle("/withdraw", caller(HandleWithdrawEther(logger, app))).Methods(http.MethodPost)
	rv.Handle("/mint", caller(HandleMint(logger, app))).Methods(http.MethodPost)

	// Use middleware
	h := UseCors(r)
	h = UseLogging(logger.Writer(), h)
	h = UseCompress(h)
	h = UseJson(h)

	return h
}
