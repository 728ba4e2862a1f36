package http

import (
	"net/http"
	"strconv"

	"github.com/flow-hydraulics/flow-mint/service/app"
	"github.com/flow-hydraulics/flow-mint/service/common"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

// Get collection state
func HandleGetCollection(logger *log.Logger, app *app.App) http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		c, err := app.GetCollection(r.Context())
		if err != nil {
			handleError(rw, logger, err)
			return
		}

		handleJsonResponse(rw, http.StatusOK, ResCollectionFromApp(c))
	}
}

// Open or close the sale
func HandleTriggerSale(logger *log.Logger, app *app.App) http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		var req ReqTriggerSale
		if err := decodeBody(r, &req); err != nil {
			handleError(rw, logger, err)
			return
		}

		if err := app.TriggerSale(r.Context(), callerFromContext(r.Context()), req.Active); err != nil {
			handleError(rw, logger, err)
			return
		}

		handleJsonResponse(rw, http.StatusOK, "Ok")
	}
}

// Set unit price
func HandleSetPrice(logger *log.Logger, app *app.App) http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		var req ReqSetPrice
		if err := decodeBody(r, &req); err != nil {
			handleError(rw, logger, err)
			return
		}

		if err := app.SetPrice(r.Context(), callerFromContext(r.Context()), req.Price); err != nil {
			handleError(rw, logger, err)
			return
		}

		handleJsonResponse(rw, http.StatusOK, "Ok")
	}
}

// Add or remove addresses from the allow-list
func HandleEditWhitelist(logger *log.Logger, app *app.App) http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		var req ReqEditWhitelist
		if err := decodeBody(r, &req); err != nil {
			handleError(rw, logger, err)
			return
		}

		if err := app.EditWhitelist(r.Context(), callerFromContext(r.Context()), req.Addresses, req.Active); err != nil {
			handleError(rw, logger, err)
			return
		}

		handleJsonResponse(rw, http.StatusOK, "Ok")
	}
}

// Set the free mint quota per allow-listed wallet
func HandleSetWhitelistPerWallet(logger *log.Logger, app *app.App) http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		var req ReqSetWhitelistPerWallet
		if err := decodeBody(r, &req); err != nil {
			handleError(rw, logger, err)
			return
		}

		if err := app.SetWhitelistPerWallet(r.Context(), callerFromContext(r.Context()), req.PerWallet); err != nil {
			handleError(rw, logger, err)
			return
		}

		handleJsonResponse(rw, http.StatusOK, "Ok")
	}
}

// Get allow-list membership and consumed quota of an address
func HandleGetWhitelistEntry(logger *log.Logger, app *app.App) http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		address, err := common.ParseFlowAddress(mux.Vars(r)["address"])
		if err != nil {
			handleError(rw, logger, err)
			return
		}

		e, err := app.GetWhitelistEntry(r.Context(), address)
		if err != nil {
			handleError(rw, logger, err)
			return
		}

		handleJsonResponse(rw, http.StatusOK, ResWhitelistEntryFromApp(e))
	}
}

// Set metadata base URI
func HandleSetBaseURI(logger *log.Logger, app *app.App) http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		var req ReqSetBaseURI
		if err := decodeBody(r, &req); err != nil {
			handleError(rw, logger, err)
			return
		}

		if err := app.SetBaseURI(r.Context(), callerFromContext(r.Context()), req.BaseURI); err != nil {
			handleError(rw, logger, err)
			return
		}

		handleJsonResponse(rw, http.StatusOK, "Ok")
	}
}

// Withdraw the custody balance
func HandleWithdrawEther(logger *log.Logger, app *app.App) http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		var req ReqWithdrawEther
		if err := decodeBody(r, &req); err != nil {
			handleError(rw, logger, err)
			return
		}

		w, err := app.WithdrawEther(r.Context(), callerFromContext(r.Context()), req.Destination)
		if err != nil {
			handleError(rw, logger, err)
			return
		}

		handleJsonResponse(rw, http.StatusOK, ResWithdrawalFromApp(w))
	}
}

// List withdrawals
func HandleListWithdrawals(logger *log.Logger, app *app.App) http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		limit, offset := parseListParams(r)

		list, err := app.ListWithdrawals(r.Context(), limit, offset)
		if err != nil {
			handleError(rw, logger, err)
			return
		}

		handleJsonResponse(rw, http.StatusOK, ResWithdrawalListFromApp(list))
	}
}

// Mint items to the caller
func HandleMint(logger *log.Logger, app *app.App) http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		var req ReqMint
		if err := decodeBody(r, &req); err != nil {
			handleError(rw, logger, err)
			return
		}

		// Negative quantities are zero mints, the core keeps the check order
		quantity := uint64(0)
		if req.Quantity > 0 {
			quantity = uint64(req.Quantity)
		}

		res, err := app.Mint(r.Context(), callerFromContext(r.Context()), quantity, req.Value)
		if err != nil {
			handleError(rw, logger, err)
			return
		}

		handleJsonResponse(rw, http.StatusCreated, ResMintFromApp(res))
	}
}

// Get token owner and locator
func HandleGetToken(logger *log.Logger, app *app.App) http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
		if err != nil {
			handleError(rw, logger, err)
			return
		}

		owner, err := app.OwnerOf(r.Context(), id)
		if err != nil {
			handleError(rw, logger, err)
			return
		}

		uri, err := app.TokenURI(r.Context(), id)
		if err != nil {
			handleError(rw, logger, err)
			return
		}

		handleJsonResponse(rw, http.StatusOK, ResToken{TokenID: id, Owner: owner, URI: uri})
	}
}

// Get token locator
func HandleGetTokenURI(logger *log.Logger, app *app.App) http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
		if err != nil {
			handleError(rw, logger, err)
			return
		}

		uri, err := app.TokenURI(r.Context(), id)
		if err != nil {
			handleError(rw, logger, err)
			return
		}

		handleJsonResponse(rw, http.StatusOK, ResTokenURI{URI: uri})
	}
}

// Get number of items owned by an address
func HandleGetOwnerBalance(logger *log.Logger, app *app.App) http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		owner, err := common.ParseFlowAddress(mux.Vars(r)["address"])
		if err != nil {
			handleError(rw, logger, err)
			return
		}

		balance, err := app.BalanceOf(r.Context(), owner)
		if err != nil {
			handleError(rw, logger, err)
			return
		}

		handleJsonResponse(rw, http.StatusOK, ResOwnerBalance{Owner: owner, Balance: balance})
	}
}

// Get funds released to an address
func HandleGetPayoutAccount(logger *log.Logger, app *app.App) http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		address, err := common.ParseFlowAddress(mux.Vars(r)["address"])
		if err != nil {
			handleError(rw, logger, err)
			return
		}

		balance, err := app.PayoutBalance(r.Context(), address)
		if err != nil {
			handleError(rw, logger, err)
			return
		}

		handleJsonResponse(rw, http.StatusOK, ResPayoutAccount{Address: address, Balance: balance})
	}
}

// List mint events
func HandleListMintEvents(logger *log.Logger, app *app.App) http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		limit, offset := parseListParams(r)

		list, err := app.ListMintEvents(r.Context(), limit, offset)
		if err != nil {
			handleError(rw, logger, err)
			return
		}

		handleJsonResponse(rw, http.StatusOK, ResMintEventListFromApp(list))
	}
}

func HandleHealthReady() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		rw.WriteHeader(http.StatusOK)
	}
}

func parseListParams(r *http.Request) (int, int) {
	limit, err := strconv.Atoi(r.FormValue("limit"))
	if err != nil {
		limit = 0
	}

	offset, err := strconv.Atoi(r.FormValue("offset"))
	if err != nil {
		offset = 0
	}

	return limit, offset
}
