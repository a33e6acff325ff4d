package api

import (
	v1 "github.com/finsuite/ledgergateway/internal/api/v1"
	"github.com/gofiber/fiber/v2"
)

const prefixV1 = "api/v1/"

func SetupRoutes(app *fiber.App, handler *v1.Handler) {
	app.Get("/ping", handler.Pong)
	app.Post(prefixV1+"payments", handler.SubmitPayment)
	app.Get(prefixV1+"ledger", handler.QueryLedger)
	app.Post(prefixV1+"loans", handler.ApplyLoan)
	app.Get(prefixV1+"loans/active", handler.GetActiveLoan)
	app.Post(prefixV1+"loans/repay", handler.RepayLoan)
}
