package handlers

import (
	"nocage/internal/services/ledger"
	"nocage/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type WalletHandler struct {
	ledgerService ledger.Service
}

func NewWalletHandler(ledgerService ledger.Service) *WalletHandler {
	return &WalletHandler{ledgerService: ledgerService}
}

// GetWallet returns the caller's wallet, creating it lazily on first
// access.
func (h *WalletHandler) GetWallet(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	wallet, err := h.ledgerService.GetWallet(c.Context(), claims.UserID)
	if err != nil {
		return utils.InternalError(c, "failed to get wallet")
	}

	return utils.Success(c, fiber.Map{
		"wallet": wallet,
	})
}

// GetTransactions returns the caller's ledger records, newest first,
// id-cursored.
func (h *WalletHandler) GetTransactions(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	records, nextCursor, err := h.ledgerService.ListTransactions(c.Context(), claims.UserID, ledger.ListOptions{
		Limit:  c.QueryInt("limit"),
		Cursor: parseCursor(c),
		Type:   c.Query("type"),
	})
	if err != nil {
		return utils.InternalError(c, "failed to list transactions")
	}

	return utils.Success(c, fiber.Map{
		"transactions": records,
		"next_cursor":  nextCursor,
	})
}
