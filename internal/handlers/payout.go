package handlers

import (
	"nocage/internal/services/payout"
	"nocage/internal/utils"
	"nocage/internal/utils/validation"

	"github.com/gofiber/fiber/v2"
)

type PayoutHandler struct {
	payoutService payout.Service
}

func NewPayoutHandler(payoutService payout.Service) *PayoutHandler {
	return &PayoutHandler{payoutService: payoutService}
}

// RequestPayout creates a PENDING withdrawal request. The balance check
// here is advisory; the binding debit happens when an admin processes it.
func (h *PayoutHandler) RequestPayout(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	var input struct {
		Amount        int64  `json:"amount" validate:"required,gt=0"`
		BankAccount   string `json:"bank_account"`
		IfscCode      string `json:"ifsc_code"`
		UpiID         string `json:"upi_id"`
		AccountHolder string `json:"account_holder" validate:"required"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}
	if err := validation.Struct(input); err != nil {
		return utils.BadRequest(c, err.Error())
	}

	created, err := h.payoutService.Request(c.Context(), payout.Request{
		UserID:        claims.UserID,
		Amount:        input.Amount,
		BankAccount:   input.BankAccount,
		IfscCode:      input.IfscCode,
		UpiID:         input.UpiID,
		AccountHolder: input.AccountHolder,
	})
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}

	return utils.Respond(c, fiber.StatusCreated, fiber.Map{
		"payout": created,
	})
}

// GetPayouts lists the caller's payout requests.
func (h *PayoutHandler) GetPayouts(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	payouts, nextCursor, err := h.payoutService.ListByUser(c.Context(), claims.UserID, payout.ListOptions{
		Limit:  c.QueryInt("limit"),
		Cursor: parseCursor(c),
		Status: c.Query("status"),
	})
	if err != nil {
		return utils.InternalError(c, "failed to list payout requests")
	}

	return utils.Success(c, fiber.Map{
		"payouts":     payouts,
		"next_cursor": nextCursor,
	})
}
