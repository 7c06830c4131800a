package handlers

import (
	"nocage/internal/services/payout"
	"nocage/internal/services/topup"
	"nocage/internal/utils"
	"nocage/internal/utils/validation"

	"github.com/gofiber/fiber/v2"
)

// AdminHandler hosts the terminal transitions of the top-up and payout
// state machines. Routing guarantees every method runs behind the admin
// middleware.
type AdminHandler struct {
	topupService  topup.Service
	payoutService payout.Service
}

func NewAdminHandler(topupService topup.Service, payoutService payout.Service) *AdminHandler {
	return &AdminHandler{
		topupService:  topupService,
		payoutService: payoutService,
	}
}

// ConfirmTopup credits the wallet exactly once; a repeat confirm returns
// a conflict.
func (h *AdminHandler) ConfirmTopup(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return utils.BadRequest(c, "invalid topup id")
	}

	var input struct {
		UtrNumber string `json:"utr_number"`
		Notes     string `json:"notes"`
	}
	if err := c.BodyParser(&input); err != nil && len(c.Body()) > 0 {
		return utils.BadRequest(c, "invalid request format")
	}

	confirmed, err := h.topupService.Confirm(c.Context(), id, input.UtrNumber, input.Notes)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.Success(c, fiber.Map{"topup": confirmed})
}

func (h *AdminHandler) RejectTopup(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return utils.BadRequest(c, "invalid topup id")
	}

	var input struct {
		Reason string `json:"reason" validate:"required"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}
	if err := validation.Struct(input); err != nil {
		return utils.BadRequest(c, err.Error())
	}

	rejected, err := h.topupService.Reject(c.Context(), id, input.Reason)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.Success(c, fiber.Map{"topup": rejected})
}

// ListTopups is the admin review queue, usually filtered to
// AWAITING_PAYMENT.
func (h *AdminHandler) ListTopups(c *fiber.Ctx) error {
	topups, nextCursor, err := h.topupService.ListAll(c.Context(), topup.ListOptions{
		Limit:  c.QueryInt("limit"),
		Cursor: parseCursor(c),
		Status: c.Query("status"),
	})
	if err != nil {
		return utils.InternalError(c, "failed to list topups")
	}
	return utils.Success(c, fiber.Map{
		"topups":      topups,
		"next_cursor": nextCursor,
	})
}

// ProcessPayout debits the wallet and moves the request to PROCESSING. If
// the balance no longer covers the amount, nothing changes.
func (h *AdminHandler) ProcessPayout(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return utils.BadRequest(c, "invalid payout id")
	}

	processed, err := h.payoutService.Process(c.Context(), id)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.Success(c, fiber.Map{"payout": processed})
}

func (h *AdminHandler) CompletePayout(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return utils.BadRequest(c, "invalid payout id")
	}

	var input struct {
		ExternalRef string `json:"external_ref"`
	}
	if err := c.BodyParser(&input); err != nil && len(c.Body()) > 0 {
		return utils.BadRequest(c, "invalid request format")
	}

	completed, err := h.payoutService.MarkCompleted(c.Context(), id, input.ExternalRef)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.Success(c, fiber.Map{"payout": completed})
}

// FailPayout refunds the debited amount along with the transition.
func (h *AdminHandler) FailPayout(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return utils.BadRequest(c, "invalid payout id")
	}

	var input struct {
		Reason string `json:"reason" validate:"required"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}
	if err := validation.Struct(input); err != nil {
		return utils.BadRequest(c, err.Error())
	}

	failed, err := h.payoutService.MarkFailed(c.Context(), id, input.Reason)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.Success(c, fiber.Map{"payout": failed})
}
