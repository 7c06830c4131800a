package handlers

import (
	"nocage/internal/services/topup"
	"nocage/internal/utils"
	"nocage/internal/utils/validation"

	"github.com/gofiber/fiber/v2"
)

type TopupHandler struct {
	topupService topup.Service
}

func NewTopupHandler(topupService topup.Service) *TopupHandler {
	return &TopupHandler{topupService: topupService}
}

// CreateTopup opens a top-up in AWAITING_PAYMENT. No wallet effect until
// an admin confirms the out-of-band payment.
func (h *TopupHandler) CreateTopup(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	var input struct {
		Amount int64  `json:"amount" validate:"required,gt=0"`
		Method string `json:"method" validate:"required,oneof=UPI_ID QR_PAYMENT"`
		UpiID  string `json:"upi_id"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}
	if err := validation.Struct(input); err != nil {
		return utils.BadRequest(c, err.Error())
	}

	created, err := h.topupService.Create(c.Context(), claims.UserID, input.Amount, input.Method, input.UpiID)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}

	return utils.Respond(c, fiber.StatusCreated, fiber.Map{
		"id":           created.ID,
		"reference_id": created.ReferenceID,
		"qr_code_data": created.QRCodeData,
		"status":       created.Status,
	})
}

// GetTopups lists the caller's top-ups.
func (h *TopupHandler) GetTopups(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	topups, nextCursor, err := h.topupService.ListByUser(c.Context(), claims.UserID, topup.ListOptions{
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
