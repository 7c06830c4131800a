package handlers

import (
	"nocage/internal/services/referral"
	"nocage/internal/utils"
	"nocage/internal/utils/validation"

	"github.com/gofiber/fiber/v2"
)

type ReferralHandler struct {
	referralService referral.Service
}

func NewReferralHandler(referralService referral.Service) *ReferralHandler {
	return &ReferralHandler{referralService: referralService}
}

// ConvertCredits exchanges referral credits for wallet balance.
func (h *ReferralHandler) ConvertCredits(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	var input struct {
		Credits int64 `json:"credits" validate:"required,gt=0"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}
	if err := validation.Struct(input); err != nil {
		return utils.BadRequest(c, err.Error())
	}

	result, err := h.referralService.Convert(c.Context(), claims.UserID, input.Credits)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}

	return utils.Success(c, result)
}
