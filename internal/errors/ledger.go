package errors

var (
	ErrInvalidAmount = &DomainError{
		Code:    "INVALID_AMOUNT",
		Message: "amount must be positive and within allowed bounds",
	}
	ErrInsufficientFunds = &DomainError{
		Code:    "INSUFFICIENT_FUNDS",
		Message: "insufficient wallet balance",
	}
	ErrSelfTransfer = &DomainError{
		Code:    "SELF_TRANSFER",
		Message: "cannot transfer to self",
	}
	ErrInvalidState = &DomainError{
		Code:    "INVALID_STATE",
		Message: "operation not allowed from the current state",
	}
	ErrNotFound = &DomainError{
		Code:    "NOT_FOUND",
		Message: "requested record not found",
	}
	ErrUnauthorized = &DomainError{
		Code:    "UNAUTHORIZED",
		Message: "caller is not allowed to perform this operation",
	}
	ErrInsufficientCredits = &DomainError{
		Code:    "INSUFFICIENT_CREDITS",
		Message: "not enough referral credits",
	}
	ErrBelowMinimum = &DomainError{
		Code:    "BELOW_MINIMUM",
		Message: "amount is below the minimum threshold",
	}
	ErrConversionTooSmall = &DomainError{
		Code:    "CONVERSION_TOO_SMALL",
		Message: "conversion result is below one paisa",
	}
	ErrInvalidUpiFormat = &DomainError{
		Code:    "INVALID_UPI_FORMAT",
		Message: "UPI id is not a valid payment address",
	}
)
