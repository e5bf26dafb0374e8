package marketplace

import "github.com/yashdeshmukh28455/Smart-Carbon-Emission-Monitoring-Renewable-Credit-Trading-System/internal/pkg/apperr"

var (
	ErrListingNotFound = apperr.NotFound("LISTING_NOT_FOUND", "Listing not found")

	// ErrListingNotActive covers sold, cancelled and expired listings.
	ErrListingNotActive = apperr.Conflict("LISTING_NOT_ACTIVE", "Listing is not active")

	// ErrExceedsRemaining is returned when a purchase asks for more than the listing has left.
	ErrExceedsRemaining = apperr.Conflict("AMOUNT_EXCEEDS_REMAINING", "Requested amount exceeds what remains on the listing")

	ErrSelfTrade           = apperr.Conflict("SELF_TRADE", "You cannot buy your own listing")
	ErrInsufficientBalance = apperr.Conflict("INSUFFICIENT_BALANCE", "Not enough unreserved active credits to sell")
	ErrSellerInsufficient  = apperr.Conflict("SELLER_INSUFFICIENT_BALANCE", "Seller no longer holds enough credits; the payment has failed")
	ErrFillConflict        = apperr.Conflict("FILL_CONFLICT", "Payment was already filled against a different listing or amount")

	ErrInvalidAmount = apperr.Validation("INVALID_AMOUNT", "amount_kg_co2 must be greater than 0")
	ErrInvalidPrice  = apperr.Validation("INVALID_PRICE", "price_per_kg must be greater than 0")
	ErrPriceTooLow   = apperr.Validation("PRICE_BELOW_MINIMUM", "price_per_kg is below the marketplace minimum")

	ErrInternal = apperr.Internal("MARKETPLACE_STORE", "marketplace store error")
)
