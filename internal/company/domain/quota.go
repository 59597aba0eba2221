package domain

import "time"

// CheckOfferQuota decides whether the company may create another offer.
//
// When the subscription has lapsed the company is marked inactive in place and
// ErrSubscriptionExpired is returned; the caller must persist the company even
// though the request itself fails. The free-plan cap is checked against the
// lifetime OffersUsed counter. This is an advisory precondition evaluated in
// the caller's unit of work: concurrent creations near the cap can both pass.
func CheckOfferQuota(c *Company, offerLimit int, now time.Time) error {
	if c.SubscriptionExpired(now) {
		c.IsActive = false
		return ErrSubscriptionExpired
	}
	if c.SubscriptionPlan == PlanFree && c.OffersUsed >= offerLimit {
		return ErrQuotaExceeded
	}
	return nil
}

// CheckSeatQuota decides whether the company may add another user, given the
// current seat count. Same expiry side-effect contract as CheckOfferQuota.
func CheckSeatQuota(c *Company, seats int64, seatLimit int, now time.Time) error {
	if c.SubscriptionExpired(now) {
		c.IsActive = false
		return ErrSubscriptionExpired
	}
	if c.SubscriptionPlan == PlanFree && seats >= int64(seatLimit) {
		return ErrQuotaExceeded
	}
	return nil
}
