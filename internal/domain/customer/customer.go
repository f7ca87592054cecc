package customer

// Customer is the shopper of the current session. Only rewards membership
// affects pricing.
type Customer struct {
	rewardsMember bool
}

// New returns a customer with the given membership.
func New(rewardsMember bool) *Customer {
	return &Customer{rewardsMember: rewardsMember}
}

// RewardsMember reports whether the customer gets member prices.
func (c *Customer) RewardsMember() bool {
	return c.rewardsMember
}

// SetRewardsMember updates the membership flag.
func (c *Customer) SetRewardsMember(v bool) {
	c.rewardsMember = v
}

// Reset returns the customer to a regular, non-member shopper.
func (c *Customer) Reset() {
	c.rewardsMember = false
}

// String renders the status line printed on receipts and in the menu.
func (c *Customer) String() string {
	return StatusLine(c.rewardsMember)
}

// StatusLine renders the membership line for the given flag.
func StatusLine(rewardsMember bool) string {
	if rewardsMember {
		return "Client is a rewards member"
	}
	return "Client is not a rewards member"
}
