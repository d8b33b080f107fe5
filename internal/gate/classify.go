// Package gate implements the request admission layer: CORS and security
// headers plus a tiered fixed-reset-window rate limiter, evaluated before
// any handler runs.
package gate

import (
	"strings"
	"time"
)

// Tier names a rate-limit class. Tiers never share counters.
type Tier string

const (
	// TierStrict throttles credential endpoints: admin login, OTP
	// send/verify and the contact form.
	TierStrict Tier = "strict"
	// TierModerate throttles the admin surface.
	TierModerate Tier = "moderate"
	// TierLoose is the default for everything else.
	TierLoose Tier = "loose"
)

// Limit is the window/ceiling pair for a tier.
type Limit struct {
	Window  time.Duration
	Ceiling int
}

// Limits maps every tier to its window and ceiling.
var Limits = map[Tier]Limit{
	TierStrict:   {Window: 15 * time.Minute, Ceiling: 5},
	TierModerate: {Window: time.Minute, Ceiling: 30},
	TierLoose:    {Window: time.Minute, Ceiling: 100},
}

type rule struct {
	prefix string
	tier   Tier
}

// Classifier resolves a request path to its rate-limit tier from an explicit
// table built once at startup. First matching rule wins; unmatched paths are
// loose.
type Classifier struct {
	rules []rule
}

// NewClassifier builds the route-classification table.
func NewClassifier() *Classifier {
	return &Classifier{rules: []rule{
		{prefix: "/api/auth/otp", tier: TierStrict},
		{prefix: "/api/admin/login", tier: TierStrict},
		{prefix: "/api/contact", tier: TierStrict},
		{prefix: "/api/admin", tier: TierModerate},
	}}
}

// Classify returns the tier for a path.
func (c *Classifier) Classify(path string) Tier {
	for _, r := range c.rules {
		if strings.HasPrefix(path, r.prefix) {
			return r.tier
		}
	}
	return TierLoose
}
