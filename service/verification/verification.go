package verification

import (
	"errors"

	"github.com/ericlagergren/decimal"

	"github.com/JPRademeyer84/aureus-alliance-holdings-sub015/config"
	"github.com/JPRademeyer84/aureus-alliance-holdings-sub015/conv"
)

// ErrUnknownTier is returned when a user carries a tier name the
// configuration does not define
var ErrUnknownTier = errors.New("UNKNOWN_VERIFICATION_TIER")

// Tier bundles the commission multiplier and the allowed purchase range of a
// verification level
type Tier struct {
	Name       string
	Multiplier *decimal.Big
	MinAmount  *decimal.Big
	MaxAmount  *decimal.Big
}

// AllowsAmount reports whether a purchase amount falls inside the tier range.
// A zero MaxAmount means the tier has no upper limit.
func (tier *Tier) AllowsAmount(amount *decimal.Big) bool {
	if amount.Cmp(tier.MinAmount) < 0 {
		return false
	}
	if tier.MaxAmount.Sign() > 0 && amount.Cmp(tier.MaxAmount) > 0 {
		return false
	}
	return true
}

// TierProvider resolves the verification tier of a user
type TierProvider interface {
	TierFor(userID uint64) (*Tier, error)
}

// UserSource reads the stored tier name of a user
type UserSource interface {
	GetUserVerificationTier(userID uint64) (string, error)
}

// Provider resolves tiers from the static configuration, falling back to the
// default tier for users without one assigned
type Provider struct {
	source      UserSource
	defaultTier string
	tiers       map[string]*Tier
}

// NewProvider builds a tier provider from the verification configuration
func NewProvider(cfg config.VerificationConfig, source UserSource) *Provider {
	tiers := map[string]*Tier{}
	for name, tierCfg := range cfg.GetTiersMap() {
		tiers[name] = &Tier{
			Name:       name,
			Multiplier: conv.FromFloat(tierCfg.Multiplier),
			MinAmount:  conv.FromFloat(tierCfg.MinAmount),
			MaxAmount:  conv.FromFloat(tierCfg.MaxAmount),
		}
	}
	return &Provider{
		source:      source,
		defaultTier: cfg.DefaultTier,
		tiers:       tiers,
	}
}

// TierFor returns the tier of the given user
func (provider *Provider) TierFor(userID uint64) (*Tier, error) {
	name, err := provider.source.GetUserVerificationTier(userID)
	if err != nil {
		return nil, err
	}
	if len(name) == 0 {
		name = provider.defaultTier
	}
	tier, ok := provider.tiers[name]
	if !ok {
		return nil, ErrUnknownTier
	}
	return tier, nil
}
