package referral

import (
	"errors"

	"github.com/JPRademeyer84/aureus-alliance-holdings-sub015/model"
)

var (
	// ErrCircularReferral is returned when walking the sponsor chain revisits a user
	ErrCircularReferral = errors.New("CIRCULAR_REFERRAL")
	// ErrSelfReferral is returned when a user tries to sponsor themselves
	ErrSelfReferral = errors.New("SELF_REFERRAL")
	// ErrAlreadyReferred is returned when the referred user already has a sponsor
	ErrAlreadyReferred = errors.New("ALREADY_REFERRED")
)

// RelationshipSource reads the active sponsor of a user
type RelationshipSource interface {
	ActiveReferrerOf(userID uint64) (uint64, bool, error)
}

// RelationshipStore extends the source with relationship creation
type RelationshipStore interface {
	RelationshipSource
	CreateRelationship(rel *model.ReferralRelationship) error
}

// Resolver walks referral chains. Resolution is read only and safe to repeat:
// two calls for the same user yield the same chain as long as no relationship
// is voided in between.
type Resolver struct {
	store    RelationshipStore
	maxDepth int
}

// NewResolver creates a chain resolver with the given depth cap
func NewResolver(store RelationshipStore, maxDepth int) *Resolver {
	return &Resolver{
		store:    store,
		maxDepth: maxDepth,
	}
}

// ResolveChain returns the ancestors of a user ordered by level, at most
// maxDepth entries. A user without a sponsor yields an empty chain. A cycle
// in the stored relationships aborts the walk.
func (resolver *Resolver) ResolveChain(userID uint64) ([]model.ChainEntry, error) {
	chain := make([]model.ChainEntry, 0, resolver.maxDepth)
	visited := map[uint64]struct{}{
		userID: {},
	}
	current := userID
	for level := 1; level <= resolver.maxDepth; level++ {
		referrerID, found, err := resolver.store.ActiveReferrerOf(current)
		if err != nil {
			return nil, err
		}
		if !found {
			break
		}
		if _, seen := visited[referrerID]; seen {
			return nil, ErrCircularReferral
		}
		visited[referrerID] = struct{}{}
		chain = append(chain, model.ChainEntry{
			Level:  model.CommissionLevel(level),
			UserID: referrerID,
		})
		current = referrerID
	}
	return chain, nil
}

// Establish records a new sponsor for a user. The relationship is rejected
// when the user sponsors themselves, already has a sponsor, or when the new
// link would close a cycle through the existing chain.
func (resolver *Resolver) Establish(referrerID, referredID uint64, source model.ReferralSource) (*model.ReferralRelationship, error) {
	if referrerID == referredID {
		return nil, ErrSelfReferral
	}
	if _, found, err := resolver.store.ActiveReferrerOf(referredID); err != nil {
		return nil, err
	} else if found {
		return nil, ErrAlreadyReferred
	}

	// the new link closes a cycle iff the referred user is already an
	// ancestor of the sponsor
	visited := map[uint64]struct{}{
		referrerID: {},
	}
	current := referrerID
	for {
		ancestorID, found, err := resolver.store.ActiveReferrerOf(current)
		if err != nil {
			return nil, err
		}
		if !found {
			break
		}
		if ancestorID == referredID {
			return nil, ErrCircularReferral
		}
		if _, seen := visited[ancestorID]; seen {
			return nil, ErrCircularReferral
		}
		visited[ancestorID] = struct{}{}
		current = ancestorID
	}

	rel := model.NewReferralRelationship(referrerID, referredID, source)
	if err := resolver.store.CreateRelationship(rel); err != nil {
		return nil, err
	}
	return rel, nil
}
