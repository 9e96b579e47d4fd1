package inmemory

import (
	"context"
	"sort"

	"github.com/gagliardetto/solana-go"
	"github.com/tdex-network/tdex-escrow/internal/core/domain"
)

type offerRepositoryImpl struct {
	transactional
}

// newOfferRepositoryImpl returns an in-memory domain.OfferRepository
// backed by the given store.
func newOfferRepositoryImpl(store *store) *offerRepositoryImpl {
	return &offerRepositoryImpl{transactional{store}}
}

func (r *offerRepositoryImpl) AddOffer(
	ctx context.Context, offer *domain.Offer,
) error {
	return r.store.update(ctx, func(st *state) error {
		if _, ok := st.offers[offer.ID]; ok {
			return domain.ErrOfferAlreadyExists
		}
		if _, ok := st.retiredOffers[offer.ID]; ok {
			return domain.ErrOfferAlreadyExists
		}
		st.offers[offer.ID] = *offer
		return nil
	})
}

func (r *offerRepositoryImpl) GetOffer(
	ctx context.Context, id uint64,
) (*domain.Offer, error) {
	var offer *domain.Offer
	err := r.store.view(ctx, func(st *state) error {
		o, ok := st.offers[id]
		if !ok {
			return domain.ErrOfferNotFound
		}
		offer = &o
		return nil
	})
	return offer, err
}

func (r *offerRepositoryImpl) GetAllOffers(
	ctx context.Context,
) ([]domain.Offer, error) {
	return r.findOffers(ctx, func(domain.Offer) bool { return true })
}

func (r *offerRepositoryImpl) GetOffersByMaker(
	ctx context.Context, maker solana.PublicKey,
) ([]domain.Offer, error) {
	return r.findOffers(ctx, func(o domain.Offer) bool {
		return o.Maker.Equals(maker)
	})
}

func (r *offerRepositoryImpl) DeleteOffer(ctx context.Context, id uint64) error {
	return r.store.update(ctx, func(st *state) error {
		if _, ok := st.offers[id]; !ok {
			return domain.ErrOfferNotFound
		}
		delete(st.offers, id)
		st.retiredOffers[id] = struct{}{}
		return nil
	})
}

func (r *offerRepositoryImpl) findOffers(
	ctx context.Context, filter func(domain.Offer) bool,
) ([]domain.Offer, error) {
	offers := make([]domain.Offer, 0)
	//nolint
	r.store.view(ctx, func(st *state) error {
		for _, o := range st.offers {
			if filter(o) {
				offers = append(offers, o)
			}
		}
		return nil
	})
	sort.SliceStable(offers, func(i, j int) bool {
		return offers[i].ID < offers[j].ID
	})
	return offers, nil
}
