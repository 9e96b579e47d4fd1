package dbbadger

import (
	"context"
	"errors"
	"sort"

	"github.com/dgraph-io/badger/v3"
	"github.com/gagliardetto/solana-go"
	"github.com/tdex-network/tdex-escrow/internal/core/domain"
	"github.com/timshannon/badgerhold/v4"
)

type offerRepositoryImpl struct {
	transactional
}

func newOfferRepositoryImpl(store *badgerhold.Store) *offerRepositoryImpl {
	return &offerRepositoryImpl{transactional{store}}
}

func (r *offerRepositoryImpl) AddOffer(
	ctx context.Context, offer *domain.Offer,
) error {
	return r.update(ctx, func(txn *badger.Txn) error {
		var retired RetiredOffer
		err := r.store.TxGet(txn, offer.ID, &retired)
		if err == nil {
			return domain.ErrOfferAlreadyExists
		}
		if !errors.Is(err, badgerhold.ErrNotFound) {
			return err
		}

		if err := r.store.TxInsert(
			txn, offer.ID, toOfferDTO(*offer),
		); err != nil {
			if errors.Is(err, badgerhold.ErrKeyExists) {
				return domain.ErrOfferAlreadyExists
			}
			return err
		}
		return nil
	})
}

func (r *offerRepositoryImpl) GetOffer(
	ctx context.Context, id uint64,
) (*domain.Offer, error) {
	var offer *domain.Offer
	err := r.view(ctx, func(txn *badger.Txn) error {
		var dto Offer
		if err := r.store.TxGet(txn, id, &dto); err != nil {
			if errors.Is(err, badgerhold.ErrNotFound) {
				return domain.ErrOfferNotFound
			}
			return err
		}

		var err error
		offer, err = dto.toDomain()
		return err
	})
	return offer, err
}

func (r *offerRepositoryImpl) GetAllOffers(
	ctx context.Context,
) ([]domain.Offer, error) {
	return r.findOffers(ctx, nil)
}

func (r *offerRepositoryImpl) GetOffersByMaker(
	ctx context.Context, maker solana.PublicKey,
) ([]domain.Offer, error) {
	query := badgerhold.Where("Maker").Eq(maker.String()).Index("Maker")
	return r.findOffers(ctx, query)
}

func (r *offerRepositoryImpl) DeleteOffer(ctx context.Context, id uint64) error {
	return r.update(ctx, func(txn *badger.Txn) error {
		if err := r.store.TxDelete(txn, id, Offer{}); err != nil {
			if errors.Is(err, badgerhold.ErrNotFound) {
				return domain.ErrOfferNotFound
			}
			return err
		}
		return r.store.TxUpsert(txn, id, RetiredOffer{id})
	})
}

func (r *offerRepositoryImpl) findOffers(
	ctx context.Context, query *badgerhold.Query,
) ([]domain.Offer, error) {
	var dtos []Offer
	if err := r.view(ctx, func(txn *badger.Txn) error {
		return r.store.TxFind(txn, &dtos, query)
	}); err != nil {
		return nil, err
	}

	offers := make([]domain.Offer, 0, len(dtos))
	for _, dto := range dtos {
		offer, err := dto.toDomain()
		if err != nil {
			return nil, err
		}
		offers = append(offers, *offer)
	}
	sort.SliceStable(offers, func(i, j int) bool {
		return offers[i].ID < offers[j].ID
	})
	return offers, nil
}
