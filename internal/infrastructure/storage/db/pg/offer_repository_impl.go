package postgresdb

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/jackc/pgx/v4"
	"github.com/tdex-network/tdex-escrow/internal/core/domain"
	"github.com/tdex-network/tdex-escrow/internal/infrastructure/storage/db/pg/sqlc/queries"
)

type offerRepositoryImpl struct {
	transactional
}

func (r *offerRepositoryImpl) AddOffer(
	ctx context.Context, offer *domain.Offer,
) error {
	txBody := func(querierWithTx *queries.Queries) error {
		retired, err := querierWithTx.IsOfferRetired(ctx, int64(offer.ID))
		if err != nil {
			return err
		}
		if retired {
			return domain.ErrOfferAlreadyExists
		}

		if err := querierWithTx.InsertOffer(
			ctx, toOfferParams(*offer),
		); err != nil {
			if isPgError(err, uniqueViolation) {
				return domain.ErrOfferAlreadyExists
			}
			return err
		}
		return nil
	}

	return r.execTx(ctx, false, txBody)
}

func (r *offerRepositoryImpl) GetOffer(
	ctx context.Context, id uint64,
) (*domain.Offer, error) {
	var offer *domain.Offer
	txBody := func(querierWithTx *queries.Queries) error {
		row, err := querierWithTx.GetOffer(ctx, int64(id))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrOfferNotFound
			}
			return err
		}
		offer, err = toOffer(row)
		return err
	}

	if err := r.execTx(ctx, true, txBody); err != nil {
		return nil, err
	}
	return offer, nil
}

func (r *offerRepositoryImpl) GetAllOffers(
	ctx context.Context,
) ([]domain.Offer, error) {
	return r.listOffers(ctx, func(q *queries.Queries) ([]queries.Offer, error) {
		return q.ListOffers(ctx)
	})
}

func (r *offerRepositoryImpl) GetOffersByMaker(
	ctx context.Context, maker solana.PublicKey,
) ([]domain.Offer, error) {
	return r.listOffers(ctx, func(q *queries.Queries) ([]queries.Offer, error) {
		return q.ListOffersByMaker(ctx, maker.String())
	})
}

func (r *offerRepositoryImpl) DeleteOffer(ctx context.Context, id uint64) error {
	txBody := func(querierWithTx *queries.Queries) error {
		count, err := querierWithTx.DeleteOffer(ctx, int64(id))
		if err != nil {
			return err
		}
		if count == 0 {
			return domain.ErrOfferNotFound
		}
		return querierWithTx.InsertRetiredOffer(
			ctx, queries.InsertRetiredOfferParams{
				ID:        int64(id),
				RetiredAt: time.Now().Unix(),
			},
		)
	}

	return r.execTx(ctx, false, txBody)
}

func (r *offerRepositoryImpl) listOffers(
	ctx context.Context,
	list func(q *queries.Queries) ([]queries.Offer, error),
) ([]domain.Offer, error) {
	var offers []domain.Offer
	txBody := func(querierWithTx *queries.Queries) error {
		rows, err := list(querierWithTx)
		if err != nil {
			return err
		}
		offers, err = toOffers(rows)
		return err
	}

	if err := r.execTx(ctx, true, txBody); err != nil {
		return nil, err
	}
	// ids beyond the signed range are stored as negative numbers.
	sort.SliceStable(offers, func(i, j int) bool {
		return offers[i].ID < offers[j].ID
	})
	return offers, nil
}
