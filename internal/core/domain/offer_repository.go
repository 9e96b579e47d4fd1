package domain

import (
	"context"

	"github.com/gagliardetto/solana-go"
)

// OfferRepository is the abstraction for any kind of database intended to
// persist Offers.
// Implementations must keep track of deleted offers so that their ids can
// never be used again.
type OfferRepository interface {
	// AddOffer stores a new offer. It fails with ErrOfferAlreadyExists if the
	// id belongs to a live or a deleted offer.
	AddOffer(ctx context.Context, offer *Offer) error
	// GetOffer returns the live offer with the given id.
	GetOffer(ctx context.Context, id uint64) (*Offer, error)
	// GetAllOffers returns all live offers sorted by id.
	GetAllOffers(ctx context.Context) ([]Offer, error)
	// GetOffersByMaker returns all live offers of the given maker.
	GetOffersByMaker(
		ctx context.Context, maker solana.PublicKey,
	) ([]Offer, error)
	// DeleteOffer destroys the offer with the given id and retires the id.
	DeleteOffer(ctx context.Context, id uint64) error
}
