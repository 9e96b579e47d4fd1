package escrow_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tdex-network/tdex-escrow/internal/core/application/escrow"
	"github.com/tdex-network/tdex-escrow/internal/core/application/pubsub"
	"github.com/tdex-network/tdex-escrow/internal/core/domain"
	"github.com/tdex-network/tdex-escrow/internal/core/ports"
	dbbadger "github.com/tdex-network/tdex-escrow/internal/infrastructure/storage/db/badger"
	"github.com/tdex-network/tdex-escrow/internal/infrastructure/storage/db/inmemory"
	tokenprogram "github.com/tdex-network/tdex-escrow/internal/infrastructure/token-program"
)

const (
	rent     = uint64(1000)
	offerID  = uint64(7)
	offered  = uint64(1000)
	wanted   = uint64(500)
	lamports = 10 * rent
)

var (
	ctx       = context.Background()
	programID = solana.MustPublicKeyFromBase58("CuGineD2a5MkzyhvYa7KFCJHzNZ4BkLiata3V6CMtGu7")

	errBrokenLedger = errors.New("ledger is broken")
)

// brokenProgram makes transfers out of a given source account, or every
// account closure, fail.
type brokenProgram struct {
	ports.TokenProgram
	failTransferFrom solana.PublicKey
	failClose        bool
}

func (p *brokenProgram) Transfer(
	ctx context.Context, source, destination solana.PublicKey,
	amount uint64, mint solana.PublicKey, authority domain.Authority,
) error {
	if !p.failTransferFrom.IsZero() && source.Equals(p.failTransferFrom) {
		return errBrokenLedger
	}
	return p.TokenProgram.Transfer(
		ctx, source, destination, amount, mint, authority,
	)
}

func (p *brokenProgram) CloseAccount(
	ctx context.Context, account, recipient solana.PublicKey,
	authority domain.Authority,
) error {
	if p.failClose {
		return errBrokenLedger
	}
	return p.TokenProgram.CloseAccount(ctx, account, recipient, authority)
}

type driver struct {
	name    string
	newRepo func(t *testing.T) ports.RepoManager
}

var drivers = []driver{
	{
		name: "inmemory",
		newRepo: func(t *testing.T) ports.RepoManager {
			return inmemory.NewRepoManager()
		},
	},
	{
		name: "badger",
		newRepo: func(t *testing.T) ports.RepoManager {
			repoManager, err := dbbadger.NewRepoManager("", nil)
			require.NoError(t, err)
			t.Cleanup(repoManager.Close)
			return repoManager
		},
	},
}

type pubsubStub struct {
	events chan string
}

func (p *pubsubStub) Subscribe(_, _, _ string) (string, error) { return "", nil }
func (p *pubsubStub) Unsubscribe(_, _ string) error           { return nil }
func (p *pubsubStub) ListSubscriptionsForTopic(_ string) []ports.Subscription {
	return nil
}
func (p *pubsubStub) Publish(topic, _ string) error {
	p.events <- topic
	return nil
}
func (p *pubsubStub) Close() error { return nil }

type testEnv struct {
	svc         *escrow.Service
	repoManager ports.RepoManager
	program     ports.TokenProgram
	broken      *brokenProgram
	events      chan string

	faucet solana.PublicKey
	mintA  solana.PublicKey
	mintB  solana.PublicKey
	maker  solana.PublicKey
	taker  solana.PublicKey
}

func newKey(t *testing.T) solana.PublicKey {
	key, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)
	return key.PublicKey()
}

// newTestEnv returns an environment where the maker holds 1000 token A and
// the taker holds takerAmountB token B. Both have 10 rents worth of
// lamports before creating their token accounts.
func newTestEnv(t *testing.T, takerAmountB uint64) *testEnv {
	return newTestEnvWithRepo(t, inmemory.NewRepoManager(), takerAmountB)
}

// newTestEnvWithRepo is like newTestEnv but uses the given storage. The
// service moves tokens through env.broken, which behaves like the real
// token program until told to fail.
func newTestEnvWithRepo(
	t *testing.T, repoManager ports.RepoManager, takerAmountB uint64,
) *testEnv {
	program, err := tokenprogram.NewService(
		programID, rent, repoManager.AccountRepository(),
	)
	require.NoError(t, err)
	broken := &brokenProgram{TokenProgram: program}

	stub := &pubsubStub{make(chan string, 100)}
	pubsubSvc, err := pubsub.NewService(stub)
	require.NoError(t, err)

	svc, err := escrow.NewService(repoManager, broken, pubsubSvc)
	require.NoError(t, err)

	env := &testEnv{
		svc:         svc,
		repoManager: repoManager,
		program:     program,
		broken:      broken,
		events:      stub.events,
		faucet:      newKey(t),
		maker:       newKey(t),
		taker:       newKey(t),
	}

	mintA, err := program.CreateMint(ctx, env.faucet, 6)
	require.NoError(t, err)
	mintB, err := program.CreateMint(ctx, env.faucet, 9)
	require.NoError(t, err)
	env.mintA, env.mintB = mintA.Address, mintB.Address

	env.fund(t, env.maker, env.mintA, offered)
	env.fund(t, env.taker, env.mintB, takerAmountB)
	return env
}

func (e *testEnv) fund(
	t *testing.T, owner, mint solana.PublicKey, amount uint64,
) {
	require.NoError(t, e.program.Airdrop(ctx, owner, lamports))
	account, err := e.program.InitAssociatedAccount(ctx, owner, mint, owner)
	require.NoError(t, err)
	if amount > 0 {
		require.NoError(t, e.program.MintTo(
			ctx, mint, account.Address, amount,
			domain.NewSignerAuthority(e.faucet),
		))
	}
}

func (e *testEnv) makeOffer(t *testing.T) *escrow.OfferInfo {
	info, err := e.svc.MakeOffer(ctx, escrow.MakeOfferRequest{
		ID:                  offerID,
		Maker:               e.maker,
		TokenMintA:          e.mintA,
		TokenMintB:          e.mintB,
		TokenAOfferedAmount: offered,
		TokenBWantedAmount:  wanted,
	})
	require.NoError(t, err)
	return info
}

func (e *testEnv) takeRequest() escrow.TakeOfferRequest {
	return escrow.TakeOfferRequest{
		OfferID:    offerID,
		Taker:      e.taker,
		Maker:      e.maker,
		TokenMintA: e.mintA,
		TokenMintB: e.mintB,
	}
}

func (e *testEnv) refundRequest() escrow.RefundOfferRequest {
	return escrow.RefundOfferRequest{
		OfferID:    offerID,
		Maker:      e.maker,
		TokenMintA: e.mintA,
	}
}

// balance returns the amount of the associated token account of owner for
// mint, -1 if the account does not exist.
func (e *testEnv) balance(t *testing.T, owner, mint solana.PublicKey) int64 {
	addr, err := domain.AssociatedTokenAddress(owner, mint)
	require.NoError(t, err)
	account, err := e.repoManager.AccountRepository().GetTokenAccount(ctx, addr)
	if errors.Is(err, domain.ErrTokenAccountNotFound) {
		return -1
	}
	require.NoError(t, err)
	return int64(account.Amount)
}

func (e *testEnv) lamports(t *testing.T, owner solana.PublicKey) uint64 {
	account, err := e.repoManager.AccountRepository().GetSystemAccount(ctx, owner)
	require.NoError(t, err)
	return account.Lamports
}

type snapshot struct {
	makerA, makerB, takerA, takerB int64
	makerLamports, takerLamports   uint64
	vault                          int64
	offer                          *domain.Offer
}

func (e *testEnv) snapshot(t *testing.T, vault solana.PublicKey) snapshot {
	s := snapshot{
		makerA:        e.balance(t, e.maker, e.mintA),
		makerB:        e.balance(t, e.maker, e.mintB),
		takerA:        e.balance(t, e.taker, e.mintA),
		takerB:        e.balance(t, e.taker, e.mintB),
		makerLamports: e.lamports(t, e.maker),
		takerLamports: e.lamports(t, e.taker),
		vault:         -1,
	}
	if account, err := e.repoManager.AccountRepository().GetTokenAccount(
		ctx, vault,
	); err == nil {
		s.vault = int64(account.Amount)
	}
	s.offer, _ = e.repoManager.OfferRepository().GetOffer(ctx, offerID)
	return s
}

func (e *testEnv) waitEvent(t *testing.T, event string) {
	select {
	case got := <-e.events:
		require.Equal(t, event, got)
	case <-time.After(2 * time.Second):
		t.Fatalf("event %s not published", event)
	}
}

func TestNewService(t *testing.T) {
	repoManager := inmemory.NewRepoManager()
	program, err := tokenprogram.NewService(
		programID, rent, repoManager.AccountRepository(),
	)
	require.NoError(t, err)
	pubsubSvc, err := pubsub.NewService(&pubsubStub{})
	require.NoError(t, err)

	_, err = escrow.NewService(nil, program, pubsubSvc)
	require.Error(t, err)
	_, err = escrow.NewService(repoManager, nil, pubsubSvc)
	require.Error(t, err)
	_, err = escrow.NewService(repoManager, program, nil)
	require.Error(t, err)
}

func TestMakeOffer(t *testing.T) {
	env := newTestEnv(t, wanted)
	info := env.makeOffer(t)
	env.waitEvent(t, pubsub.EventOfferMade)

	expectedAddr, bump, err := domain.FindOfferAddress(programID, offerID)
	require.NoError(t, err)
	expectedVault, err := domain.AssociatedTokenAddress(expectedAddr, env.mintA)
	require.NoError(t, err)

	require.Equal(t, offerID, info.ID)
	require.Equal(t, bump, info.Bump)
	require.Equal(t, expectedAddr, info.Address)
	require.Equal(t, expectedVault, info.Vault)
	require.Equal(t, offered, info.VaultAmount)
	require.Equal(t, wanted, info.TokenBWantedAmount)
	require.Equal(t, uint8(6), info.TokenADecimals)
	require.Equal(t, uint8(9), info.TokenBDecimals)

	require.Zero(t, env.balance(t, env.maker, env.mintA))
	// token A account, offer record and vault.
	require.Equal(t, lamports-3*rent, env.lamports(t, env.maker))

	got, err := env.svc.GetOffer(ctx, offerID)
	require.NoError(t, err)
	require.Equal(t, *info, *got)
}

func TestFailingMakeOffer(t *testing.T) {
	env := newTestEnv(t, wanted)
	poorMaker := newKey(t)
	require.NoError(t, env.program.Airdrop(ctx, poorMaker, rent))
	_, err := env.program.InitAssociatedAccount(ctx, poorMaker, env.mintA, poorMaker)
	require.NoError(t, err)

	tests := []struct {
		name          string
		req           escrow.MakeOfferRequest
		expectedError error
	}{
		{
			name: "zero_offered_amount",
			req: escrow.MakeOfferRequest{
				ID: 1, Maker: env.maker, TokenMintA: env.mintA, TokenMintB: env.mintB,
				TokenBWantedAmount: wanted,
			},
			expectedError: escrow.ErrInvalidAmount,
		},
		{
			name: "zero_wanted_amount",
			req: escrow.MakeOfferRequest{
				ID: 1, Maker: env.maker, TokenMintA: env.mintA, TokenMintB: env.mintB,
				TokenAOfferedAmount: offered,
			},
			expectedError: escrow.ErrInvalidAmount,
		},
		{
			name: "same_mints",
			req: escrow.MakeOfferRequest{
				ID: 1, Maker: env.maker, TokenMintA: env.mintA, TokenMintB: env.mintA,
				TokenAOfferedAmount: offered, TokenBWantedAmount: wanted,
			},
			expectedError: escrow.ErrInvalidMint,
		},
		{
			name: "unknown_mint",
			req: escrow.MakeOfferRequest{
				ID: 1, Maker: env.maker, TokenMintA: env.mintA, TokenMintB: newKey(t),
				TokenAOfferedAmount: offered, TokenBWantedAmount: wanted,
			},
			expectedError: escrow.ErrInvalidMint,
		},
		{
			name: "missing_maker",
			req: escrow.MakeOfferRequest{
				ID: 1, TokenMintA: env.mintA, TokenMintB: env.mintB,
				TokenAOfferedAmount: offered, TokenBWantedAmount: wanted,
			},
			expectedError: escrow.ErrUnauthorizedCaller,
		},
		{
			name: "insufficient_maker_balance",
			req: escrow.MakeOfferRequest{
				ID: 1, Maker: env.maker, TokenMintA: env.mintA, TokenMintB: env.mintB,
				TokenAOfferedAmount: offered + 1, TokenBWantedAmount: wanted,
			},
			expectedError: escrow.ErrInsufficientMakerBalance,
		},
		{
			name: "insufficient_reserve",
			req: escrow.MakeOfferRequest{
				ID: 1, Maker: poorMaker, TokenMintA: env.mintA, TokenMintB: env.mintB,
				TokenAOfferedAmount: 1, TokenBWantedAmount: wanted,
			},
			expectedError: escrow.ErrInsufficientReserve,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			info, err := env.svc.MakeOffer(ctx, tt.req)
			require.ErrorIs(t, err, tt.expectedError)
			require.Nil(t, info)

			require.Equal(t, int64(offered), env.balance(t, env.maker, env.mintA))
			require.Equal(t, lamports-rent, env.lamports(t, env.maker))
			_, err = env.svc.GetOffer(ctx, 1)
			require.ErrorIs(t, err, escrow.ErrOfferNotFound)
		})
	}

	t.Run("duplicate_id", func(t *testing.T) {
		env.makeOffer(t)
		require.NoError(t, env.program.MintTo(
			ctx, env.mintA, mustATA(t, env.maker, env.mintA), offered,
			domain.NewSignerAuthority(env.faucet),
		))

		_, err := env.svc.MakeOffer(ctx, escrow.MakeOfferRequest{
			ID: offerID, Maker: env.maker, TokenMintA: env.mintA,
			TokenMintB: env.mintB, TokenAOfferedAmount: 1, TokenBWantedAmount: 1,
		})
		require.ErrorIs(t, err, escrow.ErrOfferAlreadyExists)
		require.Equal(t, int64(offered), env.balance(t, env.maker, env.mintA))
	})
}

func mustATA(t *testing.T, owner, mint solana.PublicKey) solana.PublicKey {
	addr, err := domain.AssociatedTokenAddress(owner, mint)
	require.NoError(t, err)
	return addr
}

func TestTakeOffer(t *testing.T) {
	env := newTestEnv(t, wanted)
	info := env.makeOffer(t)
	env.waitEvent(t, pubsub.EventOfferMade)

	before := env.snapshot(t, info.Vault)
	require.Equal(t, int64(offered), before.vault)
	require.Equal(t, int64(-1), before.takerA)
	require.Equal(t, int64(-1), before.makerB)

	receipt, err := env.svc.TakeOffer(ctx, env.takeRequest())
	require.NoError(t, err)
	env.waitEvent(t, pubsub.EventOfferTaken)

	require.Equal(t, offerID, receipt.OfferID)
	require.Equal(t, offered, receipt.TokenAReceived)
	require.Equal(t, wanted, receipt.TokenBPaid)
	require.Equal(t, 2*rent, receipt.LamportsToMaker)

	after := env.snapshot(t, info.Vault)
	require.Equal(t, int64(offered), after.takerA)
	require.Zero(t, after.takerB)
	require.Equal(t, int64(wanted), after.makerB)
	require.Zero(t, after.makerA)
	require.Equal(t, int64(-1), after.vault)
	require.Nil(t, after.offer)

	// offer record and vault reserves go back to the maker, the taker pays
	// for the two accounts created on demand.
	require.Equal(t, before.makerLamports+2*rent, after.makerLamports)
	require.Equal(t, before.takerLamports-2*rent, after.takerLamports)

	// total supply is conserved
	mintA, err := env.repoManager.AccountRepository().GetMint(ctx, env.mintA)
	require.NoError(t, err)
	require.Equal(t, uint64(after.takerA+after.makerA), mintA.Supply)
	mintB, err := env.repoManager.AccountRepository().GetMint(ctx, env.mintB)
	require.NoError(t, err)
	require.Equal(t, uint64(after.takerB+after.makerB), mintB.Supply)

	_, err = env.svc.TakeOffer(ctx, env.takeRequest())
	require.ErrorIs(t, err, escrow.ErrOfferNotFound)
	_, err = env.svc.RefundOffer(ctx, env.refundRequest())
	require.ErrorIs(t, err, escrow.ErrOfferNotFound)
	_, err = env.svc.GetOffer(ctx, offerID)
	require.ErrorIs(t, err, escrow.ErrOfferNotFound)

	// the id is retired forever
	require.NoError(t, env.program.Transfer(
		ctx, mustATA(t, env.taker, env.mintA), mustATA(t, env.maker, env.mintA),
		offered, env.mintA, domain.NewSignerAuthority(env.taker),
	))
	_, err = env.svc.MakeOffer(ctx, escrow.MakeOfferRequest{
		ID: offerID, Maker: env.maker, TokenMintA: env.mintA,
		TokenMintB: env.mintB, TokenAOfferedAmount: offered,
		TokenBWantedAmount: wanted,
	})
	require.ErrorIs(t, err, escrow.ErrOfferAlreadyExists)
}

func TestTakeOfferWithExistingAccounts(t *testing.T) {
	env := newTestEnv(t, wanted)
	info := env.makeOffer(t)

	env.fund(t, env.maker, env.mintB, 0)
	_, err := env.program.InitAssociatedAccount(ctx, env.taker, env.mintA, env.taker)
	require.NoError(t, err)
	before := env.snapshot(t, info.Vault)

	req := env.takeRequest()
	req.TakerTokenAccountA = mustATA(t, env.taker, env.mintA)
	req.TakerTokenAccountB = mustATA(t, env.taker, env.mintB)
	req.MakerTokenAccountB = mustATA(t, env.maker, env.mintB)
	req.Vault = info.Vault

	_, err = env.svc.TakeOffer(ctx, req)
	require.NoError(t, err)

	after := env.snapshot(t, info.Vault)
	require.Equal(t, before.takerLamports, after.takerLamports)
	require.Equal(t, before.makerLamports+2*rent, after.makerLamports)
	require.Equal(t, int64(wanted), after.makerB)
}

func TestTakeOfferAtomicity(t *testing.T) {
	for _, d := range drivers {
		d := d
		t.Run(d.name, func(t *testing.T) {
			env := newTestEnvWithRepo(t, d.newRepo(t), wanted-1)
			info := env.makeOffer(t)

			before := env.snapshot(t, info.Vault)

			receipt, err := env.svc.TakeOffer(ctx, env.takeRequest())
			require.ErrorIs(t, err, escrow.ErrInsufficientTakerBalance)
			require.ErrorIs(t, err, domain.ErrInsufficientFunds)
			require.Nil(t, receipt)

			after := env.snapshot(t, info.Vault)
			require.Equal(t, before, after)
			require.Equal(t, int64(offered), after.vault)
			require.NotNil(t, after.offer)
			require.Equal(t, int64(-1), after.takerA)
		})
	}
}

func TestTransitionLedgerFailures(t *testing.T) {
	tests := []struct {
		name          string
		refund        bool
		failVault     bool
		failClose     bool
		expectedError error
	}{
		{
			name:          "take_vault_withdrawal",
			failVault:     true,
			expectedError: escrow.ErrVaultWithdrawalFailed,
		},
		{
			name:          "take_vault_closure",
			failClose:     true,
			expectedError: escrow.ErrVaultClosureFailed,
		},
		{
			name:          "refund_transfer",
			refund:        true,
			failVault:     true,
			expectedError: escrow.ErrRefundTransferFailed,
		},
		{
			name:          "refund_vault_closure",
			refund:        true,
			failClose:     true,
			expectedError: escrow.ErrRefundClosureFailed,
		},
	}

	for _, d := range drivers {
		for _, tt := range tests {
			d, tt := d, tt
			t.Run(d.name+"/"+tt.name, func(t *testing.T) {
				env := newTestEnvWithRepo(t, d.newRepo(t), wanted)
				info := env.makeOffer(t)
				before := env.snapshot(t, info.Vault)

				if tt.failVault {
					env.broken.failTransferFrom = info.Vault
				}
				env.broken.failClose = tt.failClose

				var err error
				if tt.refund {
					var receipt *escrow.RefundReceipt
					receipt, err = env.svc.RefundOffer(ctx, env.refundRequest())
					require.Nil(t, receipt)
				} else {
					var receipt *escrow.TakeReceipt
					receipt, err = env.svc.TakeOffer(ctx, env.takeRequest())
					require.Nil(t, receipt)
				}
				require.ErrorIs(t, err, tt.expectedError)
				require.ErrorIs(t, err, errBrokenLedger)

				// the withdrawal from the vault, if any, is rolled back.
				after := env.snapshot(t, info.Vault)
				require.Equal(t, before, after)
				require.Equal(t, int64(offered), after.vault)
				require.NotNil(t, after.offer)

				env.broken.failTransferFrom = solana.PublicKey{}
				env.broken.failClose = false
				if tt.refund {
					_, err = env.svc.RefundOffer(ctx, env.refundRequest())
				} else {
					_, err = env.svc.TakeOffer(ctx, env.takeRequest())
				}
				require.NoError(t, err)
			})
		}
	}
}

func TestFailingTakeOffer(t *testing.T) {
	env := newTestEnv(t, wanted)
	info := env.makeOffer(t)
	before := env.snapshot(t, info.Vault)

	otherMint, err := env.program.CreateMint(ctx, env.faucet, 0)
	require.NoError(t, err)

	tests := []struct {
		name          string
		tweak         func(req *escrow.TakeOfferRequest)
		expectedError error
	}{
		{
			name: "unknown_offer",
			tweak: func(req *escrow.TakeOfferRequest) {
				req.OfferID = offerID + 1
			},
			expectedError: escrow.ErrOfferNotFound,
		},
		{
			name: "token_mint_b_mismatch",
			tweak: func(req *escrow.TakeOfferRequest) {
				req.TokenMintB = otherMint.Address
			},
			expectedError: escrow.ErrOfferMismatch,
		},
		{
			name: "token_mint_a_mismatch",
			tweak: func(req *escrow.TakeOfferRequest) {
				req.TokenMintA = otherMint.Address
			},
			expectedError: escrow.ErrOfferMismatch,
		},
		{
			name: "maker_mismatch",
			tweak: func(req *escrow.TakeOfferRequest) {
				req.Maker = env.taker
			},
			expectedError: escrow.ErrOfferMismatch,
		},
		{
			name: "vault_mismatch",
			tweak: func(req *escrow.TakeOfferRequest) {
				req.Vault = mustATA(t, env.maker, env.mintA)
			},
			expectedError: escrow.ErrOfferMismatch,
		},
		{
			name: "taker_account_mismatch",
			tweak: func(req *escrow.TakeOfferRequest) {
				req.TakerTokenAccountB = mustATA(t, env.maker, env.mintB)
			},
			expectedError: escrow.ErrOfferMismatch,
		},
		{
			name: "maker_account_mismatch",
			tweak: func(req *escrow.TakeOfferRequest) {
				req.MakerTokenAccountB = mustATA(t, env.taker, env.mintB)
			},
			expectedError: escrow.ErrOfferMismatch,
		},
		{
			name: "missing_taker",
			tweak: func(req *escrow.TakeOfferRequest) {
				req.Taker = solana.PublicKey{}
			},
			expectedError: escrow.ErrUnauthorizedCaller,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			req := env.takeRequest()
			tt.tweak(&req)

			receipt, err := env.svc.TakeOffer(ctx, req)
			require.ErrorIs(t, err, tt.expectedError)
			require.Nil(t, receipt)
			require.Equal(t, before, env.snapshot(t, info.Vault))
		})
	}
}

func TestTakeOfferInsufficientReserve(t *testing.T) {
	env := newTestEnv(t, wanted)
	info := env.makeOffer(t)

	// the taker can afford only one of the two accounts to create.
	require.NoError(t, env.repoManager.AccountRepository().UpdateSystemAccount(
		ctx, env.taker,
		func(a *domain.SystemAccount) (*domain.SystemAccount, error) {
			a.Lamports = rent
			return a, nil
		},
	))
	before := env.snapshot(t, info.Vault)

	_, err := env.svc.TakeOffer(ctx, env.takeRequest())
	require.ErrorIs(t, err, escrow.ErrInsufficientReserve)
	require.Equal(t, before, env.snapshot(t, info.Vault))
}

func TestRefundOffer(t *testing.T) {
	env := newTestEnv(t, wanted)
	beforeMake := env.snapshot(t, solana.PublicKey{})

	info := env.makeOffer(t)
	env.waitEvent(t, pubsub.EventOfferMade)
	before := env.snapshot(t, info.Vault)

	receipt, err := env.svc.RefundOffer(ctx, env.refundRequest())
	require.NoError(t, err)
	env.waitEvent(t, pubsub.EventOfferRefunded)
	require.Equal(t, offered, receipt.TokenARefunded)
	require.Equal(t, 2*rent, receipt.LamportsToMaker)

	after := env.snapshot(t, info.Vault)
	require.Equal(t, before.makerA+int64(offered), after.makerA)
	require.Equal(t, int64(-1), after.vault)
	require.Nil(t, after.offer)

	// status quo is restored
	afterNoVault := after
	afterNoVault.vault = beforeMake.vault
	require.Equal(t, beforeMake, afterNoVault)

	_, err = env.svc.RefundOffer(ctx, env.refundRequest())
	require.ErrorIs(t, err, escrow.ErrOfferNotFound)
	_, err = env.svc.TakeOffer(ctx, env.takeRequest())
	require.ErrorIs(t, err, escrow.ErrOfferNotFound)
}

func TestRefundOfferRecreatesMakerAccount(t *testing.T) {
	env := newTestEnv(t, wanted)
	info := env.makeOffer(t)

	makerAccountA := mustATA(t, env.maker, env.mintA)
	require.NoError(t, env.program.CloseAccount(
		ctx, makerAccountA, env.maker, domain.NewSignerAuthority(env.maker),
	))
	before := env.snapshot(t, info.Vault)
	require.Equal(t, int64(-1), before.makerA)

	req := env.refundRequest()
	req.MakerTokenAccountA = makerAccountA
	req.Vault = info.Vault
	_, err := env.svc.RefundOffer(ctx, req)
	require.NoError(t, err)

	after := env.snapshot(t, info.Vault)
	require.Equal(t, int64(offered), after.makerA)
	require.Equal(t, before.makerLamports+rent, after.makerLamports)
}

func TestFailingRefundOffer(t *testing.T) {
	env := newTestEnv(t, wanted)
	info := env.makeOffer(t)
	before := env.snapshot(t, info.Vault)

	tests := []struct {
		name          string
		tweak         func(req *escrow.RefundOfferRequest)
		expectedError error
	}{
		{
			name: "not_the_maker",
			tweak: func(req *escrow.RefundOfferRequest) {
				req.Maker = env.taker
			},
			expectedError: escrow.ErrUnauthorizedCaller,
		},
		{
			name: "missing_caller",
			tweak: func(req *escrow.RefundOfferRequest) {
				req.Maker = solana.PublicKey{}
			},
			expectedError: escrow.ErrUnauthorizedCaller,
		},
		{
			name: "token_mint_a_mismatch",
			tweak: func(req *escrow.RefundOfferRequest) {
				req.TokenMintA = env.mintB
			},
			expectedError: escrow.ErrOfferMismatch,
		},
		{
			name: "maker_account_mismatch",
			tweak: func(req *escrow.RefundOfferRequest) {
				req.MakerTokenAccountA = mustATA(t, env.taker, env.mintA)
			},
			expectedError: escrow.ErrOfferMismatch,
		},
		{
			name: "unknown_offer",
			tweak: func(req *escrow.RefundOfferRequest) {
				req.OfferID = 1
			},
			expectedError: escrow.ErrOfferNotFound,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			req := env.refundRequest()
			tt.tweak(&req)

			receipt, err := env.svc.RefundOffer(ctx, req)
			require.ErrorIs(t, err, tt.expectedError)
			require.Nil(t, receipt)
			require.Equal(t, before, env.snapshot(t, info.Vault))
		})
	}
}

func TestConcurrentTakeAndRefund(t *testing.T) {
	for _, d := range drivers {
		d := d
		t.Run(d.name, func(t *testing.T) {
			env := newTestEnvWithRepo(t, d.newRepo(t), 10*wanted)
			info := env.makeOffer(t)

			var (
				wg        sync.WaitGroup
				lock      sync.Mutex
				succeeded int
			)
			record := func(err error) {
				lock.Lock()
				defer lock.Unlock()
				if err == nil {
					succeeded++
					return
				}
				// losers either find the offer gone or conflict on commit.
				if !errors.Is(err, escrow.ErrOfferNotFound) {
					assert.ErrorIs(t, err, escrow.ErrConcurrentUpdate)
				}
			}

			for i := 0; i < 10; i++ {
				wg.Add(2)
				go func() {
					defer wg.Done()
					_, err := env.svc.TakeOffer(ctx, env.takeRequest())
					record(err)
				}()
				go func() {
					defer wg.Done()
					_, err := env.svc.RefundOffer(ctx, env.refundRequest())
					record(err)
				}()
			}
			wg.Wait()

			require.Equal(t, 1, succeeded)

			after := env.snapshot(t, info.Vault)
			require.Nil(t, after.offer)
			require.Equal(t, int64(-1), after.vault)
			takerA := after.takerA
			if takerA < 0 {
				takerA = 0
			}
			require.Equal(t, int64(offered), after.makerA+takerA)
		})
	}
}

func TestQueries(t *testing.T) {
	env := newTestEnv(t, wanted)
	env.makeOffer(t)

	otherMaker := newKey(t)
	env.fund(t, otherMaker, env.mintB, 100)
	_, err := env.svc.MakeOffer(ctx, escrow.MakeOfferRequest{
		ID: 1, Maker: otherMaker, TokenMintA: env.mintB, TokenMintB: env.mintA,
		TokenAOfferedAmount: 100, TokenBWantedAmount: 10,
	})
	require.NoError(t, err)

	offers, err := env.svc.ListOffers(ctx, escrow.OfferFilter{})
	require.NoError(t, err)
	require.Len(t, offers, 2)
	require.Equal(t, uint64(1), offers[0].ID)
	require.Equal(t, offerID, offers[1].ID)
	require.Equal(t, uint64(100), offers[0].VaultAmount)
	require.Equal(t, uint8(9), offers[0].TokenADecimals)
	require.Equal(t, uint8(6), offers[0].TokenBDecimals)

	offers, err = env.svc.ListOffers(ctx, escrow.OfferFilter{Maker: env.maker})
	require.NoError(t, err)
	require.Len(t, offers, 1)
	require.Equal(t, offerID, offers[0].ID)

	offers, err = env.svc.ListOffers(ctx, escrow.OfferFilter{TokenMintA: env.mintB})
	require.NoError(t, err)
	require.Len(t, offers, 1)
	require.Equal(t, otherMaker, offers[0].Maker)

	offers, err = env.svc.ListOffers(ctx, escrow.OfferFilter{
		Maker: env.maker, TokenMintB: env.mintA,
	})
	require.NoError(t, err)
	require.Empty(t, offers)

	balances, err := env.svc.GetBalances(ctx, env.maker)
	require.NoError(t, err)
	require.Equal(t, lamports-3*rent, balances.Lamports)
	require.Len(t, balances.TokenAccounts, 1)
	require.Equal(t, env.mintA, balances.TokenAccounts[0].Mint)
	require.Zero(t, balances.TokenAccounts[0].Amount)
	require.Equal(t, uint8(6), balances.Decimals[env.mintA])

	balances, err = env.svc.GetBalances(ctx, newKey(t))
	require.NoError(t, err)
	require.Zero(t, balances.Lamports)
	require.Empty(t, balances.TokenAccounts)
}
