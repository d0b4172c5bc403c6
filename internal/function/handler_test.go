package function_test

import (
	"context"
	"math/big"
	"os"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sendblocks/custom-indexer-example/internal/decoder"
	"github.com/sendblocks/custom-indexer-example/internal/domain"
	"github.com/sendblocks/custom-indexer-example/internal/function"
	"github.com/sendblocks/custom-indexer-example/internal/kv"
	"github.com/sendblocks/custom-indexer-example/internal/ledger"
	"github.com/sendblocks/custom-indexer-example/internal/logger"
	"github.com/sendblocks/custom-indexer-example/internal/mocks"
)

const (
	testNamespace = "ledger"
	testContract  = "0x06012c8cf97bEaD5deAe237070F9587f8E7A266d"

	zeroAddress  = "0x0000000000000000000000000000000000000000"
	aliceAddress = "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	bobAddress   = "0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"

	tokenHexOne = "0x0000000000000000000000000000000000000000000000000000000000000001"
)

func TestMain(m *testing.M) {
	// Initialize logger for tests
	err := logger.Initialize(logger.Config{
		Debug: false,
	})
	if err != nil {
		panic(err)
	}

	code := m.Run()
	os.Exit(code)
}

func eventTopic(signature string) string {
	return crypto.Keccak256Hash([]byte(signature)).Hex()
}

func addressTopic(address string) string {
	return common.BytesToHash(common.HexToAddress(address).Bytes()).Hex()
}

func uint256Topic(n int64) string {
	return common.BigToHash(big.NewInt(n)).Hex()
}

func transferLog(from, to string, tokenID int64) domain.RawLog {
	return domain.RawLog{
		ContractAddress: testContract,
		Topics: []string{
			eventTopic("Transfer(address,address,uint256)"),
			addressTopic(from),
			addressTopic(to),
			uint256Topic(tokenID),
		},
		Data:        "0x",
		BlockNumber: 19_000_000,
		TxHash:      "0x8b1f0b3c3a6a8a6f1f8f3db1b5a60f4cf1a2c77a9f1f7a30b52b8a90f3f3db1b",
	}
}

func approvalLog(owner, approved string, tokenID int64) domain.RawLog {
	return domain.RawLog{
		ContractAddress: testContract,
		Topics: []string{
			eventTopic("Approval(address,address,uint256)"),
			addressTopic(owner),
			addressTopic(approved),
			uint256Topic(tokenID),
		},
		Data: "0x",
	}
}

func newTestHandler(t *testing.T) (function.Handler, *ledger.Updater) {
	t.Helper()
	d, err := decoder.NewERC721()
	require.NoError(t, err)
	updater := ledger.NewUpdater(kv.NewMemoryStore(), testNamespace)
	return function.NewHandler(d, updater), updater
}

func TestHandler_Handle(t *testing.T) {
	t.Run("transfer applies and reports the change", func(t *testing.T) {
		ctx := context.Background()
		h, updater := newTestHandler(t)

		change, err := h.Handle(ctx, transferLog(zeroAddress, aliceAddress, 1))
		require.NoError(t, err)
		require.NotNil(t, change)
		assert.Equal(t, domain.EventTransfer, change.Event)
		assert.Equal(t, tokenHexOne, change.Record.TokenID)
		assert.Equal(t, aliceAddress, change.Record.Owner)
		require.NotNil(t, change.Record.PreviousOwner)
		assert.Equal(t, zeroAddress, *change.Record.PreviousOwner)
		assert.Nil(t, change.Record.Approved)

		stored, err := updater.Record(ctx, tokenHexOne)
		require.NoError(t, err)
		assert.Equal(t, change.Record, *stored)
	})

	t.Run("approval applies and reports the change", func(t *testing.T) {
		ctx := context.Background()
		h, updater := newTestHandler(t)

		_, err := h.Handle(ctx, transferLog(zeroAddress, aliceAddress, 1))
		require.NoError(t, err)

		change, err := h.Handle(ctx, approvalLog(aliceAddress, bobAddress, 1))
		require.NoError(t, err)
		require.NotNil(t, change)
		assert.Equal(t, domain.EventApproval, change.Event)
		assert.Equal(t, aliceAddress, change.Record.Owner)
		require.NotNil(t, change.Record.Approved)
		assert.Equal(t, bobAddress, *change.Record.Approved)

		stored, err := updater.Record(ctx, tokenHexOne)
		require.NoError(t, err)
		assert.Equal(t, change.Record, *stored)
	})
}

func TestHandler_IgnoredEvents(t *testing.T) {
	tests := []struct {
		name string
		log  domain.RawLog
	}{
		{
			name: "approval for all",
			log: domain.RawLog{
				ContractAddress: testContract,
				Topics: []string{
					eventTopic("ApprovalForAll(address,address,bool)"),
					addressTopic(aliceAddress),
					addressTopic(bobAddress),
				},
				Data: uint256Topic(1),
			},
		},
		{
			name: "ownership transferred",
			log: domain.RawLog{
				ContractAddress: testContract,
				Topics: []string{
					eventTopic("OwnershipTransferred(address,address)"),
					addressTopic(aliceAddress),
					addressTopic(bobAddress),
				},
				Data: "0x",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			d, err := decoder.NewERC721()
			require.NoError(t, err)

			// No expectations: an ignored event must not touch the store.
			store := mocks.NewMockKVStore(ctrl)
			h := function.NewHandler(d, ledger.NewUpdater(store, testNamespace))

			change, err := h.Handle(context.Background(), tt.log)
			require.NoError(t, err)
			assert.Nil(t, change)
		})
	}
}

func TestHandler_DecodeErrors(t *testing.T) {
	tests := []struct {
		name        string
		log         domain.RawLog
		expectedErr error
	}{
		{
			name: "unknown signature",
			log: domain.RawLog{
				ContractAddress: testContract,
				Topics: []string{
					eventTopic("TransferSingle(address,address,address,uint256,uint256)"),
					addressTopic(aliceAddress),
				},
			},
			expectedErr: domain.ErrUnknownEvent,
		},
		{
			name: "transfer with missing token topic",
			log: domain.RawLog{
				ContractAddress: testContract,
				Topics: []string{
					eventTopic("Transfer(address,address,uint256)"),
					addressTopic(aliceAddress),
					addressTopic(bobAddress),
				},
			},
			expectedErr: domain.ErrMalformedLog,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			d, err := decoder.NewERC721()
			require.NoError(t, err)

			store := mocks.NewMockKVStore(ctrl)
			h := function.NewHandler(d, ledger.NewUpdater(store, testNamespace))

			change, err := h.Handle(context.Background(), tt.log)
			assert.Nil(t, change)
			assert.ErrorIs(t, err, tt.expectedErr)
		})
	}
}

// TestHandler_ArgumentMismatch covers argument bags that disagree with the
// signature set. The real decoder cannot produce these; a mocked one stands
// in for a malformed upstream payload.
func TestHandler_ArgumentMismatch(t *testing.T) {
	tests := []struct {
		name  string
		event *domain.DecodedEvent
	}{
		{
			name: "transfer missing token id",
			event: &domain.DecodedEvent{
				Name: domain.EventTransfer,
				Args: map[string]interface{}{
					"from": common.HexToAddress(zeroAddress),
					"to":   common.HexToAddress(aliceAddress),
				},
			},
		},
		{
			name: "transfer with mistyped token id",
			event: &domain.DecodedEvent{
				Name: domain.EventTransfer,
				Args: map[string]interface{}{
					"from":    common.HexToAddress(zeroAddress),
					"to":      common.HexToAddress(aliceAddress),
					"tokenId": "1",
				},
			},
		},
		{
			name: "transfer with mistyped from address",
			event: &domain.DecodedEvent{
				Name: domain.EventTransfer,
				Args: map[string]interface{}{
					"from":    zeroAddress,
					"to":      common.HexToAddress(aliceAddress),
					"tokenId": big.NewInt(1),
				},
			},
		},
		{
			name: "approval missing approved operator",
			event: &domain.DecodedEvent{
				Name: domain.EventApproval,
				Args: map[string]interface{}{
					"owner":   common.HexToAddress(aliceAddress),
					"tokenId": big.NewInt(1),
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			log := transferLog(zeroAddress, aliceAddress, 1)

			mockDecoder := mocks.NewMockDecoder(ctrl)
			mockDecoder.EXPECT().Parse(log).Return(tt.event, nil)

			store := mocks.NewMockKVStore(ctrl)
			h := function.NewHandler(mockDecoder, ledger.NewUpdater(store, testNamespace))

			change, err := h.Handle(context.Background(), log)
			assert.Nil(t, change)
			assert.ErrorIs(t, err, domain.ErrMalformedLog)
		})
	}
}

func TestHandler_UpdaterErrors(t *testing.T) {
	t.Run("store failure passes through", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		d, err := decoder.NewERC721()
		require.NoError(t, err)

		store := mocks.NewMockKVStore(ctrl)
		store.EXPECT().
			Get(gomock.Any(), testNamespace, ledger.RecordKey(tokenHexOne)).
			Return(nil, assert.AnError)

		h := function.NewHandler(d, ledger.NewUpdater(store, testNamespace))

		change, err := h.Handle(context.Background(), transferLog(zeroAddress, aliceAddress, 1))
		assert.Nil(t, change)
		assert.ErrorIs(t, err, assert.AnError)
	})

	t.Run("negative token id fails validation", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		log := transferLog(zeroAddress, aliceAddress, 1)

		mockDecoder := mocks.NewMockDecoder(ctrl)
		mockDecoder.EXPECT().Parse(log).Return(&domain.DecodedEvent{
			Name: domain.EventTransfer,
			Args: map[string]interface{}{
				"from":    common.HexToAddress(zeroAddress),
				"to":      common.HexToAddress(aliceAddress),
				"tokenId": big.NewInt(-1),
			},
		}, nil)

		store := mocks.NewMockKVStore(ctrl)
		h := function.NewHandler(mockDecoder, ledger.NewUpdater(store, testNamespace))

		change, err := h.Handle(context.Background(), log)
		assert.Nil(t, change)
		assert.ErrorIs(t, err, domain.ErrInvalidTokenID)
	})
}
