package function

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sendblocks/custom-indexer-example/internal/decoder"
	"github.com/sendblocks/custom-indexer-example/internal/domain"
	"github.com/sendblocks/custom-indexer-example/internal/ledger"
	"github.com/sendblocks/custom-indexer-example/internal/logger"
)

// Handler is the entry point the hosting runtime invokes for each raw log.
// It returns the applied ledger change, or nil when the event is decodable
// but has no handler.
//
//go:generate mockgen -source=handler.go -destination=../mocks/handler.go -package=mocks -mock_names=Handler=MockHandler
type Handler interface {
	Handle(ctx context.Context, log domain.RawLog) (*ledger.Change, error)
}

type handler struct {
	decoder decoder.Decoder
	updater *ledger.Updater
}

// NewHandler creates a handler dispatching decoded events to the updater
func NewHandler(dec decoder.Decoder, updater *ledger.Updater) Handler {
	return &handler{
		decoder: dec,
		updater: updater,
	}
}

// Handle decodes one raw log and routes it by event name. Transfer and
// Approval reach the updater; every other recognized event is acknowledged
// without side effects. Errors pass through untouched so the host can
// classify them.
func (h *handler) Handle(ctx context.Context, log domain.RawLog) (*ledger.Change, error) {
	invocationID := uuid.New().String()

	event, err := h.decoder.Parse(log)
	if err != nil {
		return nil, err
	}

	var record *ledger.TokenRecord
	switch event.Name {
	case domain.EventTransfer:
		record, err = h.applyTransfer(ctx, event)
	case domain.EventApproval:
		record, err = h.applyApproval(ctx, event)
	default:
		logger.DebugCtx(ctx, "Ignoring event without a handler",
			zap.String("invocation_id", invocationID),
			zap.String("event", event.Name),
			zap.String("tx_hash", log.TxHash))
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	logger.InfoCtx(ctx, "Applied ledger update",
		zap.String("invocation_id", invocationID),
		zap.String("event", event.Name),
		zap.String("token_id", record.TokenID),
		zap.String("owner", record.Owner),
		zap.String("contract_address", log.ContractAddress),
		zap.String("tx_hash", log.TxHash))

	return &ledger.Change{Event: event.Name, Record: *record}, nil
}

func (h *handler) applyTransfer(ctx context.Context, event *domain.DecodedEvent) (*ledger.TokenRecord, error) {
	from, err := addressArg(event, "from")
	if err != nil {
		return nil, err
	}
	to, err := addressArg(event, "to")
	if err != nil {
		return nil, err
	}
	tokenID, err := tokenIDArg(event, "tokenId")
	if err != nil {
		return nil, err
	}

	return h.updater.ApplyTransfer(ctx, from, to, tokenID)
}

func (h *handler) applyApproval(ctx context.Context, event *domain.DecodedEvent) (*ledger.TokenRecord, error) {
	owner, err := addressArg(event, "owner")
	if err != nil {
		return nil, err
	}
	approved, err := addressArg(event, "approved")
	if err != nil {
		return nil, err
	}
	tokenID, err := tokenIDArg(event, "tokenId")
	if err != nil {
		return nil, err
	}

	return h.updater.ApplyApproval(ctx, owner, approved, tokenID)
}

// addressArg extracts a named address argument. The signature set and the
// argument bag must agree; a missing or mistyped argument means the upstream
// payload is malformed.
func addressArg(event *domain.DecodedEvent, name string) (string, error) {
	value, ok := event.Args[name]
	if !ok {
		return "", fmt.Errorf("%w: %s missing argument %q", domain.ErrMalformedLog, event.Name, name)
	}
	address, ok := value.(common.Address)
	if !ok {
		return "", fmt.Errorf("%w: %s argument %q is not an address", domain.ErrMalformedLog, event.Name, name)
	}
	return address.Hex(), nil
}

func tokenIDArg(event *domain.DecodedEvent, name string) (*big.Int, error) {
	value, ok := event.Args[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s missing argument %q", domain.ErrMalformedLog, event.Name, name)
	}
	tokenID, ok := value.(*big.Int)
	if !ok {
		return nil, fmt.Errorf("%w: %s argument %q is not a uint256", domain.ErrMalformedLog, event.Name, name)
	}
	return tokenID, nil
}
