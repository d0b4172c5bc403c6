package decoder

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/sendblocks/custom-indexer-example/internal/domain"
)

// Decoder defines an interface for turning raw logs into decoded events
//
//go:generate mockgen -source=decoder.go -destination=../mocks/decoder.go -package=mocks -mock_names=Decoder=MockDecoder
type Decoder interface {
	// Parse matches the log's signature topic against the registered event set
	// and unpacks the arguments. Fails with domain.ErrUnknownEvent when the
	// signature matches no registered event, and with domain.ErrMalformedLog
	// when the log is structurally wrong for the event it matched.
	Parse(log domain.RawLog) (*domain.DecodedEvent, error)
}

// ABIDecoder decodes raw logs against an events-only ABI
type ABIDecoder struct {
	abi        abi.ABI
	eventsByID map[common.Hash]abi.Event
}

// New creates a decoder from an events-only ABI JSON document, such as the
// output of the abiconv tool
func New(eventsABI string) (*ABIDecoder, error) {
	parsed, err := abi.JSON(strings.NewReader(eventsABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse events ABI: %w", err)
	}

	eventsByID := make(map[common.Hash]abi.Event, len(parsed.Events))
	for _, event := range parsed.Events {
		eventsByID[event.ID] = event
	}

	return &ABIDecoder{abi: parsed, eventsByID: eventsByID}, nil
}

// NewERC721 creates a decoder for the embedded ERC-721 event set
func NewERC721() (*ABIDecoder, error) {
	return New(ERC721EventsABI)
}

func (d *ABIDecoder) Parse(log domain.RawLog) (*domain.DecodedEvent, error) {
	topics := log.TopicHashes()
	if len(topics) == 0 {
		return nil, fmt.Errorf("%w: log has no topics", domain.ErrMalformedLog)
	}

	event, ok := d.eventsByID[topics[0]]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownEvent, topics[0].Hex())
	}

	indexed := indexedArguments(event.Inputs)
	if len(topics) != len(indexed)+1 {
		return nil, fmt.Errorf("%w: %s expects %d topics, got %d",
			domain.ErrMalformedLog, event.Name, len(indexed)+1, len(topics))
	}

	args := make(map[string]interface{})
	if err := abi.ParseTopicsIntoMap(args, indexed, topics[1:]); err != nil {
		return nil, fmt.Errorf("%w: %s topics: %v", domain.ErrMalformedLog, event.Name, err)
	}

	data, err := log.DataBytes()
	if err != nil {
		return nil, fmt.Errorf("%w: %s data: %v", domain.ErrMalformedLog, event.Name, err)
	}
	if err := d.abi.UnpackIntoMap(args, event.Name, data); err != nil {
		return nil, fmt.Errorf("%w: %s data: %v", domain.ErrMalformedLog, event.Name, err)
	}

	return &domain.DecodedEvent{Name: event.Name, Args: args}, nil
}

func indexedArguments(inputs abi.Arguments) abi.Arguments {
	indexed := make(abi.Arguments, 0, len(inputs))
	for _, input := range inputs {
		if input.Indexed {
			indexed = append(indexed, input)
		}
	}
	return indexed
}
