package domain

import (
	"math/big"
	"regexp"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// topicPattern matches a 32-byte hex string as delivered in log topics
var topicPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{64}$`)

// RawLog is the platform's delivery format for one matched EVM log.
// Topics and data arrive as hex strings; no byte-level transaction-log
// parsing happens on this side of the boundary.
type RawLog struct {
	ContractAddress string   `json:"contract_address"`
	Topics          []string `json:"topics"`
	Data            string   `json:"data"`
	BlockNumber     uint64   `json:"block_number"`
	TxHash          string   `json:"tx_hash"`
	LogIndex        uint     `json:"log_index"`
}

// Valid reports whether the log is structurally sound: a hex contract
// address, at least one 32-byte hex topic, and hex-decodable data.
func (l *RawLog) Valid() bool {
	if !common.IsHexAddress(l.ContractAddress) {
		return false
	}
	if len(l.Topics) == 0 {
		return false
	}
	for _, topic := range l.Topics {
		if !topicPattern.MatchString(topic) {
			return false
		}
	}
	if l.Data != "" && l.Data != "0x" {
		if _, err := hexutil.Decode(l.Data); err != nil {
			return false
		}
	}
	return true
}

// TopicHashes returns the log topics as 32-byte hashes
func (l *RawLog) TopicHashes() []common.Hash {
	hashes := make([]common.Hash, 0, len(l.Topics))
	for _, topic := range l.Topics {
		hashes = append(hashes, common.HexToHash(topic))
	}
	return hashes
}

// DataBytes decodes the log data hex string. Empty and "0x" both mean no data.
func (l *RawLog) DataBytes() ([]byte, error) {
	if l.Data == "" || l.Data == "0x" {
		return nil, nil
	}
	return hexutil.Decode(l.Data)
}

// DecodedEvent is the decoder's output: the matched event name from the
// signature set and its arguments keyed by ABI argument name.
type DecodedEvent struct {
	Name string                 `json:"name"`
	Args map[string]interface{} `json:"args"`
}

// TriggerMessage is the envelope delivering one raw log to the function host.
// This is the standard format published to NATS.
type TriggerMessage struct {
	ID      string `json:"id"`
	Trigger string `json:"trigger"`
	Log     RawLog `json:"log"`
}

func (m *TriggerMessage) Valid() bool {
	return m.ID != "" && m.Log.Valid()
}

// CanonicalTokenID renders a token id in its canonical form: the fixed-width
// hexadecimal string of an unsigned 256-bit integer, lowercase, 0x-prefixed,
// zero-padded to 64 digits.
func CanonicalTokenID(n *big.Int) (string, error) {
	if n == nil || n.Sign() < 0 || n.BitLen() > 256 {
		return "", ErrInvalidTokenID
	}
	return common.BigToHash(n).Hex(), nil
}

// ParseTokenID parses a decimal or 0x-hex token id string into canonical form
func ParseTokenID(s string) (string, error) {
	s = strings.TrimSpace(s)
	base := 10
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		base = 16
		s = s[2:]
	}
	if s == "" {
		return "", ErrInvalidTokenID
	}
	n, ok := new(big.Int).SetString(s, base)
	if !ok {
		return "", ErrInvalidTokenID
	}
	return CanonicalTokenID(n)
}

// NormalizeAddress validates a hex address and returns it lowercase
func NormalizeAddress(s string) (string, error) {
	if !common.IsHexAddress(s) {
		return "", ErrInvalidAddress
	}
	return strings.ToLower(common.HexToAddress(s).Hex()), nil
}

// IsZeroAddress reports whether s is a valid hex rendering of the zero address
func IsZeroAddress(s string) bool {
	return common.IsHexAddress(s) && common.HexToAddress(s) == (common.Address{})
}
