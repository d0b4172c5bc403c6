package domain

const (
	// Blockchain constants
	ETHEREUM_ZERO_ADDRESS = "0x0000000000000000000000000000000000000000"

	// Event names from the shared ERC-721 signature set. Transfer and Approval
	// are handled; ApprovalForAll and OwnershipTransferred are decodable but
	// deliberately unhandled (collection-level approval and contract-ownership
	// tracking are out of scope).
	EventTransfer             = "Transfer"
	EventApproval             = "Approval"
	EventApprovalForAll       = "ApprovalForAll"
	EventOwnershipTransferred = "OwnershipTransferred"
)
