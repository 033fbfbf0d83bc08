package lootex

// ChainID represents a blockchain chain ID
type ChainID int64

const (
	ChainIDEthereum ChainID = 1   // Ethereum mainnet
	ChainIDBNB      ChainID = 56  // BNB Chain (BSC) mainnet
	ChainIDPolygon  ChainID = 137 // Polygon PoS mainnet
)

// SupportedChainIDs lists all supported chain IDs
var SupportedChainIDs = []ChainID{ChainIDEthereum, ChainIDBNB, ChainIDPolygon}

// NativeCurrencyAddress is the sentinel address representing a chain's
// native currency in payment items and claim-condition leaves.
const NativeCurrencyAddress = "0xEeeeeEeeeEeEeeEeEeEeeEEEeeeeEeeeeeeeEEeE"

// DefaultConduitKey selects the conduit that moves assets during
// settlement; the zero key settles directly through the exchange.
const DefaultConduitKey = "0x0000007b02230091a7ed01230072f7006a004d60a8d4e71d599b8104250f0000"

// ContractAddresses holds contract addresses for each chain
type ContractAddresses struct {
	Exchange     string
	Conduit      string
	Aggregator   string
	BulkTransfer string
}

// DefaultContractAddresses maps chain IDs to their contract addresses
var DefaultContractAddresses = map[ChainID]ContractAddresses{
	ChainIDEthereum: {
		Exchange:     "0x00000000000000ADc04C56Bf30aC9d3c0aAF14dC",
		Conduit:      "0x1E0049783F008A0085193E00003D00cd54003c71",
		Aggregator:   "0x6f9bB7e454f5B3eb2310343f0E99269dC2BB8A1d",
		BulkTransfer: "0x0000000000c2d145a2526bD8C716263bFeBe1A72",
	},
	ChainIDBNB: {
		Exchange:     "0x00000000000000ADc04C56Bf30aC9d3c0aAF14dC",
		Conduit:      "0x1E0049783F008A0085193E00003D00cd54003c71",
		Aggregator:   "0x2f8351Aa6D759bA27a2f7DD92a1f3fBA3dD90E09",
		BulkTransfer: "0x0000000000c2d145a2526bD8C716263bFeBe1A72",
	},
	ChainIDPolygon: {
		Exchange:     "0x00000000000000ADc04C56Bf30aC9d3c0aAF14dC",
		Conduit:      "0x1E0049783F008A0085193E00003D00cd54003c71",
		Aggregator:   "0x92C5d59827c233BD43e0B2a01b1a4E551E7a62dE",
		BulkTransfer: "0x0000000000c2d145a2526bD8C716263bFeBe1A72",
	},
}
