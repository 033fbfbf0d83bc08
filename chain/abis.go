package chain

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// ERC20 ABI JSON for the balance and allowance surface
const erc20ABIJSON = `[
	{
		"constant": true,
		"inputs": [{"name": "account", "type": "address"}],
		"name": "balanceOf",
		"outputs": [{"name": "", "type": "uint256"}],
		"type": "function"
	},
	{
		"constant": true,
		"inputs": [
			{"name": "owner", "type": "address"},
			{"name": "spender", "type": "address"}
		],
		"name": "allowance",
		"outputs": [{"name": "", "type": "uint256"}],
		"type": "function"
	},
	{
		"constant": false,
		"inputs": [
			{"name": "spender", "type": "address"},
			{"name": "amount", "type": "uint256"}
		],
		"name": "approve",
		"outputs": [{"name": "", "type": "bool"}],
		"type": "function"
	}
]`

// ERC721 ABI JSON for ownership, operator approval and direct transfer
const erc721ABIJSON = `[
	{
		"constant": true,
		"inputs": [{"name": "tokenId", "type": "uint256"}],
		"name": "ownerOf",
		"outputs": [{"name": "", "type": "address"}],
		"type": "function"
	},
	{
		"constant": true,
		"inputs": [
			{"name": "owner", "type": "address"},
			{"name": "operator", "type": "address"}
		],
		"name": "isApprovedForAll",
		"outputs": [{"name": "", "type": "bool"}],
		"type": "function"
	},
	{
		"constant": false,
		"inputs": [
			{"name": "operator", "type": "address"},
			{"name": "approved", "type": "bool"}
		],
		"name": "setApprovalForAll",
		"outputs": [],
		"type": "function"
	},
	{
		"constant": false,
		"inputs": [
			{"name": "from", "type": "address"},
			{"name": "to", "type": "address"},
			{"name": "tokenId", "type": "uint256"}
		],
		"name": "safeTransferFrom",
		"outputs": [],
		"type": "function"
	}
]`

// ERC1155 ABI JSON for balances, operator approval and direct transfer
const erc1155ABIJSON = `[
	{
		"constant": true,
		"inputs": [
			{"name": "account", "type": "address"},
			{"name": "id", "type": "uint256"}
		],
		"name": "balanceOf",
		"outputs": [{"name": "", "type": "uint256"}],
		"type": "function"
	},
	{
		"constant": true,
		"inputs": [
			{"name": "owner", "type": "address"},
			{"name": "operator", "type": "address"}
		],
		"name": "isApprovedForAll",
		"outputs": [{"name": "", "type": "bool"}],
		"type": "function"
	},
	{
		"constant": false,
		"inputs": [
			{"name": "operator", "type": "address"},
			{"name": "approved", "type": "bool"}
		],
		"name": "setApprovalForAll",
		"outputs": [],
		"type": "function"
	},
	{
		"constant": false,
		"inputs": [
			{"name": "from", "type": "address"},
			{"name": "to", "type": "address"},
			{"name": "id", "type": "uint256"},
			{"name": "amount", "type": "uint256"},
			{"name": "data", "type": "bytes"}
		],
		"name": "safeTransferFrom",
		"outputs": [],
		"type": "function"
	}
]`

// Exchange (Seaport) ABI JSON for the status, counter and cancel surface
const seaportABIJSON = `[
	{
		"constant": true,
		"inputs": [{"name": "orderHash", "type": "bytes32"}],
		"name": "getOrderStatus",
		"outputs": [
			{"name": "isValidated", "type": "bool"},
			{"name": "isCancelled", "type": "bool"},
			{"name": "totalFilled", "type": "uint256"},
			{"name": "totalSize", "type": "uint256"}
		],
		"type": "function"
	},
	{
		"constant": true,
		"inputs": [{"name": "offerer", "type": "address"}],
		"name": "getCounter",
		"outputs": [{"name": "counter", "type": "uint256"}],
		"type": "function"
	},
	{
		"constant": false,
		"inputs": [
			{
				"name": "orders",
				"type": "tuple[]",
				"components": [
					{"name": "offerer", "type": "address"},
					{"name": "zone", "type": "address"},
					{
						"name": "offer",
						"type": "tuple[]",
						"components": [
							{"name": "itemType", "type": "uint8"},
							{"name": "token", "type": "address"},
							{"name": "identifierOrCriteria", "type": "uint256"},
							{"name": "startAmount", "type": "uint256"},
							{"name": "endAmount", "type": "uint256"}
						]
					},
					{
						"name": "consideration",
						"type": "tuple[]",
						"components": [
							{"name": "itemType", "type": "uint8"},
							{"name": "token", "type": "address"},
							{"name": "identifierOrCriteria", "type": "uint256"},
							{"name": "startAmount", "type": "uint256"},
							{"name": "endAmount", "type": "uint256"},
							{"name": "recipient", "type": "address"}
						]
					},
					{"name": "orderType", "type": "uint8"},
					{"name": "startTime", "type": "uint256"},
					{"name": "endTime", "type": "uint256"},
					{"name": "zoneHash", "type": "bytes32"},
					{"name": "salt", "type": "uint256"},
					{"name": "conduitKey", "type": "bytes32"},
					{"name": "counter", "type": "uint256"}
				]
			}
		],
		"name": "cancel",
		"outputs": [{"name": "cancelled", "type": "bool"}],
		"type": "function"
	}
]`

// Aggregator ABI JSON: the batch entry points demultiplex the opaque
// payload by marketplace id internally.
const aggregatorABIJSON = `[
	{
		"constant": false,
		"inputs": [{"name": "data", "type": "bytes"}],
		"name": "batchBuyWithETH",
		"outputs": [],
		"payable": true,
		"type": "function"
	},
	{
		"constant": false,
		"inputs": [
			{"name": "currency", "type": "address"},
			{"name": "amount", "type": "uint256"},
			{"name": "data", "type": "bytes"}
		],
		"name": "batchBuyWithERC20",
		"outputs": [],
		"type": "function"
	},
	{
		"constant": false,
		"inputs": [{"name": "data", "type": "bytes"}],
		"name": "acceptOfferERC721",
		"outputs": [],
		"type": "function"
	},
	{
		"constant": false,
		"inputs": [{"name": "data", "type": "bytes"}],
		"name": "acceptOfferERC1155",
		"outputs": [],
		"type": "function"
	}
]`

// Bulk transfer ABI JSON
const bulkTransferABIJSON = `[
	{
		"constant": false,
		"inputs": [
			{
				"name": "items",
				"type": "tuple[]",
				"components": [
					{"name": "itemType", "type": "uint8"},
					{"name": "token", "type": "address"},
					{"name": "identifier", "type": "uint256"},
					{"name": "amount", "type": "uint256"}
				]
			},
			{"name": "recipient", "type": "address"}
		],
		"name": "bulkTransfer",
		"outputs": [],
		"type": "function"
	}
]`

// GetERC20ABI returns the parsed ERC20 ABI
func GetERC20ABI() abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(erc20ABIJSON))
	if err != nil {
		panic("failed to parse ERC20 ABI: " + err.Error())
	}
	return parsed
}

// GetERC721ABI returns the parsed ERC721 ABI
func GetERC721ABI() abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(erc721ABIJSON))
	if err != nil {
		panic("failed to parse ERC721 ABI: " + err.Error())
	}
	return parsed
}

// GetERC1155ABI returns the parsed ERC1155 ABI
func GetERC1155ABI() abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(erc1155ABIJSON))
	if err != nil {
		panic("failed to parse ERC1155 ABI: " + err.Error())
	}
	return parsed
}

// GetSeaportABI returns the parsed exchange ABI subset
func GetSeaportABI() abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(seaportABIJSON))
	if err != nil {
		panic("failed to parse exchange ABI: " + err.Error())
	}
	return parsed
}

// GetAggregatorABI returns the parsed aggregator ABI
func GetAggregatorABI() abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(aggregatorABIJSON))
	if err != nil {
		panic("failed to parse aggregator ABI: " + err.Error())
	}
	return parsed
}

// GetBulkTransferABI returns the parsed bulk transfer ABI
func GetBulkTransferABI() abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(bulkTransferABIJSON))
	if err != nil {
		panic("failed to parse bulk transfer ABI: " + err.Error())
	}
	return parsed
}
