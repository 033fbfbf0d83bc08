package chain

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/lootex/exchange-sdk-go/seaport"
)

// ABI tuple mirrors of the seaport order model. Field names must match
// the tuple component names after camel-casing or packing fails at
// runtime, so these stay separate from the domain structs.

type abiOfferItem struct {
	ItemType             uint8
	Token                common.Address
	IdentifierOrCriteria *big.Int
	StartAmount          *big.Int
	EndAmount            *big.Int
}

type abiConsiderationItem struct {
	ItemType             uint8
	Token                common.Address
	IdentifierOrCriteria *big.Int
	StartAmount          *big.Int
	EndAmount            *big.Int
	Recipient            common.Address
}

type abiOrderComponents struct {
	Offerer       common.Address
	Zone          common.Address
	Offer         []abiOfferItem
	Consideration []abiConsiderationItem
	OrderType     uint8
	StartTime     *big.Int
	EndTime       *big.Int
	ZoneHash      common.Hash
	Salt          *big.Int
	ConduitKey    common.Hash
	Counter       *big.Int
}

type abiOrderParameters struct {
	Offerer                         common.Address
	Zone                            common.Address
	Offer                           []abiOfferItem
	Consideration                   []abiConsiderationItem
	OrderType                       uint8
	StartTime                       *big.Int
	EndTime                         *big.Int
	ZoneHash                        common.Hash
	Salt                            *big.Int
	ConduitKey                      common.Hash
	TotalOriginalConsiderationItems *big.Int
}

type abiAdvancedOrder struct {
	Parameters  abiOrderParameters
	Numerator   *big.Int
	Denominator *big.Int
	Signature   []byte
	ExtraData   []byte
}

func abiOfferItems(items []seaport.OfferItem) []abiOfferItem {
	out := make([]abiOfferItem, len(items))
	for i, item := range items {
		out[i] = abiOfferItem{
			ItemType:             uint8(item.ItemType),
			Token:                item.Token,
			IdentifierOrCriteria: item.IdentifierOrCriteria,
			StartAmount:          item.StartAmount,
			EndAmount:            item.EndAmount,
		}
	}
	return out
}

func abiConsiderationItems(items []seaport.ConsiderationItem) []abiConsiderationItem {
	out := make([]abiConsiderationItem, len(items))
	for i, item := range items {
		out[i] = abiConsiderationItem{
			ItemType:             uint8(item.ItemType),
			Token:                item.Token,
			IdentifierOrCriteria: item.IdentifierOrCriteria,
			StartAmount:          item.StartAmount,
			EndAmount:            item.EndAmount,
			Recipient:            item.Recipient,
		}
	}
	return out
}

func componentsTuple(c seaport.OrderComponents) abiOrderComponents {
	counter := c.Counter
	if counter == nil {
		counter = big.NewInt(0)
	}
	return abiOrderComponents{
		Offerer:       c.Offerer,
		Zone:          c.Zone,
		Offer:         abiOfferItems(c.Offer),
		Consideration: abiConsiderationItems(c.Consideration),
		OrderType:     uint8(c.OrderType),
		StartTime:     c.StartTime,
		EndTime:       c.EndTime,
		ZoneHash:      c.ZoneHash,
		Salt:          c.Salt,
		ConduitKey:    c.ConduitKey,
		Counter:       counter,
	}
}

func parametersTuple(p seaport.OrderParameters) abiOrderParameters {
	return abiOrderParameters{
		Offerer:                         p.Offerer,
		Zone:                            p.Zone,
		Offer:                           abiOfferItems(p.Offer),
		Consideration:                   abiConsiderationItems(p.Consideration),
		OrderType:                       uint8(p.OrderType),
		StartTime:                       p.StartTime,
		EndTime:                         p.EndTime,
		ZoneHash:                        p.ZoneHash,
		Salt:                            p.Salt,
		ConduitKey:                      p.ConduitKey,
		TotalOriginalConsiderationItems: p.TotalOriginalConsiderationItems,
	}
}

var itemComponents = []abi.ArgumentMarshaling{
	{Name: "itemType", Type: "uint8"},
	{Name: "token", Type: "address"},
	{Name: "identifierOrCriteria", Type: "uint256"},
	{Name: "startAmount", Type: "uint256"},
	{Name: "endAmount", Type: "uint256"},
}

var considerationComponents = append(append([]abi.ArgumentMarshaling{}, itemComponents...),
	abi.ArgumentMarshaling{Name: "recipient", Type: "address"},
)

var advancedOrdersType = mustNewType("tuple[]", []abi.ArgumentMarshaling{
	{Name: "parameters", Type: "tuple", Components: []abi.ArgumentMarshaling{
		{Name: "offerer", Type: "address"},
		{Name: "zone", Type: "address"},
		{Name: "offer", Type: "tuple[]", Components: itemComponents},
		{Name: "consideration", Type: "tuple[]", Components: considerationComponents},
		{Name: "orderType", Type: "uint8"},
		{Name: "startTime", Type: "uint256"},
		{Name: "endTime", Type: "uint256"},
		{Name: "zoneHash", Type: "bytes32"},
		{Name: "salt", Type: "uint256"},
		{Name: "conduitKey", Type: "bytes32"},
		{Name: "totalOriginalConsiderationItems", Type: "uint256"},
	}},
	{Name: "numerator", Type: "uint120"},
	{Name: "denominator", Type: "uint120"},
	{Name: "signature", Type: "bytes"},
	{Name: "extraData", Type: "bytes"},
})

func mustNewType(t string, components []abi.ArgumentMarshaling) abi.Type {
	typ, err := abi.NewType(t, "", components)
	if err != nil {
		panic("failed to construct ABI type: " + err.Error())
	}
	return typ
}

// EncodeAdvancedOrders packs signed orders with their fill fractions into
// the advanced-order tuple array the exchange decoder expects. orders and
// fractions are parallel slices.
func EncodeAdvancedOrders(orders []seaport.SignedOrder, fractions []seaport.Fraction) ([]byte, error) {
	if len(orders) != len(fractions) {
		return nil, fmt.Errorf("orders/fractions length mismatch: %d vs %d", len(orders), len(fractions))
	}

	tuples := make([]abiAdvancedOrder, len(orders))
	for i, order := range orders {
		tuples[i] = abiAdvancedOrder{
			Parameters:  parametersTuple(order.Components.OrderParameters),
			Numerator:   fractions[i].Numerator,
			Denominator: fractions[i].Denominator,
			Signature:   order.Signature,
			ExtraData:   []byte{},
		}
	}

	arguments := abi.Arguments{{Type: advancedOrdersType}}
	encoded, err := arguments.Pack(tuples)
	if err != nil {
		return nil, fmt.Errorf("failed to pack advanced orders: %w", err)
	}
	return encoded, nil
}

// EncodeCancel packs a cancel call covering every given order.
func EncodeCancel(orders []seaport.OrderComponents) ([]byte, error) {
	tuples := make([]abiOrderComponents, len(orders))
	for i, order := range orders {
		tuples[i] = componentsTuple(order)
	}

	data, err := GetSeaportABI().Pack("cancel", tuples)
	if err != nil {
		return nil, fmt.Errorf("failed to pack cancel: %w", err)
	}
	return data, nil
}

// EncodeSetApprovalForAll packs a setApprovalForAll call. The selector is
// shared between ERC721 and ERC1155.
func EncodeSetApprovalForAll(operator common.Address, approved bool) ([]byte, error) {
	data, err := GetERC721ABI().Pack("setApprovalForAll", operator, approved)
	if err != nil {
		return nil, fmt.Errorf("failed to pack setApprovalForAll: %w", err)
	}
	return data, nil
}

// EncodeERC721SafeTransferFrom packs a direct ERC721 transfer.
func EncodeERC721SafeTransferFrom(from, to common.Address, identifier *big.Int) ([]byte, error) {
	data, err := GetERC721ABI().Pack("safeTransferFrom", from, to, identifier)
	if err != nil {
		return nil, fmt.Errorf("failed to pack ERC721 safeTransferFrom: %w", err)
	}
	return data, nil
}

// EncodeERC1155SafeTransferFrom packs a direct ERC1155 transfer.
func EncodeERC1155SafeTransferFrom(from, to common.Address, identifier, amount *big.Int) ([]byte, error) {
	data, err := GetERC1155ABI().Pack("safeTransferFrom", from, to, identifier, amount, []byte{})
	if err != nil {
		return nil, fmt.Errorf("failed to pack ERC1155 safeTransferFrom: %w", err)
	}
	return data, nil
}

// BulkTransferItem is one asset in a bulk transfer call.
type BulkTransferItem struct {
	ItemType   uint8
	Token      common.Address
	Identifier *big.Int
	Amount     *big.Int
}

// EncodeBulkTransfer packs a bulk transfer of several assets to one
// recipient.
func EncodeBulkTransfer(items []BulkTransferItem, recipient common.Address) ([]byte, error) {
	data, err := GetBulkTransferABI().Pack("bulkTransfer", items, recipient)
	if err != nil {
		return nil, fmt.Errorf("failed to pack bulkTransfer: %w", err)
	}
	return data, nil
}

// EncodeBatchBuyWithETH packs the native-currency batch buy entry point.
func EncodeBatchBuyWithETH(payload []byte) ([]byte, error) {
	data, err := GetAggregatorABI().Pack("batchBuyWithETH", payload)
	if err != nil {
		return nil, fmt.Errorf("failed to pack batchBuyWithETH: %w", err)
	}
	return data, nil
}

// EncodeBatchBuyWithERC20 packs the ERC20 batch buy entry point.
func EncodeBatchBuyWithERC20(currency common.Address, amount *big.Int, payload []byte) ([]byte, error) {
	data, err := GetAggregatorABI().Pack("batchBuyWithERC20", currency, amount, payload)
	if err != nil {
		return nil, fmt.Errorf("failed to pack batchBuyWithERC20: %w", err)
	}
	return data, nil
}

// EncodeAcceptOffer packs the accept-offer entry point for the given
// asset standard.
func EncodeAcceptOffer(itemType seaport.ItemType, payload []byte) ([]byte, error) {
	method := "acceptOfferERC721"
	if itemType == seaport.ItemTypeERC1155 || itemType == seaport.ItemTypeERC1155WithCriteria {
		method = "acceptOfferERC1155"
	}
	data, err := GetAggregatorABI().Pack(method, payload)
	if err != nil {
		return nil, fmt.Errorf("failed to pack %s: %w", method, err)
	}
	return data, nil
}
