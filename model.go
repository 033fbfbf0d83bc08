package lootex

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/shopspring/decimal"

	"github.com/lootex/exchange-sdk-go/aggregator"
	"github.com/lootex/exchange-sdk-go/seaport"
)

// OrderItemJSON is the wire form of one offer or consideration item. All
// amounts travel as decimal strings so the encoding stays byte-for-byte
// stable under re-serialization.
type OrderItemJSON struct {
	ItemType             int    `json:"itemType"`
	Token                string `json:"token"`
	IdentifierOrCriteria string `json:"identifierOrCriteria"`
	StartAmount          string `json:"startAmount"`
	EndAmount            string `json:"endAmount"`
	Recipient            string `json:"recipient,omitempty"`
}

// OrderComponentsJSON is the wire form of signed order components.
type OrderComponentsJSON struct {
	Offerer                         string          `json:"offerer"`
	Zone                            string          `json:"zone"`
	Offer                           []OrderItemJSON `json:"offer"`
	Consideration                   []OrderItemJSON `json:"consideration"`
	OrderType                       int             `json:"orderType"`
	StartTime                       string          `json:"startTime"`
	EndTime                         string          `json:"endTime"`
	ZoneHash                        string          `json:"zoneHash"`
	Salt                            string          `json:"salt"`
	ConduitKey                      string          `json:"conduitKey"`
	Counter                         string          `json:"counter"`
	TotalOriginalConsiderationItems string          `json:"totalOriginalConsiderationItems"`
}

// OrderRecord is the order book's representation of one signed order plus
// the derived fields the aggregation engine routes on.
type OrderRecord struct {
	Hash          string              `json:"hash"`
	ChainID       int64               `json:"chainId"`
	Exchange      string              `json:"exchangeAddress"`
	MarketplaceID int                 `json:"marketplaceId"`
	PerUnitPrice  string              `json:"perUnitPrice"`
	ProtocolData  OrderComponentsJSON `json:"protocolData"`
	Signature     string              `json:"signature"`
	IsValidated   bool                `json:"isValidated"`
	IsCancelled   bool                `json:"isCancelled"`
	IsExpired     bool                `json:"isExpired"`
	IsFillable    bool                `json:"isFillable"`
}

// ToLootexOrder converts an order book record into the in-memory order
// the aggregation engine consumes. conduit is the operator address that
// moves the offerer's assets at settlement.
func (r *OrderRecord) ToLootexOrder(conduit common.Address) (*aggregator.LootexOrder, error) {
	components, err := r.ProtocolData.toComponents()
	if err != nil {
		return nil, err
	}

	signature, err := hexutil.Decode(r.Signature)
	if err != nil {
		return nil, &InvalidParamError{Message: fmt.Sprintf("invalid signature: %v", err)}
	}

	unitPrice := decimal.Zero
	if r.PerUnitPrice != "" {
		unitPrice, err = decimal.NewFromString(r.PerUnitPrice)
		if err != nil {
			return nil, &InvalidParamError{Message: fmt.Sprintf("invalid per-unit price: %s", r.PerUnitPrice)}
		}
	}

	return &aggregator.LootexOrder{
		Order: seaport.SignedOrder{
			Components: *components,
			Signature:  signature,
		},
		Hash:          common.HexToHash(r.Hash),
		ChainID:       r.ChainID,
		Exchange:      common.HexToAddress(r.Exchange),
		Conduit:       conduit,
		MarketplaceID: r.MarketplaceID,
		UnitPrice:     unitPrice,
	}, nil
}

// NewOrderRecord builds the wire record for a signed order, ready for
// submission to the order book.
func NewOrderRecord(order *aggregator.LootexOrder) OrderRecord {
	return OrderRecord{
		Hash:          order.Hash.Hex(),
		ChainID:       order.ChainID,
		Exchange:      order.Exchange.Hex(),
		MarketplaceID: order.MarketplaceID,
		PerUnitPrice:  order.UnitPrice.String(),
		ProtocolData:  componentsToJSON(order.Order.Components),
		Signature:     hexutil.Encode(order.Order.Signature),
	}
}

func (j *OrderComponentsJSON) toComponents() (*seaport.OrderComponents, error) {
	offer := make([]seaport.OfferItem, len(j.Offer))
	for i, item := range j.Offer {
		identifier, err := parseBig(item.IdentifierOrCriteria, "identifierOrCriteria")
		if err != nil {
			return nil, err
		}
		start, err := parseBig(item.StartAmount, "startAmount")
		if err != nil {
			return nil, err
		}
		end, err := parseBig(item.EndAmount, "endAmount")
		if err != nil {
			return nil, err
		}
		offer[i] = seaport.OfferItem{
			ItemType:             seaport.ItemType(item.ItemType),
			Token:                common.HexToAddress(item.Token),
			IdentifierOrCriteria: identifier,
			StartAmount:          start,
			EndAmount:            end,
		}
	}

	consideration := make([]seaport.ConsiderationItem, len(j.Consideration))
	for i, item := range j.Consideration {
		identifier, err := parseBig(item.IdentifierOrCriteria, "identifierOrCriteria")
		if err != nil {
			return nil, err
		}
		start, err := parseBig(item.StartAmount, "startAmount")
		if err != nil {
			return nil, err
		}
		end, err := parseBig(item.EndAmount, "endAmount")
		if err != nil {
			return nil, err
		}
		consideration[i] = seaport.ConsiderationItem{
			ItemType:             seaport.ItemType(item.ItemType),
			Token:                common.HexToAddress(item.Token),
			IdentifierOrCriteria: identifier,
			StartAmount:          start,
			EndAmount:            end,
			Recipient:            common.HexToAddress(item.Recipient),
		}
	}

	startTime, err := parseBig(j.StartTime, "startTime")
	if err != nil {
		return nil, err
	}
	endTime, err := parseBig(j.EndTime, "endTime")
	if err != nil {
		return nil, err
	}
	salt, err := parseBig(j.Salt, "salt")
	if err != nil {
		return nil, err
	}
	counter, err := parseBig(j.Counter, "counter")
	if err != nil {
		return nil, err
	}
	totalOriginal, err := parseBig(j.TotalOriginalConsiderationItems, "totalOriginalConsiderationItems")
	if err != nil {
		return nil, err
	}

	return &seaport.OrderComponents{
		OrderParameters: seaport.OrderParameters{
			Offerer:                         common.HexToAddress(j.Offerer),
			Zone:                            common.HexToAddress(j.Zone),
			Offer:                           offer,
			Consideration:                   consideration,
			OrderType:                       seaport.OrderType(j.OrderType),
			StartTime:                       startTime,
			EndTime:                         endTime,
			ZoneHash:                        common.HexToHash(j.ZoneHash),
			Salt:                            salt,
			ConduitKey:                      common.HexToHash(j.ConduitKey),
			TotalOriginalConsiderationItems: totalOriginal,
		},
		Counter: counter,
	}, nil
}

func componentsToJSON(c seaport.OrderComponents) OrderComponentsJSON {
	offer := make([]OrderItemJSON, len(c.Offer))
	for i, item := range c.Offer {
		offer[i] = OrderItemJSON{
			ItemType:             int(item.ItemType),
			Token:                item.Token.Hex(),
			IdentifierOrCriteria: item.IdentifierOrCriteria.String(),
			StartAmount:          item.StartAmount.String(),
			EndAmount:            item.EndAmount.String(),
		}
	}
	consideration := make([]OrderItemJSON, len(c.Consideration))
	for i, item := range c.Consideration {
		consideration[i] = OrderItemJSON{
			ItemType:             int(item.ItemType),
			Token:                item.Token.Hex(),
			IdentifierOrCriteria: item.IdentifierOrCriteria.String(),
			StartAmount:          item.StartAmount.String(),
			EndAmount:            item.EndAmount.String(),
			Recipient:            item.Recipient.Hex(),
		}
	}

	counter := big.NewInt(0)
	if c.Counter != nil {
		counter = c.Counter
	}

	return OrderComponentsJSON{
		Offerer:                         c.Offerer.Hex(),
		Zone:                            c.Zone.Hex(),
		Offer:                           offer,
		Consideration:                   consideration,
		OrderType:                       int(c.OrderType),
		StartTime:                       c.StartTime.String(),
		EndTime:                         c.EndTime.String(),
		ZoneHash:                        c.ZoneHash.Hex(),
		Salt:                            c.Salt.String(),
		ConduitKey:                      c.ConduitKey.Hex(),
		Counter:                         counter.String(),
		TotalOriginalConsiderationItems: c.TotalOriginalConsiderationItems.String(),
	}
}

func parseBig(value, field string) (*big.Int, error) {
	if value == "" {
		return big.NewInt(0), nil
	}
	parsed, ok := new(big.Int).SetString(value, 10)
	if !ok {
		return nil, &InvalidParamError{Message: fmt.Sprintf("invalid %s: %s", field, value)}
	}
	return parsed, nil
}
