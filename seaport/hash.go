package seaport

import (
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// EIP712 domain constants matching the deployed exchange contract.
const (
	EIP712DomainName    = "Seaport"
	EIP712DomainVersion = "1.5"
)

// Pre-computed type hashes using keccak256. The type strings must match
// the contract byte for byte; any deviation invalidates every signature.
var (
	// EIP712Domain(string name,string version,uint256 chainId,address verifyingContract)
	EIP712DomainTypeHash = crypto.Keccak256Hash([]byte(
		"EIP712Domain(string name,string version,uint256 chainId,address verifyingContract)",
	))

	offerItemTypeString = "OfferItem(uint8 itemType,address token,uint256 identifierOrCriteria,uint256 startAmount,uint256 endAmount)"

	considerationItemTypeString = "ConsiderationItem(uint8 itemType,address token,uint256 identifierOrCriteria,uint256 startAmount,uint256 endAmount,address recipient)"

	orderComponentsTypeString = "OrderComponents(address offerer,address zone,OfferItem[] offer,ConsiderationItem[] consideration,uint8 orderType,uint256 startTime,uint256 endTime,bytes32 zoneHash,uint256 salt,bytes32 conduitKey,uint256 counter)"

	OfferItemTypeHash         = crypto.Keccak256Hash([]byte(offerItemTypeString))
	ConsiderationItemTypeHash = crypto.Keccak256Hash([]byte(considerationItemTypeString))

	// Referenced struct types are appended in alphabetical order per the
	// EIP712 encoding rules.
	OrderComponentsTypeHash = crypto.Keccak256Hash([]byte(
		orderComponentsTypeString + considerationItemTypeString + offerItemTypeString,
	))
)

var (
	bytes32Type, _ = abi.NewType("bytes32", "", nil)
	uint256Type, _ = abi.NewType("uint256", "", nil)
	addressType, _ = abi.NewType("address", "", nil)
	uint8Type, _   = abi.NewType("uint8", "", nil)
)

// Domain represents the EIP712 domain separator data for one exchange
// deployment.
type Domain struct {
	Name              string
	Version           string
	ChainID           *big.Int
	VerifyingContract common.Address
}

// NewDomain creates a Domain with the standard exchange name and version.
func NewDomain(chainID *big.Int, verifyingContract common.Address) *Domain {
	return &Domain{
		Name:              EIP712DomainName,
		Version:           EIP712DomainVersion,
		ChainID:           chainID,
		VerifyingContract: verifyingContract,
	}
}

// Separator computes the EIP712 domain separator hash.
func (d *Domain) Separator() common.Hash {
	arguments := abi.Arguments{
		{Type: bytes32Type}, // typeHash
		{Type: bytes32Type}, // nameHash
		{Type: bytes32Type}, // versionHash
		{Type: uint256Type}, // chainId
		{Type: addressType}, // verifyingContract
	}

	encoded, err := arguments.Pack(
		EIP712DomainTypeHash,
		crypto.Keccak256Hash([]byte(d.Name)),
		crypto.Keccak256Hash([]byte(d.Version)),
		d.ChainID,
		d.VerifyingContract,
	)
	if err != nil {
		panic("failed to encode domain separator: " + err.Error())
	}

	return crypto.Keccak256Hash(encoded)
}

// hashOfferItem computes the EIP712 struct hash of one offer item.
func hashOfferItem(item OfferItem) common.Hash {
	arguments := abi.Arguments{
		{Type: bytes32Type}, // typeHash
		{Type: uint8Type},   // itemType
		{Type: addressType}, // token
		{Type: uint256Type}, // identifierOrCriteria
		{Type: uint256Type}, // startAmount
		{Type: uint256Type}, // endAmount
	}

	encoded, err := arguments.Pack(
		OfferItemTypeHash,
		uint8(item.ItemType),
		item.Token,
		item.IdentifierOrCriteria,
		item.StartAmount,
		item.EndAmount,
	)
	if err != nil {
		panic("failed to encode offer item: " + err.Error())
	}

	return crypto.Keccak256Hash(encoded)
}

// hashConsiderationItem computes the EIP712 struct hash of one
// consideration item.
func hashConsiderationItem(item ConsiderationItem) common.Hash {
	arguments := abi.Arguments{
		{Type: bytes32Type}, // typeHash
		{Type: uint8Type},   // itemType
		{Type: addressType}, // token
		{Type: uint256Type}, // identifierOrCriteria
		{Type: uint256Type}, // startAmount
		{Type: uint256Type}, // endAmount
		{Type: addressType}, // recipient
	}

	encoded, err := arguments.Pack(
		ConsiderationItemTypeHash,
		uint8(item.ItemType),
		item.Token,
		item.IdentifierOrCriteria,
		item.StartAmount,
		item.EndAmount,
		item.Recipient,
	)
	if err != nil {
		panic("failed to encode consideration item: " + err.Error())
	}

	return crypto.Keccak256Hash(encoded)
}

// StructHash computes the EIP712 struct hash of the order components.
// Array fields hash to the keccak of their concatenated element hashes.
func (c *OrderComponents) StructHash() common.Hash {
	var offerHashes []byte
	for _, item := range c.Offer {
		offerHashes = append(offerHashes, hashOfferItem(item).Bytes()...)
	}
	var considerationHashes []byte
	for _, item := range c.Consideration {
		considerationHashes = append(considerationHashes, hashConsiderationItem(item).Bytes()...)
	}

	arguments := abi.Arguments{
		{Type: bytes32Type}, // typeHash
		{Type: addressType}, // offerer
		{Type: addressType}, // zone
		{Type: bytes32Type}, // keccak(offer item hashes)
		{Type: bytes32Type}, // keccak(consideration item hashes)
		{Type: uint8Type},   // orderType
		{Type: uint256Type}, // startTime
		{Type: uint256Type}, // endTime
		{Type: bytes32Type}, // zoneHash
		{Type: uint256Type}, // salt
		{Type: bytes32Type}, // conduitKey
		{Type: uint256Type}, // counter
	}

	counter := c.Counter
	if counter == nil {
		counter = big.NewInt(0)
	}

	encoded, err := arguments.Pack(
		OrderComponentsTypeHash,
		c.Offerer,
		c.Zone,
		crypto.Keccak256Hash(offerHashes),
		crypto.Keccak256Hash(considerationHashes),
		uint8(c.OrderType),
		c.StartTime,
		c.EndTime,
		c.ZoneHash,
		c.Salt,
		c.ConduitKey,
		counter,
	)
	if err != nil {
		panic("failed to encode order components: " + err.Error())
	}

	return crypto.Keccak256Hash(encoded)
}

// Hash computes the final EIP712 digest for the order under the given
// domain: keccak256("\x19\x01" ++ domainSeparator ++ structHash). This is
// both the value signed by the offerer and the order's on-chain identity.
func (c *OrderComponents) Hash(domain *Domain) common.Hash {
	data := make([]byte, 0, 2+32+32)
	data = append(data, 0x19, 0x01)
	data = append(data, domain.Separator().Bytes()...)
	data = append(data, c.StructHash().Bytes()...)

	return crypto.Keccak256Hash(data)
}
