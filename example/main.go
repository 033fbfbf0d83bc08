// Example usage of the Lootex exchange SDK
package main

import (
	"context"
	"fmt"
	"log"
	"math/big"
	"os"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	lootex "github.com/lootex/exchange-sdk-go"
	"github.com/lootex/exchange-sdk-go/aggregator"
	"github.com/lootex/exchange-sdk-go/merkle"
	"github.com/lootex/exchange-sdk-go/seaport"
)

func main() {
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	config := lootex.ClientConfig{
		Host:    "https://api.lootex.io",   // Replace with actual API host
		APIKey:  "your-api-key-here",       // Replace with actual API key
		ChainID: lootex.ChainIDPolygon,
		RPCURL:  "https://polygon-rpc.com", // Replace with actual RPC URL
		Logger:  &logger,
	}

	client, err := lootex.NewClient(config)
	if err != nil {
		log.Fatalf("Failed to create client: %v", err)
	}
	defer client.Close()

	ctx := context.Background()

	// Example: format a listing for signing
	fmt.Println("Formatting listing...")
	feePct, _ := decimal.NewFromString("1")
	result, err := client.CreateOrder(ctx, lootex.CreateOrderParams{
		Offerer:   "0xYourAddressHere",
		Token:     "0xCollectionAddressHere",
		TokenID:   "1",
		TokenType: seaport.TokenTypeERC721,
		Kind:      seaport.TradeKindListing,
		Currency:  "", // native currency
		Decimals:  18,
		UnitPrice: "1.0",
		Quantity:  1,
		Duration:  30 * 24 * time.Hour,
		Fees: []seaport.FeeEntry{
			{Recipient: common.HexToAddress("0xFeeRecipientHere"), Percentage: feePct},
		},
	})
	if err != nil {
		log.Printf("Failed to format order: %v", err)
	} else {
		fmt.Printf("Sign this digest: %s\n", result.Hash.Hex())
	}

	// Sign result.Hash with the offerer's key, then submit:
	// client.SubmitSignedOrder(result.Components, signature, decimal.RequireFromString("1.0"))

	// Example: fetch listings from the order book and build a fulfillment
	fmt.Println("\nFetching orders...")
	resp, err := client.OrderBook().GetOrders(lootex.GetOrdersQuery{
		Collection: "0xCollectionAddressHere",
		Page:       1,
		Limit:      20,
	})
	if err != nil {
		log.Printf("Failed to fetch orders: %v", err)
	} else {
		conduit := common.HexToAddress("0x1E0049783F008A0085193E00003D00cd54003c71")
		orders := make([]*aggregator.LootexOrder, 0, len(resp.Result.List))
		for _, record := range resp.Result.List {
			order, err := record.ToLootexOrder(conduit)
			if err != nil {
				log.Printf("Skipping malformed record: %v", err)
				continue
			}
			orders = append(orders, order)
		}

		if len(orders) > 0 {
			buyer := common.HexToAddress("0xYourAddressHere")
			tx, verdicts, err := client.BuildFulfillment(ctx, orders, buyer)
			if err != nil {
				log.Printf("Failed to build fulfillment: %v", err)
			} else {
				fmt.Printf("Send to %s with value %s (%d bytes of calldata)\n",
					tx.To.Hex(), tx.Value.String(), len(tx.Data))
				for _, v := range verdicts {
					fmt.Printf("  order %s fillable=%v\n", v.OrderHash.Hex(), v.Valid)
				}
			}

			// Example: plan cancellation of our own orders
			calls, err := client.PlanCancellation(ctx, orders[:1])
			if err != nil {
				log.Printf("Failed to plan cancellation: %v", err)
			} else {
				fmt.Printf("Cancellation requires %d call(s)\n", len(calls))
			}
		}
	}

	// Example: plan a bulk transfer
	fmt.Println("\nPlanning bulk transfer...")
	sender := common.HexToAddress("0xYourAddressHere")
	recipient := common.HexToAddress("0xRecipientAddressHere")
	txs, err := client.PlanBulkTransfer(ctx, sender, recipient, []aggregator.Asset{
		{ItemType: seaport.ItemTypeERC721, Token: common.HexToAddress("0xCollectionA"), Identifier: big.NewInt(1)},
		{ItemType: seaport.ItemTypeERC1155, Token: common.HexToAddress("0xCollectionB"), Identifier: big.NewInt(7), Amount: big.NewInt(3)},
	})
	if err != nil {
		log.Printf("Failed to plan transfer: %v", err)
	} else {
		fmt.Printf("Transfer requires %d transaction(s)\n", len(txs))
	}

	// Example: build and verify a claim allow-list tree
	fmt.Println("\nBuilding claim tree...")
	entries := []merkle.Entry{
		{Address: common.HexToAddress("0xAlice"), MaxClaimable: big.NewInt(2), Price: big.NewInt(0)},
		{Address: common.HexToAddress("0xBob"), MaxClaimable: big.NewInt(1), Price: big.NewInt(0)},
	}
	tree := client.GenerateClaimTree(entries)
	proof, _ := tree.Proof(entries[0].Address)
	fmt.Printf("Root %s, Alice verifies: %v\n",
		tree.Root().Hex(), client.VerifyClaim(entries[0], proof, tree.Root()))
}
