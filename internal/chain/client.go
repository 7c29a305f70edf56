// Package chain talks to a graphene-style node over websocket JSON-RPC and
// exposes the resumable block stream the monitor consumes.
package chain

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ethereum/go-ethereum/rpc"

	"transferwatch/internal/account"
	"transferwatch/internal/model"
)

// Client wraps the node's database API.
type Client struct {
	rpcClient *rpc.Client
}

// NewClient dials the node's websocket endpoint.
func NewClient(ctx context.Context, nodeURL string) (*Client, error) {
	rpcClient, err := rpc.DialContext(ctx, nodeURL)
	if err != nil {
		return nil, err
	}
	return &Client{rpcClient: rpcClient}, nil
}

// Close closes the underlying RPC connection.
func (c *Client) Close() {
	if c.rpcClient != nil {
		c.rpcClient.Close()
	}
}

// DynamicGlobalProperties is the chain tip state.
type DynamicGlobalProperties struct {
	HeadBlockNumber          uint64          `json:"head_block_number"`
	LastIrreversibleBlockNum uint64          `json:"last_irreversible_block_num"`
	Time                     model.ChainTime `json:"time"`
}

// Tip returns the block number bounding the given watch mode.
func (p DynamicGlobalProperties) Tip(mode WatchMode) uint64 {
	if mode == WatchHead {
		return p.HeadBlockNumber
	}
	return p.LastIrreversibleBlockNum
}

// DynamicGlobalProperties fetches the current chain tip state.
func (c *Client) DynamicGlobalProperties(ctx context.Context) (DynamicGlobalProperties, error) {
	var props DynamicGlobalProperties
	if err := c.rpcClient.CallContext(ctx, &props, "get_dynamic_global_properties"); err != nil {
		return DynamicGlobalProperties{}, fmt.Errorf("get_dynamic_global_properties: %w", err)
	}
	return props, nil
}

// BlockByNumber fetches one block. The node's response does not carry the
// block number, so the client fills it in from the requested height.
func (c *Client) BlockByNumber(ctx context.Context, number uint64) (*model.Block, error) {
	var raw json.RawMessage
	if err := c.rpcClient.CallContext(ctx, &raw, "get_block", number); err != nil {
		return nil, fmt.Errorf("get_block %d: %w", number, err)
	}
	if len(raw) == 0 || string(raw) == "null" {
		return nil, fmt.Errorf("block %d not found", number)
	}

	var block model.Block
	if err := json.Unmarshal(raw, &block); err != nil {
		return nil, fmt.Errorf("decode block %d: %w", number, err)
	}
	block.Number = number
	return &block, nil
}

// AccountByID fetches one account record.
func (c *Client) AccountByID(ctx context.Context, id string) (account.Info, error) {
	var records []*struct {
		ID      string `json:"id"`
		Name    string `json:"name"`
		Options struct {
			MemoKey string `json:"memo_key"`
		} `json:"options"`
	}
	if err := c.rpcClient.CallContext(ctx, &records, "get_accounts", []string{id}); err != nil {
		return account.Info{}, fmt.Errorf("get_accounts %s: %w", id, err)
	}
	if len(records) == 0 || records[0] == nil {
		return account.Info{}, fmt.Errorf("account %s unknown", id)
	}
	return account.Info{
		ID:      records[0].ID,
		Name:    records[0].Name,
		MemoKey: records[0].Options.MemoKey,
	}, nil
}
