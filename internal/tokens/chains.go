package tokens

import "fmt"

// ChainInfo describes a supported EVM chain.
type ChainInfo struct {
	ChainID      uint64   `json:"chain_id"`
	Name         string   `json:"name"`
	NativeSymbol string   `json:"native_symbol"`
	RPCEndpoints []string `json:"rpc_endpoints"`
}

// chainRegistry indexes the supported chains by chain ID.
var chainRegistry = map[uint64]*ChainInfo{}

func init() {
	chains := []*ChainInfo{
		{
			ChainID:      1,
			Name:         "Ethereum",
			NativeSymbol: "ETH",
			RPCEndpoints: []string{"https://eth.llamarpc.com", "https://rpc.ankr.com/eth"},
		},
		{
			ChainID:      137,
			Name:         "Polygon",
			NativeSymbol: "POL",
			RPCEndpoints: []string{"https://polygon-rpc.com", "https://rpc.ankr.com/polygon"},
		},
		{
			ChainID:      42161,
			Name:         "Arbitrum",
			NativeSymbol: "ETH",
			RPCEndpoints: []string{"https://arb1.arbitrum.io/rpc", "https://rpc.ankr.com/arbitrum"},
		},
		{
			ChainID:      8453,
			Name:         "Base",
			NativeSymbol: "ETH",
			RPCEndpoints: []string{"https://mainnet.base.org", "https://base.llamarpc.com"},
		},
	}

	for _, c := range chains {
		chainRegistry[c.ChainID] = c
	}
}

// GetChain returns the chain info for a chain ID.
func GetChain(chainID uint64) (*ChainInfo, bool) {
	info, ok := chainRegistry[chainID]
	return info, ok
}

// SupportedChains returns all supported chain IDs.
func SupportedChains() []uint64 {
	ids := make([]uint64, 0, len(chainRegistry))
	for id := range chainRegistry {
		ids = append(ids, id)
	}
	return ids
}

// RPCEndpoint returns the primary RPC endpoint for a chain.
func RPCEndpoint(chainID uint64) (string, error) {
	info, ok := chainRegistry[chainID]
	if !ok || len(info.RPCEndpoints) == 0 {
		return "", fmt.Errorf("no RPC endpoint for chain %d", chainID)
	}
	return info.RPCEndpoints[0], nil
}

// SetRPCEndpoints overrides the RPC endpoints for a chain, typically from
// config. Unknown chains are ignored.
func SetRPCEndpoints(chainID uint64, endpoints []string) {
	if info, ok := chainRegistry[chainID]; ok && len(endpoints) > 0 {
		info.RPCEndpoints = endpoints
	}
}
