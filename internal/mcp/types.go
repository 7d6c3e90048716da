package mcp

import "github.com/lonniev/dpyc-oracle/pkg/protocol"

type Request = protocol.JSONRPCRequest
type Response = protocol.JSONRPCResponse

type ClientInfo struct {
	Name    string
	Version string
}
