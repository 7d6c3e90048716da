package mcp

import (
	"bufio"
	"encoding/json"
	"io"

	"github.com/lonniev/dpyc-oracle/internal/tools"
	"github.com/lonniev/dpyc-oracle/pkg/protocol"
)

// maxLineSize bounds a single stdio request. Signed events and member
// documents fit comfortably.
const maxLineSize = 4 * 1024 * 1024

type Server struct {
	registry *tools.Registry
	handler  *Handler
}

func NewServer(registry *tools.Registry) *Server {
	return &Server{
		registry: registry,
		handler:  NewHandler(registry),
	}
}

func (s *Server) HandleRequest(req *Request) *Response {
	return s.handler.Handle(req)
}

// ProcessStream serves newline-delimited JSON-RPC until the reader is
// drained. This is the stdio transport MCP clients launch us with.
func (s *Server) ProcessStream(reader io.Reader, writer io.Writer) error {
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)

	out := protocol.NewFlushWriter(writer)
	encoder := json.NewEncoder(out)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req Request
		if err := json.Unmarshal(line, &req); err != nil {
			resp := &Response{
				JSONRPC: "2.0",
				ID:      nil,
				Error: &protocol.JSONRPCError{
					Code:    -32700,
					Message: "Parse error",
				},
			}
			if err := encoder.Encode(resp); err != nil {
				return err
			}
			out.Flush()
			continue
		}

		resp := s.HandleRequest(&req)
		if req.ID == nil {
			// Notifications get no reply, even when handling failed.
			continue
		}
		if err := encoder.Encode(resp); err != nil {
			return err
		}
		if err := out.Flush(); err != nil {
			return err
		}
	}

	return scanner.Err()
}

func (s *Server) Registry() *tools.Registry {
	return s.registry
}
