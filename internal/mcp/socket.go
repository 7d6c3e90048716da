package mcp

import (
	"context"
	"encoding/json"
	"net"

	"github.com/sourcegraph/jsonrpc2"
)

// ServeListener accepts connections and serves each one as an
// independent JSON-RPC session over the shared tool registry. Used for
// the optional TCP transport; stdio remains the default.
func (s *Server) ServeListener(ctx context.Context, l net.Listener) error {
	go func() {
		<-ctx.Done()
		l.Close()
	}()

	for {
		conn, err := l.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		log.Info("client connected", "remote", conn.RemoteAddr().String())

		stream := jsonrpc2.NewBufferedStream(conn, jsonrpc2.PlainObjectCodec{})
		rpcConn := jsonrpc2.NewConn(ctx, stream, jsonrpc2.AsyncHandler(&socketHandler{server: s}))

		go func(c *jsonrpc2.Conn, remote string) {
			<-c.DisconnectNotify()
			log.Info("client disconnected", "remote", remote)
		}(rpcConn, conn.RemoteAddr().String())
	}
}

type socketHandler struct {
	server *Server
}

func (h *socketHandler) Handle(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) {
	inner := &Request{
		JSONRPC: "2.0",
		Method:  req.Method,
	}
	if !req.Notif {
		inner.ID = req.ID.String()
	}

	if req.Params != nil {
		var params map[string]interface{}
		if err := json.Unmarshal(*req.Params, &params); err != nil {
			if !req.Notif {
				conn.ReplyWithError(ctx, req.ID, &jsonrpc2.Error{
					Code:    jsonrpc2.CodeParseError,
					Message: "Parse error",
				})
			}
			return
		}
		inner.Params = params
	}

	resp := h.server.HandleRequest(inner)
	if req.Notif {
		return
	}

	if resp.Error != nil {
		if err := conn.ReplyWithError(ctx, req.ID, &jsonrpc2.Error{
			Code:    int64(resp.Error.Code),
			Message: resp.Error.Message,
		}); err != nil {
			log.Warn("failed to send error reply", "error", err)
		}
		return
	}

	if err := conn.Reply(ctx, req.ID, resp.Result); err != nil {
		log.Warn("failed to send reply", "error", err)
	}
}
