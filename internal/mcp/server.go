// Package mcp exposes saved analysis runs as MCP tools.
package mcp

import (
	"context"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

type Server struct {
	db  resultStore
	mcp *sdk.Server
}

func NewServer(db resultStore, version string) *Server {
	s := &Server{
		db: db,
		mcp: sdk.NewServer(&sdk.Implementation{
			Name:    "crosstalk",
			Version: version,
		}, nil),
	}
	s.registerTools()
	return s
}

func (s *Server) Run(ctx context.Context, transport sdk.Transport) error {
	return s.mcp.Run(ctx, transport)
}
