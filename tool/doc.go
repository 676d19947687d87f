// Package tool exposes board operations as MCP tools.
//
// Server registers one tool per board operation on a mark3labs/mcp-go
// server. Every tool takes an optional "instance" argument naming a
// configured backend; handlers resolve a client through
// businessmap.Factory, reject mutations on read-only instances, and
// return results as JSON text content. Calls run wrapped in observe
// middleware.
package tool
