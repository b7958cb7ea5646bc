// Package server implements the MCP (Model Context Protocol) server for
// land-cover analytics tools.
//
// This package provides a JSON-RPC 2.0 server that exposes the statistics
// and map rendering of the service package through the MCP protocol, so an
// MCP client can query land-cover change for the study area.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Statistics:
//   - lulc_area_stats: Per-class area and share of valid pixels
//   - lulc_change_stats: Class transition matrix between two dates
//
// Confidence:
//   - confidence_summary: Min, max, mean, median and coverage
//   - confidence_by_class: Mean confidence per class
//   - confidence_by_change: Changed versus unchanged pixels
//   - confidence_bands: Low, medium and high band counts
//
// Maps:
//   - map_lulc, map_change, map_confidence: Colorized layers as base64 PNG
//   - map_composite: Change layer over land cover
//   - map_legend: Layer colors
//   - map_bounds: Study-area bounds
//
// Catalog:
//   - catalog_list: Available years and change pairs
//
// Every analysis tool accepts either catalog references (year, or
// start_year and end_year) or inline grids given as arrays of rows.
// Supplying both, or neither, is rejected.
//
// # Error Handling
//
// Tool errors are returned as JSON-RPC error responses:
//   - code: -32602 when the arguments are rejected, -32000 when execution fails
//   - message: Human-readable error description
//   - data: {"kind": "precondition" | "not_available" | "no_data" | "internal",
//     "error": the Go error string}
//
// # Usage
//
// The server is typically started by an MCP client:
//
//	srv := server.New(svc, log, version)
//	if err := srv.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
package server
