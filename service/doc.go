// Package service provides reusable operations for turning NFe invoice
// batches into spreadsheet reports, synchronously or as background jobs.
//
// This package is intended for embedding report generation into other
// programs without going through the HTTP or MCP surfaces.
package service
