// Package pdu implements the binary message codec for the management
// protocol: GetRequest, SetRequest, GetBulkRequest and Response, each a
// length-prefixed, big-endian, self-describing buffer.
package pdu
