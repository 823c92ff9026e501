// Package lsps0 implements the LSPS0 transport layer framing for Lightning
// Service Providers.
package lsps0

import (
	"encoding/json"
	"fmt"
)

// Lokichain LSPS custom message type ID
const LSPS_MESSAGE_TYPE_ID = 51610

// Method names for LSPS0
const (
	MethodListProtocols = "lsps0.list_protocols"
)

// JSON-RPC 2.0 error codes used across the LSPS services.
const (
	ErrCodeParseError     = -32700
	ErrCodeInvalidParams  = -32602
	ErrCodeMethodNotFound = -32601
	ErrCodeInternalError  = -32603
)

// JsonRpcRequest represents a JSON-RPC 2.0 request
type JsonRpcRequest struct {
	Jsonrpc string      `json:"jsonrpc"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params,omitempty"`
	ID      string      `json:"id"`
}

// JsonRpcResponse represents a JSON-RPC 2.0 response
type JsonRpcResponse struct {
	Jsonrpc string        `json:"jsonrpc"`
	Result  interface{}   `json:"result,omitempty"`
	Error   *JsonRpcError `json:"error,omitempty"`
	ID      string        `json:"id"`
}

// JsonRpcError represents a JSON-RPC 2.0 error
type JsonRpcError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Error implements the error interface
func (e *JsonRpcError) Error() string {
	return fmt.Sprintf("JSON-RPC error %d: %s", e.Code, e.Message)
}

// ListProtocolsRequest is the request for listing supported protocols
type ListProtocolsRequest struct{}

// ListProtocolsResponse contains the list of supported protocols
type ListProtocolsResponse struct {
	Protocols []int `json:"protocols"`
}

// NewResponse builds a success response correlated to the given request id.
func NewResponse(requestID string, result interface{}) *JsonRpcResponse {
	return &JsonRpcResponse{
		Jsonrpc: "2.0",
		Result:  result,
		ID:      requestID,
	}
}

// NewErrorResponse builds an error response correlated to the given request id.
func NewErrorResponse(requestID string, code int, message string, data interface{}) *JsonRpcResponse {
	return &JsonRpcResponse{
		Jsonrpc: "2.0",
		Error: &JsonRpcError{
			Code:    code,
			Message: message,
			Data:    data,
		},
		ID: requestID,
	}
}

// EncodeJsonRpc encodes a JSON-RPC request or response
func EncodeJsonRpc(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

// DecodeJsonRpcRequest decodes a JSON-RPC request
func DecodeJsonRpcRequest(data []byte) (*JsonRpcRequest, error) {
	var req JsonRpcRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, err
	}
	return &req, nil
}

// DecodeParams re-decodes the loosely typed params of a decoded request into
// the concrete params struct for a method.
func DecodeParams(params interface{}, v interface{}) error {
	raw, err := json.Marshal(params)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, v)
}
