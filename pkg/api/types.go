package api

import (
	"github.com/luxgrid/pxld/pkg/codec"
	"github.com/luxgrid/pxld/pkg/pxfile"
)

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// RegisterRequest asks the server to open a capture file
type RegisterRequest struct {
	Path       string `json:"path"`
	SkipVerify bool   `json:"skip_verify,omitempty"`
}

// FileSummary is one registered file as served by the API
type FileSummary struct {
	ID   string      `json:"id"`
	Info pxfile.Info `json:"info"`
}

// FrameMeta is one row of a frame metadata listing
type FrameMeta struct {
	FrameID     uint32 `json:"frame_id"`
	TimestampMS int64  `json:"timestamp_ms"`
	Flags       uint16 `json:"flags,omitempty"`
	Slaves      int    `json:"slaves"`
	PixelBytes  uint32 `json:"pixel_bytes"`
}

// SlaveInfo is one slave table row as served by the API
type SlaveInfo struct {
	SlaveID      uint8  `json:"slave_id"`
	Flags        uint8  `json:"flags,omitempty"`
	ChannelStart uint16 `json:"channel_start"`
	ChannelCount uint16 `json:"channel_count"`
	PixelCount   uint16 `json:"pixel_count"`
	DataOffset   uint32 `json:"data_offset"`
	DataLength   uint32 `json:"data_length"`
}

// FrameDetail is a single frame's metadata plus its slave table
type FrameDetail struct {
	FrameMeta
	SlaveTable []SlaveInfo `json:"slave_table"`
}

// ServerConfig holds configuration for the API server
type ServerConfig struct {
	Port    int
	Bind    string
	APIKey  string // empty disables authentication
	DataDir string // frame-index cache location; empty disables the cache
}

func slaveInfoFromEntry(e codec.SlaveEntry) SlaveInfo {
	return SlaveInfo{
		SlaveID:      e.SlaveID,
		Flags:        e.Flags,
		ChannelStart: e.ChannelStart,
		ChannelCount: e.ChannelCount,
		PixelCount:   e.PixelCount,
		DataOffset:   e.DataOffset,
		DataLength:   e.DataLength,
	}
}
