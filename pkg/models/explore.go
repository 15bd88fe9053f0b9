package models

import "path/filepath"

// FileRef is the inbound payload: a reference to one file to explore.
// Data takes precedence over Path when both are set.
type FileRef struct {
	Name string `json:"name,omitempty"`
	Path string `json:"path,omitempty"`
	Data []byte `json:"-"`
}

func (f FileRef) IsEmpty() bool {
	return len(f.Data) == 0 && f.Path == ""
}

func (f FileRef) DisplayName() string {
	switch {
	case f.Name != "":
		return f.Name
	case f.Path != "":
		return filepath.Base(f.Path)
	default:
		return "<memory>"
	}
}

// ExploreResult is the outbound payload produced for one FileRef.
type ExploreResult struct {
	FileName        string          `json:"file_name"`
	FileSize        int64           `json:"file_size"`
	Version         string          `json:"version"`
	ObjectCount     int             `json:"object_count"`
	Objects         []ObjectSummary `json:"objects"`
	Truncated       bool            `json:"truncated,omitempty"`
	Trailer         TrailerInfo     `json:"trailer"`
	PageCount       int             `json:"page_count"`
	Pages           []PageInfo      `json:"pages,omitempty"`
	RoundTrip       RoundTripStats  `json:"round_trip"`
	ValidationError string          `json:"validation_error,omitempty"`
}

type ObjectSummary struct {
	Number       int    `json:"number"`
	Generation   int    `json:"generation"`
	Kind         string `json:"kind"`
	Type         string `json:"type,omitempty"`
	Offset       int64  `json:"offset,omitempty"`
	Compressed   bool   `json:"compressed,omitempty"`
	ObjectStream int    `json:"object_stream,omitempty"`
}

type TrailerInfo struct {
	Root      string `json:"root,omitempty"`
	Info      string `json:"info,omitempty"`
	Size      int    `json:"size"`
	HasID     bool   `json:"has_id"`
	Encrypted bool   `json:"encrypted"`
}

type PageInfo struct {
	Number     int     `json:"number"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	TextLength int     `json:"text_length,omitempty"`
}

// RoundTripStats compares the input bytes with the re-serialized document.
type RoundTripStats struct {
	InputLength  int    `json:"input_length"`
	InputCRC32   uint32 `json:"input_crc32"`
	OutputLength int    `json:"output_length"`
	OutputCRC32  uint32 `json:"output_crc32"`
	Identical    bool   `json:"identical"`
	Error        string `json:"error,omitempty"`
}
