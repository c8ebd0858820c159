package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// ID is an opaque record identifier. The backend may encode it as a JSON string
// or a JSON number; ID keeps the encoding it was decoded from so it round-trips
// unchanged.
type ID struct {
	raw     string
	numeric bool
}

// StringID returns an identifier that encodes as a JSON string.
func StringID(s string) ID { return ID{raw: s} }

// NumericID returns an identifier that encodes as a JSON number.
func NumericID(n int64) ID { return ID{raw: strconv.FormatInt(n, 10), numeric: true} }

func (id ID) String() string { return id.raw }

func (id ID) IsZero() bool { return id.raw == "" }

func (id ID) MarshalJSON() ([]byte, error) {
	if id.numeric {
		return []byte(id.raw), nil
	}
	return json.Marshal(id.raw)
}

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*id = ID{}
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("decode id: %w", err)
		}
		*id = ID{raw: s}
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("decode id: %w", err)
	}
	*id = ID{raw: n.String(), numeric: true}
	return nil
}

// RFP is a Request for Proposal record as returned by GET /api/rfps.
type RFP struct {
	ID          ID     `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Section is an ordered, headed block of text belonging to one RFP.
type Section struct {
	ID      ID     `json:"id"`
	RFPID   ID     `json:"rfp_id"`
	Heading string `json:"heading"`
	Content string `json:"content"`
	Order   int    `json:"order"`
}

// NewRFP is the body of POST /api/rfps.
type NewRFP struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// NewSection is the body of POST /api/sections.
type NewSection struct {
	RFPID   ID     `json:"rfp_id"`
	Heading string `json:"heading"`
	Content string `json:"content"`
	Order   int    `json:"order"`
}

// GenerateRequest is the body of POST /api/generate.
type GenerateRequest struct {
	RFPTitle       string `json:"rfp_title"`
	SectionHeading string `json:"section_heading"`
	Context        string `json:"context"`
	Tone           Tone   `json:"tone"`
}

type generateResponse struct {
	Text string `json:"text"`
}

// PingResult describes a successful connectivity check.
type PingResult struct {
	StatusCode int
	Latency    time.Duration
	RFPs       int
}
