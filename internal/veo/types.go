package veo

import (
	"encoding/base64"
	"fmt"
)

type AspectRatio string

const (
	AspectWide        AspectRatio = "16:9"
	AspectPortrait    AspectRatio = "9:16"
	AspectSquare      AspectRatio = "1:1"
	AspectClassic     AspectRatio = "4:3"
	AspectClassicTall AspectRatio = "3:4"
)

// AspectRatios lists the ratios the edit form offers, in display order.
func AspectRatios() []AspectRatio {
	return []AspectRatio{AspectWide, AspectPortrait, AspectSquare, AspectClassic, AspectClassicTall}
}

func (a AspectRatio) Valid() bool {
	for _, known := range AspectRatios() {
		if a == known {
			return true
		}
	}
	return false
}

// ParseAspectRatio validates a user-supplied ratio string.
func ParseAspectRatio(s string) (AspectRatio, error) {
	a := AspectRatio(s)
	if !a.Valid() {
		return "", fmt.Errorf("invalid aspect ratio %q (valid: %v)", s, AspectRatios())
	}
	return a, nil
}

const (
	MinVariants = 1
	MaxVariants = 4
)

// GenerateConfig describes one generation request.
type GenerateConfig struct {
	VariantCount int
	AspectRatio  AspectRatio
}

// Normalize clamps the variant count into [MinVariants, MaxVariants], fills
// the default aspect ratio, and rejects unknown ratios.
func (c GenerateConfig) Normalize() (GenerateConfig, error) {
	if c.VariantCount < MinVariants {
		c.VariantCount = MinVariants
	}
	if c.VariantCount > MaxVariants {
		c.VariantCount = MaxVariants
	}
	if c.AspectRatio == "" {
		c.AspectRatio = AspectWide
	}
	if !c.AspectRatio.Valid() {
		return c, fmt.Errorf("invalid aspect ratio %q", c.AspectRatio)
	}
	return c, nil
}

// VideoRef points at one generated video held by the remote service.
type VideoRef struct {
	URI      string
	MIMEType string
}

// Operation is the opaque handle for an in-flight generation job. It is
// refreshed by Poll until Done is set; the remote service is the sole source
// of truth for progress.
type Operation struct {
	Name   string
	Done   bool
	Videos []VideoRef
	// Err carries the remote failure of a completed operation.
	Err error
}

// Payload is a downloaded video ready for inline embedding.
type Payload struct {
	MIMEType string
	Data     []byte
}

// DataURI renders the payload as a self-contained data URI for direct
// playback without touching the network again.
func (p Payload) DataURI() string {
	mime := p.MIMEType
	if mime == "" {
		mime = "video/mp4"
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(p.Data)
}
