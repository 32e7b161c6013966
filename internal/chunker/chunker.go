// ABOUTME: Sliding-window text chunker with configurable size and overlap
// ABOUTME: De-overlapped concatenation of the segments reconstructs the input exactly
package chunker

import "fmt"

// Chunker splits text into overlapping, order-preserving segments.
// Window arithmetic runs on runes so a multi-byte character never
// straddles a segment boundary.
type Chunker struct {
	size    int
	overlap int
}

// New creates a Chunker. Requires 0 < overlap < size.
func New(size, overlap int) (*Chunker, error) {
	if size <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", size)
	}
	if overlap <= 0 || overlap >= size {
		return nil, fmt.Errorf("chunk overlap must satisfy 0 < overlap < size, got size=%d overlap=%d", size, overlap)
	}
	return &Chunker{size: size, overlap: overlap}, nil
}

// Chunk splits text into ordered segments of at most size runes, each
// window stepping size-overlap runes past the previous one. The last
// segment may be shorter. Text shorter than one window yields exactly
// one segment equal to the full text. Empty text yields no segments.
func (c *Chunker) Chunk(text string) []string {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}
	if len(runes) <= c.size {
		return []string{text}
	}

	step := c.size - c.overlap
	var segments []string
	for start := 0; ; start += step {
		end := start + c.size
		if end >= len(runes) {
			segments = append(segments, string(runes[start:]))
			break
		}
		segments = append(segments, string(runes[start:end]))
	}
	return segments
}

// Reconstruct joins segments back into the original text by dropping
// each segment's leading overlap. Inverse of Chunk for any valid input.
func (c *Chunker) Reconstruct(segments []string) string {
	if len(segments) == 0 {
		return ""
	}

	out := []rune(segments[0])
	for _, seg := range segments[1:] {
		runes := []rune(seg)
		if len(runes) > c.overlap {
			out = append(out, runes[c.overlap:]...)
		}
	}
	return string(out)
}
