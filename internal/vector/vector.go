// Package vector holds the storage codec for portfolio embeddings and the
// similarity primitive used by ranking.
//
// Embeddings are persisted as a comma-delimited string of decimal floats
// with "." as the decimal separator regardless of locale. Rows written by
// the previous system use the same format, so the codec is an interop
// contract and must not change shape.
package vector

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const delimiter = ","

// Encode serializes a vector into the delimited storage form. An empty
// vector encodes to the empty string.
func Encode(values []float32) string {
	if len(values) == 0 {
		return ""
	}
	parts := make([]string, 0, len(values))
	for _, v := range values {
		parts = append(parts, strconv.FormatFloat(float64(v), 'f', -1, 32))
	}
	return strings.Join(parts, delimiter)
}

// Decode parses the delimited storage form. A blank input yields an empty
// vector; any unparseable component fails the whole decode.
func Decode(s string) ([]float32, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, delimiter)
	values := make([]float32, 0, len(parts))
	for i, part := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(part), 32)
		if err != nil {
			return nil, fmt.Errorf("parse embedding component %d: %w", i, err)
		}
		values = append(values, float32(f))
	}
	return values, nil
}

// Cosine returns the cosine similarity of a and b, or ok=false when the
// score is undefined: length mismatch, empty input, or a zero-magnitude
// side. Callers exclude such candidates instead of scoring them 0.
func Cosine(a, b []float32) (float32, bool) {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0, false
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0, false
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB))), true
}
