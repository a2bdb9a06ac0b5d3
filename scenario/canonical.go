package scenario

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
)

// CanonicalBytes renders a scenario as a stable byte sequence: two scenarios
// with the same logical content (same name, description, tags, and exposures
// in the same order) always produce identical bytes, regardless of how the
// values were constructed or what insertion order their metadata maps had.
// Volatile fields (CreatedAt) are excluded. Callers use this for
// reconciliation and caching.
func CanonicalBytes(s Scenario) []byte {
	var buf bytes.Buffer
	buf.WriteByte('{')
	writeKey(&buf, "name")
	writeString(&buf, s.Name)
	buf.WriteByte(',')
	writeKey(&buf, "description")
	writeString(&buf, s.Description)
	buf.WriteByte(',')
	writeKey(&buf, "tags")
	writeStrings(&buf, s.Tags)
	buf.WriteByte(',')
	writeKey(&buf, "exposures")
	buf.WriteByte('[')
	for i, exp := range s.Exposures {
		if i > 0 {
			buf.WriteByte(',')
		}
		writeExposure(&buf, exp)
	}
	buf.WriteString("]}")
	return buf.Bytes()
}

// Digest returns the sha256 hex digest of the canonical byte form.
func Digest(s Scenario) string {
	sum := sha256.Sum256(CanonicalBytes(s))
	return hex.EncodeToString(sum[:])
}

func writeExposure(buf *bytes.Buffer, exp Exposure) {
	fields := []struct {
		key   string
		value string
	}{
		{"trade_id", exp.TradeID},
		{"notional", exp.Notional.String()},
		{"currency", exp.Currency},
		{"product_type", exp.ProductType},
		{"exposure_class", exp.ExposureClass},
		{"quality_step", exp.QualityStep},
		{"counterparty_grade", exp.CounterpartyGrade},
		{"lgd_grade", exp.LGDGrade},
		{"hedging_set", exp.HedgingSet},
	}
	buf.WriteByte('{')
	for i, f := range fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		writeKey(buf, f.key)
		writeString(buf, f.value)
	}
	buf.WriteByte(',')
	writeKey(buf, "metadata")
	buf.WriteByte('{')
	keys := make([]string, 0, len(exp.Metadata))
	for k := range exp.Metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		writeKey(buf, k)
		writeString(buf, exp.Metadata[k])
	}
	buf.WriteString("}}")
}

func writeKey(buf *bytes.Buffer, key string) {
	writeString(buf, key)
	buf.WriteByte(':')
}

func writeString(buf *bytes.Buffer, s string) {
	data, _ := json.Marshal(s)
	buf.Write(data)
}

func writeStrings(buf *bytes.Buffer, values []string) {
	buf.WriteByte('[')
	for i, v := range values {
		if i > 0 {
			buf.WriteByte(',')
		}
		writeString(buf, v)
	}
	buf.WriteByte(']')
}
