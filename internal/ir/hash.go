package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// The version suffix enables future algorithm migration.
const (
	DomainRule = "streamrule/rule/v1"
)

// hashWithDomain computes SHA-256 with domain separation.
// Format: SHA256(domain + 0x00 + data)
// The null byte separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// RuleID computes the content-addressed ID of a finished rule.
// Two rules with the same name, package, arity and item list (including
// variable names) share an ID.
func RuleID(r *Rule) (string, error) {
	canonical, err := MarshalCanonical(RuleToIR(r))
	if err != nil {
		return "", fmt.Errorf("RuleID: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainRule, canonical), nil
}

// MustRuleID is like RuleID but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustRuleID(r *Rule) string {
	id, err := RuleID(r)
	if err != nil {
		panic(err)
	}
	return id
}
