package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/gowebpki/jcs"
	"go.trai.ch/zerr"
)

// canonicalDigest hashes the RFC 8785 canonical JSON form of v, so the result does not
// depend on map ordering or whitespace.
func canonicalDigest(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", zerr.Wrap(err, "failed to marshal for hashing")
	}
	canonical, err := jcs.Transform(data)
	if err != nil {
		return "", zerr.Wrap(err, "failed to canonicalize json")
	}
	hash := sha256.Sum256(canonical)
	return hex.EncodeToString(hash[:]), nil
}

// RevisionID computes the deterministic revision of a lock.
// The lock is hashed with an empty revision_id field.
func RevisionID(lock *PolicyLock) (string, error) {
	unrevised := *lock
	unrevised.RevisionID = ""
	return canonicalDigest(&unrevised)
}

// CookbookIdentifier computes the content identifier of a resolved cookbook from its provenance.
func CookbookIdentifier(name, version string, src CookbookSource) (string, error) {
	opts := src.SourceOptions
	if opts == nil {
		opts = map[string]string{}
	}
	return canonicalDigest(struct {
		Name          string            `json:"name"`
		Version       string            `json:"version"`
		Origin        string            `json:"origin"`
		SourceOptions map[string]string `json:"source_options"`
	}{name, version, src.Origin, opts})
}

// DottedDecimalIdentifier converts the first 14 hex digits of an identifier into
// three integers joined by dots, e.g. "4a3f" "07c1" "e91b20" becomes "19007.1985.15276832".
func DottedDecimalIdentifier(identifier string) string {
	if len(identifier) < 14 {
		return ""
	}
	parts := []string{identifier[0:4], identifier[4:8], identifier[8:14]}
	out := make([]string, len(parts))
	for i, p := range parts {
		n, err := strconv.ParseUint(p, 16, 64)
		if err != nil {
			return ""
		}
		out[i] = strconv.FormatUint(n, 10)
	}
	return strings.Join(out, ".")
}
