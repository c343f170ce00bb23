package boxprice

import (
	"fmt"
	"strings"
)

// CID format: BRAND|PARENTBRAND|LINE|VITOLA|VITOLA|LENGTHxRING|WRAPPERCODE|BOXn.
// Eight pipe-delimited tokens, spaces stripped. The vitola token is
// duplicated in positions 4 and 5, reserved for future divergence.
const cidTokens = 8

// wrapperCodes maps normalized wrapper names to their fixed CID codes.
// Unknown wrappers fall back to the first three letters of the wrapper name,
// uppercased. The fallback is lossy and collision-prone across distinct
// wrapper names; collisions surface through audit mismatches, not here.
var wrapperCodes = map[string]string{
	"natural":                      "CAM",
	"connecticut broadleaf":        "CT",
	"connecticut broadleaf oscuro": "CT",
	"ecuadorian sungrown":          "SUN",
	"candela":                      "NAT",
	"connecticut shade":            "CT",
	"rosado sungrown":              "SUN",
	"ecuadorian rosado":            "SUN",
	"maduro":                       "MAD",
	"claro":                        "CLA",
}

// CIDAttrs holds the normalized attribute tuple a CID is derived from.
// Correctness depends on callers supplying already-normalized strings.
type CIDAttrs struct {
	Brand       string
	ParentBrand string // defaults to Brand when blank
	Line        string
	Vitola      string
	Length      string // e.g. "6.5"
	RingGauge   string // e.g. "52"
	Wrapper     string
	BoxQuantity int
}

// GenerateCID derives the canonical identifier for an attribute tuple.
// Generation is total: it never fails.
func GenerateCID(a CIDAttrs) string {
	brand := cidToken(a.Brand)
	parent := cidToken(a.ParentBrand)
	if parent == "" {
		parent = brand
	}
	line := cidToken(a.Line)
	vitola := cidToken(a.Vitola)
	size := fmt.Sprintf("%sx%s", a.Length, a.RingGauge)

	return strings.Join([]string{
		brand, parent, line, vitola, vitola, size,
		WrapperCode(a.Wrapper),
		fmt.Sprintf("BOX%d", a.BoxQuantity),
	}, "|")
}

// WrapperCode returns the CID code for a wrapper name.
func WrapperCode(wrapper string) string {
	if code, ok := wrapperCodes[strings.ToLower(strings.TrimSpace(wrapper))]; ok {
		return code
	}
	stripped := []rune(cidToken(wrapper))
	if len(stripped) > 3 {
		stripped = stripped[:3]
	}
	return string(stripped)
}

// ParseCID extracts the vitola and size tokens from a CID for matching use.
// Returns EINVALID unless the identifier has exactly eight tokens.
func ParseCID(cid string) (vitola, size string, err error) {
	tokens := strings.Split(cid, "|")
	if len(tokens) != cidTokens {
		return "", "", Errorf(EINVALID, "malformed CID %q: expected %d tokens, got %d", cid, cidTokens, len(tokens))
	}
	return tokens[3], tokens[5], nil
}

func cidToken(s string) string {
	return strings.ReplaceAll(strings.ToUpper(s), " ", "")
}
