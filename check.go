package xmlb

import (
	"strings"

	"github.com/pkg/errors"
)

// isNameStartChar reports whether r may begin an XML Name, per the
// NameStartChar production of XML 1.0 (5th edition). Note that ":" is
// a legal name character; prefix handling is layered on top of this.
func isNameStartChar(r rune) bool {
	return r == ':' || r == '_' ||
		(r >= 'A' && r <= 'Z') ||
		(r >= 'a' && r <= 'z') ||
		(r >= 0xC0 && r <= 0xD6) ||
		(r >= 0xD8 && r <= 0xF6) ||
		(r >= 0xF8 && r <= 0x2FF) ||
		(r >= 0x370 && r <= 0x37D) ||
		(r >= 0x37F && r <= 0x1FFF) ||
		(r >= 0x200C && r <= 0x200D) ||
		(r >= 0x2070 && r <= 0x218F) ||
		(r >= 0x2C00 && r <= 0x2FEF) ||
		(r >= 0x3001 && r <= 0xD7FF) ||
		(r >= 0xF900 && r <= 0xFDCF) ||
		(r >= 0xFDF0 && r <= 0xFFFD) ||
		(r >= 0x10000 && r <= 0xEFFFF)
}

// isNameChar reports whether r may appear after the first character of
// an XML Name (NameChar production).
func isNameChar(r rune) bool {
	return isNameStartChar(r) ||
		r == '-' || r == '.' || r == 0xB7 ||
		(r >= '0' && r <= '9') ||
		(r >= 0x300 && r <= 0x36F) ||
		(r >= 0x203F && r <= 0x2040)
}

// CheckName ensures a string satisfies the Name production rule:
// https://www.w3.org/TR/xml/#NT-Name
func CheckName(name string) error {
	if name == "" {
		return errors.New("name is empty")
	}
	for i, rn := range name {
		if i == 0 {
			if !isNameStartChar(rn) {
				return errors.Errorf("invalid name at position %d: %c", i, rn)
			}
			continue
		}
		if !isNameChar(rn) {
			return errors.Errorf("invalid name at position %d: %c", i, rn)
		}
	}
	return nil
}

// CheckQName ensures a string satisfies the QName production rule:
// at most one colon, splitting the name into two non-empty NCNames.
// https://www.w3.org/TR/xml-names/#NT-QName
func CheckQName(name string) error {
	if name == "" {
		return errors.New("name is empty")
	}
	local := name
	if i := strings.IndexByte(name, ':'); i >= 0 {
		prefix := name[:i]
		local = name[i+1:]
		if err := checkNCName(prefix); err != nil {
			return err
		}
	}
	return checkNCName(local)
}

func checkNCName(name string) error {
	if name == "" {
		return errors.New("name has an empty prefix or local part")
	}
	for i, rn := range name {
		if rn == ':' {
			return errors.Errorf("invalid name at position %d: %c", i, rn)
		}
		if i == 0 {
			if !isNameStartChar(rn) {
				return errors.Errorf("invalid name at position %d: %c", i, rn)
			}
			continue
		}
		if !isNameChar(rn) {
			return errors.Errorf("invalid name at position %d: %c", i, rn)
		}
	}
	return nil
}

// CheckChars ensures a string contains only characters matched by the
// Char production: https://www.w3.org/TR/xml/#NT-Char
func CheckChars(chars string) error {
	for i, rn := range chars {
		if rn == 0x9 || rn == 0xA || rn == 0xD ||
			(rn >= 0x20 && rn <= 0xD7FF) ||
			(rn >= 0xE000 && rn <= 0xFFFD) ||
			(rn >= 0x10000 && rn <= 0x10FFFF) {
			continue
		}
		return errors.Errorf("invalid character at position %d: %U", i, rn)
	}
	return nil
}

// CheckPubID validates a string according to the PubidLiteral
// production rule: https://www.w3.org/TR/xml/#NT-PubidLiteral
func CheckPubID(pubid string) error {
	for i, rn := range pubid {
		if rn == 0x20 || rn == 0xD || rn == 0xA || rn == '\'' ||
			rn == '-' || rn == '(' || rn == ')' || rn == '+' ||
			rn == ',' || rn == '.' || rn == '/' || rn == ':' ||
			rn == '=' || rn == '?' || rn == ';' || rn == '!' ||
			rn == '*' || rn == '#' || rn == '@' || rn == '$' ||
			rn == '_' || rn == '%' ||
			(rn >= 'A' && rn <= 'Z') ||
			(rn >= 'a' && rn <= 'z') ||
			(rn >= '0' && rn <= '9') {
			continue
		}
		return errors.Errorf("invalid public identifier at position %d: %c", i, rn)
	}
	return nil
}

// SplitQName splits a qualified name into its prefix and local part.
// A name without a colon has an empty prefix.
func SplitQName(qname string) (string, string) {
	if i := strings.IndexByte(qname, ':'); i >= 0 {
		return qname[:i], qname[i+1:]
	}
	return "", qname
}
