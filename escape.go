package xmlb

import "strings"

var (
	escQuot = []byte("&quot;")
	escAmp  = []byte("&amp;")
	escLt   = []byte("&lt;")
	escGt   = []byte("&gt;")
	escTab  = []byte("&#x9;")
	escNl   = []byte("&#xA;")
	escCr   = []byte("&#xD;")
)

var predefinedEntities = []string{"&lt;", "&gt;", "&amp;", "&apos;", "&quot;"}

// entityRefAt reports whether s[i:] begins with one of the five
// predefined entity references. Only these are recognized by the
// no-double-encoding mode; any other "&" is escaped as usual.
func entityRefAt(s string, i int) bool {
	for _, ent := range predefinedEntities {
		if strings.HasPrefix(s[i:], ent) {
			return true
		}
	}
	return false
}

// escapeTextData escapes character data for element content. The
// default mode escapes "&", "<" and ">" unconditionally; the
// no-double-encoding mode leaves recognized entity references alone
// and additionally turns carriage returns into numeric references.
func escapeTextData(s string, noDoubleEncoding bool) string {
	var buf []byte
	last := 0
	for i := 0; i < len(s); i++ {
		var esc []byte
		switch s[i] {
		case '&':
			if noDoubleEncoding && entityRefAt(s, i) {
				continue
			}
			esc = escAmp
		case '<':
			esc = escLt
		case '>':
			esc = escGt
		case '\r':
			if !noDoubleEncoding {
				continue
			}
			esc = escCr
		default:
			continue
		}
		buf = append(buf, s[last:i]...)
		buf = append(buf, esc...)
		last = i + 1
	}
	if buf == nil {
		return s
	}
	return string(append(buf, s[last:]...))
}

// escapeAttrValue escapes an attribute value. On top of the text
// escapes the double quote is always escaped, and the
// no-double-encoding mode escapes tab, newline and carriage return as
// numeric references so they survive attribute-value normalization.
func escapeAttrValue(s string, noDoubleEncoding bool) string {
	var buf []byte
	last := 0
	for i := 0; i < len(s); i++ {
		var esc []byte
		switch s[i] {
		case '&':
			if noDoubleEncoding && entityRefAt(s, i) {
				continue
			}
			esc = escAmp
		case '<':
			esc = escLt
		case '>':
			esc = escGt
		case '"':
			esc = escQuot
		case '\t':
			if !noDoubleEncoding {
				continue
			}
			esc = escTab
		case '\n':
			if !noDoubleEncoding {
				continue
			}
			esc = escNl
		case '\r':
			if !noDoubleEncoding {
				continue
			}
			esc = escCr
		default:
			continue
		}
		buf = append(buf, s[last:i]...)
		buf = append(buf, esc...)
		last = i + 1
	}
	if buf == nil {
		return s
	}
	return string(append(buf, s[last:]...))
}
