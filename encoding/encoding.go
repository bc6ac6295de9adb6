// Package encoding wraps the various encodings provided by
// golang.org/x/text/encoding behind the names that appear in XML
// declarations. Part of the reason this exists is that package names
// such as "unicode" clash with the stdlib, and it is easier to hide
// all of that behind a single registry.
package encoding

import (
	"sort"
	"strings"

	enc "golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/encoding/unicode"
)

// encodings maps canonical names to their implementations.
var encodings = map[string]enc.Encoding{
	"utf-8":          unicode.UTF8,
	"utf-16":         unicode.UTF16(unicode.BigEndian, unicode.UseBOM),
	"utf-16be":       unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM),
	"utf-16le":       unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM),
	"euc-jp":         japanese.EUCJP,
	"shift_jis":      japanese.ShiftJIS,
	"iso-2022-jp":    japanese.ISO2022JP,
	"big5":           traditionalchinese.Big5,
	"euc-kr":         korean.EUCKR,
	"gbk":            simplifiedchinese.GBK,
	"gb18030":        simplifiedchinese.GB18030,
	"hz-gb2312":      simplifiedchinese.HZGB2312,
	"ibm437":         charmap.CodePage437,
	"ibm866":         charmap.CodePage866,
	"iso-8859-1":     charmap.ISO8859_1,
	"iso-8859-2":     charmap.ISO8859_2,
	"iso-8859-3":     charmap.ISO8859_3,
	"iso-8859-4":     charmap.ISO8859_4,
	"iso-8859-5":     charmap.ISO8859_5,
	"iso-8859-6":     charmap.ISO8859_6,
	"iso-8859-7":     charmap.ISO8859_7,
	"iso-8859-8":     charmap.ISO8859_8,
	"iso-8859-10":    charmap.ISO8859_10,
	"iso-8859-13":    charmap.ISO8859_13,
	"iso-8859-14":    charmap.ISO8859_14,
	"iso-8859-15":    charmap.ISO8859_15,
	"iso-8859-16":    charmap.ISO8859_16,
	"koi8-r":         charmap.KOI8R,
	"koi8-u":         charmap.KOI8U,
	"macintosh":      charmap.Macintosh,
	"x-mac-cyrillic": charmap.MacintoshCyrillic,
	"windows-874":    charmap.Windows874,
	"windows-1250":   charmap.Windows1250,
	"windows-1251":   charmap.Windows1251,
	"windows-1252":   charmap.Windows1252,
	"windows-1253":   charmap.Windows1253,
	"windows-1254":   charmap.Windows1254,
	"windows-1255":   charmap.Windows1255,
	"windows-1256":   charmap.Windows1256,
	"windows-1257":   charmap.Windows1257,
	"windows-1258":   charmap.Windows1258,
	"x-user-defined": charmap.XUserDefined,
}

// aliases holds alternate spellings that differ by more than case or
// punctuation from the canonical name.
var aliases = map[string]string{
	"cp932":             "shift_jis",
	"jis":               "iso-2022-jp",
	"latin1":            "iso-8859-1",
	"latin2":            "iso-8859-2",
	"cp437":             "ibm437",
	"cp866":             "ibm866",
	"maccyrillic":       "x-mac-cyrillic",
	"macintoshcyrillic": "x-mac-cyrillic",
	"cp1250":            "windows-1250",
	"cp1251":            "windows-1251",
	"cp1252":            "windows-1252",
	"cp1253":            "windows-1253",
	"cp1254":            "windows-1254",
	"cp1255":            "windows-1255",
	"cp1256":            "windows-1256",
	"cp1257":            "windows-1257",
	"cp1258":            "windows-1258",
}

var lookup map[string]enc.Encoding

func init() {
	lookup = make(map[string]enc.Encoding, len(encodings)+len(aliases))
	for name, e := range encodings {
		lookup[canonical(name)] = e
	}
	for alias, name := range aliases {
		lookup[canonical(alias)] = encodings[name]
	}
}

// canonical folds a name for lookup purposes. Case, dashes,
// underscores and spaces are not significant.
func canonical(name string) string {
	name = strings.ToLower(name)
	return strings.Map(func(r rune) rune {
		switch r {
		case '-', '_', ' ':
			return -1
		}
		return r
	}, name)
}

// Load returns the encoding registered under name, or nil if the name
// is unknown. Lookup is case insensitive and tolerates the usual
// spelling variations, so "UTF8", "utf-8" and "Utf_8" all resolve to
// the same encoding.
func Load(name string) enc.Encoding {
	return lookup[canonical(name)]
}

// Names returns the canonical names of all registered encodings in
// sorted order.
func Names() []string {
	names := make([]string, 0, len(encodings))
	for name := range encodings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
