package util

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

func RemoveDuplicateStrings(strings []string, ignoreList []string) []string {
	presentStrings := make(map[string]bool)
	var list []string

	for _, ignoreString := range ignoreList {
		presentStrings[ignoreString] = true
	}

	for _, item := range strings {
		if _, value := presentStrings[item]; !value && item != "" {
			presentStrings[item] = true
			list = append(list, item)
		}
	}
	return list
}

// ContainsAnyFold reports whether s contains any of the needles, ignoring case and diacritics
func ContainsAnyFold(s string, needles []string) bool {
	folded := StripDiacritics(strings.ToLower(s))

	for _, needle := range needles {
		needle = StripDiacritics(strings.ToLower(needle))
		if needle != "" && strings.Contains(folded, needle) {
			return true
		}
	}

	return false
}

// Letters NFD leaves whole
var ligatureReplacer = strings.NewReplacer("œ", "oe", "Œ", "OE", "æ", "ae", "Æ", "AE", "ß", "ss")

// StripDiacritics decomposes s and drops the combining marks, so "é" becomes "e" and "œ" becomes "oe"
func StripDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

	stripped, _, err := transform.String(t, ligatureReplacer.Replace(s))
	if err != nil {
		return s
	}

	return stripped
}

// Slugify turns a display name into a URL-safe identifier: "Gare de l'Est" becomes "gare-de-l-est"
func Slugify(name string) string {
	lowered := StripDiacritics(strings.ToLower(name))

	var slug strings.Builder
	slug.Grow(len(lowered))

	pendingHyphen := false
	for _, r := range lowered {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingHyphen && slug.Len() > 0 {
				slug.WriteByte('-')
			}
			pendingHyphen = false
			slug.WriteRune(r)
		} else {
			pendingHyphen = true
		}
	}

	return slug.String()
}
