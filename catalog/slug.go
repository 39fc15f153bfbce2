package catalog

import "strings"

var translit = map[rune]string{
	'а': "a", 'б': "b", 'в': "v", 'г': "g", 'д': "d", 'е': "e", 'ё': "yo",
	'ж': "zh", 'з': "z", 'и': "i", 'й': "y", 'к': "k", 'л': "l", 'м': "m",
	'н': "n", 'о': "o", 'п': "p", 'р': "r", 'с': "s", 'т': "t", 'у': "u",
	'ф': "f", 'х': "h", 'ц': "ts", 'ч': "ch", 'ш': "sh", 'щ': "sch",
	'ъ': "", 'ы': "y", 'ь': "", 'э': "e", 'ю': "yu", 'я': "ya",
}

// Slugify lowercases s, transliterates Cyrillic and collapses everything
// outside [a-z0-9] into single hyphens.
func Slugify(s string) string {
	var b strings.Builder
	pendingHyphen := false
	write := func(part string) {
		for _, r := range part {
			if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
				if pendingHyphen && b.Len() > 0 {
					b.WriteByte('-')
				}
				pendingHyphen = false
				b.WriteRune(r)
			} else {
				pendingHyphen = true
			}
		}
	}
	for _, r := range strings.ToLower(s) {
		if t, ok := translit[r]; ok {
			write(t)
			continue
		}
		write(string(r))
	}
	return b.String()
}
