package sqlgen

import (
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

const planCacheSize = 512

// placeholder is one @name occurrence in statement text.
type placeholder struct {
	start int
	end   int
	name  string
}

// planCache remembers placeholder layouts by statement text.
type planCache struct {
	cache *lru.Cache[string, []placeholder]
}

func newPlanCache(size int) *planCache {
	if size <= 0 {
		size = planCacheSize
	}
	c, err := lru.New[string, []placeholder](size)
	if err != nil {
		// only returned for a non-positive size
		panic(err)
	}
	return &planCache{cache: c}
}

func (p *planCache) lookup(text string) []placeholder {
	if phs, ok := p.cache.Get(text); ok {
		return phs
	}
	phs := scanPlaceholders(text)
	p.cache.Add(text, phs)
	return phs
}

// scanPlaceholders finds @name placeholders outside quoted text and comments.
// @@name system variables are skipped.
func scanPlaceholders(text string) []placeholder {
	var out []placeholder
	n := len(text)

	for i := 0; i < n; i++ {
		c := text[i]
		switch {
		case c == '\'' || c == '"' || c == '`':
			i = skipQuoted(text, i, c)

		case c == '-' && i+1 < n && text[i+1] == '-':
			for i < n && text[i] != '\n' {
				i++
			}

		case c == '/' && i+1 < n && text[i+1] == '*':
			end := strings.Index(text[i+2:], "*/")
			if end < 0 {
				return out
			}
			i += end + 3

		case c == '@':
			if i+1 < n && text[i+1] == '@' {
				i++
				for i+1 < n && isIdentChar(text[i+1]) {
					i++
				}
				continue
			}
			if i+1 >= n || !isIdentStart(text[i+1]) {
				continue
			}
			j := i + 1
			for j < n && isIdentChar(text[j]) {
				j++
			}
			out = append(out, placeholder{start: i, end: j, name: text[i+1 : j]})
			i = j - 1
		}
	}
	return out
}

// skipQuoted returns the index of the closing quote of the literal at i.
func skipQuoted(text string, i int, quote byte) int {
	for j := i + 1; j < len(text); j++ {
		switch text[j] {
		case '\\':
			if quote != '`' {
				j++
			}
		case quote:
			if j+1 < len(text) && text[j+1] == quote {
				j++
				continue
			}
			return j
		}
	}
	return len(text)
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentChar(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}
