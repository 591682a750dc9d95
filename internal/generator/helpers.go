package generator

import (
	"strconv"
	"strings"
	"text/template"
)

var templateFuncs = template.FuncMap{
	"plural":    plural,
	"stubCount": stubCount,
}

// plural renders n followed by word, pluralized when n != 1.
func plural(n int, word string) string {
	s := strconv.Itoa(n) + " " + word
	if n == 1 {
		return s
	}
	if strings.HasSuffix(word, "s") {
		return s + "es"
	}
	return s + "s"
}

func stubCount(types []typeModel) int {
	n := 0
	for _, t := range types {
		n += len(t.Stubs)
	}
	return n
}
