package template

import (
	"crypto/md5" // nolint: gosec
	"encoding/hex"
	"strings"
	"unicode"
)

// LogicalID returns the CloudFormation logical ID for a resource in a stack.
//
// The ID is the resource name in PascalCase, stripped of anything that is not
// a letter or a digit, followed by the first 8 characters of the uppercase
// hex encoded MD5 sum of "<stack>/<name>".
//
//   LogicalID("colors", "colorteller-vr") // ColortellerVr1A2B3C4D
func LogicalID(stack, name string) string {
	sum := md5.Sum([]byte(stack + "/" + name)) // nolint: gosec
	suffix := strings.ToUpper(hex.EncodeToString(sum[:]))[:8]
	return pascalCase(name) + suffix
}

// pascalCase converts a name to PascalCase. Characters that are not letters or
// digits are removed and start a new word.
func pascalCase(name string) string {
	var b strings.Builder
	upper := true
	for _, r := range name {
		if r > unicode.MaxASCII || !(unicode.IsLetter(r) || unicode.IsDigit(r)) {
			upper = true
			continue
		}
		if upper {
			r = unicode.ToUpper(r)
			upper = false
		}
		b.WriteRune(r)
	}
	return b.String()
}
