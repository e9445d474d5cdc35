// Package nsmap provides bidirectional URI <-> prefixed-name mapping over a
// workspace's namespace table.
//
// Both directions are best-effort: unresolvable values pass through
// verbatim and no function here ever returns an error.
package nsmap

import (
	"strings"

	"github.com/tapdeck-labs/tapdeck/pkg/core"
)

// Compress converts a full URI to prefix:localPart form.
// The first namespace (in list order) whose URI is a literal prefix of the
// input wins. If nothing matches, the input is returned unchanged.
func Compress(uri string, namespaces []*core.Namespace) string {
	for _, ns := range namespaces {
		if ns.URI != "" && strings.HasPrefix(uri, ns.URI) {
			return ns.Prefix + ":" + strings.TrimPrefix(uri, ns.URI)
		}
	}
	return uri
}

// Expand converts a prefixed name to a full URI.
// Values containing "://" are already full URIs and are returned unchanged;
// this check takes priority over prefix matching, even if the text before
// "://" happens to match a known prefix. Unknown prefixes pass through.
func Expand(value string, namespaces []*core.Namespace) string {
	if strings.Contains(value, "://") {
		return value
	}

	prefix, local, ok := strings.Cut(value, ":")
	if !ok {
		return value
	}

	for _, ns := range namespaces {
		if ns.Prefix == prefix {
			return ns.URI + local
		}
	}
	return value
}
