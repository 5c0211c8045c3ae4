package discovery

import "strings"

// EncodeTXT builds the TXT record strings for a service advertisement.
func EncodeTXT(info *ServiceInfo) []string {
	version := info.Version
	if version == "" {
		version = Version
	}
	return []string{
		TXTKeyCPath + "=" + info.CPath,
		TXTKeyVersion + "=" + version,
		TXTKeyStack + "=" + Stack,
	}
}

// DecodeTXT parses TXT record strings into a key/value map. Entries
// without '=' become keys with an empty value, matching DNS-SD boolean
// attributes.
func DecodeTXT(txt []string) map[string]string {
	attrs := make(map[string]string, len(txt))
	for _, entry := range txt {
		if entry == "" {
			continue
		}
		key, value, _ := strings.Cut(entry, "=")
		attrs[key] = value
	}
	return attrs
}
