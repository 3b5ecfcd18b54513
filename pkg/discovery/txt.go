package discovery

import (
	"fmt"
	"strconv"
	"strings"
)

// TXTRecordMap is a map of TXT record key-value pairs.
type TXTRecordMap map[string]string

// EncodeHostTXT creates TXT records for a host advertisement.
func EncodeHostTXT(info *HostInfo) TXTRecordMap {
	txt := make(TXTRecordMap)
	txt[TXTKeyVersion] = strconv.Itoa(TXTVersion)
	if info.Name != "" {
		txt[TXTKeyName] = info.Name
	}
	if info.MaxSessions > 0 {
		txt[TXTKeyMaxSessions] = strconv.Itoa(info.MaxSessions)
	}
	return txt
}

// DecodeHostTXT parses TXT records from a host advertisement.
func DecodeHostTXT(txt TXTRecordMap) (version int, name string, maxSessions int, err error) {
	verStr, ok := txt[TXTKeyVersion]
	if !ok {
		return 0, "", 0, fmt.Errorf("%w: %s", ErrMissingRequired, TXTKeyVersion)
	}
	version, err = strconv.Atoi(verStr)
	if err != nil || version <= 0 {
		return 0, "", 0, fmt.Errorf("%w: %s=%q", ErrInvalidTXT, TXTKeyVersion, verStr)
	}

	name = txt[TXTKeyName]

	if maxStr, ok := txt[TXTKeyMaxSessions]; ok {
		maxSessions, err = strconv.Atoi(maxStr)
		if err != nil || maxSessions < 0 {
			return 0, "", 0, fmt.Errorf("%w: %s=%q", ErrInvalidTXT, TXTKeyMaxSessions, maxStr)
		}
	}
	return version, name, maxSessions, nil
}

// TXTRecordsToStrings converts a TXT record map to "key=value" strings.
func TXTRecordsToStrings(txt TXTRecordMap) []string {
	out := make([]string, 0, len(txt))
	for k, v := range txt {
		out = append(out, k+"="+v)
	}
	return out
}

// StringsToTXTRecords parses "key=value" strings into a TXT record map.
// Entries without '=' are treated as boolean flags with empty values.
func StringsToTXTRecords(entries []string) TXTRecordMap {
	txt := make(TXTRecordMap, len(entries))
	for _, entry := range entries {
		if k, v, found := strings.Cut(entry, "="); found {
			txt[k] = v
		} else if entry != "" {
			txt[entry] = ""
		}
	}
	return txt
}

func portString(port uint16) string {
	return strconv.FormatUint(uint64(port), 10)
}
