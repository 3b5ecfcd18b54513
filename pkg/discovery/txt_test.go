package discovery

import (
	"errors"
	"net"
	"testing"
)

func TestHostTXTRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		info HostInfo
	}{
		{name: "full", info: HostInfo{Name: "Living Room", Port: 5554, MaxSessions: 8}},
		{name: "no name", info: HostInfo{Port: 5554, MaxSessions: 2}},
		{name: "no max sessions", info: HostInfo{Name: "Host", Port: 5554}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txt := EncodeHostTXT(&tt.info)

			version, name, maxSessions, err := DecodeHostTXT(txt)
			if err != nil {
				t.Fatalf("DecodeHostTXT failed: %v", err)
			}
			if version != TXTVersion {
				t.Errorf("version = %d, want %d", version, TXTVersion)
			}
			if name != tt.info.Name {
				t.Errorf("name = %q, want %q", name, tt.info.Name)
			}
			if maxSessions != tt.info.MaxSessions {
				t.Errorf("maxSessions = %d, want %d", maxSessions, tt.info.MaxSessions)
			}
		})
	}
}

func TestDecodeHostTXTErrors(t *testing.T) {
	tests := []struct {
		name string
		txt  TXTRecordMap
		want error
	}{
		{name: "missing version", txt: TXTRecordMap{TXTKeyName: "x"}, want: ErrMissingRequired},
		{name: "garbage version", txt: TXTRecordMap{TXTKeyVersion: "abc"}, want: ErrInvalidTXT},
		{name: "zero version", txt: TXTRecordMap{TXTKeyVersion: "0"}, want: ErrInvalidTXT},
		{name: "garbage max", txt: TXTRecordMap{TXTKeyVersion: "1", TXTKeyMaxSessions: "-"}, want: ErrInvalidTXT},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, _, err := DecodeHostTXT(tt.txt); !errors.Is(err, tt.want) {
				t.Errorf("DecodeHostTXT = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestStringsToTXTRecords(t *testing.T) {
	txt := StringsToTXTRecords([]string{"ver=1", "name=Host A", "flag", ""})

	if txt["ver"] != "1" {
		t.Errorf("ver = %q, want %q", txt["ver"], "1")
	}
	if txt["name"] != "Host A" {
		t.Errorf("name = %q, want %q", txt["name"], "Host A")
	}
	if _, ok := txt["flag"]; !ok {
		t.Error("bare flag entry missing")
	}
	if _, ok := txt[""]; ok {
		t.Error("empty entry should be skipped")
	}
}

func TestHostServiceAddr(t *testing.T) {
	svc := &HostService{Port: 5554, Addresses: []net.IP{net.ParseIP("192.168.1.10")}}
	if got := svc.Addr(); got != "192.168.1.10:5554" {
		t.Errorf("Addr() = %q", got)
	}

	empty := &HostService{Port: 5554}
	if got := empty.Addr(); got != "" {
		t.Errorf("Addr() on empty = %q, want empty", got)
	}
}

func TestMergeAddresses(t *testing.T) {
	a := []net.IP{net.ParseIP("10.0.0.1")}
	b := []net.IP{net.ParseIP("10.0.0.1"), net.ParseIP("10.0.0.2")}

	merged := mergeAddresses(a, b)
	if len(merged) != 2 {
		t.Errorf("merged %d addresses, want 2", len(merged))
	}
}
