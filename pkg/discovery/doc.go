// Package discovery advertises and browses ranging hosts over mDNS.
//
// A host advertises one "_pilot-uwb._tcp" service carrying its control-link
// port and capability hints in TXT records. Accessories browse for hosts
// and connect to the advertised address. Discovery is best-effort: hosts
// remain reachable by direct address when mDNS is unavailable.
package discovery
