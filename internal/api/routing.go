package api

import "strings"

const (
	DefaultPlatform = "br1"
	DefaultRegional = "americas"
)

var regionalRoutes = map[string]string{
	"br1":  "americas",
	"na1":  "americas",
	"la1":  "americas",
	"la2":  "americas",
	"euw1": "europe",
	"eun1": "europe",
	"tr1":  "europe",
	"ru":   "europe",
	"me1":  "europe",
	"kr":   "asia",
	"jp1":  "asia",
	"oc1":  "sea",
	"sg2":  "sea",
	"tw2":  "sea",
	"vn2":  "sea",
	"ph2":  "sea",
	"th2":  "sea",
}

// short region names as players type them
var platformAliases = map[string]string{
	"br":   "br1",
	"na":   "na1",
	"lan":  "la1",
	"las":  "la2",
	"euw":  "euw1",
	"eune": "eun1",
	"eun":  "eun1",
	"tr":   "tr1",
	"me":   "me1",
	"jp":   "jp1",
	"oce":  "oc1",
	"oc":   "oc1",
	"sg":   "sg2",
	"tw":   "tw2",
	"vn":   "vn2",
	"ph":   "ph2",
	"th":   "th2",
}

// PlatformRoute maps a stored region to a platform host such as br1. Unknown
// regions fall back to DefaultPlatform and report ok=false.
func PlatformRoute(region string) (string, bool) {
	r := strings.ToLower(strings.TrimSpace(region))
	if _, ok := regionalRoutes[r]; ok {
		return r, true
	}
	if p, ok := platformAliases[r]; ok {
		return p, true
	}
	return DefaultPlatform, false
}

// RegionalRoute collapses a region into one of the routing realms used by
// account-v1 and match-v5.
func RegionalRoute(region string) (string, bool) {
	p, ok := PlatformRoute(region)
	return regionalRoutes[p], ok
}
