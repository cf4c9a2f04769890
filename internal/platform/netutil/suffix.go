package netutil

import (
	"sort"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// IsPublicSuffix indica si el dominio es en sí mismo un sufijo público
// (p. ej. "com" o "co.uk"). Una búsqueda %.co.uk devolvería media Internet.
func IsPublicSuffix(domain string) bool {
	domain = strings.ToLower(strings.TrimSuffix(strings.TrimSpace(domain), "."))
	if domain == "" {
		return false
	}
	suffix, _ := publicsuffix.PublicSuffix(domain)
	return suffix == domain
}

// RegistrableDomain devuelve el eTLD+1 del host, o "" si no tiene uno.
func RegistrableDomain(host string) string {
	host = strings.ToLower(strings.TrimSuffix(strings.TrimSpace(host), "."))
	if host == "" {
		return ""
	}
	registrable, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return ""
	}
	return registrable
}

// RegistrableDomains agrupa los hosts por eTLD+1 y devuelve la lista ordenada
// de dominios registrables distintos. Los hosts sin eTLD+1 se ignoran.
func RegistrableDomains(hosts []string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, h := range hosts {
		r := RegistrableDomain(h)
		if r == "" {
			continue
		}
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	sort.Strings(out)
	return out
}
