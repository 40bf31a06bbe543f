package entity

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Códigos de sede.
const (
	SiteVC = "VC"
	SiteMF = "MF"
	SiteTF = "TF"
	SiteSF = "SF"
)

// Sites lista las sedes en orden de presentación.
var Sites = []string{SiteVC, SiteMF, SiteTF, SiteSF}

// locationSeparator separa el espacio físico del código de sede ("AULA 1 – VC").
const locationSeparator = " – "

var siteSpaces = []string{
	"ALMACÉN",
	"RECEPCIÓN",
	"SECRETARÍA",
	"DIRECCIÓN",
	"SALA DE PROFESORES",
	"BIBLIOTECA",
	"AULA 1",
	"AULA 2",
	"AULA 3",
	"AULA 4",
}

// Locations es el catálogo fijo de espacios físicos, agrupado por sede.
var Locations = buildLocations()

func buildLocations() []string {
	out := make([]string, 0, len(Sites)*len(siteSpaces))
	for _, site := range Sites {
		for _, space := range siteSpaces {
			out = append(out, norm.NFC.String(space+locationSeparator+site))
		}
	}
	return out
}

// NormalizeLocation devuelve el nombre canónico de la ubicación o false si no pertenece al catálogo.
// Acepta variaciones de mayúsculas, composición Unicode y guion simple en lugar del guion largo.
func NormalizeLocation(s string) (string, bool) {
	s = norm.NFC.String(strings.TrimSpace(s))
	if s == "" {
		return "", false
	}
	s = strings.Replace(s, " - ", locationSeparator, 1)
	for _, loc := range Locations {
		if strings.EqualFold(loc, s) {
			return loc, true
		}
	}
	return "", false
}

// ValidLocation indica si s pertenece al catálogo.
func ValidLocation(s string) bool {
	_, ok := NormalizeLocation(s)
	return ok
}

// LocationSite devuelve el código de sede de una ubicación del catálogo ("" si no tiene).
func LocationSite(location string) string {
	i := strings.LastIndex(location, locationSeparator)
	if i < 0 {
		return ""
	}
	return location[i+len(locationSeparator):]
}

// LocationsBySite agrupa el catálogo por código de sede.
func LocationsBySite() map[string][]string {
	out := make(map[string][]string, len(Sites))
	for _, loc := range Locations {
		site := LocationSite(loc)
		out[site] = append(out[site], loc)
	}
	return out
}
