// Package region holds the compiled-in table of Algerian wilayas used as
// shipping keys, together with their delivery fees and zone classification.
package region

import (
	"sort"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Region is a first-level administrative region (wilaya)
type Region struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

var wilayas = map[string]string{
	"01": "Adrar",
	"02": "Chlef",
	"03": "Laghouat",
	"04": "Oum El Bouaghi",
	"05": "Batna",
	"06": "Béjaïa",
	"07": "Biskra",
	"08": "Béchar",
	"09": "Blida",
	"10": "Bouira",
	"11": "Tamanrasset",
	"12": "Tébessa",
	"13": "Tlemcen",
	"14": "Tiaret",
	"15": "Tizi Ouzou",
	"16": "Alger",
	"17": "Djelfa",
	"18": "Jijel",
	"19": "Sétif",
	"20": "Saïda",
	"21": "Skikda",
	"22": "Sidi Bel Abbès",
	"23": "Annaba",
	"24": "Guelma",
	"25": "Constantine",
	"26": "Médéa",
	"27": "Mostaganem",
	"28": "M'Sila",
	"29": "Mascara",
	"30": "Ouargla",
	"31": "Oran",
	"32": "El Bayadh",
	"33": "Illizi",
	"34": "Bordj Bou Arréridj",
	"35": "Boumerdès",
	"36": "El Tarf",
	"37": "Tindouf",
	"38": "Tissemsilt",
	"39": "El Oued",
	"40": "Khenchela",
	"41": "Souk Ahras",
	"42": "Tipaza",
	"43": "Mila",
	"44": "Aïn Defla",
	"45": "Naâma",
	"46": "Aïn Témouchent",
	"47": "Ghardaïa",
	"48": "Relizane",
	"49": "Timimoun",
	"50": "Bordj Badji Mokhtar",
	"51": "Ouled Djellal",
	"52": "Béni Abbès",
	"53": "In Salah",
	"54": "In Guezzam",
	"55": "Touggourt",
	"56": "Djanet",
	"57": "El M'Ghair",
	"58": "El Meniaa",
	"59": "Aflou",
	"60": "Barika",
	"61": "Ksar Chellala",
	"62": "Messaad",
	"63": "Aïn Oussera",
	"64": "Bou Saâda",
	"65": "El Abiodh Sidi Cheikh",
	"66": "El Kantara",
	"67": "Bir El Ater",
	"68": "Ksar El Boukhari",
	"69": "El Aricha",
}

var (
	sortedCodes []string
	byName      map[string]string
)

func init() {
	sortedCodes = make([]string, 0, len(wilayas))
	byName = make(map[string]string, len(wilayas))
	for code, name := range wilayas {
		sortedCodes = append(sortedCodes, code)
		byName[foldName(name)] = code
	}
	sort.Strings(sortedCodes)
}

// All returns every region ordered by code
func All() []Region {
	out := make([]Region, 0, len(sortedCodes))
	for _, code := range sortedCodes {
		out = append(out, Region{Code: code, Name: wilayas[code]})
	}
	return out
}

// Lookup returns the region for a code
func Lookup(code string) (Region, bool) {
	name, ok := wilayas[code]
	if !ok {
		return Region{}, false
	}
	return Region{Code: code, Name: name}, true
}

// IsKnown reports whether code is a wilaya code
func IsKnown(code string) bool {
	_, ok := wilayas[code]
	return ok
}

// NameFor returns the display name of a code, or "" when unknown
func NameFor(code string) string {
	return wilayas[code]
}

// ParseCode resolves user input to a canonical two-digit code. It accepts
// "16", "1" and display names regardless of case or accents.
func ParseCode(input string) (string, bool) {
	s := strings.TrimSpace(input)
	if s == "" {
		return "", false
	}
	if n, err := strconv.Atoi(s); err == nil {
		if n <= 0 || n > 99 {
			return "", false
		}
		code := strconv.Itoa(n)
		if len(code) == 1 {
			code = "0" + code
		}
		return code, IsKnown(code)
	}
	code, ok := byName[foldName(s)]
	return code, ok
}

// foldName strips diacritics, case and punctuation so "Béjaïa", "bejaia"
// and "BEJAIA" compare equal.
func foldName(s string) string {
	// chains carry state, so one is built per call
	chain := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(chain, s)
	if err != nil {
		folded = s
	}
	var b strings.Builder
	for _, r := range strings.ToLower(folded) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
