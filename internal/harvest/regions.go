package harvest

import "strings"

// countryToRegion maps ISO 3166-1 alpha-2 country codes to the coarse
// regions the frontend groups by. Borderline countries (TR, RU, the
// Caucasus) follow the scientometrics convention of counting as Europe.
var countryToRegion = map[string]string{
	// North America, Central America & Caribbean
	"US": "North America", "CA": "North America", "MX": "North America",
	"GL": "North America", "BZ": "North America", "CR": "North America",
	"GT": "North America", "HN": "North America", "NI": "North America",
	"PA": "North America", "SV": "North America", "CU": "North America",
	"DO": "North America", "HT": "North America", "JM": "North America",
	"TT": "North America", "BB": "North America", "BS": "North America",

	// Europe
	"AL": "Europe", "AD": "Europe", "AM": "Europe", "AT": "Europe",
	"BA": "Europe", "BE": "Europe", "BG": "Europe", "BY": "Europe",
	"CH": "Europe", "CY": "Europe", "CZ": "Europe", "DE": "Europe",
	"DK": "Europe", "EE": "Europe", "ES": "Europe", "FI": "Europe",
	"FR": "Europe", "GB": "Europe", "GE": "Europe", "GR": "Europe",
	"HR": "Europe", "HU": "Europe", "IE": "Europe", "IS": "Europe",
	"IT": "Europe", "LI": "Europe", "LT": "Europe", "LU": "Europe",
	"LV": "Europe", "MC": "Europe", "MD": "Europe", "ME": "Europe",
	"MK": "Europe", "MT": "Europe", "NL": "Europe", "NO": "Europe",
	"PL": "Europe", "PT": "Europe", "RO": "Europe", "RS": "Europe",
	"RU": "Europe", "SE": "Europe", "SI": "Europe", "SK": "Europe",
	"SM": "Europe", "UA": "Europe", "VA": "Europe", "UK": "Europe",
	"TR": "Europe",

	// Asia
	"AE": "Asia", "AF": "Asia", "AZ": "Asia", "BH": "Asia", "BD": "Asia",
	"BN": "Asia", "BT": "Asia", "CN": "Asia", "HK": "Asia", "ID": "Asia",
	"IL": "Asia", "IN": "Asia", "IQ": "Asia", "IR": "Asia", "JO": "Asia",
	"JP": "Asia", "KG": "Asia", "KH": "Asia", "KP": "Asia", "KR": "Asia",
	"KW": "Asia", "KZ": "Asia", "LA": "Asia", "LB": "Asia", "LK": "Asia",
	"MM": "Asia", "MN": "Asia", "MO": "Asia", "MY": "Asia", "NP": "Asia",
	"OM": "Asia", "PH": "Asia", "PK": "Asia", "PS": "Asia", "QA": "Asia",
	"SA": "Asia", "SG": "Asia", "SY": "Asia", "TH": "Asia", "TJ": "Asia",
	"TL": "Asia", "TM": "Asia", "TW": "Asia", "UZ": "Asia", "VN": "Asia",
	"YE": "Asia",

	// Oceania
	"AU": "Oceania", "NZ": "Oceania", "FJ": "Oceania", "PG": "Oceania",
	"SB": "Oceania", "TO": "Oceania", "VU": "Oceania", "WS": "Oceania",
	"NR": "Oceania", "KI": "Oceania", "TV": "Oceania", "FM": "Oceania",
	"MH": "Oceania", "PW": "Oceania",

	// South America
	"AR": "South America", "BO": "South America", "BR": "South America",
	"CL": "South America", "CO": "South America", "EC": "South America",
	"GY": "South America", "PE": "South America", "PY": "South America",
	"SR": "South America", "UY": "South America", "VE": "South America",

	// Africa
	"DZ": "Africa", "AO": "Africa", "BF": "Africa", "BI": "Africa",
	"BJ": "Africa", "BW": "Africa", "CD": "Africa", "CF": "Africa",
	"CG": "Africa", "CI": "Africa", "CM": "Africa", "CV": "Africa",
	"DJ": "Africa", "EG": "Africa", "ER": "Africa", "ET": "Africa",
	"GA": "Africa", "GH": "Africa", "GM": "Africa", "GN": "Africa",
	"GQ": "Africa", "KE": "Africa", "KM": "Africa", "LR": "Africa",
	"LS": "Africa", "LY": "Africa", "MA": "Africa", "MG": "Africa",
	"ML": "Africa", "MR": "Africa", "MU": "Africa", "MW": "Africa",
	"MZ": "Africa", "NA": "Africa", "NE": "Africa", "NG": "Africa",
	"RW": "Africa", "SC": "Africa", "SD": "Africa", "SL": "Africa",
	"SN": "Africa", "SO": "Africa", "SS": "Africa", "ST": "Africa",
	"SZ": "Africa", "TD": "Africa", "TG": "Africa", "TN": "Africa",
	"TZ": "Africa", "UG": "Africa", "ZA": "Africa", "ZM": "Africa",
	"ZW": "Africa",
}

// RegionFromCountry maps a country code to its coarse region, falling back
// to "Other" for unknown or missing codes.
func RegionFromCountry(code string) string {
	if code == "" {
		return "Other"
	}
	if region, ok := countryToRegion[strings.ToUpper(code)]; ok {
		return region
	}
	return "Other"
}
