package region

// Zone groups wilayas that share a delivery fee
type Zone string

const (
	Zone0 Zone = "zone0" // Alger
	Zone1 Zone = "zone1" // Center
	Zone2 Zone = "zone2" // Major north
	Zone3 Zone = "zone3" // Central plateaus
	Zone4 Zone = "zone4" // Near south
	Zone5 Zone = "zone5" // Far south

	// DefaultZone applies to codes absent from the zone table
	DefaultZone = Zone2
)

// Fee is the delivery fee for a zone, in DZD
type Fee struct {
	Home int64 `json:"home"`
	Desk int64 `json:"desk"`
}

var zoneFees = map[Zone]Fee{
	Zone0: {Home: 350, Desk: 200},
	Zone1: {Home: 500, Desk: 300},
	Zone2: {Home: 650, Desk: 400},
	Zone3: {Home: 750, Desk: 500},
	Zone4: {Home: 900, Desk: 700},
	Zone5: {Home: 1100, Desk: 850},
}

// Fallback fees for codes without a zone entry
var (
	DefaultHomeFee = zoneFees[DefaultZone].Home
	DefaultDeskFee = zoneFees[DefaultZone].Desk
)

// "30" and "36" have no entry and resolve to the fallback.
var wilayaZones = map[string]Zone{
	"16": Zone0,

	"09": Zone1, "10": Zone1, "26": Zone1, "42": Zone1, "35": Zone1,

	"31": Zone2, "13": Zone2, "27": Zone2, "29": Zone2, "46": Zone2, "48": Zone2,
	"25": Zone2, "19": Zone2, "06": Zone2, "15": Zone2, "18": Zone2, "21": Zone2, "23": Zone2,
	"04": Zone2, "24": Zone2, "34": Zone2, "43": Zone2,

	"17": Zone3, "07": Zone3, "28": Zone3, "14": Zone3, "05": Zone3, "12": Zone3, "39": Zone3,

	"01": Zone4, "02": Zone4, "03": Zone4, "08": Zone4, "20": Zone4, "22": Zone4,
	"32": Zone4, "38": Zone4, "40": Zone4, "41": Zone4, "44": Zone4, "45": Zone4,

	"11": Zone5, "33": Zone5, "37": Zone5, "47": Zone5, "49": Zone5, "50": Zone5, "51": Zone5,
	"52": Zone5, "53": Zone5, "54": Zone5, "55": Zone5, "56": Zone5, "57": Zone5, "58": Zone5,

	"59": Zone3, "60": Zone4, "61": Zone2, "62": Zone3, "63": Zone2, "64": Zone3,
	"65": Zone3, "66": Zone1, "67": Zone3, "68": Zone3, "69": Zone3,
}

// PriceFor returns the home-delivery fee for a wilaya code
func PriceFor(code string) int64 {
	zone, ok := wilayaZones[code]
	if !ok {
		return DefaultHomeFee
	}
	return zoneFees[zone].Home
}

// DeskPriceFor returns the stop-desk fee for a wilaya code
func DeskPriceFor(code string) int64 {
	zone, ok := wilayaZones[code]
	if !ok {
		return DefaultDeskFee
	}
	return zoneFees[zone].Desk
}

// ZoneFor returns the zone classification of a wilaya code
func ZoneFor(code string) Zone {
	if zone, ok := wilayaZones[code]; ok {
		return zone
	}
	return DefaultZone
}

// HasPrice reports whether code has an explicit entry in the price table
func HasPrice(code string) bool {
	_, ok := wilayaZones[code]
	return ok
}

// ZoneFee returns the fee schedule of a zone
func ZoneFee(z Zone) (Fee, bool) {
	f, ok := zoneFees[z]
	return f, ok
}

// PriceEntry is a row of the published price table
type PriceEntry struct {
	Region
	Zone    Zone  `json:"zone"`
	HomeFee int64 `json:"homeFee"`
	DeskFee int64 `json:"deskFee"`
}

// PriceTable returns every region with its resolved fees
func PriceTable() []PriceEntry {
	regions := All()
	out := make([]PriceEntry, 0, len(regions))
	for _, r := range regions {
		out = append(out, PriceEntry{
			Region:  r,
			Zone:    ZoneFor(r.Code),
			HomeFee: PriceFor(r.Code),
			DeskFee: DeskPriceFor(r.Code),
		})
	}
	return out
}
