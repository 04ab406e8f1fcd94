package gst

// StateInfo is the state/district pair resolved from a GSTIN state code.
type StateInfo struct {
	State    string
	District string
}

// stateCodes maps GSTIN state codes to the state and its principal
// commercial district. Unmapped codes resolve to empty strings, not errors.
var stateCodes = map[string]StateInfo{
	"01": {"Jammu & Kashmir", "Srinagar"},
	"02": {"Himachal Pradesh", "Shimla"},
	"03": {"Punjab", "Chandigarh"},
	"04": {"Chandigarh", "Chandigarh"},
	"05": {"Uttarakhand", "Dehradun"},
	"06": {"Haryana", "Gurugram"},
	"07": {"Delhi", "New Delhi"},
	"08": {"Rajasthan", "Jaipur"},
	"09": {"Uttar Pradesh", "Noida"},
	"10": {"Bihar", "Patna"},
	"11": {"Sikkim", "Gangtok"},
	"12": {"Arunachal Pradesh", "Itanagar"},
	"13": {"Nagaland", "Kohima"},
	"14": {"Manipur", "Imphal"},
	"15": {"Mizoram", "Aizawl"},
	"16": {"Tripura", "Agartala"},
	"17": {"Meghalaya", "Shillong"},
	"18": {"Assam", "Guwahati"},
	"19": {"West Bengal", "Kolkata"},
	"20": {"Jharkhand", "Ranchi"},
	"21": {"Odisha", "Bhubaneswar"},
	"22": {"Chhattisgarh", "Raipur"},
	"23": {"Madhya Pradesh", "Indore"},
	"24": {"Gujarat", "Ahmedabad"},
	"27": {"Maharashtra", "Mumbai"},
	"29": {"Karnataka", "Bengaluru Urban"},
	"30": {"Goa", "Panaji"},
	"32": {"Kerala", "Thiruvananthapuram"},
	"33": {"Tamil Nadu", "Chennai"},
	"34": {"Puducherry", "Puducherry"},
	"35": {"Andaman and Nicobar Islands", "Port Blair"},
	"36": {"Telangana", "Hyderabad"},
	"37": {"Andhra Pradesh", "Visakhapatnam"},
}

// StateForCode resolves a two-digit GSTIN state code.
func StateForCode(code string) StateInfo {
	return stateCodes[code]
}
