package profile

import "sort"

// Directory is the static deanery → parish table used by the profile form
// and the manage-screen filter dropdowns. Fixed at build time.
var Directory = map[string][]string{
	"Ajnala": {
		"Ajnala ",
		"Chamiyari",
		"Chogawan",
		"Chuchakwal",
		"Karyal",
		"Othian",
		"Punga",
		"Ramdas",
	},
	"Amritsar": {
		"Amritsar Cantt.",
		"Bharariwal",
		"Gumtala",
		"Khasa",
		"Lahorigate",
		"Majitha Road",
		"Nai Abadi",
		"Rajasansi",
	},
	"Dhariwal": {
		"Batala",
		"Dhariwal",
		"Dialgarh",
		"Kalanaur",
		"Mastkot",
		"Naushera Majja Singh",
		"Qadian",
	},
	"Fatehgarh Churian": {
		"Fatehgarh Churian",
		"Dera Baba Nanak",
		"Dharamkot Randhawa",
		"Ghanie Ke Banger",
		"Kotli",
		"Machi Nangal",
		"Majitha",
		"Pakharpura",
	},
	"Ferozpur": {
		"Faridkot",
		"Ferozepur Badhni Mahafariste Wala",
		"Ferozpur Canal Colony",
		"Ferozpur Cantt",
		"Ferozpur City",
		"Gulami Wala",
		"Guru Har Sahai",
		"Lohgarh-Sur Singh Wala (Station)",
		"Mamdot",
		"Mudki (Station)",
		"Sadiq",
		"Talwandi Bhai",
		"Tehna, Faridkot",
	},
	"Gurdaspur": {
		"Balun (Station)",
		"Dalhousie",
		"Dina Nagar",
		"Dorangala",
		"Gurdaspur",
		"Jandwal, Pathankot",
		"Kahnuwan",
		"Narot Jaimal Singh (Station)",
		"Pathankot City",
		"Puranashalla",
		"Sidhwan Jamita, Joura Chitra",
		"Sujanpur, Pathankot",
	},
	"Hoshiarpur": {
		"Kakkon",
		"Baijnath",
		"Balachaur",
		"Bassi Bahian",
		"Bhunga",
		"Gaggal",
		"Garshankar",
		"Jindwari",
		"Mehtiana, Khanaura",
		"Nandachaur",
		"Nangal",
		"Palampur",
		"Una",
		"Yol Camp",
	},
	"Jalandhar Cantt.": {
		"Apra",
		"Banga (Station)",
		"Behram (Station)",
		"Dhina-Chittewani",
		"Jalandhar Cantt",
		"Jandiala Manjki",
		"Nawanshahar",
		"Phagwara",
		"Phulriwal",
		"Rawalpindi",
		"Sansarpur",
	},
	"Jalandhar City": {
		"Adampur",
		"Bootan",
		"Chogitty",
		"Gakhalan",
		"Jalandhar City",
		"Lambapind",
		"Maqsudan",
	},
	"Kapurthala": {
		"Hussainpur- Lodhi Bhulana",
		"Kapurthala",
		"Kishangarh",
		"Kartarpur",
		"Mehatpur",
		"Nakodar",
		"Shahkot",
		"Sultanpur Lodhi",
	},
	"Ludhiana": {
		"BRS Nagar",
		"Jagraon",
		"Jalandhar Bypass, Ludhiana",
		"Kidwai Nagar",
		"Phillaur",
		"Raekot",
		"Sarabha Nagar",
	},
	"Moga": {
		"Baghapurana",
		"Buggipura, Moga (Station)",
		"Buttar, Moga (Station)",
		"Dharamkot, Moga",
		"Kot-Ise-Khan, Moga (Station)",
		"Makhu",
		"Moga",
		"Nihal Singh Wala, Moga (Station)",
		"Singhanwala, Moga",
		"Zira",
	},
	"Muktsar": {
		"Abohar",
		"Bhagsar",
		"Danewala",
		"Fazilka",
		"Gidderbaha (Station)",
		"Jaiton",
		"Jalalabad",
		"Kotkapura",
		"Malout Pind",
		"Malout",
		"Muktsar, Bir Sarkar",
		"Muktsar",
		"Panjgaraian (Station)",
		"Sikhwala",
	},
	"Sahnewal": {
		"Bhammian Kalan (Station)",
		"Jamalpur",
		"Khanna",
		"Khanpur-Jassar-Sangowal-Rania",
		"Machhiwara",
		"Machian Khurd",
		"Sahnewal",
		"Samrala",
	},
	"Tanda": {
		"Bhogpur",
		"Bholath",
		"Dasuya",
		"Mukerian",
		"Tanda",
		"Sri Hargobindpur",
	},
	"Tarn Taran": {
		"Akalgarh (Station)",
		"Beas",
		"Bhikhiwind",
		"Bhojian",
		"Chabhal (Station)",
		"Fatehabad (Station)",
		"Harike",
		"Jandiala Guru",
		"Khem Karan",
		"Patti",
		"Tarn Taran",
	},
}

// Deaneries returns the directory's deanery names in sorted order.
func Deaneries() []string {
	names := make([]string, 0, len(Directory))
	for name := range Directory {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParishesIn returns the parishes of a deanery, or nil for an unknown deanery.
func ParishesIn(deanery string) []string {
	parishes, ok := Directory[deanery]
	if !ok {
		return nil
	}
	out := make([]string, len(parishes))
	copy(out, parishes)
	return out
}
