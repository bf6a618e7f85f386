package catalog

// The region table maps administrative display names to the opaque
// identifiers the upstream site understands. The identifiers follow the
// <name>-<numericId> convention and are used verbatim in fetch URLs; nothing
// here validates them beyond that.

// RegionMap is city → district → neighborhood → region identifier
type RegionMap map[string]map[string]map[string]string

var regions = RegionMap{
	"서울특별시": {
		"강남구": {
			"개포동":  "개포동-5971",
			"논현동":  "논현동-5973",
			"대치동":  "대치동-5974",
			"도곡동":  "도곡동-5975",
			"삼성동":  "삼성동-5976",
			"세곡동":  "세곡동-5977",
			"신사동":  "신사동-5978",
			"압구정동": "압구정동-5979",
			"역삼동":  "역삼동-5980",
			"일원동":  "일원동-5981",
			"청담동":  "청담동-5982",
		},
		"강동구": {
			"강일동": "강일동-6055",
			"고덕동": "고덕동-6056",
			"길동":  "길동-6057",
			"둔촌동": "둔촌동-6058",
			"명일동": "명일동-6061",
			"상일동": "상일동-6062",
			"성내동": "성내동-6063",
			"암사동": "암사동-6064",
			"천호동": "천호동-6065",
		},
		"강북구": {
			"번동":  "번동-6066",
			"수유동": "수유동-6067",
			"우이동": "우이동-6068",
		},
		"광진구": {
			"구의동": "구의동-6059",
			"광장동": "광장동-79",
			"능동":  "능동-6095",
			"자양동": "자양동-6060",
			"중곡동": "중곡동-6096",
			"화양동": "화양동-72",
		},
		"구로구": {
			"가리봉동": "가리봉동-6097",
			"개봉동":  "개봉동-6098",
			"고척동":  "고척동-6099",
			"구로동":  "구로동-6100",
			"궁동":   "궁동-6101",
			"신도림동": "신도림동-6102",
			"오류동":  "오류동-6103",
			"온수동":  "온수동-6104",
			"천왕동":  "천왕동-6105",
			"항동":   "항동-6106",
		},
		"금천구": {
			"가산동": "가산동-6107",
			"독산동": "독산동-6108",
			"시흥동": "시흥동-6109",
		},
	},
	"경기도": {
		"성남시 분당구": {
			"정자동": "정자동-1234",
			"서현동": "서현동-1235",
			"수내동": "수내동-1236",
			"야탑동": "야탑동-1237",
			"이매동": "이매동-1238",
			"판교동": "판교동-1239",
		},
		"성남시 수정구": {
			"단대동": "단대동-1240",
			"신흥동": "신흥동-1241",
			"수진동": "수진동-1242",
			"태평동": "태평동-1243",
		},
		"용인시 기흥구": {
			"구갈동": "구갈동-1248",
			"기흥동": "기흥동-1249",
			"보라동": "보라동-1250",
			"상갈동": "상갈동-1251",
			"신갈동": "신갈동-1252",
		},
		"용인시 수지구": {
			"대화동":  "대화동-1253",
			"동천동":  "동천동-1254",
			"상현동":  "상현동-1255",
			"풍덕천동": "풍덕천동-1256",
		},
	},
}

// Regions returns the full region table
func Regions() RegionMap {
	return regions
}

// LookupID resolves a neighborhood display name to its region identifier
func LookupID(name string) (string, bool) {
	for _, districts := range regions {
		for _, neighborhoods := range districts {
			if id, ok := neighborhoods[name]; ok {
				return id, true
			}
		}
	}
	return "", false
}
