package nlu

// defaultKeywords is the landmark table the keyword scan walks in
// order. Keys are lowercase triggers, values are the place names the
// alias catalog understands.
func defaultKeywords() []placeKeyword {
	return []placeKeyword{
		// Major buildings.
		{"goodwin", "goodwin hall"},
		{"lavery", "lavery hall"},
		{"squires", "squires"},
		{"torgersen", "torgersen hall"},
		{"mcbryde", "mcbryde hall"},
		{"norris", "norris hall"},
		{"randolph", "randolph hall"},
		{"newman", "newman library"},
		{"dietrick", "dietrick hall"},
		{"west egg", "west eggleston"},
		{"east egg", "east eggleston"},

		// Dining.
		{"d2", "d2"},
		{"owens", "owens food court"},
		{"hokie grill", "hokie grill"},
		{"turner", "turner place"},

		// Residence halls.
		{"barringer", "barringer hall"},
		{"hoge", "hoge hall"},
		{"johnson", "johnson hall"},
		{"lee", "lee hall"},
		{"miles", "miles hall"},
		{"pridemore", "pridemore hall"},
		{"slusher", "slusher hall"},
		{"vawter", "vawter hall"},

		// Off-campus areas.
		{"main", "main street"},
		{"progress", "progress street"},
		{"university city", "university city"},
		{"ucb", "university city"},
		{"toms creek", "toms creek"},
		{"hethwood", "hethwood"},
		{"harding", "harding avenue"},
		{"patrick henry", "patrick henry drive"},
		{"crc", "corporate research center"},
		{"downtown", "downtown"},

		// Athletics.
		{"cassell", "cassell coliseum"},
		{"lane", "lane stadium"},
		{"english field", "english field"},
		{"aquatic", "aquatic center"},
		{"mccomas", "mccomas hall"},

		// Parking and general campus.
		{"perry", "perry street"},
		{"parking", "campus"},
		{"campus", "campus"},
		{"vt", "virginia tech"},
		{"tech", "virginia tech"},
	}
}
