package kivo

// StudentResponse is the envelope returned by the student endpoint.
// Code carries the API's own status; a payload is only cached when it
// reports success.
type StudentResponse struct {
	Code int          `json:"code"`
	Data *StudentData `json:"data"`
}

// StudentData carries the identity fields consulted by the normalization
// pipeline. The remote payload has many more fields; they are deliberately
// not modeled here.
type StudentData struct {
	FamilyName   string `json:"family_name"`
	GivenName    string `json:"given_name"`
	Skin         string `json:"skin"`
	FamilyNameCN string `json:"family_name_cn"`
	GivenNameCN  string `json:"given_name_cn"`
	SkinCN       string `json:"skin_cn"`
	FamilyNameJP string `json:"family_name_jp"`
	GivenNameJP  string `json:"given_name_jp"`
	SkinJP       string `json:"skin_jp"`
	FamilyNameTW string `json:"family_name_zh_tw"`
	GivenNameTW  string `json:"given_name_zh_tw"`
	SkinTW       string `json:"skin_zh_tw"`
	FamilyNameEN string `json:"family_name_en"`
	GivenNameEN  string `json:"given_name_en"`
	FamilyNameKR string `json:"family_name_kr"`
	GivenNameKR  string `json:"given_name_kr"`

	// School is the school/category id. School 30 marks official accounts.
	School int `json:"school"`

	// Spine lists the spine ids referenced by this student.
	Spine []int `json:"spine"`
}

// IsEmpty reports whether the data payload carries no usable content,
// which happens when the API returns an empty data object.
func (d *StudentData) IsEmpty() bool {
	if d == nil {
		return true
	}
	return d.FamilyName == "" && d.GivenName == "" && d.Skin == "" &&
		d.FamilyNameCN == "" && d.GivenNameCN == "" && d.SkinCN == "" &&
		d.FamilyNameJP == "" && d.GivenNameJP == "" && d.SkinJP == "" &&
		d.FamilyNameTW == "" && d.GivenNameTW == "" && d.SkinTW == "" &&
		d.FamilyNameEN == "" && d.GivenNameEN == "" &&
		d.FamilyNameKR == "" && d.GivenNameKR == "" &&
		d.School == 0 && len(d.Spine) == 0
}

// SpineResponse is the envelope returned by the spine endpoint. A response
// without a data object is rejected as malformed.
type SpineResponse struct {
	Code int        `json:"code"`
	Data *SpineData `json:"data"`
}

// SpineData is one visual variant of a student.
type SpineData struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Type   string `json:"type"`
	Remark string `json:"remark"`
}
