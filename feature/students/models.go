package students

import (
	"sort"
	"strconv"
)

// StudentForm is one canonical output row: a unique normalized file id
// within a student, with the composed name variants for every target
// language.
type StudentForm struct {
	FileID   string
	CharID   int
	SpineID  int
	FullName string
	Name     string
	SkinName string
	NameCN   string
	NameJP   string
	NameTW   string
	NameEN   string
	NameKR   string
}

// FormHeader is the CSV header for StudentForm rows. Order matches Record.
var FormHeader = []string{
	"file_id", "char_id", "spine_id", "full_name", "name", "skin_name",
	"name_cn", "name_jp", "name_tw", "name_en", "name_kr",
}

// Record returns the CSV row for this form.
func (f StudentForm) Record() []string {
	return []string{
		f.FileID,
		strconv.Itoa(f.CharID),
		strconv.Itoa(f.SpineID),
		f.FullName,
		f.Name,
		f.SkinName,
		f.NameCN,
		f.NameJP,
		f.NameTW,
		f.NameEN,
		f.NameKR,
	}
}

// SkippedRecord is one audit entry explaining why a student or spine was
// excluded from the canonical output.
type SkippedRecord struct {
	StudentID int
	// SpineID is nil when the whole student was skipped.
	SpineID     *int
	Reason      SkipReason
	SpineName   string
	SpineRemark string
	Name        string
	NameJP      string
	NameEN      string
	School      string
}

// SkippedHeader is the CSV header for SkippedRecord rows. Order matches Record.
var SkippedHeader = []string{
	"student_id", "spine_id", "reason", "spine_name", "spine_remark",
	"name", "name_jp", "name_en", "school",
}

// Record returns the CSV row for this record.
func (r SkippedRecord) Record() []string {
	spineID := ""
	if r.SpineID != nil {
		spineID = strconv.Itoa(*r.SpineID)
	}
	return []string{
		strconv.Itoa(r.StudentID),
		spineID,
		r.Reason.String(),
		r.SpineName,
		r.SpineRemark,
		r.Name,
		r.NameJP,
		r.NameEN,
		r.School,
	}
}

// SortForms orders forms by (char id, file id) for stable output.
func SortForms(forms []StudentForm) {
	sort.Slice(forms, func(i, j int) bool {
		if forms[i].CharID != forms[j].CharID {
			return forms[i].CharID < forms[j].CharID
		}
		return forms[i].FileID < forms[j].FileID
	})
}

// SortSkipped orders records by (student id, spine id). Whole-student
// records have no spine id and sort before any real spine id.
func SortSkipped(records []SkippedRecord) {
	key := func(r SkippedRecord) int {
		if r.SpineID == nil {
			return -1
		}
		return *r.SpineID
	}
	sort.Slice(records, func(i, j int) bool {
		if records[i].StudentID != records[j].StudentID {
			return records[i].StudentID < records[j].StudentID
		}
		return key(records[i]) < key(records[j])
	})
}
