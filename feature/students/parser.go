package students

import (
	"regexp"
	"strconv"
	"strings"

	"kivo-exporter/core/kivo"
)

// officialSchoolID is the school id used for official (non-playable) accounts.
const officialSchoolID = 30

// acceptedSpineType is the only spine type that yields canonical forms.
const acceptedSpineType = "spr"

// originalIllustrationMark is the remark used for a student's default
// illustration; it carries no skin information and is discarded entirely.
const originalIllustrationMark = "初始立绘"

// skipKeywords excludes spines whose lower-cased name contains any of
// these fragments (internal placeholder assets).
var skipKeywords = []string{"_dummy", "_test"}

// skipSuffixes excludes spines whose lower-cased name ends with any of
// these region/platform variants.
var skipSuffixes = []string{"_cn", "_steam", "_glitch_spr", "_cbt"}

// remarkDescriptorSuffixes are trailing descriptor words stripped from a
// remark before it is compared with the base skin label.
var remarkDescriptorSuffixes = []string{"立绘", "差分"}

// fileIDClassPattern matches class-coded ids (CH/NP plus four digits),
// which are kept upper-case.
var fileIDClassPattern = regexp.MustCompile(`^(?i)(CH|NP)\d{4}$`)

// langVariant describes how to compose one output name column: which
// family/given/skin fields to read and whether the skin descriptor is
// attached.
type langVariant struct {
	key        string
	names      func(d *kivo.StudentData) (family, given, skin string)
	attachSkin bool
}

// langTable is the full set of composed name variants. EN and KR never
// attach a skin descriptor, and neither does the bare "name" variant.
var langTable = []langVariant{
	{
		key:        "full_name",
		names:      func(d *kivo.StudentData) (string, string, string) { return d.FamilyName, d.GivenName, d.Skin },
		attachSkin: true,
	},
	{
		key:   "name",
		names: func(d *kivo.StudentData) (string, string, string) { return d.FamilyName, d.GivenName, "" },
	},
	{
		key:        "cn",
		names:      func(d *kivo.StudentData) (string, string, string) { return d.FamilyNameCN, d.GivenNameCN, d.SkinCN },
		attachSkin: true,
	},
	{
		key:        "jp",
		names:      func(d *kivo.StudentData) (string, string, string) { return d.FamilyNameJP, d.GivenNameJP, d.SkinJP },
		attachSkin: true,
	},
	{
		key:        "tw",
		names:      func(d *kivo.StudentData) (string, string, string) { return d.FamilyNameTW, d.GivenNameTW, d.SkinTW },
		attachSkin: true,
	},
	{
		key:   "en",
		names: func(d *kivo.StudentData) (string, string, string) { return d.FamilyNameEN, d.GivenNameEN, "" },
	},
	{
		key:   "kr",
		names: func(d *kivo.StudentData) (string, string, string) { return d.FamilyNameKR, d.GivenNameKR, "" },
	},
}

// Parser turns raw student and spine payloads into canonical rows plus
// audit records. It is stateless apart from its configuration; one
// instance can be shared across goroutines.
type Parser struct {
	excludedIDs map[int]struct{}
}

// NewParser creates a parser. excludedIDs lists student ids rejected as
// known special cases.
func NewParser(excludedIDs []int) *Parser {
	excluded := make(map[int]struct{}, len(excludedIDs))
	for _, id := range excludedIDs {
		excluded[id] = struct{}{}
	}
	return &Parser{excludedIDs: excluded}
}

// Parse normalizes one student. It returns the canonical forms, the
// per-spine audit records, and a whole-student skip reason when the
// student as a whole is excluded. Exactly one of forms/skips or the
// whole-student reason is populated.
func (p *Parser) Parse(resp *kivo.StudentResponse, studentID int, spines []*kivo.SpineData) ([]StudentForm, []SkippedRecord, *SkipReason) {
	if reason := p.studentSkipReason(resp, studentID); reason != nil {
		return nil, nil, reason
	}

	data := resp.Data

	// Context fields for audit records, computed once per student.
	defaultName := composeName(data.FamilyName, data.GivenName)
	nameJP := composeName(data.FamilyNameJP, data.GivenNameJP)
	nameEN := composeName(data.FamilyNameEN, data.GivenNameEN)
	school := schoolLabel(data.School)

	var forms []StudentForm
	var skipped []SkippedRecord
	seen := make(map[string]struct{})

	for _, spine := range spines {
		if reason := spineSkipReason(spine); reason != nil {
			rec := SkippedRecord{
				StudentID: studentID,
				Reason:    *reason,
				Name:      defaultName,
				NameJP:    nameJP,
				NameEN:    nameEN,
				School:    school,
			}
			if spine != nil {
				id := spine.ID
				rec.SpineID = &id
				rec.SpineName = spine.Name
				rec.SpineRemark = spine.Remark
			}
			skipped = append(skipped, rec)
			continue
		}

		fileID := NormalizeFileID(spine.Name)
		if fileID == "" {
			continue
		}
		if _, dup := seen[fileID]; dup {
			// Same asset reachable through several spine entries; the
			// first occurrence wins and the rest vanish silently.
			continue
		}
		seen[fileID] = struct{}{}

		forms = append(forms, buildForm(data, studentID, spine, fileID))
	}

	if len(forms) == 0 && len(skipped) == 0 {
		return nil, nil, &SkipReason{Kind: ReasonNoForms}
	}
	return forms, skipped, nil
}

// studentSkipReason validates the student payload as a whole.
func (p *Parser) studentSkipReason(resp *kivo.StudentResponse, studentID int) *SkipReason {
	if resp == nil || resp.Data == nil {
		return &SkipReason{Kind: ReasonMissingData}
	}
	if resp.Data.IsEmpty() {
		return &SkipReason{Kind: ReasonEmptyData}
	}
	if resp.Data.School == officialSchoolID {
		return &SkipReason{Kind: ReasonOfficialAccount}
	}
	if _, excluded := p.excludedIDs[studentID]; excluded {
		return &SkipReason{Kind: ReasonExcludedID, Detail: strconv.Itoa(studentID)}
	}
	return nil
}

// spineSkipReason checks a single spine against the filtering rules.
func spineSkipReason(spine *kivo.SpineData) *SkipReason {
	if spine == nil || spine.Name == "" {
		return &SkipReason{Kind: ReasonMissingName}
	}
	if spine.Type != "" && spine.Type != acceptedSpineType {
		return &SkipReason{Kind: ReasonType, Detail: spine.Type}
	}

	name := strings.ToLower(spine.Name)
	for _, keyword := range skipKeywords {
		if strings.Contains(name, keyword) {
			return &SkipReason{Kind: ReasonKeyword, Detail: keyword}
		}
	}
	for _, suffix := range skipSuffixes {
		if strings.HasSuffix(name, suffix) {
			return &SkipReason{Kind: ReasonSuffix, Detail: suffix}
		}
	}
	return nil
}

// NormalizeFileID derives the canonical asset id from a raw spine name:
// the J_ prefix and _spr suffix are stripped, class-coded ids (CH/NP +
// four digits) are upper-cased, everything else is lower-cased.
func NormalizeFileID(name string) string {
	id := strings.TrimPrefix(name, "J_")
	id = strings.TrimSuffix(id, "_spr")
	if fileIDClassPattern.MatchString(id) {
		return strings.ToUpper(id)
	}
	return strings.ToLower(id)
}

// composeName joins family and given name. A missing family name leaves
// the given name alone; both missing yields the empty string.
func composeName(family, given string) string {
	if family == "" {
		return given
	}
	return strings.TrimSpace(family + " " + given)
}

// remarkSuffix reduces a free-text spine remark to the fragment worth
// keeping next to the base skin label. It returns "" when the remark adds
// nothing: the original-illustration marker, or a remark that equals the
// base skin after descriptor words are stripped.
func remarkSuffix(remark, baseSkin string) string {
	if remark == "" || remark == originalIllustrationMark {
		return ""
	}
	trimmed := remark
	for _, suffix := range remarkDescriptorSuffixes {
		trimmed = strings.TrimSuffix(trimmed, suffix)
	}
	if baseSkin != "" && trimmed == baseSkin {
		return ""
	}
	return trimmed
}

// skinDescriptor joins the base skin label and the remark fragment,
// skipping absent parts.
func skinDescriptor(baseSkin, remark string) string {
	parts := make([]string, 0, 2)
	if baseSkin != "" {
		parts = append(parts, baseSkin)
	}
	if suffix := remarkSuffix(remark, baseSkin); suffix != "" {
		parts = append(parts, suffix)
	}
	return strings.Join(parts, ",")
}

// composeVariant builds the final composed name for one language variant.
func composeVariant(data *kivo.StudentData, lang langVariant, remark string) string {
	family, given, skin := lang.names(data)
	base := composeName(family, given)
	if base == "" {
		return ""
	}
	if !lang.attachSkin {
		return base
	}
	if descriptor := skinDescriptor(skin, remark); descriptor != "" {
		return base + "（" + descriptor + "）"
	}
	return base
}

// buildForm assembles the canonical row for one accepted spine.
func buildForm(data *kivo.StudentData, studentID int, spine *kivo.SpineData, fileID string) StudentForm {
	names := make(map[string]string, len(langTable))
	for _, lang := range langTable {
		names[lang.key] = composeVariant(data, lang, spine.Remark)
	}

	return StudentForm{
		FileID:   fileID,
		CharID:   studentID,
		SpineID:  spine.ID,
		FullName: names["full_name"],
		Name:     names["name"],
		SkinName: skinDescriptor(data.Skin, spine.Remark),
		NameCN:   names["cn"],
		NameJP:   names["jp"],
		NameTW:   names["tw"],
		NameEN:   names["en"],
		NameKR:   names["kr"],
	}
}

// AuditContext extracts the contextual identity fields recorded on
// whole-student skip records. It is safe to call with a nil or partial
// response.
func AuditContext(resp *kivo.StudentResponse) (name, nameJP, nameEN, school string) {
	if resp == nil || resp.Data == nil {
		return "", "", "", ""
	}
	d := resp.Data
	name = composeName(d.FamilyName, d.GivenName)
	if name == "" {
		name = d.GivenNameCN
	}
	return name,
		composeName(d.FamilyNameJP, d.GivenNameJP),
		composeName(d.FamilyNameEN, d.GivenNameEN),
		schoolLabel(d.School)
}

// schoolLabel formats the school id for the audit report; zero means the
// field was absent.
func schoolLabel(school int) string {
	if school == 0 {
		return ""
	}
	return strconv.Itoa(school)
}
