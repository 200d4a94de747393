package normalize

import "strings"

// Classification fallbacks. When the API doesn't hand us a field we scan a
// fixed vocabulary against the lowered title first, then the lowered
// description. First hit wins; no hit means empty, never a guess outside the
// vocabulary.

type vocabEntry struct {
	label    string
	keywords []string
}

var departmentVocab = []vocabEntry{
	{"Engineering", []string{"engineering", "engineer", "developer", "software"}},
	{"Product", []string{"product manager", "product owner"}},
	{"Design", []string{"designer", "design", "ux", "ui"}},
	{"Marketing", []string{"marketing", "growth", "seo", "content"}},
	{"Sales", []string{"sales", "account executive", "business development"}},
	{"Finance", []string{"finance", "accounting", "accountant", "payroll"}},
	{"Human Resources", []string{"human resources", "recruiter", "talent", "people ops"}},
	{"Operations", []string{"operations", "logistics", "supply chain"}},
	{"Customer Support", []string{"customer support", "customer success", "help desk"}},
	{"Legal", []string{"legal", "counsel", "paralegal", "compliance"}},
	{"IT", []string{"it support", "sysadmin", "system administrator", "network administrator"}},
}

var typeVocab = []vocabEntry{
	{"Full-time", []string{"full-time", "full time"}},
	{"Part-time", []string{"part-time", "part time"}},
	{"Contract", []string{"contract", "contractor"}},
	{"Temporary", []string{"temporary", "temp "}},
	{"Internship", []string{"internship", "intern "}},
	{"Freelance", []string{"freelance"}},
}

var experienceVocab = []vocabEntry{
	{"Principal", []string{"principal"}},
	{"Director", []string{"director", "head of"}},
	{"Lead", []string{"lead ", "staff "}},
	{"Senior", []string{"senior", "sr."}},
	{"Mid-level", []string{"mid-level", "mid level", "intermediate"}},
	{"Junior", []string{"junior", "jr."}},
	{"Entry-level", []string{"entry-level", "entry level", "graduate"}},
}

var workModeVocab = []vocabEntry{
	{"Remote", []string{"remote"}},
	{"Hybrid", []string{"hybrid"}},
	{"Onsite", []string{"on-site", "onsite", "on site"}},
}

// scanVocab checks every text in order (title before description); within one
// text, vocabulary order decides ties.
func scanVocab(vocab []vocabEntry, texts ...string) string {
	for _, t := range texts {
		low := strings.ToLower(t)
		if low == "" {
			continue
		}
		for _, e := range vocab {
			for _, kw := range e.keywords {
				if strings.Contains(low, kw) {
					return e.label
				}
			}
		}
	}
	return ""
}

func InferDepartment(title, description string) string {
	return scanVocab(departmentVocab, title, description)
}

func InferType(title, description string) string {
	return scanVocab(typeVocab, title, description)
}

func InferExperience(title, description string) string {
	return scanVocab(experienceVocab, title, description)
}

func InferWorkMode(title, description string) string {
	return scanVocab(workModeVocab, title, description)
}

// NormalizeWorkMode folds an explicitly supplied remote/hybrid field into the
// same labels the inference produces.
func NormalizeWorkMode(mode string) string {
	m := strings.ToLower(strings.TrimSpace(mode))
	switch {
	case strings.Contains(m, "remote"):
		return "Remote"
	case strings.Contains(m, "hybrid"):
		return "Hybrid"
	case strings.Contains(m, "on-site") || strings.Contains(m, "onsite") || strings.Contains(m, "on site"):
		return "Onsite"
	case m == "":
		return ""
	default:
		return CleanText(mode)
	}
}
