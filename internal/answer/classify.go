// ABOUTME: Ordered bilingual keyword rules assigning icon/color tags to sections
// ABOUTME: First matching rule wins; ties resolve by table order, not by match quality

package answer

import "strings"

// Default tag for sections no rule recognizes.
const (
	DefaultIcon  = "article"
	DefaultColor = "#607D8B"
)

// classRule maps a bilingual keyword group to a fixed icon/color pair.
type classRule struct {
	name     string
	keywords []string
	icon     string
	color    string
}

// classRules is evaluated top to bottom; the first rule with any keyword
// present in the lowercased title wins. Keywords cover the Hindi and English
// header vocabulary the answer worker is prompted to use.
var classRules = []classRule{
	{
		name:     "identity",
		keywords: []string{"यह क्या है", "क्या है", "परिचय", "what is it", "what it is", "overview"},
		icon:     "info",
		color:    "#2196F3",
	},
	{
		name:     "problem",
		keywords: []string{"समस्या", "रोग", "बीमारी", "problem", "disease", "issue"},
		icon:     "report",
		color:    "#F44336",
	},
	{
		name:     "cause",
		keywords: []string{"क्यों", "कारण", "why", "cause", "reason"},
		icon:     "help",
		color:    "#FF9800",
	},
	{
		name:     "identify",
		keywords: []string{"पहचान", "लक्षण", "identify", "identification", "symptom"},
		icon:     "search",
		color:    "#9C27B0",
	},
	{
		name:     "action",
		keywords: []string{"क्या करें", "उपचार", "समाधान", "what to do", "treatment", "solution"},
		icon:     "task_alt",
		color:    "#4CAF50",
	},
	{
		name:     "remedy",
		keywords: []string{"घरेलू", "देसी", "home remed", "natural remed"},
		icon:     "spa",
		color:    "#009688",
	},
	{
		name:     "mistakes",
		keywords: []string{"गलती", "गलतियां", "सावधानी", "mistake", "avoid", "precaution"},
		icon:     "block",
		color:    "#795548",
	},
}

// Classify picks the display tag for a section title. Pure function: the
// native and English titles are lowercased and concatenated, then tested
// against each rule in table order.
func Classify(title, titleEn string) (icon, color string) {
	haystack := strings.ToLower(title + " " + titleEn)
	for _, rule := range classRules {
		for _, kw := range rule.keywords {
			if strings.Contains(haystack, kw) {
				return rule.icon, rule.color
			}
		}
	}
	return DefaultIcon, DefaultColor
}
