package refs

import "regexp"

// captureMode says how a pattern's capture group turns into candidate
// tokens.
type captureMode int

const (
	// capToken: the capture is one candidate token.
	capToken captureMode = iota
	// capFirstOfList: the capture is a bracketed/blocked list; only
	// its first element names an entity (the rest are attributes,
	// lookup keys, or branch values).
	capFirstOfList
	// capAllOfList: every element of the captured list is a
	// candidate (dependency declarations).
	capAllOfList
)

// pattern is one reference-expressing construct of a concrete syntax.
// gate is a cheap literal pre-check run on the text before the regexp;
// most patterns never apply to a given span, so most evaluations stop
// at a substring test.
type pattern struct {
	gate string
	re   *regexp.Regexp
	mode captureMode
}

// token is permissive on purpose: it includes ':' so that pseudo
// values like AWS::Region are captured whole and rejected by the
// validator's identifier grammar, instead of being truncated into a
// plausible-looking name. The surrounding quotes are optional so that
// quoted scalars match in every construct.
const token = `['"]?([A-Za-z][A-Za-z0-9_.:]*)['"]?`

// list captures a bracketed list body; newlines are allowed so that
// flow lists formatted across lines still match.
const list = `\[([^\]]*)\]`

// yamlPatterns covers the YAML syntax's short and long forms.
var yamlPatterns = []pattern{
	// direct reference
	{gate: "!Ref", re: regexp.MustCompile(`!Ref[ \t]+` + token), mode: capToken},
	{gate: "Ref", re: regexp.MustCompile(`\bRef[ \t]*:[ \t]*` + token), mode: capToken},

	// attribute access, dotted and list surface forms
	{gate: "!GetAtt", re: regexp.MustCompile(`!GetAtt[ \t]+` + token), mode: capToken},
	{gate: "!GetAtt", re: regexp.MustCompile(`!GetAtt[ \t]*` + list), mode: capFirstOfList},
	{gate: "Fn::GetAtt", re: regexp.MustCompile(`Fn::GetAtt[ \t]*:[ \t]*` + token), mode: capToken},
	{gate: "Fn::GetAtt", re: regexp.MustCompile(`Fn::GetAtt[ \t]*:[ \t]*` + list), mode: capFirstOfList},
	{gate: "Fn::GetAtt", re: regexp.MustCompile(`Fn::GetAtt[ \t]*:[ \t]*\n((?:[ \t]*-[^\n]*\n?)+)`), mode: capFirstOfList},

	// map lookup
	{gate: "!FindInMap", re: regexp.MustCompile(`!FindInMap[ \t]*` + list), mode: capFirstOfList},
	{gate: "Fn::FindInMap", re: regexp.MustCompile(`Fn::FindInMap[ \t]*:[ \t]*` + list), mode: capFirstOfList},
	{gate: "Fn::FindInMap", re: regexp.MustCompile(`Fn::FindInMap[ \t]*:[ \t]*\n((?:[ \t]*-[^\n]*\n?)+)`), mode: capFirstOfList},

	// ternary conditional
	{gate: "!If", re: regexp.MustCompile(`!If[ \t]*` + list), mode: capFirstOfList},
	{gate: "Fn::If", re: regexp.MustCompile(`Fn::If[ \t]*:[ \t]*` + list), mode: capFirstOfList},
	{gate: "Fn::If", re: regexp.MustCompile(`Fn::If[ \t]*:[ \t]*\n((?:[ \t]*-[^\n]*\n?)+)`), mode: capFirstOfList},

	// named condition
	{gate: "!Condition", re: regexp.MustCompile(`!Condition[ \t]+` + token), mode: capToken},
	{gate: "Condition", re: regexp.MustCompile(`\bCondition[ \t]*:[ \t]*` + token), mode: capToken},

	// dependency declarations: scalar, inline array, block list
	{gate: "DependsOn", re: regexp.MustCompile(`DependsOn[ \t]*:[ \t]*` + token), mode: capToken},
	{gate: "DependsOn", re: regexp.MustCompile(`DependsOn[ \t]*:[ \t]*` + list), mode: capAllOfList},
	{gate: "DependsOn", re: regexp.MustCompile(`DependsOn[ \t]*:[ \t]*\n((?:[ \t]*-[^\n]*\n?)+)`), mode: capAllOfList},

	// attribute of a parameter
	{gate: "!ValueOf", re: regexp.MustCompile(`!ValueOf[ \t]*` + list), mode: capFirstOfList},
	{gate: "Fn::ValueOf", re: regexp.MustCompile(`Fn::ValueOf[ \t]*:[ \t]*` + list), mode: capFirstOfList},

	// brace substitution, regardless of the wrapping construct
	{gate: "${", re: regexp.MustCompile(`\$\{([^}\n]+)\}`), mode: capToken},
}

// jsonPatterns covers the JSON syntax, long forms only.
var jsonPatterns = []pattern{
	{gate: `"Ref"`, re: regexp.MustCompile(`"Ref"[ \t]*:[ \t]*"([^"\n]+)"`), mode: capToken},

	{gate: `"Fn::GetAtt"`, re: regexp.MustCompile(`"Fn::GetAtt"[ \t]*:[ \t]*"([^"\n]+)"`), mode: capToken},
	{gate: `"Fn::GetAtt"`, re: regexp.MustCompile(`"Fn::GetAtt"[ \t]*:[ \t]*` + list), mode: capFirstOfList},

	{gate: `"Fn::FindInMap"`, re: regexp.MustCompile(`"Fn::FindInMap"[ \t]*:[ \t]*` + list), mode: capFirstOfList},

	{gate: `"Fn::If"`, re: regexp.MustCompile(`"Fn::If"[ \t]*:[ \t]*` + list), mode: capFirstOfList},

	{gate: `"Condition"`, re: regexp.MustCompile(`"Condition"[ \t]*:[ \t]*"([^"\n]+)"`), mode: capToken},

	{gate: `"DependsOn"`, re: regexp.MustCompile(`"DependsOn"[ \t]*:[ \t]*"([^"\n]+)"`), mode: capToken},
	{gate: `"DependsOn"`, re: regexp.MustCompile(`"DependsOn"[ \t]*:[ \t]*` + list), mode: capAllOfList},

	{gate: `"Fn::ValueOf"`, re: regexp.MustCompile(`"Fn::ValueOf"[ \t]*:[ \t]*` + list), mode: capFirstOfList},

	{gate: "${", re: regexp.MustCompile(`\$\{([^}\n]+)\}`), mode: capToken},
}
