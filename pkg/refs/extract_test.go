package refs_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/walteh/cfnls/pkg/parser"
	"github.com/walteh/cfnls/pkg/refs"
)

func names(set map[string]struct{}) []string {
	return refs.SortedNames(set)
}

func TestReferencedNames_YAML(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		owner string
		want  []string
	}{
		{
			name: "short ref",
			text: "Value: !Ref Env",
			want: []string{"Env"},
		},
		{
			name: "short ref quoted scalar",
			text: `Value: !Ref "Env"`,
			want: []string{"Env"},
		},
		{
			name: "long ref",
			text: "Value:\n  Ref: Env",
			want: []string{"Env"},
		},
		{
			name: "getatt dotted",
			text: "Value: !GetAtt Vpc.VpcId",
			want: []string{"Vpc"},
		},
		{
			name: "getatt quoted dotted",
			text: `Value: !GetAtt "Vpc.VpcId"`,
			want: []string{"Vpc"},
		},
		{
			name: "getatt list",
			text: "Value: !GetAtt [Vpc, VpcId]",
			want: []string{"Vpc"},
		},
		{
			name: "getatt long list",
			text: "Value:\n  Fn::GetAtt: [Vpc, VpcId]",
			want: []string{"Vpc"},
		},
		{
			name: "getatt long dotted string",
			text: `Value:
  Fn::GetAtt: "Vpc.VpcId"`,
			want: []string{"Vpc"},
		},
		{
			name: "getatt long block list",
			text: "Value:\n  Fn::GetAtt:\n    - Vpc\n    - VpcId\n",
			want: []string{"Vpc"},
		},
		{
			name: "find in map takes only the map name",
			text: "Value: !FindInMap [RegionMap, Key, SubKey]",
			want: []string{"RegionMap"},
		},
		{
			name: "ternary conditional",
			text: "Value: !If [IsProd, a, b]",
			want: []string{"IsProd"},
		},
		{
			name: "named condition",
			text: "Condition: IsProd",
			want: []string{"IsProd"},
		},
		{
			name: "condition short form",
			text: "Value: !Condition IsProd",
			want: []string{"IsProd"},
		},
		{
			name: "condition short form quoted",
			text: "Value: !Condition 'IsProd'",
			want: []string{"IsProd"},
		},
		{
			name: "ternary flow list across lines",
			text: "Value: !If [IsProd,\n  a,\n  b]",
			want: []string{"IsProd"},
		},
		{
			name: "depends on scalar",
			text: "DependsOn: A",
			want: []string{"A"},
		},
		{
			name: "depends on inline array",
			text: "DependsOn: [A, B]",
			want: []string{"A", "B"},
		},
		{
			name: "depends on flow list across lines",
			text: "DependsOn: [A,\n  B]",
			want: []string{"A", "B"},
		},
		{
			name: "depends on block list",
			text: "DependsOn:\n  - A\n  - B\nProperties:\n  Key: value\n",
			want: []string{"A", "B"},
		},
		{
			name: "parameter attribute",
			text: "Value: !ValueOf [SubnetParam, Tags]",
			want: []string{"SubnetParam"},
		},
		{
			name: "substitution variable",
			text: `Value: !Sub "${Env}-bucket"`,
			want: []string{"Env"},
		},
		{
			name: "substitution with attribute",
			text: `Value: !Sub "${Vpc.VpcId}-x"`,
			want: []string{"Vpc"},
		},
		{
			name: "multiple substitutions",
			text: `Value: !Sub "${Env}-${Vpc.VpcId}"`,
			want: []string{"Env", "Vpc"},
		},
		{
			name: "substitution literal escape ignored",
			text: `Value: !Sub "${!Literal}-x"`,
			want: nil,
		},
		{
			name:  "owner excluded",
			text:  "Value: !Ref Bucket\nOther: !Ref Env",
			owner: "Bucket",
			want:  []string{"Env"},
		},
		{
			name: "pseudo values excluded",
			text: `Value: !Sub "${AWS::Region}-${AWS::AccountId}"
Other: !Ref AWS::NoValue`,
			want: nil,
		},
		{
			name: "reserved property names excluded",
			text: "Value:\n  Ref: Properties\nOther:\n  Ref: dependson",
			want: nil,
		},
		{
			name: "identifier grammar enforced",
			text: "Value: !Ref 9Lives\nOther: !Ref with_underscore",
			want: nil,
		},
		{
			name: "duplicates collapse",
			text: "A: !Ref Env\nB: !Ref Env\nC: !Sub \"${Env}\"",
			want: []string{"Env"},
		},
		{
			name: "no reference constructs",
			text: "Type: AWS::S3::Bucket\nProperties:\n  Key: value\n",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := refs.ReferencedNames(tt.text, tt.owner, parser.SyntaxYAML)
			assert.ElementsMatch(t, tt.want, names(got))
		})
	}
}

func TestReferencedNames_JSON(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		owner string
		want  []string
	}{
		{
			name: "ref",
			text: `{"Ref": "Env"}`,
			want: []string{"Env"},
		},
		{
			name: "getatt list",
			text: `{"Fn::GetAtt": ["Vpc", "VpcId"]}`,
			want: []string{"Vpc"},
		},
		{
			name: "getatt dotted string",
			text: `{"Fn::GetAtt": "Vpc.VpcId"}`,
			want: []string{"Vpc"},
		},
		{
			name: "find in map",
			text: `{"Fn::FindInMap": ["RegionMap", "Key", "SubKey"]}`,
			want: []string{"RegionMap"},
		},
		{
			name: "ternary conditional",
			text: `{"Fn::If": ["IsProd", "a", "b"]}`,
			want: []string{"IsProd"},
		},
		{
			name: "named condition",
			text: `"Condition": "IsProd"`,
			want: []string{"IsProd"},
		},
		{
			name: "depends on scalar",
			text: `"DependsOn": "A"`,
			want: []string{"A"},
		},
		{
			name: "depends on array",
			text: `"DependsOn": ["A", "B"]`,
			want: []string{"A", "B"},
		},
		{
			name: "pretty printed depends on",
			text: "{\n  \"DependsOn\": [\n    \"A\",\n    \"B\"\n  ]\n}",
			want: []string{"A", "B"},
		},
		{
			name: "pretty printed getatt",
			text: "{\n  \"Fn::GetAtt\": [\n    \"Vpc\",\n    \"VpcId\"\n  ]\n}",
			want: []string{"Vpc"},
		},
		{
			name: "pretty printed ternary",
			text: "{\n  \"Fn::If\": [\n    \"IsProd\",\n    \"a\",\n    \"b\"\n  ]\n}",
			want: []string{"IsProd"},
		},
		{
			name: "parameter attribute",
			text: `{"Fn::ValueOf": ["SubnetParam", "Tags"]}`,
			want: []string{"SubnetParam"},
		},
		{
			name: "substitution",
			text: `{"Fn::Sub": "${Env}-bucket"}`,
			want: []string{"Env"},
		},
		{
			name:  "owner excluded",
			text:  `{"Ref": "Bucket"}`,
			owner: "Bucket",
			want:  nil,
		},
		{
			name: "pseudo values excluded",
			text: `{"Fn::Sub": "${AWS::Region}"}`,
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := refs.ReferencedNames(tt.text, tt.owner, parser.SyntaxJSON)
			assert.ElementsMatch(t, tt.want, names(got))
		})
	}
}

// Semantically identical entities in the two syntaxes must reference
// the same names.
func TestReferencedNames_SyntaxEquivalence(t *testing.T) {
	yamlBody := `Bucket:
  Type: AWS::S3::Bucket
  Condition: IsProd
  DependsOn: [Queue, Topic]
  Properties:
    BucketName: !Sub "${Env}-bucket"
    VpcId: !GetAtt Vpc.VpcId
    AZ: !FindInMap [RegionMap, us-east-1, AZ]
`
	jsonBody := `"Bucket": {
  "Type": "AWS::S3::Bucket",
  "Condition": "IsProd",
  "DependsOn": ["Queue", "Topic"],
  "Properties": {
    "BucketName": {"Fn::Sub": "${Env}-bucket"},
    "VpcId": {"Fn::GetAtt": ["Vpc", "VpcId"]},
    "AZ": {"Fn::FindInMap": ["RegionMap", "us-east-1", "AZ"]}
  }
}`

	fromYAML := refs.ReferencedNames(yamlBody, "Bucket", parser.SyntaxYAML)
	fromJSON := refs.ReferencedNames(jsonBody, "Bucket", parser.SyntaxJSON)

	assert.Equal(t, names(fromYAML), names(fromJSON))
	assert.ElementsMatch(t, []string{"Env", "IsProd", "Queue", "Topic", "RegionMap", "Vpc"}, names(fromYAML))
}

// Every surface form of an attribute reference reduces to the bare
// entity name.
func TestReferencedNames_AttributeFormEquivalence(t *testing.T) {
	forms := map[string]struct {
		text string
		kind parser.SyntaxKind
	}{
		"yaml short dotted": {"V: !GetAtt Vpc.VpcId", parser.SyntaxYAML},
		"yaml short list":   {"V: !GetAtt [Vpc, VpcId]", parser.SyntaxYAML},
		"yaml long list":    {"V:\n  Fn::GetAtt: [Vpc, VpcId]", parser.SyntaxYAML},
		"yaml long dotted":  {"V:\n  Fn::GetAtt: \"Vpc.VpcId\"", parser.SyntaxYAML},
		"json list":         {`{"Fn::GetAtt": ["Vpc", "VpcId"]}`, parser.SyntaxJSON},
		"json dotted":       {`{"Fn::GetAtt": "Vpc.VpcId"}`, parser.SyntaxJSON},
	}

	for name, form := range forms {
		t.Run(name, func(t *testing.T) {
			got := refs.ReferencedNames(form.text, "", form.kind)
			assert.Equal(t, []string{"Vpc"}, names(got))
		})
	}
}

// Every dependency declaration shape yields the same set.
func TestReferencedNames_DependencyFormEquivalence(t *testing.T) {
	single := map[string]struct {
		text string
		kind parser.SyntaxKind
	}{
		"yaml scalar":     {"DependsOn: A", parser.SyntaxYAML},
		"yaml inline":     {"DependsOn: [A]", parser.SyntaxYAML},
		"yaml block list": {"DependsOn:\n  - A\n", parser.SyntaxYAML},
		"json scalar":     {`"DependsOn": "A"`, parser.SyntaxJSON},
		"json array":      {`"DependsOn": ["A"]`, parser.SyntaxJSON},
	}
	for name, form := range single {
		t.Run(name, func(t *testing.T) {
			got := refs.ReferencedNames(form.text, "", form.kind)
			assert.Equal(t, []string{"A"}, names(got))
		})
	}

	double := map[string]struct {
		text string
		kind parser.SyntaxKind
	}{
		"yaml inline":       {"DependsOn: [A, B]", parser.SyntaxYAML},
		"yaml inline split": {"DependsOn: [A,\n  B]", parser.SyntaxYAML},
		"yaml block list":   {"DependsOn:\n  - A\n  - B\n", parser.SyntaxYAML},
		"json array":        {`"DependsOn": ["A", "B"]`, parser.SyntaxJSON},
		"json array split":  {"\"DependsOn\": [\n  \"A\",\n  \"B\"\n]", parser.SyntaxJSON},
	}
	for name, form := range double {
		t.Run(name, func(t *testing.T) {
			got := refs.ReferencedNames(form.text, "", form.kind)
			assert.ElementsMatch(t, []string{"A", "B"}, names(got))
		})
	}
}

func TestSortedNames(t *testing.T) {
	set := map[string]struct{}{"b": {}, "a": {}, "c": {}}
	assert.Equal(t, []string{"a", "b", "c"}, refs.SortedNames(set))
}
