package definition_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/cfnls/pkg/definition"
	"github.com/walteh/cfnls/pkg/doctree"
	"github.com/walteh/cfnls/pkg/parser"
	"github.com/walteh/cfnls/pkg/position"
	"github.com/walteh/cfnls/pkg/tmplctx"
)

func TestBaseName(t *testing.T) {
	tests := []struct {
		queried string
		want    string
	}{
		{"Env", "Env"},
		{`"Env"`, "Env"},
		{"'Env'", "Env"},
		{"  Env  ", "Env"},
		{"${Env}", "Env"},
		{`"${Env}"`, "Env"},
		{"${Vpc.VpcId}", "Vpc"},
		{"Vpc.VpcId", "Vpc"},
		{"Vpc.Outputs.Nested", "Vpc"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.queried, func(t *testing.T) {
			assert.Equal(t, tt.want, definition.BaseName(tt.queried))
		})
	}
}

const template = `Parameters:
  Env:
    Type: String
Resources:
  Vpc:
    Type: AWS::EC2::VPC
  Bucket:
    Type: AWS::S3::Bucket
    Properties:
      BucketName: !Sub "${Env}-bucket"
      Zone: !GetAtt Vpc.VpcId
`

func relatedAt(t *testing.T, needle string, delta int) *tmplctx.RelatedContext {
	t.Helper()
	ctx := context.Background()
	docs := doctree.NewManager()
	require.NoError(t, docs.Open(ctx, "doc", template, parser.SyntaxYAML))
	mgr := tmplctx.NewManager(docs)

	i := strings.Index(template, needle)
	require.GreaterOrEqual(t, i, 0)
	pos := position.NewIndex(template).PlaceOf(i + delta)

	rc := mgr.GetContextAndRelated(ctx, "doc", pos, true)
	require.NotNil(t, rc)
	return rc
}

func TestResolve_Substitution(t *testing.T) {
	rc := relatedAt(t, "${Env}", 2)

	locs := definition.Resolve(context.Background(), "${Env}", rc)
	require.Len(t, locs, 1)
	assert.Equal(t, "Env", locs[0].Name)
	assert.Equal(t, doctree.SectionParameters, locs[0].Section)

	// The location spans the parameter's full definition.
	text := rc.Tree().Text()
	ix := position.NewIndex(text)
	start, end := ix.OffsetOf(locs[0].Range.Start), ix.OffsetOf(locs[0].Range.End)
	assert.Equal(t, "Env:\n    Type: String", text[start:end])
}

func TestResolve_Attribute(t *testing.T) {
	rc := relatedAt(t, "Vpc.VpcId", 0)

	locs := definition.Resolve(context.Background(), "Vpc.VpcId", rc)
	require.Len(t, locs, 1)
	assert.Equal(t, "Vpc", locs[0].Name)
	assert.Equal(t, doctree.SectionResources, locs[0].Section)
}

func TestResolve_Misses(t *testing.T) {
	rc := relatedAt(t, "${Env}", 2)

	assert.Empty(t, definition.Resolve(context.Background(), "Nope", rc))
	assert.Empty(t, definition.Resolve(context.Background(), "", rc))
	assert.Empty(t, definition.Resolve(context.Background(), "${Env}", nil))
}
