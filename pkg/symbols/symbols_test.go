package symbols_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/cfnls/pkg/doctree"
	"github.com/walteh/cfnls/pkg/entity"
	"github.com/walteh/cfnls/pkg/parser"
	"github.com/walteh/cfnls/pkg/symbols"
)

const template = `Parameters:
  Env:
    Type: String
Resources:
  Bucket:
    Type: AWS::S3::Bucket
  Fn::ForEach::Replica:
    - Region
    - [us-east-1, eu-west-1]
    - Table${Region}:
        Type: AWS::DynamoDB::Table
Conditions:
  IsProd: true
Outputs:
  BucketName:
    Value: !Ref Bucket
`

func TestDocumentSymbols(t *testing.T) {
	ctx := context.Background()
	st, err := doctree.NewSyntaxTree(ctx, template, parser.SyntaxYAML)
	require.NoError(t, err)

	syms := symbols.DocumentSymbols(ctx, st)
	require.Len(t, syms, 5)

	// Document order.
	names := make([]string, len(syms))
	for i, s := range syms {
		names[i] = s.Name
	}
	assert.Equal(t, []string{"Env", "Bucket", "Fn::ForEach::Replica", "IsProd", "BucketName"}, names)

	byName := make(map[string]symbols.Symbol, len(syms))
	for _, s := range syms {
		byName[s.Name] = s
	}

	assert.Equal(t, doctree.SectionParameters, byName["Env"].Section)
	assert.Equal(t, entity.KindParameter, byName["Env"].Kind)
	assert.Equal(t, "String", byName["Env"].Detail)

	assert.Equal(t, doctree.SectionResources, byName["Bucket"].Section)
	assert.Equal(t, entity.KindResource, byName["Bucket"].Kind)
	assert.Equal(t, "AWS::S3::Bucket", byName["Bucket"].Detail)

	assert.Equal(t, entity.KindForEachResource, byName["Fn::ForEach::Replica"].Kind)
	assert.Equal(t, "Replica", byName["Fn::ForEach::Replica"].Detail)

	assert.Equal(t, doctree.SectionConditions, byName["IsProd"].Section)
	assert.Equal(t, doctree.SectionOutputs, byName["BucketName"].Section)
	assert.Equal(t, entity.KindOutput, byName["BucketName"].Kind)
}

func TestDocumentSymbols_Ranges(t *testing.T) {
	ctx := context.Background()
	st, err := doctree.NewSyntaxTree(ctx, template, parser.SyntaxYAML)
	require.NoError(t, err)

	syms := symbols.DocumentSymbols(ctx, st)
	for _, s := range syms {
		assert.True(t, s.Range.Start.Before(s.Range.End), "empty range for %s", s.Name)
	}

	// Each symbol's range starts at its own name.
	for _, s := range syms {
		start := s.Range.Start
		node, ok := st.NodeAt(start)
		require.True(t, ok, s.Name)
		assert.Equal(t, s.Name, st.Tree().ScalarValue(node), s.Name)
	}
}

func TestDocumentSymbols_Empty(t *testing.T) {
	ctx := context.Background()
	st, err := doctree.NewSyntaxTree(ctx, "Description: nothing named here\n", parser.SyntaxYAML)
	require.NoError(t, err)

	assert.Empty(t, symbols.DocumentSymbols(ctx, st))
}
