package parquet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseQueryEqual(t *testing.T) {
	f, err := ParseQuery(`name=alice`)
	require.NoError(t, err)
	assert.True(t, f.Apply(map[string]interface{}{"name": "alice"}))
	assert.False(t, f.Apply(map[string]interface{}{"name": "bob"}))
}

func TestParseQueryQuotedString(t *testing.T) {
	f, err := ParseQuery(`name="bob smith"`)
	require.NoError(t, err)
	assert.True(t, f.Apply(map[string]interface{}{"name": "bob smith"}))
}

func TestParseQueryPrefixSuffixContains(t *testing.T) {
	prefix, err := ParseQuery(`name=ali*`)
	require.NoError(t, err)
	assert.True(t, prefix.Apply(map[string]interface{}{"name": "alice"}))

	suffix, err := ParseQuery(`name=*ice`)
	require.NoError(t, err)
	assert.True(t, suffix.Apply(map[string]interface{}{"name": "alice"}))

	contains, err := ParseQuery(`name=*lic*`)
	require.NoError(t, err)
	assert.True(t, contains.Apply(map[string]interface{}{"name": "alice"}))
}

func TestParseQueryComparisonFunctions(t *testing.T) {
	f, err := ParseQuery(`age=gte(18)`)
	require.NoError(t, err)
	assert.True(t, f.Apply(map[string]interface{}{"age": int64(18)}))
	assert.False(t, f.Apply(map[string]interface{}{"age": int64(17)}))

	f2, err := ParseQuery(`age=lt(18)`)
	require.NoError(t, err)
	assert.True(t, f2.Apply(map[string]interface{}{"age": int64(5)}))
}

func TestParseQueryIsNullIsNotNull(t *testing.T) {
	f, err := ParseQuery(`x=isNull()`)
	require.NoError(t, err)
	assert.True(t, f.Apply(map[string]interface{}{}))
	assert.False(t, f.Apply(map[string]interface{}{"x": int64(1)}))

	f2, err := ParseQuery(`x=isNotNull()`)
	require.NoError(t, err)
	assert.True(t, f2.Apply(map[string]interface{}{"x": int64(1)}))
}

func TestParseQueryMapKeyScope(t *testing.T) {
	f, err := ParseQuery(`tags["env"]=prod`)
	require.NoError(t, err)
	row := map[string]interface{}{"tags": []MapEntry{{Key: "env", Value: "prod"}}}
	assert.True(t, f.Apply(row))
}

func TestParseQueryDottedPath(t *testing.T) {
	f, err := ParseQuery(`user.name=alice`)
	require.NoError(t, err)
	assert.True(t, f.Apply(map[string]interface{}{"user.name": "alice"}))
}

func TestParseQueryMultipleClausesAreAnded(t *testing.T) {
	f, err := ParseQuery(`name=alice,age=gte(18)`)
	require.NoError(t, err)
	assert.True(t, f.Apply(map[string]interface{}{"name": "alice", "age": int64(30)}))
	assert.False(t, f.Apply(map[string]interface{}{"name": "alice", "age": int64(10)}))
}

func TestParseQueryLiteralTyping(t *testing.T) {
	f, err := ParseQuery(`age=30`)
	require.NoError(t, err)
	assert.True(t, f.Apply(map[string]interface{}{"age": int64(30)}))

	f2, err := ParseQuery(`ratio=1.5`)
	require.NoError(t, err)
	assert.True(t, f2.Apply(map[string]interface{}{"ratio": 1.5}))

	f3, err := ParseQuery(`active=true`)
	require.NoError(t, err)
	assert.True(t, f3.Apply(map[string]interface{}{"active": true}))
}

func TestParseQueryEmptyIsError(t *testing.T) {
	_, err := ParseQuery("")
	assert.Error(t, err)
}

func TestParseQueryMissingEqualsIsError(t *testing.T) {
	_, err := ParseQuery("nameonly")
	assert.Error(t, err)
}
