package clid_test

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crushlog/cldfqr/pkg/clid"
)

const sample = "clid:v1:route:550e8400-e29b-41d4-a716-446655440000"

func TestParse(t *testing.T) {
	t.Parallel()

	t.Run("valid", func(t *testing.T) {
		t.Parallel()
		id, err := clid.Parse(sample)
		require.NoError(t, err)
		assert.Equal(t, clid.Route, id.Type)
		assert.Equal(t, "550e8400-e29b-41d4-a716-446655440000", id.UUID.String())
		assert.Equal(t, sample, id.String())
		assert.Equal(t, "550e8400", id.Short())
		assert.False(t, id.IsZero())
	})

	tests := []struct {
		name  string
		input string
		want  error
	}{
		{name: "empty", input: "", want: clid.ErrInvalidFormat},
		{name: "wrong scheme", input: "cl:v1:route:550e8400-e29b-41d4-a716-446655440000", want: clid.ErrInvalidFormat},
		{name: "missing segment", input: "clid:v1:550e8400-e29b-41d4-a716-446655440000", want: clid.ErrInvalidFormat},
		{name: "version", input: "clid:v2:route:550e8400-e29b-41d4-a716-446655440000", want: clid.ErrUnsupportedVersion},
		{name: "type", input: "clid:v1:boulder:550e8400-e29b-41d4-a716-446655440000", want: clid.ErrUnknownType},
		{name: "uuid", input: "clid:v1:route:not-a-uuid", want: clid.ErrInvalidUUID},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := clid.Parse(tt.input)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestMustParsePanics(t *testing.T) {
	t.Parallel()
	assert.Panics(t, func() { clid.MustParse("nope") })
	assert.NotPanics(t, func() { clid.MustParse(sample) })
}

func TestExtractShort(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input, want string
	}{
		{input: sample, want: "550e8400"},
		{input: "clid:v1:location:abc", want: "abc"},
		{input: "clid:v1:location:0123456789abcdef", want: "01234567"},
		{input: "clid:v1:route", want: "clid:v1:route"},
		{input: "something-else", want: "something-else"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, clid.ExtractShort(tt.input), tt.input)
	}
}

func TestExtractUUID(t *testing.T) {
	t.Parallel()

	u, ok := clid.ExtractUUID(sample)
	require.True(t, ok)
	assert.Equal(t, "550e8400-e29b-41d4-a716-446655440000", u)

	_, ok = clid.ExtractUUID("route:123")
	assert.False(t, ok)
}

func TestRandomGenerator(t *testing.T) {
	t.Parallel()

	gen := clid.NewRandomGenerator()
	a, err := gen.GenerateRandom(clid.Location)
	require.NoError(t, err)
	b, err := gen.GenerateRandom(clid.Location)
	require.NoError(t, err)

	assert.Equal(t, clid.Location, a.Type)
	assert.NotEqual(t, a, b)
	assert.Equal(t, uuid.Version(4), a.UUID.Version())

	parsed, err := clid.Parse(a.String())
	require.NoError(t, err)
	assert.Equal(t, a, parsed)
}

func TestGeneratorFunc(t *testing.T) {
	t.Parallel()

	fixed := uuid.MustParse("11111111-2222-4333-8444-555555555555")
	var gen clid.Generator = clid.GeneratorFunc(func(k clid.EntityType) (clid.ID, error) {
		return clid.New(k, fixed), nil
	})
	id, err := gen.GenerateRandom(clid.Route)
	require.NoError(t, err)
	assert.Equal(t, "clid:v1:route:11111111-2222-4333-8444-555555555555", id.String())
}
