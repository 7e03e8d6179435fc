package schema_test

import (
	"errors"
	"testing"

	"github.com/aretw0/fsmkit/pkg/domain"
	"github.com/aretw0/fsmkit/pkg/registry"
	"github.com/aretw0/fsmkit/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_YAML(t *testing.T) {
	def, err := schema.Load("testdata/vending.yaml")
	require.NoError(t, err)

	assert.Equal(t, "vending", def.Name)
	assert.Equal(t, domain.StateID("waiting-for-money"), def.Initial)
	require.Len(t, def.Transitions, 3)
	assert.Equal(t, domain.Transition{
		From:       "waiting-for-money",
		Action:     "insert-money",
		To:         "product-selected",
		EffectName: "insert-money",
	}, def.Transitions[0])
	assert.Equal(t, "Product selected", def.Label("product-selected"))
	assert.Equal(t, "elsewhere", def.Label("elsewhere"))
}

func TestLoad_JSON(t *testing.T) {
	def, err := schema.Load("testdata/turnstile.json")
	require.NoError(t, err)

	table, err := schema.Build(def, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, table.Len())
}

func TestLoad_Missing(t *testing.T) {
	_, err := schema.Load("testdata/nope.yaml")
	assert.Error(t, err)
}

func TestParse_RejectsUnknownKeys(t *testing.T) {
	_, err := schema.Parse([]byte("initial: a\nstates: [a]\ntransitions: []\n"), schema.FormatYAML)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "states")
}

func TestParse_Empty(t *testing.T) {
	_, err := schema.Parse([]byte(""), schema.FormatYAML)
	assert.Error(t, err)
}

func TestValidate_CollectsEveryProblem(t *testing.T) {
	def := &schema.Definition{
		Initial: "nowhere",
		Transitions: []domain.Transition{
			{From: "a", Action: "go", To: "b"},
			{From: "a", Action: "go", To: "c"},
			{From: "b", Action: "", To: "a"},
		},
	}

	err := schema.Validate(def)
	require.Error(t, err)

	errs := schema.ValidationErrors(err)
	assert.Len(t, errs, 3)
	assert.True(t, errors.Is(err, domain.ErrDuplicateTransition))
	assert.True(t, errors.Is(err, domain.ErrInvalidEntry))
	assert.True(t, errors.Is(err, domain.ErrUnknownInitialState))
	assert.Contains(t, err.Error(), "3 validation errors")
}

func TestValidate_RequiresInitialAndTransitions(t *testing.T) {
	err := schema.Validate(&schema.Definition{})
	require.Error(t, err)
	assert.Len(t, schema.ValidationErrors(err), 2)
}

func TestBuild_ResolvesEffects(t *testing.T) {
	def, err := schema.Load("testdata/vending.yaml")
	require.NoError(t, err)

	t.Run("missing effects", func(t *testing.T) {
		reg := registry.NewRegistry()
		reg.Register("insert-money", nil)

		_, err := schema.Build(def, reg)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrUnknownEffect)
		assert.Len(t, schema.ValidationErrors(err), 2)
	})

	t.Run("nil registry", func(t *testing.T) {
		_, err := schema.Build(def, nil)
		assert.ErrorIs(t, err, domain.ErrUnknownEffect)
	})

	t.Run("all registered", func(t *testing.T) {
		var fired []string
		reg := registry.NewRegistry()
		for _, name := range []string{"insert-money", "select-product", "dispense-product"} {
			name := name
			reg.Register(name, func() error { fired = append(fired, name); return nil })
		}

		table, err := schema.Build(def, reg)
		require.NoError(t, err)

		entry, ok := table.Lookup("waiting-for-money", "insert-money")
		require.True(t, ok)
		require.NoError(t, entry.Effect.Run())
		assert.Equal(t, []string{"insert-money"}, fired)
	})
}

func TestInspect(t *testing.T) {
	def, err := schema.Load("testdata/vending.yaml")
	require.NoError(t, err)

	table, err := schema.Inspect(def)
	require.NoError(t, err)
	assert.Equal(t, 3, table.Len())

	entry, ok := table.Lookup("dispensing-product", "dispense-product")
	require.True(t, ok)
	assert.Equal(t, "dispense-product", entry.EffectName)
	assert.NoError(t, entry.Effect.Run())
}

func TestDefinition_EffectNames(t *testing.T) {
	def := &schema.Definition{
		Initial: "a",
		Transitions: []domain.Transition{
			{From: "a", Action: "go", To: "b", EffectName: "beep"},
			{From: "b", Action: "back", To: "a"},
			{From: "b", Action: "go", To: "c", EffectName: "log"},
			{From: "c", Action: "go", To: "a", EffectName: "beep"},
		},
	}
	assert.Equal(t, []string{"beep", "log"}, def.EffectNames())

	reg := registry.NewRegistry()
	reg.Register("log", nil)
	assert.Equal(t, []string{"beep"}, reg.Missing(def.EffectNames()...))
}
