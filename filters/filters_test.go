package filters

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/rtsettings/ambient"
)

func ambientWithRequest(method, path string) context.Context {
	return ambient.WithRequest(context.Background(), ambient.NewRequestView(method, path, nil))
}

func contextBackground() context.Context {
	return context.Background()
}

func newCompiler() *Compiler {
	return NewCompiler(NewRegistry())
}

func TestCompileUnknownFilterDropped(t *testing.T) {
	c := newCompiler()
	statics, dynamics, err := c.Compile(map[string]string{"totally-unknown": "x"})
	require.NoError(t, err)
	assert.Empty(t, statics)
	assert.Empty(t, dynamics)
}

func TestCompileSplitsByTier(t *testing.T) {
	c := newCompiler()
	statics, dynamics, err := c.Compile(map[string]string{
		"application": "checkout",
		"url-path":    "/api/.*",
	})
	require.NoError(t, err)
	assert.Len(t, statics, 1)
	assert.Len(t, dynamics, 1)
}

func TestApplicationFilter(t *testing.T) {
	c := newCompiler()
	statics, _, err := c.Compile(map[string]string{"application": "checkout"})
	require.NoError(t, err)
	require.Len(t, statics, 1)

	match := ambient.NewStaticIdentity("checkout", "h", nil, nil, "")
	nomatch := ambient.NewStaticIdentity("billing", "h", nil, nil, "")
	assert.True(t, statics[0].Check(match))
	assert.False(t, statics[0].Check(nomatch))
}

func TestApplicationFilterInvalidRegexFailsCompile(t *testing.T) {
	c := newCompiler()
	_, _, err := c.Compile(map[string]string{"application": "("})
	assert.Error(t, err)
}

func TestEnvironmentFilterRequiresAllPairs(t *testing.T) {
	c := newCompiler()
	statics, _, err := c.Compile(map[string]string{"environment": "REGION=gulf.*,TIER=prod"})
	require.NoError(t, err)
	require.Len(t, statics, 1)

	full := ambient.NewStaticIdentity("a", "h", map[string]string{"REGION": "gulf_mexico", "TIER": "prod"}, nil, "")
	partial := ambient.NewStaticIdentity("a", "h", map[string]string{"REGION": "gulf_mexico"}, nil, "")

	assert.True(t, statics[0].Check(full))
	assert.False(t, statics[0].Check(partial))
}

func TestMCSRunEnvFailsClosedWhenAbsent(t *testing.T) {
	c := newCompiler()
	statics, _, err := c.Compile(map[string]string{"mcs_run_env": "staging"})
	require.NoError(t, err)
	require.Len(t, statics, 1)

	withLabel := ambient.NewStaticIdentity("a", "h", nil, nil, "staging")
	withoutLabel := ambient.NewStaticIdentity("a", "h", nil, nil, "")

	assert.True(t, statics[0].Check(withLabel))
	assert.False(t, statics[0].Check(withoutLabel))
}

func TestLibraryVersionFilter(t *testing.T) {
	c := newCompiler()
	statics, _, err := c.Compile(map[string]string{"library_version": "engine>=1.2.0,engine<2.0.0"})
	require.NoError(t, err)
	require.Len(t, statics, 1)

	ok := ambient.NewStaticIdentity("a", "h", nil, map[string]ambient.Version{"engine": {Major: 1, Minor: 5, Patch: 0}}, "")
	tooOld := ambient.NewStaticIdentity("a", "h", nil, map[string]ambient.Version{"engine": {Major: 1, Minor: 0, Patch: 0}}, "")
	missing := ambient.NewStaticIdentity("a", "h", nil, nil, "")

	assert.True(t, statics[0].Check(ok))
	assert.False(t, statics[0].Check(tooOld))
	assert.False(t, statics[0].Check(missing))
}

func TestLibraryVersionFilterInvalidClause(t *testing.T) {
	c := newCompiler()
	_, _, err := c.Compile(map[string]string{"library_version": "engine??1.0.0"})
	assert.Error(t, err)
}

func TestURLPathFilterPassesThroughWithNoRequest(t *testing.T) {
	c := newCompiler()
	_, dynamics, err := c.Compile(map[string]string{"url-path": "/api/v1/.*"})
	require.NoError(t, err)
	require.Len(t, dynamics, 1)

	pcc := &ambient.PerCallContext{}
	assert.True(t, dynamics[0].Check(pcc))
}

func TestURLPathFilterWithRequest(t *testing.T) {
	c := newCompiler()
	_, dynamics, err := c.Compile(map[string]string{"url-path": "/api/v1/.*"})
	require.NoError(t, err)
	require.Len(t, dynamics, 1)

	ctx := ambientWithRequest("GET", "/api/v1/orders")
	assert.True(t, dynamics[0].Check(ambient.Resolve(ctx)))

	ctx = ambientWithRequest("GET", "/other")
	assert.False(t, dynamics[0].Check(ambient.Resolve(ctx)))
}

func TestHeaderFilterAbsentHeaderFailsWhenRequestPresent(t *testing.T) {
	c := newCompiler()
	_, dynamics, err := c.Compile(map[string]string{"header": "X-Tenant=acme"})
	require.NoError(t, err)
	require.Len(t, dynamics, 1)

	ctx := ambient.WithRequest(contextBackground(), ambient.NewRequestView("GET", "/", map[string]string{"X-Tenant": "acme"}))
	assert.True(t, dynamics[0].Check(ambient.Resolve(ctx)))

	ctx = ambient.WithRequest(contextBackground(), ambient.NewRequestView("GET", "/", nil))
	assert.False(t, dynamics[0].Check(ambient.Resolve(ctx)))
}

func TestContextFilterFailsWhenLayerAbsent(t *testing.T) {
	c := newCompiler()
	_, dynamics, err := c.Compile(map[string]string{"context": "tenant=acme"})
	require.NoError(t, err)
	require.Len(t, dynamics, 1)

	pcc := &ambient.PerCallContext{}
	assert.False(t, dynamics[0].Check(pcc))

	ctx := ambient.WithCustomLayer(contextBackground(), map[string]string{"tenant": "acme"})
	assert.True(t, dynamics[0].Check(ambient.Resolve(ctx)))
}

func TestProbabilityFilterBoundaries(t *testing.T) {
	c := newCompiler()

	_, dynamics, err := c.Compile(map[string]string{"probability": "0"})
	require.NoError(t, err)
	assert.False(t, dynamics[0].Check(&ambient.PerCallContext{}))

	_, dynamics, err = c.Compile(map[string]string{"probability": "100"})
	require.NoError(t, err)
	assert.True(t, dynamics[0].Check(&ambient.PerCallContext{}))
}

func TestProbabilityFilterOutOfRange(t *testing.T) {
	c := newCompiler()
	_, _, err := c.Compile(map[string]string{"probability": "150"})
	assert.Error(t, err)
}
